package cart

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// DefaultKey is the key the storefront has always used for the cart.
const DefaultKey = "carrito"

// KV is the key-value store the cart is mirrored to. Get returns an error
// matching ErrNoData (via errors.Is) when the key has never been written.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Persistence serializes the line-item list to a KV under one key.
type Persistence struct {
	kv  KV
	key string
}

func NewPersistence(kv KV, key string) *Persistence {
	if key == "" {
		key = DefaultKey
	}
	return &Persistence{kv: kv, key: key}
}

func (p *Persistence) Key() string { return p.key }

// Read returns the persisted list. A missing key yields an empty list and
// no error; undecodable data is returned as an error for the caller to
// decide on.
func (p *Persistence) Read(ctx context.Context) ([]LineItem, error) {
	data, err := p.kv.Get(ctx, p.key)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return []LineItem{}, nil
		}
		return nil, errors.Wrapf(err, "read %s", p.key)
	}
	if len(data) == 0 || string(data) == "null" {
		return []LineItem{}, nil
	}

	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrapf(err, "decode %s", p.key)
	}
	if items == nil {
		items = []LineItem{}
	}
	return items, nil
}

// Write overwrites the persisted list. An empty cart is stored as "[]".
func (p *Persistence) Write(ctx context.Context, items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrapf(err, "encode %s", p.key)
	}
	if err := p.kv.Set(ctx, p.key, data); err != nil {
		return errors.Wrapf(err, "write %s", p.key)
	}
	return nil
}
