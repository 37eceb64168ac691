package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type AdminClient struct{ c *Client }

func NewAdminClient(c *Client) *AdminClient { return &AdminClient{c: c} }

// ImageUpload is the "imagen" file part of a product form.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

type ProductForm struct {
	Name  string
	Price decimal.Decimal
	Stock int
	Image *ImageUpload
}

func (a *AdminClient) CreateProduct(ctx context.Context, f ProductForm) (ProductSaved, error) {
	return a.sendProduct(ctx, http.MethodPost, "/api/admin/products", f)
}

// UpdateProduct replaces name, price and stock; the image only when one
// is supplied.
func (a *AdminClient) UpdateProduct(ctx context.Context, id int64, f ProductForm) (ProductSaved, error) {
	return a.sendProduct(ctx, http.MethodPut, "/api/admin/products/"+strconv.FormatInt(id, 10), f)
}

func (a *AdminClient) DeleteProduct(ctx context.Context, id int64) (MessageResponse, error) {
	return a.message(ctx, http.MethodDelete, "/api/admin/products/"+strconv.FormatInt(id, 10), nil)
}

func (a *AdminClient) ListOrders(ctx context.Context) ([]AdminOrder, error) {
	var out []AdminOrder
	if err := a.c.doJSON(ctx, http.MethodGet, "/api/admin/pedidos", nil, schemaAdminOrders, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *AdminClient) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (MessageResponse, error) {
	return a.message(ctx, http.MethodPut, "/api/admin/pedidos/"+strconv.FormatInt(orderID, 10)+"/estado", statusChange{Status: status})
}

func (a *AdminClient) DeleteOrder(ctx context.Context, orderID int64) (MessageResponse, error) {
	return a.message(ctx, http.MethodDelete, "/api/admin/pedidos/"+strconv.FormatInt(orderID, 10), nil)
}

func (a *AdminClient) ChangeUserRole(ctx context.Context, userID int64, role string) (MessageResponse, error) {
	return a.message(ctx, http.MethodPost, "/api/admin/change_user_role", roleChange{UserID: userID, NewRole: role})
}

func (a *AdminClient) DeleteUser(ctx context.Context, userID int64) (MessageResponse, error) {
	return a.message(ctx, http.MethodDelete, "/api/admin/delete_user/"+strconv.FormatInt(userID, 10), nil)
}

func (a *AdminClient) message(ctx context.Context, method, p string, in any) (MessageResponse, error) {
	var out MessageResponse
	if err := a.c.doJSON(ctx, method, p, in, schemaMessage, &out); err != nil {
		return MessageResponse{}, err
	}
	return out, nil
}

func (a *AdminClient) sendProduct(ctx context.Context, method, p string, f ProductForm) (ProductSaved, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"nombre", f.Name},
		{"precio", f.Price.String()},
		{"stock", strconv.Itoa(f.Stock)},
	}
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return ProductSaved{}, errors.Wrap(err, "product form")
		}
	}
	if f.Image != nil {
		part, err := mw.CreateFormFile("imagen", f.Image.Filename)
		if err != nil {
			return ProductSaved{}, errors.Wrap(err, "product image")
		}
		if _, err := io.Copy(part, f.Image.Content); err != nil {
			return ProductSaved{}, errors.Wrap(err, "product image")
		}
	}
	if err := mw.Close(); err != nil {
		return ProductSaved{}, errors.Wrap(err, "product form")
	}

	headers := http.Header{}
	headers.Set("Content-Type", mw.FormDataContentType())
	resp, err := a.c.Do(ctx, method, p, &buf, headers)
	if err != nil {
		return ProductSaved{}, err
	}

	var out ProductSaved
	if err := a.c.decode(resp, method+" "+p, schemaProductSaved, &out); err != nil {
		return ProductSaved{}, err
	}
	return out, nil
}
