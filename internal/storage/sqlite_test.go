package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSQLite(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS kv")).WillReturnResult(sqlmock.NewResult(0, 0))
	s, err := NewSQLiteStore(context.Background(), sqlDB)
	require.NoError(t, err)
	return s, mock
}

func TestSQLiteStore_Get(t *testing.T) {
	s, mock := newMockSQLite(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = ?")).
		WithArgs("carrito").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[{"id":1}]`)))

	v, err := s.Get(context.Background(), "carrito")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(v))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s, mock := newMockSQLite(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = ?")).
		WithArgs("carrito").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), "carrito")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_Set(t *testing.T) {
	s, mock := newMockSQLite(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)")).
		WithArgs("carrito", []byte("[]"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.Set(context.Background(), "carrito", []byte("[]")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_SetError(t *testing.T) {
	s, mock := newMockSQLite(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv")).
		WillReturnError(errors.New("database is locked"))

	err := s.Set(context.Background(), "carrito", []byte("[]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestSQLiteStore_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cart.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)

	_, err = s.Get(ctx, "carrito")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "carrito", []byte(`[{"id":1}]`)))
	require.NoError(t, s.Set(ctx, "carrito", []byte(`[]`)))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	v, err := reopened.Get(ctx, "carrito")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(v))
}
