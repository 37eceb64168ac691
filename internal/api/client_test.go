package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/correlation"
)

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func newServices(t *testing.T, h http.HandlerFunc) Services {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewServices(srv.URL, NewHTTPClient(0, false))
}

func TestCheckLoginStatus(t *testing.T) {
	for _, loggedIn := range []bool{true, false} {
		svc := newServices(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/check_login_status", r.URL.Path)
			require.Equal(t, http.MethodGet, r.Method)
			b, _ := json.Marshal(LoginStatus{IsLoggedIn: loggedIn})
			writeJSON(w, http.StatusOK, string(b))
		})

		got, err := svc.Session.CheckLoginStatus(context.Background())
		require.NoError(t, err)
		assert.Equal(t, loggedIn, got)
	}
}

func TestCheckLoginStatus_Failures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{"html page", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = io.WriteString(w, "<html>login</html>")
		}, ErrMalformedResponse},
		{"missing field", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"logged":true}`)
		}, ErrMalformedResponse},
		{"wrong type", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"isLoggedIn":"yes"}`)
		}, ErrMalformedResponse},
		{"broken json", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"isLoggedIn":`)
		}, ErrMalformedResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newServices(t, tc.handler).Session.CheckLoginStatus(context.Background())
			require.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("server error", func(t *testing.T) {
		svc := newServices(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, `{"message":"boom"}`)
		})
		_, err := svc.Session.CheckLoginStatus(context.Background())
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	})
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	svc := NewServices(url, NewHTTPClient(0, false))
	_, err := svc.Session.CheckLoginStatus(context.Background())
	require.ErrorIs(t, err, ErrTransport)
}

func TestCreateOrder(t *testing.T) {
	var got map[string]any
	svc := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/pedidos", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "cid-1", r.Header.Get(correlation.Header))
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		require.NoError(t, dec.Decode(&got))
		writeJSON(w, http.StatusCreated, `{"message":"ok","pedido_id":42}`)
	})

	items := []cart.LineItem{
		{ID: 1, Name: "Manzana", UnitPrice: decimal.RequireFromString("10"), Image: "a.png", Quantity: 2},
		{ID: 2, Name: "Pera", UnitPrice: decimal.RequireFromString("5"), Image: "b.png", Quantity: 1},
	}
	ctx := correlation.WithID(context.Background(), "cid-1")
	res, err := svc.Orders.CreateOrder(ctx, NewOrderRequest(items, decimal.RequireFromString("25")))
	require.NoError(t, err)

	assert.Equal(t, OrderID("42"), res.OrderID)
	assert.Equal(t, "ok", res.Message)
	assert.Equal(t, json.Number("25"), got["total"])
	sent := got["items"].([]any)
	require.Len(t, sent, 2)
	first := sent[0].(map[string]any)
	assert.Equal(t, json.Number("10"), first["precio"])
	assert.Equal(t, json.Number("2"), first["cantidad"])
	assert.Equal(t, "Manzana", first["nombre"])
}

func TestCreateOrder_Rejected(t *testing.T) {
	svc := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"message":"Stock insuficiente para 'Pera'. Disponible: 0, Solicitado: 1."}`)
	})

	_, err := svc.Orders.CreateOrder(context.Background(), NewOrderRequest(nil, decimal.Zero))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.MessageOr("fallback"), "Stock insuficiente")
}

func TestCreateOrder_RejectedWithoutMessage(t *testing.T) {
	svc := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{}`)
	})

	_, err := svc.Orders.CreateOrder(context.Background(), NewOrderRequest(nil, decimal.Zero))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "fallback", apiErr.MessageOr("fallback"))
}

func TestOrderID_AcceptsString(t *testing.T) {
	var out OrderCreated
	require.NoError(t, json.Unmarshal([]byte(`{"pedido_id":"A-7"}`), &out))
	assert.Equal(t, OrderID("A-7"), out.OrderID)
}

func TestProductsList(t *testing.T) {
	svc := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":1,"nombre":"Manzana","precio":1.5,"imagen":"img/manzana.png","stock":4},{"id":2,"nombre":"Kiwi","precio":2,"imagen":null,"stock":0}]`)
	})

	products, err := svc.Products.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.True(t, decimal.RequireFromString("1.5").Equal(products[0].Price))
	assert.Equal(t, 4, products[0].Stock)

	p, ok, err := svc.Products.Get(context.Background(), 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Kiwi", p.Name)

	_, ok, err = svc.Products.Get(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductsList_NegativePriceRejected(t *testing.T) {
	svc := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":1,"nombre":"Manzana","precio":-1}]`)
	})
	_, err := svc.Products.List(context.Background())
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestLoginKeepsSessionCookie(t *testing.T) {
	svc := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			var c Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&c))
			if c.Password != "secreto" {
				writeJSON(w, http.StatusUnauthorized, `{"message":"Credenciales inválidas"}`)
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
			writeJSON(w, http.StatusOK, `{"message":"Inicio de sesión exitoso","user":{"id":3,"nombre":"Ana","email":"ana@x.com","rol":"cliente"},"redirect_to":"/carrito"}`)
		case "/api/check_login_status":
			_, err := r.Cookie("session")
			writeJSON(w, http.StatusOK, `{"isLoggedIn":`+map[bool]string{true: "true", false: "false"}[err == nil]+`}`)
		}
	})
	ctx := context.Background()

	_, err := svc.Auth.Login(ctx, Credentials{Email: "ana@x.com", Password: "mal"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Credenciales inválidas", apiErr.Message)

	res, err := svc.Auth.Login(ctx, Credentials{Email: "ana@x.com", Password: "secreto"})
	require.NoError(t, err)
	assert.Equal(t, "cliente", res.User.Role)
	assert.Equal(t, "/carrito", res.RedirectTo)

	ok, err := svc.Session.CheckLoginStatus(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestContactSend(t *testing.T) {
	svc := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Responsable Inscripto", body["iva"])
		assert.Equal(t, "Contado", body["condicion"])
		writeJSON(w, http.StatusCreated, `{"message":"Mensaje de contacto recibido y guardado con éxito!"}`)
	})

	res, err := svc.Contact.Send(context.Background(), ContactMessage{
		Name: "Carlos", Email: "c@x.com", IVA: "Responsable Inscripto", Condition: "Contado",
		Subject: "Consulta de precios", Message: "Quisiera saber el precio por mayor.",
	})
	require.NoError(t, err)
	assert.Contains(t, res.Message, "recibido")
}

func TestAdminCreateProduct_Multipart(t *testing.T) {
	svc := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin/products", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Mango", r.FormValue("nombre"))
		assert.Equal(t, "3.75", r.FormValue("precio"))
		assert.Equal(t, "12", r.FormValue("stock"))
		f, hdr, err := r.FormFile("imagen")
		require.NoError(t, err)
		defer f.Close()
		raw, _ := io.ReadAll(f)
		assert.Equal(t, "mango.png", hdr.Filename)
		assert.Equal(t, "PNGDATA", string(raw))
		writeJSON(w, http.StatusCreated, `{"message":"Producto agregado exitosamente","product":{"id":9,"nombre":"Mango","precio":3.75,"imagen":"img/mango.png","stock":12}}`)
	})

	res, err := svc.Admin.CreateProduct(context.Background(), ProductForm{
		Name:  "Mango",
		Price: decimal.RequireFromString("3.75"),
		Stock: 12,
		Image: &ImageUpload{Filename: "mango.png", Content: strings.NewReader("PNGDATA")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), res.Product.ID)
}

func TestAdminOrdersAndStatus(t *testing.T) {
	svc := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/admin/pedidos":
			writeJSON(w, http.StatusOK, `[{"id":5,"fecha_pedido":"2024-01-02T10:00:00","total":25.0,"user_id":3,"estado":"Pendiente","items":[{"id":1,"cantidad":2,"precio_unitario":10.0,"producto_id":1,"nombre_producto":"Manzana"}],"comprador_nombre":"Ana","comprador_email":"ana@x.com"}]`)
		case r.Method == http.MethodPut && r.URL.Path == "/api/admin/pedidos/5/estado":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Enviado", body["estado"])
			writeJSON(w, http.StatusOK, `{"message":"Estado del pedido #5 actualizado a \"Enviado\""}`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/admin/change_user_role":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(3), body["user_id"])
			assert.Equal(t, "admin", body["new_role"])
			writeJSON(w, http.StatusOK, `{"message":"Rol actualizado"}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/admin/delete_user/3":
			writeJSON(w, http.StatusForbidden, `{"message":"No puedes eliminar tu propia cuenta de administrador"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	orders, err := svc.Admin.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Ana", orders[0].BuyerName)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)

	_, err = svc.Admin.UpdateOrderStatus(ctx, 5, "Enviado")
	require.NoError(t, err)
	_, err = svc.Admin.ChangeUserRole(ctx, 3, "admin")
	require.NoError(t, err)

	_, err = svc.Admin.DeleteUser(ctx, 3)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestBaseURLPathPrefixIsKept(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/shop/api/check_login_status", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"isLoggedIn":true}`)
	}))
	t.Cleanup(srv.Close)
	svc := NewServices(srv.URL+"/shop/", NewHTTPClient(0, false))

	ok, err := svc.Session.CheckLoginStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateOrder_LargeNumericIDValidates(t *testing.T) {
	svc := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"message":"ok","pedido_id":9007199254740993}`)
	})
	res, err := svc.Orders.CreateOrder(context.Background(), NewOrderRequest(nil, decimal.Zero))
	require.NoError(t, err)
	assert.Equal(t, OrderID("9007199254740993"), res.OrderID)
}

func TestCreateOrder_SchemaMismatchIsMalformed(t *testing.T) {
	svc := newServices(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"message":"ok","pedido_id":true}`)
	})
	_, err := svc.Orders.CreateOrder(context.Background(), NewOrderRequest(nil, decimal.Zero))
	require.ErrorIs(t, err, ErrMalformedResponse)
}
