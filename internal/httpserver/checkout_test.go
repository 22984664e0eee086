package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (env *testEnv) addLine(token string, itemID uuid.UUID, qty int) lineBody {
	env.T.Helper()
	rec := env.do(http.MethodPost, "/api/v1/carts/items", token, map[string]any{"item_id": itemID, "quantity": qty})
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[lineBody](env.T, rec)
}

func (env *testEnv) cart(token string) cartBody {
	env.T.Helper()
	rec := env.do(http.MethodGet, "/api/v1/carts", token, nil)
	require.Equal(env.T, http.StatusOK, rec.Code, rec.Body.String())
	return decode[cartBody](env.T, rec)
}

func TestCart_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/v1/carts", "/api/v1/carts/items", "/api/v1/orders"} {
		rec := env.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestCart_Lines(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(uuid.New(), "user")
	item := env.createItem("Samovar", "500")
	other := env.createItem("Kettle", "20")

	empty := env.cart(token)
	assert.Equal(t, "0.00", empty.TotalCost)
	assert.Empty(t, empty.Items)
	assert.Equal(t, empty.ID, env.cart(token).ID)

	line := env.addLine(token, item.ID, 3)
	assert.Equal(t, "500.00", line.Price)
	assert.Equal(t, "1500.00", line.TotalPrice)
	assert.Equal(t, "Samovar", line.Item.Title)

	rec := env.do(http.MethodPatch, "/api/v1/carts/items/"+line.ID.String(), token, map[string]any{"quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "500.00", decode[lineBody](t, rec).TotalPrice)

	rec = env.do(http.MethodPut, "/api/v1/carts/items/"+line.ID.String(), token, map[string]any{"quantity": 2})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Fields, "item_id")

	rec = env.do(http.MethodPut, "/api/v1/carts/items/"+line.ID.String(), token, map[string]any{"item_id": other.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[lineBody](t, rec)
	assert.Equal(t, "20.00", updated.Price)
	assert.Equal(t, "40.00", updated.TotalPrice)

	rec = env.do(http.MethodGet, "/api/v1/carts/items/"+line.ID.String(), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/carts/items/"+line.ID.String(), env.token(uuid.New(), "user"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/carts/items", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[pageBody[lineBody]](t, rec)
	assert.EqualValues(t, 1, page.Count)

	rec = env.do(http.MethodDelete, "/api/v1/carts/items/"+line.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(http.MethodDelete, "/api/v1/carts/items/"+line.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCart_AddLineValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(uuid.New(), "user")
	item := env.createItem("Samovar", "500")

	tests := []struct {
		name  string
		body  any
		field string
	}{
		{name: "zero quantity", body: map[string]any{"item_id": item.ID, "quantity": 0}, field: "quantity"},
		{name: "missing quantity", body: map[string]any{"item_id": item.ID}, field: "quantity"},
		{name: "unknown item", body: map[string]any{"item_id": uuid.New(), "quantity": 1}, field: "item_id"},
		{name: "missing item", body: map[string]any{"quantity": 1}, field: "item_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/v1/carts/items", token, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, decode[errorBody](t, rec).Fields, tt.field)
		})
	}

	rec := env.do(http.MethodPost, "/api/v1/carts/items", token, "not an object")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid body", decode[errorBody](t, rec).Detail)
}

func TestOrders_CheckoutScenario(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	token := env.token(userID, "user")
	item := env.createItem("Samovar", "500.00")

	first := env.addLine(token, item.ID, 3)
	assert.Equal(t, "1500.00", first.TotalPrice)
	second := env.addLine(token, item.ID, 2)
	assert.NotEqual(t, first.ID, second.ID)

	cart := env.cart(token)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "2500.00", cart.TotalCost)

	rec := env.do(http.MethodPost, "/api/v1/orders", token, map[string]any{
		"address":     "Moscow",
		"delivery_at": time.Now().Add(2 * time.Hour).UTC(),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[orderBody](t, rec)
	assert.Equal(t, "2500.00", order.TotalCost)
	assert.Equal(t, string(models.StatusCreated), order.Status)

	var cartRef uuid.UUID
	require.NoError(t, json.Unmarshal(order.Cart, &cartRef))
	assert.Equal(t, cart.ID, cartRef)

	next := env.cart(token)
	assert.NotEqual(t, cart.ID, next.ID)
	assert.Empty(t, next.Items)

	path := "/api/v1/orders/" + order.ID.String()
	rec = env.do(http.MethodPatch, path, token, map[string]any{"status": "processed"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Detail, "cancelled")

	rec = env.do(http.MethodPatch, path, token, map[string]any{"status": "cancelled"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	detail := decode[orderBody](t, rec)
	assert.Equal(t, "cancelled", detail.Status)
	assert.Equal(t, userID, detail.Recipient)

	var nested cartBody
	require.NoError(t, json.Unmarshal(detail.Cart, &nested))
	assert.Equal(t, "2500.00", nested.TotalCost)
	assert.Len(t, nested.Items, 2)

	rec = env.do(http.MethodPatch, path, token, map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Detail, "cancelled")

	rec = env.do(http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[pageBody[orderBody]](t, rec).Count)

	rec = env.do(http.MethodGet, path, env.token(uuid.New(), "user"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrders_PlaceRejections(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(uuid.New(), "user")

	rec := env.do(http.MethodPost, "/api/v1/orders", token, map[string]any{
		"address":     "Moscow",
		"delivery_at": time.Now().Add(time.Hour).UTC(),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Detail, "empty")

	env.addLine(token, env.createItem("Samovar", "1").ID, 1)

	rec = env.do(http.MethodPost, "/api/v1/orders", token, map[string]any{
		"address":     "Moscow",
		"delivery_at": time.Now().Add(-time.Hour).UTC(),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Detail, "delivery")

	rec = env.do(http.MethodPost, "/api/v1/orders", token, map[string]any{"address": "Moscow"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Fields, "delivery_at")
}

func TestOrders_PutRequiresAllFields(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(uuid.New(), "user")
	env.addLine(token, env.createItem("Samovar", "1").ID, 1)

	rec := env.do(http.MethodPost, "/api/v1/orders", token, map[string]any{
		"address":     "Moscow",
		"delivery_at": time.Now().Add(time.Hour).UTC(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	path := "/api/v1/orders/" + decode[orderBody](t, rec).ID.String()

	rec = env.do(http.MethodPut, path, token, map[string]any{"status": "created"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decode[errorBody](t, rec).Fields
	assert.Contains(t, fields, "address")
	assert.Contains(t, fields, "delivery_at")

	later := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	rec = env.do(http.MethodPut, path, token, map[string]any{"status": "created", "address": "Kazan", "delivery_at": later})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[orderBody](t, rec)
	assert.Equal(t, "Kazan", got.Address)
	assert.True(t, later.Equal(got.DeliveryAt))
}
