package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/testutil"
	"github.com/Skotchmaster/storefront/pkg/tokens"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	Repo   *repo.GormRepo
	Events *testutil.Recorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := &repo.GormRepo{DB: testutil.InitTestDB(t, repo.Migrate)}
	rec := &testutil.Recorder{}
	catalog := &service.CatalogService{Repo: r, Events: rec}

	e := echo.New()
	Register(e, &Deps{
		CatalogHandler: &CatalogHTTP{Svc: catalog},
		CartHandler:    &CartHTTP{Svc: &service.CartService{Repo: r, Items: catalog, Events: rec}},
		OrderHandler:   &OrderHTTP{Svc: &service.OrderService{Repo: r, Events: rec}},
		JWTSecret:      testSecret,
	})
	return &testEnv{T: t, E: e, Repo: r, Events: rec}
}

func (env *testEnv) token(userID uuid.UUID, role string) string {
	env.T.Helper()
	tok, err := tokens.SignAccessToken(userID.String(), role, time.Now().Add(time.Hour), testSecret)
	require.NoError(env.T, err)
	return tok
}

// do sends body as JSON and returns the recorder. An empty token sends no
// Authorization header.
func (env *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

type itemBody struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Price string    `json:"price"`
}

type lineBody struct {
	ID         uuid.UUID `json:"id"`
	ItemID     uuid.UUID `json:"item_id"`
	Quantity   int       `json:"quantity"`
	Price      string    `json:"price"`
	TotalPrice string    `json:"total_price"`
	Item       itemBody  `json:"item"`
}

type cartBody struct {
	ID        uuid.UUID  `json:"id"`
	Items     []lineBody `json:"items"`
	TotalCost string     `json:"total_cost"`
}

type orderBody struct {
	ID         uuid.UUID       `json:"id"`
	Cart       json.RawMessage `json:"cart"`
	Status     string          `json:"status"`
	TotalCost  string          `json:"total_cost"`
	Address    string          `json:"address"`
	DeliveryAt time.Time       `json:"delivery_at"`
	Recipient  uuid.UUID       `json:"recipient"`
}

type pageBody[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
