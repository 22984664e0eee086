package service

import (
	"context"
	"testing"
	"time"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	Repo    *repo.GormRepo
	Cart    *CartService
	Order   *OrderService
	Catalog *CatalogService
	Events  *testutil.Recorder
	Now     time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := &repo.GormRepo{DB: testutil.InitTestDB(t, repo.Migrate)}
	rec := &testutil.Recorder{}
	env := &testEnv{
		Repo:    r,
		Events:  rec,
		Now:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Catalog: &CatalogService{Repo: r, Events: rec},
	}
	env.Cart = &CartService{Repo: r, Items: env.Catalog, Events: rec}
	env.Order = &OrderService{Repo: r, Events: rec, Now: func() time.Time { return env.Now }}
	return env
}

func (env *testEnv) item(t *testing.T, price string) *models.Item {
	t.Helper()
	item, err := env.Catalog.CreateItem(context.Background(), CreateItemInput{
		Title:  "Samovar",
		Weight: 3000,
		Price:  decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return item
}

func (env *testEnv) addLine(t *testing.T, userID uuid.UUID, item *models.Item, qty int) *models.CartLine {
	t.Helper()
	line, err := env.Cart.AddLine(context.Background(), userID, AddLineInput{ItemID: item.ID, Quantity: qty})
	require.NoError(t, err)
	return line
}

func (env *testEnv) openCart(t *testing.T, userID uuid.UUID) *models.Cart {
	t.Helper()
	cart, err := env.Cart.OpenCart(context.Background(), userID)
	require.NoError(t, err)
	return cart
}

func ptr[T any](v T) *T { return &v }
