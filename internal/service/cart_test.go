package service

import (
	"context"
	"testing"

	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCart_SameCartTwice(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()

	first := env.openCart(t, userID)
	second := env.openCart(t, userID)

	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, first.ID, env.openCart(t, uuid.New()).ID)
}

func TestAddLine_PriceSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	item := env.item(t, "500.00")

	old := env.addLine(t, userID, item, 5)
	assert.Equal(t, "2500.00", old.LineTotal().StringFixed(2))

	_, err := env.Catalog.PatchItem(ctx, item.ID, PatchItemInput{Price: ptr(decimal.RequireFromString("1000.00"))})
	require.NoError(t, err)

	stored, err := env.Cart.GetLine(ctx, userID, old.ID)
	require.NoError(t, err)
	assert.Equal(t, "500.00", stored.Price.StringFixed(2))
	assert.Equal(t, "2500.00", stored.LineTotal().StringFixed(2))

	fresh := env.addLine(t, userID, item, 1)
	assert.Equal(t, "1000.00", fresh.Price.StringFixed(2))
}

func TestAddLine_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.item(t, "1.00")

	tests := []struct {
		name  string
		in    AddLineInput
		field string
	}{
		{name: "zero quantity", in: AddLineInput{ItemID: item.ID, Quantity: 0}, field: "quantity"},
		{name: "negative quantity", in: AddLineInput{ItemID: item.ID, Quantity: -2}, field: "quantity"},
		{name: "quantity above max", in: AddLineInput{ItemID: item.ID, Quantity: MaxQuantity + 1}, field: "quantity"},
		{name: "unknown item", in: AddLineInput{ItemID: uuid.New(), Quantity: 1}, field: "item_id"},
		{name: "missing item", in: AddLineInput{Quantity: 1}, field: "item_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Cart.AddLine(ctx, uuid.New(), tt.in)
			require.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestAddLine_NotMerged(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	item := env.item(t, "500.00")

	env.addLine(t, userID, item, 3)
	env.addLine(t, userID, item, 2)

	cart := env.openCart(t, userID)
	require.Len(t, cart.Lines, 2)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assert.Equal(t, 2, cart.Lines[1].Quantity)
	assert.Equal(t, "2500.00", env.Cart.TotalCost(cart).StringFixed(2))
}

func TestTotalCost_Additivity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	item := env.item(t, "500.00")

	first := env.addLine(t, userID, item, 1)
	second := env.addLine(t, userID, item, 2)
	assert.Equal(t, "1500.00", env.Cart.TotalCost(env.openCart(t, userID)).StringFixed(2))

	require.NoError(t, env.Cart.RemoveLine(ctx, userID, second.ID))
	assert.Equal(t, "500.00", env.Cart.TotalCost(env.openCart(t, userID)).StringFixed(2))

	require.NoError(t, env.Cart.RemoveLine(ctx, userID, first.ID))
	assert.Equal(t, "0.00", env.Cart.TotalCost(env.openCart(t, userID)).StringFixed(2))
}

func TestUpdateLine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	cheap := env.item(t, "10.00")
	pricey := env.item(t, "99.99")

	line := env.addLine(t, userID, cheap, 1)

	_, err := env.Catalog.PatchItem(ctx, cheap.ID, PatchItemInput{Price: ptr(decimal.RequireFromString("20.00"))})
	require.NoError(t, err)

	updated, err := env.Cart.UpdateLine(ctx, userID, line.ID, UpdateLineInput{Quantity: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
	assert.Equal(t, "10.00", updated.Price.StringFixed(2), "quantity change keeps the snapshot")

	updated, err = env.Cart.UpdateLine(ctx, userID, line.ID, UpdateLineInput{ItemID: &pricey.ID})
	require.NoError(t, err)
	assert.Equal(t, pricey.ID, updated.ItemID)
	assert.Equal(t, "99.99", updated.Price.StringFixed(2))
	assert.Equal(t, "399.96", updated.LineTotal().StringFixed(2))

	updated, err = env.Cart.UpdateLine(ctx, userID, line.ID, UpdateLineInput{ItemID: &cheap.ID})
	require.NoError(t, err)
	assert.Equal(t, "20.00", updated.Price.StringFixed(2), "item change takes the live price")

	_, err = env.Cart.UpdateLine(ctx, userID, line.ID, UpdateLineInput{Quantity: ptr(0)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.Cart.UpdateLine(ctx, userID, line.ID, UpdateLineInput{ItemID: ptr(uuid.New())})
	assert.ErrorIs(t, err, ErrValidation)

	stored, err := env.Cart.GetLine(ctx, userID, line.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Quantity)
	assert.Equal(t, cheap.ID, stored.ItemID)
}

func TestUpdateLine_SameItemKeepsSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	item := env.item(t, "500.00")

	line := env.addLine(t, userID, item, 1)

	_, err := env.Catalog.PatchItem(ctx, item.ID, PatchItemInput{Price: ptr(decimal.RequireFromString("1000.00"))})
	require.NoError(t, err)

	updated, err := env.Cart.UpdateLine(ctx, userID, line.ID, UpdateLineInput{ItemID: &item.ID, Quantity: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, "500.00", updated.Price.StringFixed(2))
	assert.Equal(t, "1000.00", updated.LineTotal().StringFixed(2))

	stored, err := env.Cart.GetLine(ctx, userID, line.ID)
	require.NoError(t, err)
	assert.Equal(t, "500.00", stored.Price.StringFixed(2))
	assert.Equal(t, 2, stored.Quantity)
}

func TestLines_NotFoundForOtherUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()
	line := env.addLine(t, owner, env.item(t, "1.00"), 1)

	intruder := uuid.New()
	_, err := env.Cart.GetLine(ctx, intruder, line.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.Cart.UpdateLine(ctx, intruder, line.ID, UpdateLineInput{Quantity: ptr(2)})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.Cart.RemoveLine(ctx, intruder, line.ID), ErrNotFound)
	assert.ErrorIs(t, env.Cart.RemoveLine(ctx, owner, uuid.New()), ErrNotFound)
}

func TestListLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	item := env.item(t, "1.00")
	for i := 1; i <= 8; i++ {
		env.addLine(t, userID, item, i)
	}

	total, lines, err := env.Cart.ListLines(ctx, userID, 6, 6)
	require.NoError(t, err)
	assert.EqualValues(t, 8, total)
	require.Len(t, lines, 2)
	assert.Equal(t, 7, lines[0].Quantity)
	assert.Equal(t, 8, lines[1].Quantity)
}

func TestCartEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	line := env.addLine(t, userID, env.item(t, "3.00"), 1)
	_, err := env.Cart.UpdateLine(ctx, userID, line.ID, UpdateLineInput{Quantity: ptr(2)})
	require.NoError(t, err)
	require.NoError(t, env.Cart.RemoveLine(ctx, userID, line.ID))

	assert.Equal(t, []string{"cart_line_added", "cart_line_updated", "cart_line_removed"}, env.Events.Types(events.TopicCart))
}
