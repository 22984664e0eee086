package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func itemFilter(q url.Values) (repo.ItemFilter, error) {
	var f repo.ItemFilter
	fields := map[string]string{}

	prices := map[string]**decimal.Decimal{
		"price__gte": &f.PriceGTE, "price__lte": &f.PriceLTE,
		"price__gt": &f.PriceGT, "price__lt": &f.PriceLT,
	}
	for key, dst := range prices {
		if v := q.Get(key); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				fields[key] = "enter a number"
				continue
			}
			*dst = &d
		}
	}

	weights := map[string]**int{
		"weight__gte": &f.WeightGTE, "weight__lte": &f.WeightLTE,
		"weight__gt": &f.WeightGT, "weight__lt": &f.WeightLT,
	}
	for key, dst := range weights {
		if v := q.Get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				fields[key] = "enter a whole number"
				continue
			}
			*dst = &n
		}
	}

	if len(fields) > 0 {
		return repo.ItemFilter{}, &service.ValidationError{Fields: fields}
	}
	return f, nil
}

func (h *CatalogHTTP) GetItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_item")

	id, err := pathID(c)
	if err != nil {
		return fail(l, "get_item_error", fmt.Errorf("%w: item %q", service.ErrNotFound, c.Param("id")))
	}

	item, err := h.Svc.GetItem(ctx, id)
	if err != nil {
		return fail(l, "get_item_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewItemResponse(item))
}

func (h *CatalogHTTP) ListItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_items")

	f, err := itemFilter(c.QueryParams())
	if err != nil {
		return fail(l, "list_items_error", err)
	}
	limit, offset := util.LimitOffset(c.QueryParams())

	total, items, err := h.Svc.ListItems(ctx, f, limit, offset)
	if err != nil {
		return fail(l, "list_items_error", err)
	}

	l.Info("list_items_success", "count", total)
	return c.JSON(http.StatusOK, util.NewPage(c.Request().URL, total, limit, offset, transport.NewItemResponses(items)))
}

func (h *CatalogHTTP) SearchItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search_items")

	q := c.QueryParam("q")
	if q == "" {
		return fail(l, "search_items_error", &service.ValidationError{Fields: map[string]string{"q": "this field is required"}})
	}
	limit, offset := util.LimitOffset(c.QueryParams())

	total, items, err := h.Svc.SearchItems(ctx, q, limit, offset)
	if err != nil {
		return fail(l, "search_items_error", err)
	}
	return c.JSON(http.StatusOK, util.NewPage(c.Request().URL, total, limit, offset, transport.NewItemResponses(items)))
}

func (h *CatalogHTTP) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_item")

	var req transport.CreateItemRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "create_item_error", err)
	}

	item, err := h.Svc.CreateItem(ctx, service.CreateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Weight:      req.Weight,
		Price:       req.Price,
	})
	if err != nil {
		return fail(l, "create_item_error", err)
	}

	l.Info("create_item_success", "item_id", item.ID)
	return c.JSON(http.StatusCreated, transport.NewItemResponse(item))
}

func (h *CatalogHTTP) PatchItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch_item")

	id, err := pathID(c)
	if err != nil {
		return fail(l, "patch_item_error", fmt.Errorf("%w: item %q", service.ErrNotFound, c.Param("id")))
	}

	var req transport.PatchItemRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "patch_item_error", err)
	}

	item, err := h.Svc.PatchItem(ctx, id, service.PatchItemInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Weight:      req.Weight,
		Price:       req.Price,
	})
	if err != nil {
		return fail(l, "patch_item_error", err)
	}

	l.Info("patch_item_success", "item_id", item.ID)
	return c.JSON(http.StatusOK, transport.NewItemResponse(item))
}

func (h *CatalogHTTP) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_item")

	id, err := pathID(c)
	if err != nil {
		return fail(l, "delete_item_error", fmt.Errorf("%w: item %q", service.ErrNotFound, c.Param("id")))
	}
	if err := h.Svc.DeleteItem(ctx, id); err != nil {
		return fail(l, "delete_item_error", err)
	}

	l.Info("delete_item_success", "item_id", id)
	return c.NoContent(http.StatusNoContent)
}
