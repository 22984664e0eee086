package httpserver

import (
	"fmt"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/labstack/echo/v4"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func orderNotFound(c echo.Context) error {
	return fmt.Errorf("%w: order %q", service.ErrNotFound, c.Param("id"))
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	limit, offset := util.LimitOffset(c.QueryParams())

	total, orders, err := h.Svc.ListOrders(ctx, uid, limit, offset)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, util.NewPage(c.Request().URL, total, limit, offset, transport.NewOrderResponses(orders)))
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return fail(l, "get_order_error", orderNotFound(c))
	}

	order, err := h.Svc.GetOrder(ctx, uid, id)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderDetailResponse(order))
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place_order")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req transport.PlaceOrderRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "place_order_error", err)
	}

	order, err := h.Svc.PlaceOrder(ctx, uid, service.PlaceOrderInput{
		Address:    req.Address,
		DeliveryAt: *req.DeliveryAt,
	})
	if err != nil {
		return fail(l, "place_order_error", err)
	}

	l.Info("place_order_success", "order_id", order.ID, "total_cost", transport.Money(order.TotalCost))
	return c.JSON(http.StatusCreated, transport.NewOrderResponse(order))
}

func statusPtr(s *string) *models.OrderStatus {
	if s == nil {
		return nil
	}
	st := models.OrderStatus(*s)
	return &st
}

func (h *OrderHTTP) PutOrder(c echo.Context) error {
	var req transport.PutOrderRequest
	return h.updateOrder(c, "order.put_order", &req, func() service.UpdateOrderInput {
		return service.UpdateOrderInput{Status: statusPtr(req.Status), Address: req.Address, DeliveryAt: req.DeliveryAt}
	})
}

func (h *OrderHTTP) PatchOrder(c echo.Context) error {
	var req transport.PatchOrderRequest
	return h.updateOrder(c, "order.patch_order", &req, func() service.UpdateOrderInput {
		return service.UpdateOrderInput{Status: statusPtr(req.Status), Address: req.Address, DeliveryAt: req.DeliveryAt}
	})
}

func (h *OrderHTTP) updateOrder(c echo.Context, name string, req any, input func() service.UpdateOrderInput) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return fail(l, "update_order_error", orderNotFound(c))
	}
	if err := bind(c, req); err != nil {
		return fail(l, "update_order_error", err)
	}

	order, err := h.Svc.UpdateOrder(ctx, uid, id, input())
	if err != nil {
		return fail(l, "update_order_error", err)
	}

	l.Info("update_order_success", "order_id", order.ID, "status", order.Status)
	return c.JSON(http.StatusOK, transport.NewOrderDetailResponse(order))
}
