package httpserver

import (
	"fmt"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/labstack/echo/v4"
)

type CartHTTP struct {
	Svc *service.CartService
}

func lineNotFound(c echo.Context) error {
	return fmt.Errorf("%w: cart line %q", service.ErrNotFound, c.Param("id"))
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	cart, err := h.Svc.OpenCart(ctx, uid)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewCartResponse(cart))
}

func (h *CartHTTP) ListLines(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.list_lines")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	limit, offset := util.LimitOffset(c.QueryParams())

	total, lines, err := h.Svc.ListLines(ctx, uid, limit, offset)
	if err != nil {
		return fail(l, "list_lines_error", err)
	}
	return c.JSON(http.StatusOK, util.NewPage(c.Request().URL, total, limit, offset, transport.NewCartLineResponses(lines)))
}

func (h *CartHTTP) GetLine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_line")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return fail(l, "get_line_error", lineNotFound(c))
	}

	line, err := h.Svc.GetLine(ctx, uid, id)
	if err != nil {
		return fail(l, "get_line_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewCartLineResponse(line))
}

func (h *CartHTTP) AddLine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_line")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req transport.AddLineRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "add_line_error", err)
	}

	line, err := h.Svc.AddLine(ctx, uid, service.AddLineInput{ItemID: req.ItemID, Quantity: *req.Quantity})
	if err != nil {
		return fail(l, "add_line_error", err)
	}

	l.Info("add_line_success", "line_id", line.ID)
	return c.JSON(http.StatusCreated, transport.NewCartLineResponse(line))
}

func (h *CartHTTP) PutLine(c echo.Context) error {
	var req transport.PutLineRequest
	return h.updateLine(c, "cart.put_line", &req, func() service.UpdateLineInput {
		return service.UpdateLineInput{ItemID: req.ItemID, Quantity: req.Quantity}
	})
}

func (h *CartHTTP) PatchLine(c echo.Context) error {
	var req transport.PatchLineRequest
	return h.updateLine(c, "cart.patch_line", &req, func() service.UpdateLineInput {
		return service.UpdateLineInput{ItemID: req.ItemID, Quantity: req.Quantity}
	})
}

// updateLine binds req, then hands the input built from it to the service.
func (h *CartHTTP) updateLine(c echo.Context, name string, req any, input func() service.UpdateLineInput) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return fail(l, "update_line_error", lineNotFound(c))
	}
	if err := bind(c, req); err != nil {
		return fail(l, "update_line_error", err)
	}

	line, err := h.Svc.UpdateLine(ctx, uid, id, input())
	if err != nil {
		return fail(l, "update_line_error", err)
	}

	l.Info("update_line_success", "line_id", line.ID)
	return c.JSON(http.StatusOK, transport.NewCartLineResponse(line))
}

func (h *CartHTTP) RemoveLine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_line")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return fail(l, "remove_line_error", lineNotFound(c))
	}

	if err := h.Svc.RemoveLine(ctx, uid, id); err != nil {
		return fail(l, "remove_line_error", err)
	}

	l.Info("remove_line_success", "line_id", id)
	return c.NoContent(http.StatusNoContent)
}
