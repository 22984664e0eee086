package httpserver

import (
	"context"
	"net/http"

	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/labstack/echo/v4"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	JWTSecret      []byte
	// AuthClient refreshes expired cookie tokens; nil disables refresh.
	AuthClient authmw.Refresher
	// Ready reports whether dependencies such as the database are reachable.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	if e.Validator == nil {
		e.Validator = NewRequestValidator()
	}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := authmw.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)
	api := e.Group("/api/v1")

	items := api.Group("/items")
	items.GET("", d.CatalogHandler.ListItems)
	items.GET("/search", d.CatalogHandler.SearchItems)
	items.GET("/:id", d.CatalogHandler.GetItem)

	admin := items.Group("", authMW.RequireAdmin)
	admin.POST("", d.CatalogHandler.CreateItem)
	admin.PATCH("/:id", d.CatalogHandler.PatchItem)
	admin.DELETE("/:id", d.CatalogHandler.DeleteItem)

	carts := api.Group("/carts", authMW.RequireAuth)
	carts.GET("", d.CartHandler.GetCart)
	carts.GET("/items", d.CartHandler.ListLines)
	carts.POST("/items", d.CartHandler.AddLine)
	carts.GET("/items/:id", d.CartHandler.GetLine)
	carts.PUT("/items/:id", d.CartHandler.PutLine)
	carts.PATCH("/items/:id", d.CartHandler.PatchLine)
	carts.DELETE("/items/:id", d.CartHandler.RemoveLine)

	orders := api.Group("/orders", authMW.RequireAuth)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.POST("", d.OrderHandler.PlaceOrder)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PUT("/:id", d.OrderHandler.PutOrder)
	orders.PATCH("/:id", d.OrderHandler.PatchOrder)
}
