package main

import (
	"net/http"

	"BeykushStoreAPI/internal/middleware"
	"BeykushStoreAPI/internal/model"
	"BeykushStoreAPI/internal/services"

	"github.com/labstack/echo/v4"
)

func registerCheckoutRoutes(g *echo.Group, cs *services.CheckoutService) {
	g.POST("/checkout", func(c echo.Context) error {
		sid := middleware.GetSessionID(c)
		req := new(model.CheckoutRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		result, err := cs.Submit(c.Request().Context(), sid, *req)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, result)
	})
}
