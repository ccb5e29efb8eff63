package main

import (
	"errors"
	"net/http"
	"strconv"

	"BeykushStoreAPI/external/commerce"
	"BeykushStoreAPI/internal/cart"
	"BeykushStoreAPI/internal/middleware"
	"BeykushStoreAPI/internal/model"
	"BeykushStoreAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type addItemRequest struct {
	Item model.CartItem `json:"item"`
	Qty  int            `json:"quantity"`
}

type updateItemRequest struct {
	Qty         int `json:"quantity"`
	VariationID int `json:"variationid"`
}

type couponRequest struct {
	Code string `json:"code"`
}

func registerCartRoutes(g *echo.Group, cs *services.CartService) {
	p := g.Group("/cart")

	// GET cart
	p.GET("", func(c echo.Context) error {
		sid := middleware.GetSessionID(c)
		return c.JSON(http.StatusOK, cs.Get(c.Request().Context(), sid))
	})

	// ADD item
	p.POST("/items", func(c echo.Context) error {
		sid := middleware.GetSessionID(c)
		req := new(addItemRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if req.Qty == 0 {
			req.Qty = 1
		}
		if err := cs.Add(c.Request().Context(), sid, req.Item, req.Qty); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, cs.Get(c.Request().Context(), sid))
	})

	// UPDATE quantity (absolute set; 0 or below removes the line)
	p.PUT("/items/:id", func(c echo.Context) error {
		sid := middleware.GetSessionID(c)
		req := new(updateItemRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		cs.Update(c.Request().Context(), sid, c.Param("id"), req.Qty, req.VariationID)
		return c.JSON(http.StatusOK, cs.Get(c.Request().Context(), sid))
	})

	// REMOVE item
	p.DELETE("/items/:id", func(c echo.Context) error {
		sid := middleware.GetSessionID(c)
		variationID, _ := strconv.Atoi(c.QueryParam("variationid"))
		cs.Remove(c.Request().Context(), sid, c.Param("id"), variationID)
		return c.JSON(http.StatusOK, cs.Get(c.Request().Context(), sid))
	})

	// CLEAR cart
	p.DELETE("", func(c echo.Context) error {
		sid := middleware.GetSessionID(c)
		cs.Clear(c.Request().Context(), sid)
		return c.JSON(http.StatusOK, cs.Get(c.Request().Context(), sid))
	})

	// APPLY coupon
	p.POST("/coupons", func(c echo.Context) error {
		sid := middleware.GetSessionID(c)
		req := new(couponRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := cs.ApplyCoupon(c.Request().Context(), sid, req.Code); err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, commerce.ErrInvalidCoupon) || errors.Is(err, cart.ErrMissingCode) {
				status = http.StatusBadRequest
			}
			return c.JSON(status, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, cs.Get(c.Request().Context(), sid))
	})

	// REMOVE coupon
	p.DELETE("/coupons/:code", func(c echo.Context) error {
		sid := middleware.GetSessionID(c)
		cs.RemoveCoupon(c.Request().Context(), sid, c.Param("code"))
		return c.JSON(http.StatusOK, cs.Get(c.Request().Context(), sid))
	})

	// SYNC with the commerce backend (adopts server tax/shipping)
	p.POST("/sync", func(c echo.Context) error {
		sid := middleware.GetSessionID(c)
		if err := cs.Sync(c.Request().Context(), sid); err != nil {
			return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, cs.Get(c.Request().Context(), sid))
	})
}
