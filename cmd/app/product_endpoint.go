package main

import (
	"errors"
	"net/http"
	"strconv"

	"BeykushStoreAPI/external/commerce"
	"BeykushStoreAPI/internal/services"

	"github.com/labstack/echo/v4"
)

func registerProductRoutes(g *echo.Group, ps *services.ProductService) {
	// LIST products (cursor pagination)
	g.GET("/products", func(c echo.Context) error {
		first, _ := strconv.Atoi(c.QueryParam("first"))
		if first < 1 {
			first = 12
		}
		page, err := ps.List(c.Request().Context(), first, c.QueryParam("after"), c.QueryParam("category"))
		if err != nil {
			return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, page)
	})

	// GET product by slug
	g.GET("/products/:slug", func(c echo.Context) error {
		product, err := ps.BySlug(c.Request().Context(), c.Param("slug"))
		if err != nil {
			if errors.Is(err, commerce.ErrProductNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, product)
	})

	// LIST categories
	g.GET("/categories", func(c echo.Context) error {
		cats, err := ps.Categories(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, cats)
	})
}
