package httpserver

import (
	"net/http"
	"strconv"

	"github.com/Skotchmaster/storefront/internal/backend"
	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/labstack/echo/v4"
)

type CatalogHTTP struct {
	Backend  *backend.Client
	Catalog  *catalog.Cache
	Search   *search.Service
	Sessions *session.Manager
}

func (h *CatalogHTTP) Products(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.products")

	if err := h.Catalog.Ensure(ctx); err != nil {
		l.Error("products_error", "error", err)
		return respondError(c, h.Sessions, nil, err)
	}
	return c.JSON(http.StatusOK, h.Catalog.Products())
}

func (h *CatalogHTTP) Product(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product id"})
	}

	if err := h.Catalog.Ensure(ctx); err != nil {
		l.Error("product_error", "error", err)
		return respondError(c, h.Sessions, nil, err)
	}
	if p, ok := h.Catalog.Product(id); ok {
		return c.JSON(http.StatusOK, p)
	}

	p, err := h.Backend.Product(ctx, id)
	if err != nil {
		l.Warn("product_error", "product_id", id, "error", err)
		return respondError(c, h.Sessions, nil, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) Reviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.reviews")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product id"})
	}

	reviews, err := h.Backend.Reviews(ctx, id)
	if err != nil {
		l.Warn("reviews_error", "product_id", id, "error", err)
		return respondError(c, h.Sessions, nil, err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *CatalogHTTP) SubmitReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.review.submit")
	sess := sessionFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product id"})
	}

	var review models.Review
	if err := c.Bind(&review); err != nil {
		l.Warn("submit_review_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	if err := h.Backend.SubmitReview(ctx, sess.Token, id, review); err != nil {
		l.Warn("submit_review_error", "product_id", id, "error", err)
		return respondError(c, h.Sessions, sess, err)
	}
	return c.NoContent(http.StatusCreated)
}

func (h *CatalogHTTP) Ask(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.ask")
	sess := sessionFrom(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product id"})
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	answer, err := h.Backend.AskProduct(ctx, sess.Token, id, req.Question)
	if err != nil {
		l.Warn("ask_error", "product_id", id, "error", err)
		return respondError(c, h.Sessions, sess, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"answer": answer})
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	query := c.QueryParam("q")
	from, _ := strconv.Atoi(c.QueryParam("from"))
	size, err := strconv.Atoi(c.QueryParam("size"))
	if err != nil || size <= 0 {
		size = 20
	}

	if err := h.Catalog.Ensure(ctx); err != nil {
		l.Error("search_error", "error", err)
		return respondError(c, h.Sessions, nil, err)
	}

	total, products, err := h.Search.Search(ctx, query, from, size)
	if err != nil {
		l.Error("search_error", "query", query, "error", err)
		return respondError(c, h.Sessions, nil, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"total":    total,
		"products": products,
	})
}
