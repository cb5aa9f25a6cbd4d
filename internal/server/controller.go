package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Tiger884/retro-pc-store/internal/models"
	"github.com/Tiger884/retro-pc-store/internal/server/middleware"
	"github.com/Tiger884/retro-pc-store/internal/repo/ebay"
	"github.com/Tiger884/retro-pc-store/internal/usecase"
	"github.com/Tiger884/retro-pc-store/pkg/logx"
)

type Controller interface {
	GetProducts(c echo.Context) error
	Search(c echo.Context) error
	Health(c echo.Context) error
}

type controller struct {
	catalog usecase.CatalogUsecase
	ebay    ebay.Client
	log     *logx.Logger
}

func NewController(catalog usecase.CatalogUsecase, ebayClient ebay.Client) Controller {
	return &controller{
		catalog: catalog,
		ebay:    ebayClient,
		log:     logx.Named("controller"),
	}
}

type productsPayload struct {
	Products []models.Product `json:"products"`
	Source   models.Source    `json:"source"`
	Count    int              `json:"count"`
}

// GetProducts runs the acquisition chain once and hands the finished list to
// the rendering collaborator.
func (h *controller) GetProducts(c echo.Context) error {
	products, source, err := h.catalog.Acquire(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "catalog temporarily unavailable")
	}

	// Provenance is attached at display time only.
	for i := range products {
		products[i].Source = source
	}

	return c.JSON(http.StatusOK, middleware.Response{
		Success: true,
		Data: productsPayload{
			Products: products,
			Source:   source,
			Count:    len(products),
		},
	})
}

// searchErrorBody mirrors the original proxy's structured error responses.
type searchErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type searchResultBody struct {
	Items      []ebay.Item `json:"items"`
	Count      int         `json:"count"`
	SearchTerm string      `json:"searchTerm"`
}

// Search is the stateless marketplace proxy: keyword in, trimmed listings
// out. Credential problems stay behind this boundary as a structured 500.
func (h *controller) Search(c echo.Context) error {
	keywords := c.QueryParam("keywords")
	if keywords == "" {
		return c.JSON(http.StatusBadRequest, searchErrorBody{
			Error:   "Bad Request",
			Message: "Keywords parameter is required",
		})
	}

	items, err := h.ebay.FindItems(c.Request().Context(), keywords)
	if err != nil {
		var cfgErr *models.ConfigError
		if errors.As(err, &cfgErr) {
			h.log.Errorw("search proxy misconfigured", "error", err)
			return c.JSON(http.StatusInternalServerError, searchErrorBody{
				Error:   "Server configuration error",
				Message: "API key not configured",
			})
		}
		h.log.Warnw("marketplace search failed", "keywords", keywords, "error", err)
		return c.JSON(http.StatusInternalServerError, searchErrorBody{
			Error:   "Internal Server Error",
			Message: "Failed to search eBay",
		})
	}

	return c.JSON(http.StatusOK, searchResultBody{
		Items:      items,
		Count:      len(items),
		SearchTerm: keywords,
	})
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "retro-pc-store",
	})
}
