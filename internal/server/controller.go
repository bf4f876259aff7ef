package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/product-search/internal/models"
	"github.com/nguyentranbao-ct/product-search/internal/usecase"
)

type Controller interface {
	Search(c echo.Context) error
	Analyze(c echo.Context) error
	Health(c echo.Context) error
}

type controller struct {
	searchUsecase  usecase.SearchUsecase
	analyzeUsecase usecase.AnalyzeUsecase
}

func NewHandler(searchUsecase usecase.SearchUsecase, analyzeUsecase usecase.AnalyzeUsecase) Controller {
	return &controller{
		searchUsecase:  searchUsecase,
		analyzeUsecase: analyzeUsecase,
	}
}

// Search handles GET /api/search?q=. Provider trouble is not an error here:
// the usecase degrades to a shorter or empty list and we always answer 200
// for admitted, well-formed requests.
func (h *controller) Search(c echo.Context) error {
	query := c.QueryParam("q")

	ctx := c.Request().Context()
	products, err := h.searchUsecase.Search(ctx, query)
	if err != nil {
		if errors.Is(err, models.ErrEmptyQuery) {
			return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

type AnalyzeRequest struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func (h *controller) Analyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	result, err := h.analyzeUsecase.Analyze(ctx, req.Name, req.Description)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "analysis failed")
	}

	return c.JSON(http.StatusOK, result)
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "product-search",
	})
}
