package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/pagination"
	"rpgshop/internal/services"
)

// AnalysisHandler exposes sales reporting to employees.
type AnalysisHandler struct {
	analysisService services.AnalysisServicer
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService services.AnalysisServicer) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// parsePeriod reads the start_date and end_date query parameters. Both are
// date-only; the period spans from the start of the first day to the end
// of the last, in UTC.
func parsePeriod(c *gin.Context) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", c.Query("start_date"), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid start_date, expected YYYY-MM-DD")
	}
	end, err := time.ParseInLocation("2006-01-02", c.Query("end_date"), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid end_date, expected YYYY-MM-DD")
	}
	end = end.Add(24*time.Hour - time.Second)
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date must not precede start_date")
	}
	return start, end, nil
}

// SalesInPeriod retrieves the non-rejected orders purchased in the period
func (h *AnalysisHandler) SalesInPeriod(c *gin.Context) {
	from, to, err := parsePeriod(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.analysisService.SalesInPeriod(from, to, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ItemsByProduct retrieves the order lines of one product in the period
func (h *AnalysisHandler) ItemsByProduct(c *gin.Context) {
	productID, err := parseQueryID(c, "product_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to, err := parsePeriod(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.analysisService.ItemsByProductInPeriod(productID, from, to, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ItemsByCategory retrieves the order lines of one category in the period
func (h *AnalysisHandler) ItemsByCategory(c *gin.Context) {
	categoryID, err := parseQueryID(c, "category_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to, err := parsePeriod(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.analysisService.ItemsByCategoryInPeriod(categoryID, from, to, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// QuantitySold sums the units of one product sold in the period
func (h *AnalysisHandler) QuantitySold(c *gin.Context) {
	productID, err := parseQueryID(c, "product_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, to, err := parsePeriod(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	quantity, err := h.analysisService.QuantitySoldByProduct(productID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product_id": productID, "quantity_sold": quantity})
}
