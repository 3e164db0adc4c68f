package catalog

import (
	"errors"
	"net/http"

	"tourly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ListTours handles GET /api/v1/tours
func (c *Controller) ListTours(ctx *gin.Context) {
	tours, err := c.service.ListTours(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list tours", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tours retrieved", toTourSummaries(tours), nil)
}

// GetTour handles GET /api/v1/tours/:reference
func (c *Controller) GetTour(ctx *gin.Context) {
	reference := ctx.Param("reference")

	tour, err := c.service.GetTourByReference(ctx.Request.Context(), reference)
	if err != nil {
		if errors.Is(err, ErrTourNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Tour not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get tour", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tour retrieved", toTourDetail(tour), nil)
}
