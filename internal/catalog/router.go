package catalog

import (
	"github.com/gin-gonic/gin"
)

// SetupCatalogRoutes configures the read-only catalog routes
func SetupCatalogRoutes(rg *gin.RouterGroup, controller *Controller) {
	tours := rg.Group("/tours")
	{
		tours.GET("", controller.ListTours)
		tours.GET("/:reference", controller.GetTour)
	}
}
