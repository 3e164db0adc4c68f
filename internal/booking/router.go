package booking

import (
	"tourly/internal/shared/config"
	"tourly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures the booking session, payment callback and
// record routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	bookings := rg.Group("/bookings")
	{
		sessions := bookings.Group("/sessions")
		{
			// Session creation issues the token; everything below requires it
			sessions.POST("", controller.CreateSession)

			authed := sessions.Group("/:id", middleware.SessionAuth(cfg), middleware.RequireSessionParam())
			{
				authed.GET("", controller.GetSession)
				authed.PATCH("/trip", controller.UpdateTrip)
				authed.PUT("/payment/card", controller.ChooseCardPayment)
				authed.PUT("/payment/wallet", controller.ChooseWalletPayment)
				authed.POST("/submit", controller.SubmitPayment)
				authed.POST("/abort", controller.AbortPayment)
				authed.POST("/retry", controller.RetryPayment)
				authed.POST("/cancel", controller.CancelSession)
			}
		}

		bookings.GET("/records/:ref", controller.GetRecord)
	}

	// Wallet completion arrives from the payment provider, not the client;
	// it is authenticated by knowledge of the payable request id
	rg.POST("/payments/wallet/:payableRequestID/complete", controller.CompleteWalletPayment)
}
