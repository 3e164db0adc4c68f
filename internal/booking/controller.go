package booking

import (
	"errors"
	"net/http"

	"tourly/internal/payment"
	"tourly/internal/shared/config"
	"tourly/internal/shared/middleware"
	"tourly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	cfg       *config.Config
	validator *validator.Validate
}

func NewController(service Service, cfg *config.Config) *Controller {
	return &Controller{
		service:   service,
		cfg:       cfg,
		validator: validator.New(),
	}
}

// CreateSession handles POST /api/v1/bookings/sessions
func (c *Controller) CreateSession(ctx *gin.Context) {
	var req CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	session, err := c.service.CreateSession(ctx.Request.Context(), req.TourReference)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	token, err := middleware.IssueSessionToken(c.cfg, session.ID.String())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to issue session token", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking session created", CreateSessionResponse{
		Session:      toSessionResponse(session),
		SessionToken: token,
	}, nil)
}

// GetSession handles GET /api/v1/bookings/sessions/:id
func (c *Controller) GetSession(ctx *gin.Context) {
	id, ok := c.sessionID(ctx)
	if !ok {
		return
	}

	session, err := c.service.GetSession(ctx.Request.Context(), id)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Session retrieved", toSessionResponse(session), nil)
}

// UpdateTrip handles PATCH /api/v1/bookings/sessions/:id/trip
func (c *Controller) UpdateTrip(ctx *gin.Context) {
	id, ok := c.sessionID(ctx)
	if !ok {
		return
	}

	var req UpdateTripRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	update, err := req.ToUpdate()
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	session, err := c.service.UpdateTrip(ctx.Request.Context(), id, update)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Trip configuration updated", toSessionResponse(session), nil)
}

// ChooseCardPayment handles PUT /api/v1/bookings/sessions/:id/payment/card
func (c *Controller) ChooseCardPayment(ctx *gin.Context) {
	id, ok := c.sessionID(ctx)
	if !ok {
		return
	}

	var req CardPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	session, err := c.service.ChooseCardPayment(ctx.Request.Context(), id,
		payment.CardDetails{
			Number:     req.CardNumber,
			Expiry:     req.Expiry,
			CVV:        req.CVV,
			HolderName: req.HolderName,
		},
		payment.BillingDetails{
			Country:    req.BillingCountry,
			PostalCode: req.BillingPostalCode,
		})
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Card payment method selected", toSessionResponse(session), nil)
}

// ChooseWalletPayment handles PUT /api/v1/bookings/sessions/:id/payment/wallet
func (c *Controller) ChooseWalletPayment(ctx *gin.Context) {
	id, ok := c.sessionID(ctx)
	if !ok {
		return
	}

	var req WalletPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	session, err := c.service.ChooseWalletPayment(ctx.Request.Context(), id, req.PayerIdentifier)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Wallet payment method selected", toSessionResponse(session), nil)
}

// SubmitPayment handles POST /api/v1/bookings/sessions/:id/submit
func (c *Controller) SubmitPayment(ctx *gin.Context) {
	id, ok := c.sessionID(ctx)
	if !ok {
		return
	}

	result, err := c.service.SubmitPayment(ctx.Request.Context(), id)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	resp := SubmitResponse{Session: toSessionResponse(result.Session)}
	if result.Record != nil {
		resp.Record = toRecordResponse(result.Record)
	}
	if result.Payable != nil {
		resp.Payable = toPayableResponse(result.Payable)
	}

	if result.Payable != nil {
		response.RespondJSON(ctx, "success", http.StatusAccepted, "Payable request issued", resp, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Payment confirmed", resp, nil)
}

// AbortPayment handles POST /api/v1/bookings/sessions/:id/abort
func (c *Controller) AbortPayment(ctx *gin.Context) {
	id, ok := c.sessionID(ctx)
	if !ok {
		return
	}

	session, err := c.service.AbortPayment(ctx.Request.Context(), id)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment attempt aborted", toSessionResponse(session), nil)
}

// RetryPayment handles POST /api/v1/bookings/sessions/:id/retry
func (c *Controller) RetryPayment(ctx *gin.Context) {
	id, ok := c.sessionID(ctx)
	if !ok {
		return
	}

	session, err := c.service.RetryPayment(ctx.Request.Context(), id)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Session ready for a new payment attempt", toSessionResponse(session), nil)
}

// CancelSession handles POST /api/v1/bookings/sessions/:id/cancel
func (c *Controller) CancelSession(ctx *gin.Context) {
	id, ok := c.sessionID(ctx)
	if !ok {
		return
	}

	session, err := c.service.CancelSession(ctx.Request.Context(), id)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Session cancelled", toSessionResponse(session), nil)
}

// CompleteWalletPayment handles POST /api/v1/payments/wallet/:payableRequestID/complete.
// This is the external completion signal; it carries no session token.
func (c *Controller) CompleteWalletPayment(ctx *gin.Context) {
	payableRequestID := ctx.Param("payableRequestID")

	var req WalletCompletionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	record, err := c.service.CompleteWalletPayment(ctx.Request.Context(), payableRequestID, req.ExternalReference)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Wallet payment completed", toRecordResponse(record), nil)
}

// GetRecord handles GET /api/v1/bookings/records/:ref
func (c *Controller) GetRecord(ctx *gin.Context) {
	record, err := c.service.GetRecord(ctx.Request.Context(), ctx.Param("ref"))
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking record retrieved", toRecordResponse(record), nil)
}

// sessionID parses the :id path parameter, responding on failure
func (c *Controller) sessionID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid session id", nil, nil)
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors onto HTTP responses
func (c *Controller) respondError(ctx *gin.Context, err error) {
	var validationErr *ValidationError
	var transitionErr *InvalidTransitionError
	var paymentErr *payment.Error

	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrPayableNotFound),
		errors.Is(err, ErrRecordNotFound), errors.Is(err, ErrTourNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)

	case errors.Is(err, ErrSessionLocked):
		response.RespondJSON(ctx, "error", http.StatusConflict, "A payment is in progress; the session cannot be modified", nil, nil)

	case errors.As(err, &validationErr):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Validation failed", nil, validationErr.Fields)

	case errors.As(err, &transitionErr):
		response.RespondJSON(ctx, "error", http.StatusConflict, transitionErr.Error(), nil, nil)

	case errors.As(err, &paymentErr):
		c.respondPaymentError(ctx, paymentErr)

	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Internal server error", nil, err.Error())
	}
}

func (c *Controller) respondPaymentError(ctx *gin.Context, perr *payment.Error) {
	status := http.StatusPaymentRequired
	switch perr.Code {
	case payment.ErrCodeValidation:
		status = http.StatusUnprocessableEntity
	case payment.ErrCodeExpired:
		status = http.StatusGone
	case payment.ErrCodeCancelled:
		status = http.StatusConflict
	}

	response.RespondJSON(ctx, "error", status, perr.Message, nil, gin.H{"code": perr.Code})
}
