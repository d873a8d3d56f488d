package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	customerDal "github.com/bluepayhq/bluepay/customer/dal"
	"github.com/bluepayhq/bluepay/framework/connection"
	"github.com/bluepayhq/bluepay/framework/web"
	"github.com/bluepayhq/bluepay/logger"
	"github.com/bluepayhq/bluepay/payment/dal"
	"github.com/bluepayhq/bluepay/payment/domain"
	"github.com/bluepayhq/bluepay/payment/service"
)

type Payment struct {
	loggerProvider logger.Provider
	service        service.IPaymentService
}

func NewPayment(loggerProvider logger.Provider, conn *connection.Connection) *Payment {
	return &Payment{
		loggerProvider,
		service.NewPaymentService(loggerProvider, conn),
	}
}

func (h *Payment) AuthorizePayment(ctx *gin.Context) error {
	var req service.AuthorizePaymentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	id, err := h.service.AuthorizePayment(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return web.NewRequestError(err, http.StatusBadRequest)
		}

		if errors.Is(err, customerDal.ErrCustomerNotFound) {
			return web.NewRequestError(err, http.StatusNotFound)
		}

		return web.NewRequestError(err, http.StatusInternalServerError)
	}

	return web.Respond(ctx, service.AuthorizePaymentResponse{ID: id}, http.StatusCreated)
}

func (h *Payment) GetPayment(ctx *gin.Context) error {
	paymentID := ctx.Param("paymentID")

	l := h.loggerProvider(ctx)
	l.SetLabel(logger.LabelPaymentID, paymentID)

	payment, err := h.service.GetPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, dal.ErrPaymentNotFound) {
			return web.NewRequestError(err, http.StatusNotFound)
		}

		return web.NewRequestError(err, http.StatusInternalServerError)
	}

	return web.Respond(ctx, payment, http.StatusOK)
}

func (h *Payment) CapturePayment(ctx *gin.Context) error {
	paymentID := ctx.Param("paymentID")

	l := h.loggerProvider(ctx)
	l.SetLabel(logger.LabelPaymentID, paymentID)

	payment, err := h.service.CapturePayment(ctx, paymentID)
	if err != nil {
		return transitionError(err)
	}

	return web.Respond(ctx, payment, http.StatusOK)
}

func (h *Payment) FailPayment(ctx *gin.Context) error {
	paymentID := ctx.Param("paymentID")

	l := h.loggerProvider(ctx)
	l.SetLabel(logger.LabelPaymentID, paymentID)

	var req service.FailPaymentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	payment, err := h.service.FailPayment(ctx, paymentID, req.Reason)
	if err != nil {
		return transitionError(err)
	}

	return web.Respond(ctx, payment, http.StatusOK)
}

func (h *Payment) ListPayments(ctx *gin.Context) error {
	limit, offset, err := listParams(ctx)
	if err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	status := domain.PaymentStatus(ctx.Query("status"))

	payments, err := h.service.ListPayments(ctx, status, limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return web.NewRequestError(err, http.StatusBadRequest)
		}

		return web.NewRequestError(err, http.StatusInternalServerError)
	}

	return web.Respond(ctx, payments, http.StatusOK)
}

// transitionError maps capture/fail outcomes onto HTTP statuses. Illegal
// transitions and exhausted retries both surface as conflicts.
func transitionError(err error) error {
	switch {
	case errors.Is(err, dal.ErrPaymentNotFound):
		return web.NewRequestError(err, http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidTransition):
		return web.NewRequestError(err, http.StatusConflict)
	case errors.Is(err, service.ErrConcurrentUpdate):
		return web.NewRequestError(err, http.StatusConflict)
	default:
		return web.NewRequestError(err, http.StatusInternalServerError)
	}
}

func listParams(ctx *gin.Context) (limit, offset int, err error) {
	if limit, err = strconv.Atoi(ctx.DefaultQuery("limit", "0")); err != nil {
		return 0, 0, err
	}

	if offset, err = strconv.Atoi(ctx.DefaultQuery("offset", "0")); err != nil {
		return 0, 0, err
	}

	return limit, offset, nil
}
