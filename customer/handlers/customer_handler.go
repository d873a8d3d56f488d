package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	customerDal "github.com/bluepayhq/bluepay/customer/dal"
	"github.com/bluepayhq/bluepay/customer/service"
	"github.com/bluepayhq/bluepay/framework/connection"
	"github.com/bluepayhq/bluepay/framework/web"
	"github.com/bluepayhq/bluepay/logger"
)

type Customer struct {
	loggerProvider logger.Provider
	service        service.ICustomerService
}

func NewCustomer(loggerProvider logger.Provider, conn *connection.Connection) *Customer {
	return &Customer{
		loggerProvider,
		service.NewCustomerService(loggerProvider, conn),
	}
}

func (h *Customer) CreateCustomer(ctx *gin.Context) error {
	var req service.CreateCustomerRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	id, err := h.service.CreateCustomer(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return web.NewRequestError(err, http.StatusBadRequest)
		}

		return web.NewRequestError(err, http.StatusInternalServerError)
	}

	return web.Respond(ctx, service.CreateCustomerResponse{ID: id}, http.StatusCreated)
}

func (h *Customer) GetCustomer(ctx *gin.Context) error {
	customerID := ctx.Param("customerID")

	l := h.loggerProvider(ctx)
	l.SetLabel(logger.LabelCustomerID, customerID)

	customer, err := h.service.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, customerDal.ErrCustomerNotFound) {
			return web.NewRequestError(err, http.StatusNotFound)
		}

		return web.NewRequestError(err, http.StatusInternalServerError)
	}

	return web.Respond(ctx, customer, http.StatusOK)
}

func (h *Customer) ListCustomers(ctx *gin.Context) error {
	limit, offset, err := listParams(ctx)
	if err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	customers, err := h.service.ListCustomers(ctx, limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return web.NewRequestError(err, http.StatusBadRequest)
		}

		return web.NewRequestError(err, http.StatusInternalServerError)
	}

	return web.Respond(ctx, customers, http.StatusOK)
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
