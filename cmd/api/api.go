package api

import (
	"net/http"
	"os"

	"github.com/bluepayhq/bluepay/cmd/api/handlers"
	customerHandlers "github.com/bluepayhq/bluepay/customer/handlers"
	"github.com/bluepayhq/bluepay/framework/connection"
	"github.com/bluepayhq/bluepay/framework/mid"
	"github.com/bluepayhq/bluepay/framework/web"
	"github.com/bluepayhq/bluepay/logger"
	paymentHandlers "github.com/bluepayhq/bluepay/payment/handlers"
)

// API constructs an api with the needed functionality.
type API struct {
	shutdown chan os.Signal
	log      *logger.Logging
	conn     *connection.Connection
}

func NewAPI(shutdown chan os.Signal, logging *logger.Logging, conn *connection.Connection) *API {
	return &API{
		shutdown,
		logging,
		conn,
	}
}

// Build builds the api endpoints with the needed middlewares, and returns http.Handler interface.
func (a *API) Build() http.Handler {
	loggerProvider := logger.FromContext
	detailedLoggerProvider := logger.DetailedLoggerFromContext

	app := web.NewApp(a.shutdown, a.conn, mid.Logger(), mid.Errors(), mid.Panics(), mid.Sentry())

	app.Get("/health", handlers.Health)

	customer := customerHandlers.NewCustomer(loggerProvider, a.conn)
	payment := paymentHandlers.NewPayment(detailedLoggerProvider, a.conn)

	apiGroup := web.NewGroup(app, "/api")
	{
		customersGroup := apiGroup.NewSubgroup("/customers")
		{
			customersGroup.Post("", customer.CreateCustomer)
			customersGroup.Get("", customer.ListCustomers)
			customersGroup.Get("/:customerID", customer.GetCustomer, mid.ValidatePathParamNotEmpty("customerID"))
		}

		paymentsGroup := apiGroup.NewSubgroup("/payments")
		{
			paymentsGroup.Post("", payment.AuthorizePayment)
			paymentsGroup.Get("", payment.ListPayments)
			paymentsGroup.Get("/:paymentID", payment.GetPayment, mid.ValidatePathParamNotEmpty("paymentID"))
			paymentsGroup.Post("/:paymentID/capture", payment.CapturePayment, mid.ValidatePathParamNotEmpty("paymentID"))
			paymentsGroup.Post("/:paymentID/fail", payment.FailPayment, mid.ValidatePathParamNotEmpty("paymentID"))
		}
	}

	return app
}
