package logger

// Common label keys attached to request log entries.
const (
	LabelCustomerID = "customerId"
	LabelPaymentID  = "paymentId"
)
