package service

import (
	"github.com/qmuntal/stateless"

	"github.com/bluepayhq/bluepay/payment/domain"
)

// newStatusMachine builds the payment lifecycle state machine anchored at the
// given status. Captured and failed are terminal: they permit no triggers, so
// firing from them reports an invalid transition.
func newStatusMachine(current domain.PaymentStatus) *stateless.StateMachine {
	machine := stateless.NewStateMachine(current)

	machine.Configure(domain.StatusAuthorized).
		Permit(domain.TriggerCapture, domain.StatusCaptured).
		Permit(domain.TriggerFail, domain.StatusFailed)

	machine.Configure(domain.StatusCaptured)
	machine.Configure(domain.StatusFailed)

	return machine
}
