package statemachine

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/shopspring/decimal"

	"github.com/makaohq/makao-api/internal/billing"
	"github.com/makaohq/makao-api/internal/models"
)

// PayableFSM wraps a bill, invoice or bill invoice with its payment state
// machine. Paid and cancelled are terminal; overdue documents still accept
// payments because the overdue state is derived from the due date, not from
// an operator action.
type PayableFSM struct {
	payable models.Payable
	fsm     *fsm.FSM
}

// NewPayableFSM creates a new payable state machine
func NewPayableFSM(payable models.Payable) *PayableFSM {
	pfsm := &PayableFSM{
		payable: payable,
	}

	pfsm.fsm = fsm.NewFSM(
		string(payable.CurrentStatus()),
		fsm.Events{
			// unpaid/partial/overdue → partial
			{Name: "partial_payment", Src: []string{string(billing.StatusUnpaid), string(billing.StatusPartial), string(billing.StatusOverdue)}, Dst: string(billing.StatusPartial)},

			// unpaid/partial/overdue → paid
			{Name: "full_payment", Src: []string{string(billing.StatusUnpaid), string(billing.StatusPartial), string(billing.StatusOverdue)}, Dst: string(billing.StatusPaid)},

			// unpaid/partial → overdue (time-based)
			{Name: "mark_overdue", Src: []string{string(billing.StatusUnpaid), string(billing.StatusPartial)}, Dst: string(billing.StatusOverdue)},

			// any non-paid → cancelled (terminal)
			{Name: "cancel", Src: []string{string(billing.StatusUnpaid), string(billing.StatusPartial), string(billing.StatusOverdue)}, Dst: string(billing.StatusCancelled)},
		},
		fsm.Callbacks{},
	)

	return pfsm
}

// ApplyPayment validates and applies a payment, syncing amount paid and
// status back onto the wrapped document. The mutation is in-memory; the
// caller persists it inside its transaction.
func (p *PayableFSM) ApplyPayment(ctx context.Context, amount, tolerance decimal.Decimal) (billing.PaymentResult, error) {
	if p.payable.CurrentStatus().IsTerminal() {
		return billing.PaymentResult{}, fmt.Errorf("payment cannot be applied in current state: %s", p.payable.CurrentStatus())
	}

	result, err := billing.ApplyPayment(p.payable.TotalDue(), p.payable.Paid(), amount, tolerance)
	if err != nil {
		return billing.PaymentResult{}, err
	}

	event := "partial_payment"
	if result.Status == billing.StatusPaid {
		event = "full_payment"
	}
	if err := p.fire(ctx, event); err != nil {
		return billing.PaymentResult{}, err
	}

	p.payable.SetPaid(result.AmountPaid)
	p.payable.SetStatus(result.Status)
	return result, nil
}

// Cancel transitions the document to cancelled
func (p *PayableFSM) Cancel(ctx context.Context) error {
	if p.payable.CurrentStatus().IsTerminal() {
		return fmt.Errorf("document cannot be cancelled in current state: %s", p.payable.CurrentStatus())
	}

	if err := p.fire(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel document: %w", err)
	}

	p.payable.SetStatus(billing.StatusCancelled)
	return nil
}

// MarkOverdue transitions an outstanding document to overdue
func (p *PayableFSM) MarkOverdue(ctx context.Context) error {
	if err := p.fire(ctx, "mark_overdue"); err != nil {
		return fmt.Errorf("failed to mark document overdue: %w", err)
	}

	p.payable.SetStatus(billing.StatusOverdue)
	return nil
}

// fire runs an event, treating a same-state transition as a no-op.
func (p *PayableFSM) fire(ctx context.Context, event string) error {
	err := p.fsm.Event(ctx, event)
	if err != nil {
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			return err
		}
	}
	return nil
}

// Current returns the current state
func (p *PayableFSM) Current() billing.Status {
	return billing.Status(p.fsm.Current())
}

// Can checks if a transition is possible
func (p *PayableFSM) Can(event string) bool {
	return p.fsm.Can(event)
}
