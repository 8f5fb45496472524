package statemachine

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/makaohq/makao-api/internal/billing"
	"github.com/makaohq/makao-api/internal/models"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

var tolerance = d("0.01")

func newInvoice(totalDue, paid string, status billing.Status) *models.Invoice {
	return &models.Invoice{
		ID:             1,
		TenantID:       1,
		Kind:           models.InvoiceKindRent,
		Period:         "2026-08",
		TotalDueAmount: d(totalDue),
		AmountPaid:     d(paid),
		Status:         status,
		DueDate:        time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestApplyPaymentPartialTransition(t *testing.T) {
	invoice := newInvoice("5000", "0", billing.StatusUnpaid)
	fsm := NewPayableFSM(invoice)

	result, err := fsm.ApplyPayment(context.Background(), d("2000"), tolerance)
	assert.NoError(t, err)
	assert.Equal(t, billing.StatusPartial, result.Status)
	assert.Equal(t, billing.StatusPartial, invoice.Status)
	assert.True(t, invoice.AmountPaid.Equal(d("2000")))
}

func TestApplyPaymentFullTransition(t *testing.T) {
	invoice := newInvoice("5000", "2000", billing.StatusPartial)
	fsm := NewPayableFSM(invoice)

	result, err := fsm.ApplyPayment(context.Background(), d("3000"), tolerance)
	assert.NoError(t, err)
	assert.Equal(t, billing.StatusPaid, result.Status)
	assert.Equal(t, billing.StatusPaid, invoice.Status)
	assert.True(t, invoice.AmountPaid.Equal(d("5000")))
}

func TestApplyPaymentPartialToPartial(t *testing.T) {
	// partial → partial is a same-state transition, not an error.
	invoice := newInvoice("5000", "1000", billing.StatusPartial)
	fsm := NewPayableFSM(invoice)

	_, err := fsm.ApplyPayment(context.Background(), d("500"), tolerance)
	assert.NoError(t, err)
	assert.Equal(t, billing.StatusPartial, invoice.Status)
	assert.True(t, invoice.AmountPaid.Equal(d("1500")))
}

func TestApplyPaymentOnOverdueDocument(t *testing.T) {
	// Overdue documents still accept payments.
	invoice := newInvoice("5000", "0", billing.StatusOverdue)
	fsm := NewPayableFSM(invoice)

	_, err := fsm.ApplyPayment(context.Background(), d("5000"), tolerance)
	assert.NoError(t, err)
	assert.Equal(t, billing.StatusPaid, invoice.Status)
}

func TestApplyPaymentRejectedOnTerminal(t *testing.T) {
	paid := newInvoice("5000", "5000", billing.StatusPaid)
	_, err := NewPayableFSM(paid).ApplyPayment(context.Background(), d("10"), tolerance)
	assert.Error(t, err)
	assert.True(t, paid.AmountPaid.Equal(d("5000")))

	cancelled := newInvoice("5000", "0", billing.StatusCancelled)
	_, err = NewPayableFSM(cancelled).ApplyPayment(context.Background(), d("10"), tolerance)
	assert.Error(t, err)
	assert.Equal(t, billing.StatusCancelled, cancelled.Status)
}

func TestApplyPaymentOverpaymentLeavesDocumentUntouched(t *testing.T) {
	invoice := newInvoice("5000", "4000", billing.StatusPartial)
	fsm := NewPayableFSM(invoice)

	_, err := fsm.ApplyPayment(context.Background(), d("2000"), tolerance)
	assert.Error(t, err)
	assert.Equal(t, billing.StatusPartial, invoice.Status)
	assert.True(t, invoice.AmountPaid.Equal(d("4000")))
}

func TestCancel(t *testing.T) {
	invoice := newInvoice("5000", "1000", billing.StatusPartial)
	fsm := NewPayableFSM(invoice)

	assert.NoError(t, fsm.Cancel(context.Background()))
	assert.Equal(t, billing.StatusCancelled, invoice.Status)
}

func TestCancelRejectedOnTerminal(t *testing.T) {
	paid := newInvoice("5000", "5000", billing.StatusPaid)
	assert.Error(t, NewPayableFSM(paid).Cancel(context.Background()))
	assert.Equal(t, billing.StatusPaid, paid.Status)

	cancelled := newInvoice("5000", "0", billing.StatusCancelled)
	assert.Error(t, NewPayableFSM(cancelled).Cancel(context.Background()))
}

func TestMarkOverdue(t *testing.T) {
	invoice := newInvoice("5000", "0", billing.StatusUnpaid)
	fsm := NewPayableFSM(invoice)

	assert.NoError(t, fsm.MarkOverdue(context.Background()))
	assert.Equal(t, billing.StatusOverdue, invoice.Status)
}
