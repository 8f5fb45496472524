package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/makaohq/makao-api/internal/billing"
	"github.com/makaohq/makao-api/internal/models"
	"github.com/makaohq/makao-api/internal/statemachine"
)

func waterBill() *models.Bill {
	return &models.Bill{
		ID:            3,
		TenantID:      1,
		UtilityType:   models.UtilityWater,
		Period:        "2026-08",
		Units:         d("50"),
		ChargePerUnit: d("50"),
		TotalAmount:   d("2500"),
		VATAmount:     d("400"),
		GrandTotal:    d("2900"),
		AmountPaid:    decimal.Zero,
		Status:        billing.StatusUnpaid,
		DueDate:       time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewBillInvoiceFreezesBalance(t *testing.T) {
	bill := waterBill()
	bill.AmountPaid = d("1450")
	bill.Status = billing.StatusPartial

	tenant := &models.Tenant{ID: 1, PaymentPolicy: billing.PolicyMonthly}
	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	billInvoice, err := newBillInvoice(bill, tenant, &due, time.Now())

	assert.NoError(t, err)
	assert.True(t, billInvoice.GrandTotal.Equal(d("1450")), "grand total = %s", billInvoice.GrandTotal)
	assert.True(t, billInvoice.VATAmount.Equal(d("200")), "vat = %s", billInvoice.VATAmount)
	assert.True(t, billInvoice.TotalAmount.Equal(d("1250")), "total = %s", billInvoice.TotalAmount)
	assert.True(t, billInvoice.AmountPaid.IsZero())
	assert.Equal(t, billing.StatusUnpaid, billInvoice.Status)
	assert.Equal(t, due, billInvoice.DueDate)
	assert.Equal(t, bill.ID, billInvoice.BillID)
	assert.Equal(t, bill.Period, billInvoice.Period)
}

func TestNewBillInvoiceDefaultsDueDateFromPolicy(t *testing.T) {
	bill := waterBill()
	tenant := &models.Tenant{ID: 1, PaymentPolicy: billing.PolicyMonthly}
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	billInvoice, err := newBillInvoice(bill, tenant, nil, now)

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), billInvoice.DueDate)
}

func TestNewBillInvoiceOnPaidBillReportsNothingToInvoice(t *testing.T) {
	bill := waterBill()

	fsm := statemachine.NewPayableFSM(bill)
	_, err := fsm.ApplyPayment(context.Background(), d("2900"), d("0.01"))
	assert.NoError(t, err)
	assert.Equal(t, billing.StatusPaid, bill.Status)

	tenant := &models.Tenant{ID: 1, PaymentPolicy: billing.PolicyMonthly}
	_, err = newBillInvoice(bill, tenant, nil, time.Now())

	var nothing *billing.NothingToInvoiceError
	assert.True(t, errors.As(err, &nothing), "err = %v", err)
	assert.True(t, nothing.Balance.IsZero())
}

func TestNewBillInvoiceOnZeroBalanceBillReportsNothingToInvoice(t *testing.T) {
	bill := waterBill()
	bill.TotalAmount = decimal.Zero
	bill.VATAmount = decimal.Zero
	bill.GrandTotal = decimal.Zero

	tenant := &models.Tenant{ID: 1, PaymentPolicy: billing.PolicyMonthly}
	_, err := newBillInvoice(bill, tenant, nil, time.Now())

	var nothing *billing.NothingToInvoiceError
	assert.True(t, errors.As(err, &nothing), "err = %v", err)
}

func TestNewBillInvoiceRejectsCancelledBill(t *testing.T) {
	bill := waterBill()
	bill.Status = billing.StatusCancelled

	tenant := &models.Tenant{ID: 1, PaymentPolicy: billing.PolicyMonthly}
	_, err := newBillInvoice(bill, tenant, nil, time.Now())

	assert.ErrorIs(t, err, ErrInvalidState)
}
