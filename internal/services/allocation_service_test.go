package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/makaohq/makao-api/internal/billing"
	"github.com/makaohq/makao-api/internal/models"
)

func TestReportStatus(t *testing.T) {
	tol := d("0.01")

	assert.Equal(t, models.ReportStatusPaid, reportStatus(billing.StatusFor(d("40600"), d("40600"), tol)))
	assert.Equal(t, models.ReportStatusPaid, reportStatus(billing.StatusFor(d("40600"), d("40599.99"), tol)))
	assert.Equal(t, models.ReportStatusPartial, reportStatus(billing.StatusFor(d("40600"), d("20000"), tol)))
	assert.Equal(t, models.ReportStatusUnpaid, reportStatus(billing.StatusFor(d("40600"), d("0"), tol)))

	// A payment into a period with nothing due still reads as paid.
	assert.Equal(t, models.ReportStatusPaid, reportStatus(billing.StatusFor(d("0"), d("500"), tol)))
}
