package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaymentPolicyValid(t *testing.T) {
	assert.True(t, PolicyMonthly.Valid())
	assert.True(t, PolicyQuarterly.Valid())
	assert.True(t, PolicyAnnual.Valid())
	assert.False(t, PaymentPolicy("weekly").Valid())
	assert.False(t, PaymentPolicy("").Valid())
}

func TestNextDueDate(t *testing.T) {
	from := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), PolicyMonthly.NextDueDate(from))
	assert.Equal(t, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), PolicyQuarterly.NextDueDate(from))
	assert.Equal(t, time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC), PolicyAnnual.NextDueDate(from))
}
