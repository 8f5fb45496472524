package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/makaohq/makao-api/internal/models"
)

func newLetter(status string) *models.DemandLetter {
	return &models.DemandLetter{
		ID:              1,
		ReferenceNumber: "DL-test",
		TenantID:        1,
		Status:          status,
	}
}

func TestDemandLetterHappyPath(t *testing.T) {
	letter := newLetter(models.DemandLetterStatusDraft)
	ctx := context.Background()

	fsm := NewDemandLetterFSM(letter)
	assert.NoError(t, fsm.Generate(ctx))
	assert.Equal(t, models.DemandLetterStatusGenerated, letter.Status)

	fsm = NewDemandLetterFSM(letter)
	assert.NoError(t, fsm.Send(ctx))
	assert.Equal(t, models.DemandLetterStatusSent, letter.Status)

	fsm = NewDemandLetterFSM(letter)
	assert.NoError(t, fsm.Acknowledge(ctx))
	assert.Equal(t, models.DemandLetterStatusAcknowledged, letter.Status)

	fsm = NewDemandLetterFSM(letter)
	assert.NoError(t, fsm.Settle(ctx))
	assert.Equal(t, models.DemandLetterStatusSettled, letter.Status)
}

func TestDemandLetterSettleDirectlyFromSent(t *testing.T) {
	letter := newLetter(models.DemandLetterStatusSent)
	assert.NoError(t, NewDemandLetterFSM(letter).Settle(context.Background()))
	assert.Equal(t, models.DemandLetterStatusSettled, letter.Status)
}

func TestDemandLetterEscalate(t *testing.T) {
	letter := newLetter(models.DemandLetterStatusAcknowledged)
	assert.NoError(t, NewDemandLetterFSM(letter).Escalate(context.Background()))
	assert.Equal(t, models.DemandLetterStatusEscalated, letter.Status)
}

func TestDemandLetterInvalidTransitions(t *testing.T) {
	ctx := context.Background()

	// Cannot send a draft without generating it first.
	draft := newLetter(models.DemandLetterStatusDraft)
	assert.Error(t, NewDemandLetterFSM(draft).Send(ctx))
	assert.Equal(t, models.DemandLetterStatusDraft, draft.Status)

	// Cannot settle before sending.
	generated := newLetter(models.DemandLetterStatusGenerated)
	assert.Error(t, NewDemandLetterFSM(generated).Settle(ctx))

	// Settled and escalated are terminal.
	settled := newLetter(models.DemandLetterStatusSettled)
	assert.Error(t, NewDemandLetterFSM(settled).Escalate(ctx))
	assert.Error(t, NewDemandLetterFSM(settled).Send(ctx))

	escalated := newLetter(models.DemandLetterStatusEscalated)
	assert.Error(t, NewDemandLetterFSM(escalated).Settle(ctx))
	assert.Error(t, NewDemandLetterFSM(escalated).Acknowledge(ctx))
}
