package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/makaohq/makao-api/internal/models"
)

// DemandLetterFSM wraps a demand letter with its lifecycle state machine
type DemandLetterFSM struct {
	letter *models.DemandLetter
	fsm    *fsm.FSM
}

// NewDemandLetterFSM creates a new demand letter state machine
func NewDemandLetterFSM(letter *models.DemandLetter) *DemandLetterFSM {
	dfsm := &DemandLetterFSM{
		letter: letter,
	}

	dfsm.fsm = fsm.NewFSM(
		letter.Status,
		fsm.Events{
			// draft → generated
			{Name: "generate", Src: []string{models.DemandLetterStatusDraft}, Dst: models.DemandLetterStatusGenerated},

			// generated → sent
			{Name: "send", Src: []string{models.DemandLetterStatusGenerated}, Dst: models.DemandLetterStatusSent},

			// sent → acknowledged
			{Name: "acknowledge", Src: []string{models.DemandLetterStatusSent}, Dst: models.DemandLetterStatusAcknowledged},

			// sent/acknowledged → settled
			{Name: "settle", Src: []string{models.DemandLetterStatusSent, models.DemandLetterStatusAcknowledged}, Dst: models.DemandLetterStatusSettled},

			// sent/acknowledged → escalated
			{Name: "escalate", Src: []string{models.DemandLetterStatusSent, models.DemandLetterStatusAcknowledged}, Dst: models.DemandLetterStatusEscalated},
		},
		fsm.Callbacks{},
	)

	return dfsm
}

// Generate transitions the letter to generated state
func (d *DemandLetterFSM) Generate(ctx context.Context) error {
	if !d.letter.MayGenerate() {
		return fmt.Errorf("demand letter cannot be generated in current state: %s", d.letter.Status)
	}

	if err := d.fsm.Event(ctx, "generate"); err != nil {
		return fmt.Errorf("failed to generate demand letter: %w", err)
	}

	d.letter.Status = d.fsm.Current()
	return nil
}

// Send transitions the letter to sent state
func (d *DemandLetterFSM) Send(ctx context.Context) error {
	if !d.letter.MaySend() {
		return fmt.Errorf("demand letter cannot be sent in current state: %s", d.letter.Status)
	}

	if err := d.fsm.Event(ctx, "send"); err != nil {
		return fmt.Errorf("failed to send demand letter: %w", err)
	}

	d.letter.Status = d.fsm.Current()
	return nil
}

// Acknowledge transitions the letter to acknowledged state
func (d *DemandLetterFSM) Acknowledge(ctx context.Context) error {
	if !d.letter.MayAcknowledge() {
		return fmt.Errorf("demand letter cannot be acknowledged in current state: %s", d.letter.Status)
	}

	if err := d.fsm.Event(ctx, "acknowledge"); err != nil {
		return fmt.Errorf("failed to acknowledge demand letter: %w", err)
	}

	d.letter.Status = d.fsm.Current()
	return nil
}

// Settle transitions the letter to settled state
func (d *DemandLetterFSM) Settle(ctx context.Context) error {
	if !d.letter.MaySettle() {
		return fmt.Errorf("demand letter cannot be settled in current state: %s", d.letter.Status)
	}

	if err := d.fsm.Event(ctx, "settle"); err != nil {
		return fmt.Errorf("failed to settle demand letter: %w", err)
	}

	d.letter.Status = d.fsm.Current()
	return nil
}

// Escalate transitions the letter to escalated state
func (d *DemandLetterFSM) Escalate(ctx context.Context) error {
	if !d.letter.MayEscalate() {
		return fmt.Errorf("demand letter cannot be escalated in current state: %s", d.letter.Status)
	}

	if err := d.fsm.Event(ctx, "escalate"); err != nil {
		return fmt.Errorf("failed to escalate demand letter: %w", err)
	}

	d.letter.Status = d.fsm.Current()
	return nil
}

// Current returns the current state
func (d *DemandLetterFSM) Current() string {
	return d.fsm.Current()
}

// Can checks if a transition is possible
func (d *DemandLetterFSM) Can(event string) bool {
	return d.fsm.Can(event)
}
