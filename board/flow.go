// Package board holds the confirmation flow behind the Kanban board: a card is
// dropped on a column, the move is classified, a justification is collected
// when needed, and the board only changes after the store accepts the move.
package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/Itish41/InnovationTracker/lifecycle"
)

// State of the confirmation flow.
type State int

const (
	StateIdle State = iota
	StateProposedMove
	StateAwaitingConfirmation
	StatePersisting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProposedMove:
		return "proposed_move"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StatePersisting:
		return "persisting"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrNoProposal     = errors.New("no move is awaiting confirmation")
	ErrNotPersisting  = errors.New("no move is being persisted")
	ErrUnknownCard    = errors.New("card is not on the board")
	ErrUpdateRejected = errors.New("stage update failed")
)

// Banner texts.
const (
	UpdateFailedMessage = "Failed to update initiative stage. Please try again."
	LoadFailedMessage   = "Failed to load initiatives. Please try again."
)

// Card is the board's view of an initiative.
type Card struct {
	ID            uint
	Title         string
	Category      string
	Priority      string
	Stage         lifecycle.Stage
	SubmitterName string
}

// Updater persists a stage change. comment is nil when none was given.
type Updater interface {
	UpdateStage(ctx context.Context, id uint, to lifecycle.Stage, comment *string) error
}

// Proposal is the move shown in the confirmation prompt.
type Proposal struct {
	Card           Card
	Classification lifecycle.Classification
	Comment        string
	// Error is the inline validation message, cleared on the next edit.
	Error string
}

// Pending is a confirmed move handed to the updater.
type Pending struct {
	CardID  uint
	To      lifecycle.Stage
	Comment *string
}

// Flow is the confirmation state machine. It is not safe for concurrent use;
// the UI loop owns it.
type Flow struct {
	updater  Updater
	cards    []Card
	state    State
	proposal *Proposal
	banner   string
}

func NewFlow(updater Updater, cards []Card) *Flow {
	f := &Flow{updater: updater}
	f.SetCards(cards)
	return f
}

func (f *Flow) State() State { return f.state }

// Banner is the dismissible error shown above the board, or "".
func (f *Flow) Banner() string { return f.banner }

// Dismiss clears the banner.
func (f *Flow) Dismiss() { f.banner = "" }

// Fail sets the banner without touching the cards, for load errors.
func (f *Flow) Fail(message string) { f.banner = message }

// SetCards replaces the board contents after a (re)fetch and clears the banner.
func (f *Flow) SetCards(cards []Card) {
	f.cards = append([]Card(nil), cards...)
	f.banner = ""
}

// Cards returns a copy of every card on the board.
func (f *Flow) Cards() []Card {
	return append([]Card(nil), f.cards...)
}

// Column returns the cards in stage, in board order.
func (f *Flow) Column(stage lifecycle.Stage) []Card {
	var out []Card
	for _, c := range f.cards {
		if c.Stage == stage {
			out = append(out, c)
		}
	}
	return out
}

// Card looks a card up by initiative id.
func (f *Flow) Card(id uint) (Card, bool) {
	for _, c := range f.cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// Proposal returns the open proposal, or nil when none is open.
func (f *Flow) Proposal() *Proposal {
	if f.proposal == nil {
		return nil
	}
	p := *f.proposal
	return &p
}

// Drop proposes moving a card to another column. Dropping on the same column
// or outside the four stages is a no-op and reports false, as is any drop while
// a move is already open.
func (f *Flow) Drop(cardID uint, to lifecycle.Stage) bool {
	if f.state != StateIdle || !to.Valid() {
		return false
	}
	card, ok := f.Card(cardID)
	if !ok || card.Stage == to {
		return false
	}

	f.state = StateProposedMove
	classification, err := lifecycle.Classify(card.Stage, to)
	if err != nil {
		f.state = StateIdle
		return false
	}
	f.proposal = &Proposal{Card: card, Classification: classification}
	f.state = StateAwaitingConfirmation
	return true
}

// SetComment records the justification text and clears any inline error.
func (f *Flow) SetComment(text string) {
	if f.state != StateAwaitingConfirmation {
		return
	}
	f.proposal.Comment = text
	f.proposal.Error = ""
}

// CanConfirm reports whether Confirm would succeed.
func (f *Flow) CanConfirm() bool {
	if f.state != StateAwaitingConfirmation {
		return false
	}
	_, err := f.proposal.Classification.ValidateComment(f.proposal.Comment)
	return err == nil
}

// Cancel discards the open proposal. Nothing is persisted.
func (f *Flow) Cancel() bool {
	if f.state != StateAwaitingConfirmation {
		return false
	}
	f.proposal = nil
	f.state = StateIdle
	return true
}

// Confirm validates the comment and moves to Persisting. On a short comment the
// flow stays open and the proposal carries the inline error.
func (f *Flow) Confirm() (Pending, error) {
	if f.state != StateAwaitingConfirmation {
		return Pending{}, ErrNoProposal
	}
	comment, err := f.proposal.Classification.ValidateComment(f.proposal.Comment)
	if err != nil {
		f.proposal.Error = err.Error()
		return Pending{}, err
	}

	p := Pending{CardID: f.proposal.Card.ID, To: f.proposal.Classification.To}
	if comment != "" {
		p.Comment = &comment
	}
	f.state = StatePersisting
	return p, nil
}

// Persist sends a confirmed move to the updater. It does not change the flow,
// so it may run off the UI loop; feed its result to Resolve.
func (f *Flow) Persist(ctx context.Context, p Pending) error {
	return f.updater.UpdateStage(ctx, p.CardID, p.To, p.Comment)
}

// Resolve closes the prompt with the outcome of Persist. On success only the
// moved card changes stage; on failure the board is left as it was and the
// banner is set.
func (f *Flow) Resolve(err error) error {
	if f.state != StatePersisting {
		return ErrNotPersisting
	}
	moved := f.proposal.Card.ID
	to := f.proposal.Classification.To
	f.proposal = nil
	f.state = StateIdle

	if err != nil {
		f.banner = UpdateFailedMessage
		return fmt.Errorf("%w: %v", ErrUpdateRejected, err)
	}
	for i := range f.cards {
		if f.cards[i].ID == moved {
			f.cards[i].Stage = to
			return nil
		}
	}
	return ErrUnknownCard
}

// Commit confirms, persists and resolves in one call.
func (f *Flow) Commit(ctx context.Context) error {
	p, err := f.Confirm()
	if err != nil {
		return err
	}
	return f.Resolve(f.Persist(ctx, p))
}
