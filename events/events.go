package events

import (
	"time"

	"github.com/Itish41/InnovationTracker/lifecycle"
)

// InitiativeCreated is emitted after a submission is stored.
type InitiativeCreated struct {
	InitiativeID uint      `json:"initiative_id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	SubmitterID  uint      `json:"submitter_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// StageChanged is emitted after a confirmed stage transition commits.
type StageChanged struct {
	InitiativeID uint            `json:"initiative_id"`
	TransitionID uint            `json:"transition_id"`
	FromStage    lifecycle.Stage `json:"from_stage"`
	ToStage      lifecycle.Stage `json:"to_stage"`
	Comment      *string         `json:"comment"`
	ActorID      *uint           `json:"actor_id"`
	IsBackward   bool            `json:"is_backward"`
	IsSkipping   bool            `json:"is_skipping"`
	OccurredAt   time.Time       `json:"occurred_at"`
}
