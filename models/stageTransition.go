package models

import (
	"time"

	"github.com/Itish41/InnovationTracker/lifecycle"
	"gorm.io/datatypes"
)

// StageTransition records one confirmed stage move.
type StageTransition struct {
	// ID is the numeric primary key.
	ID uint `gorm:"primaryKey" json:"id"`

	// InitiativeID references the moved initiative.
	InitiativeID uint `gorm:"not null;index" json:"initiative_id"`

	FromStage lifecycle.Stage `gorm:"type:varchar(20);not null" json:"from_stage"`
	ToStage   lifecycle.Stage `gorm:"type:varchar(20);not null" json:"to_stage"`

	// Comment is the justification, nil when none was given.
	Comment *string `gorm:"type:text" json:"comment"`

	// ActorID is the user that confirmed the move, when known.
	ActorID *uint `json:"actor_id"`

	// Details holds the policy classification at the time of the move.
	Details datatypes.JSON `json:"details"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (StageTransition) TableName() string { return "stage_transitions" }
