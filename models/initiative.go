package models

import (
	"time"

	"github.com/Itish41/InnovationTracker/lifecycle"
)

// Initiative is an innovation idea tracked through the lifecycle stages.
type Initiative struct {
	// ID is the numeric primary key.
	ID uint `gorm:"primaryKey" json:"id"`

	// Title, Description and ProblemStatement are captured on submission.
	Title               string `gorm:"type:varchar(200);not null" json:"title"`
	Description         string `gorm:"type:text;not null" json:"description"`
	ProblemStatement    string `gorm:"type:text;not null" json:"problem_statement"`
	DetailedDescription string `gorm:"type:text" json:"detailed_description,omitempty"`

	Category Category `gorm:"type:varchar(20);not null;index" json:"category"`
	Priority Priority `gorm:"type:varchar(20);not null;default:MEDIUM" json:"priority"`

	// CurrentStage only changes through the transition workflow.
	CurrentStage lifecycle.Stage `gorm:"type:varchar(20);not null;default:IDEA;index" json:"current_stage"`

	// Milestone timestamps, stamped the first time the initiative reaches a stage.
	IdeaDate         *time.Time `json:"idea_date,omitempty"`
	ConceptDate      *time.Time `json:"concept_date,omitempty"`
	ProjectStartDate *time.Time `json:"project_start_date,omitempty"`
	DevelopmentDate  *time.Time `json:"development_date,omitempty"`
	DeploymentDate   *time.Time `json:"deployment_date,omitempty"`
	CompletionDate   *time.Time `json:"completion_date,omitempty"`

	CreatedAt           time.Time `gorm:"index" json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	LastStageChangeDate time.Time `json:"last_stage_change_date"`

	// Users is the materialized list of role associations. Not a column.
	Users []InitiativeUserView `gorm:"-" json:"users,omitempty"`

	// Display fields derived from the first association of each role.
	SubmitterName           string `gorm:"-" json:"submitter_name,omitempty"`
	SubmitterEmail          string `gorm:"-" json:"submitter_email,omitempty"`
	BusinessOwnerName       string `gorm:"-" json:"business_owner_name,omitempty"`
	BusinessOwnerFunction   string `gorm:"-" json:"business_owner_function,omitempty"`
	BusinessOwnerDepartment string `gorm:"-" json:"business_owner_department,omitempty"`
	ITOwnerName             string `gorm:"-" json:"it_owner_name,omitempty"`
	ITOwnerDepartment       string `gorm:"-" json:"it_owner_department,omitempty"`
}

func (Initiative) TableName() string { return "initiatives" }

// MilestoneColumn maps a stage to the timestamp column stamped on arrival.
func MilestoneColumn(stage lifecycle.Stage) string {
	switch stage {
	case lifecycle.StageIdea:
		return "idea_date"
	case lifecycle.StageConcept:
		return "concept_date"
	case lifecycle.StageDevelopment:
		return "development_date"
	case lifecycle.StageDeployed:
		return "deployment_date"
	}
	return ""
}

// Milestone returns the timestamp recorded for stage, if any.
func (i *Initiative) Milestone(stage lifecycle.Stage) *time.Time {
	switch stage {
	case lifecycle.StageIdea:
		return i.IdeaDate
	case lifecycle.StageConcept:
		return i.ConceptDate
	case lifecycle.StageDevelopment:
		return i.DevelopmentDate
	case lifecycle.StageDeployed:
		return i.DeploymentDate
	}
	return nil
}

// ApplyRoleSummary fills the display fields from the association list.
// The first association of each role wins, matching the list order.
func (i *Initiative) ApplyRoleSummary(users []InitiativeUserView) {
	seen := map[string]bool{}
	for _, u := range users {
		if seen[u.TypeName] {
			continue
		}
		seen[u.TypeName] = true
		switch u.TypeName {
		case UserTypeSubmitter:
			i.SubmitterName = u.FullName()
			i.SubmitterEmail = u.Email
		case UserTypeBusinessOwner:
			i.BusinessOwnerName = u.FullName()
			i.BusinessOwnerFunction = u.Function
			i.BusinessOwnerDepartment = u.Department
		case UserTypeITOwner:
			i.ITOwnerName = u.FullName()
			i.ITOwnerDepartment = u.Department
		}
	}
}
