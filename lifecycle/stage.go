package lifecycle

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

// Stage is one of the four ordered lifecycle states of an initiative.
type Stage string

const (
	StageIdea        Stage = "IDEA"
	StageConcept     Stage = "CONCEPT"
	StageDevelopment Stage = "DEVELOPMENT"
	StageDeployed    Stage = "DEPLOYED"
)

// MinCommentLength is the minimum trimmed justification length for flagged moves.
const MinCommentLength = 10

var (
	ErrInvalidStage    = errors.New("invalid stage")
	ErrSameStage       = errors.New("initiative is already in the requested stage")
	ErrCommentRequired = fmt.Errorf("Comment is required (minimum %d characters)", MinCommentLength)
)

// stages is ordered; the index of a stage is its ordinal.
var stages = [...]Stage{StageIdea, StageConcept, StageDevelopment, StageDeployed}

var labels = map[Stage]string{
	StageIdea:        "Idea",
	StageConcept:     "Concept",
	StageDevelopment: "Development",
	StageDeployed:    "Deployed",
}

// Stages returns the lifecycle stages in order.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages[:])
	return out
}

// Parse converts a raw value into a Stage. Matching is case-insensitive.
func Parse(raw string) (Stage, error) {
	s := Stage(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStage, raw)
	}
	return s, nil
}

// Ordinal returns the position of s in the lifecycle, or -1 for unknown values.
func (s Stage) Ordinal() int {
	for i, candidate := range stages {
		if candidate == s {
			return i
		}
	}
	return -1
}

func (s Stage) Valid() bool { return s.Ordinal() >= 0 }

// Label is the human readable column title.
func (s Stage) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

func (s Stage) String() string { return string(s) }

// Value implements driver.Valuer so invalid stages never reach the database.
func (s Stage) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStage, string(s))
	}
	return string(s), nil
}

// Scan implements sql.Scanner.
func (s *Stage) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		return fmt.Errorf("%w: null", ErrInvalidStage)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidStage, src)
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
