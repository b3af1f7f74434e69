package lifecycle

import "strings"

// Classification describes a proposed stage move.
type Classification struct {
	From            Stage `json:"from_stage"`
	To              Stage `json:"to_stage"`
	IsBackward      bool  `json:"is_backward"`
	IsSkipping      bool  `json:"is_skipping"`
	CommentRequired bool  `json:"comment_required"`
}

// Classify reports whether moving from -> to goes backward, skips stages, and
// therefore needs a justification. Equal stages are rejected with ErrSameStage.
func Classify(from, to Stage) (Classification, error) {
	fromIndex, toIndex := from.Ordinal(), to.Ordinal()
	if fromIndex < 0 {
		return Classification{}, &StageError{Stage: from}
	}
	if toIndex < 0 {
		return Classification{}, &StageError{Stage: to}
	}
	if fromIndex == toIndex {
		return Classification{}, ErrSameStage
	}

	distance := toIndex - fromIndex
	if distance < 0 {
		distance = -distance
	}
	c := Classification{
		From:       from,
		To:         to,
		IsBackward: toIndex < fromIndex,
		IsSkipping: distance > 1,
	}
	c.CommentRequired = c.IsBackward || c.IsSkipping
	return c, nil
}

// Kind is a short label for metrics and messages. Backward wins over skipping.
func (c Classification) Kind() string {
	switch {
	case c.IsBackward:
		return "backward"
	case c.IsSkipping:
		return "skipping"
	default:
		return "forward"
	}
}

// ValidateComment checks a justification against the classification.
// It returns the trimmed comment.
func (c Classification) ValidateComment(comment string) (string, error) {
	trimmed := strings.TrimSpace(comment)
	if c.CommentRequired && len([]rune(trimmed)) < MinCommentLength {
		return trimmed, ErrCommentRequired
	}
	return trimmed, nil
}

// StageError reports a value outside the lifecycle.
type StageError struct {
	Stage Stage
}

func (e *StageError) Error() string {
	return ErrInvalidStage.Error() + ": " + string(e.Stage)
}

func (e *StageError) Unwrap() error { return ErrInvalidStage }
