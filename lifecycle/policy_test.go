package lifecycle

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_AllPairs(t *testing.T) {
	order := Stages()
	for fi, from := range order {
		for ti, to := range order {
			c, err := Classify(from, to)
			if fi == ti {
				assert.ErrorIs(t, err, ErrSameStage, "%s->%s", from, to)
				continue
			}
			require.NoError(t, err)
			distance := ti - fi
			if distance < 0 {
				distance = -distance
			}
			assert.Equal(t, ti < fi, c.IsBackward, "%s->%s backward", from, to)
			assert.Equal(t, distance > 1, c.IsSkipping, "%s->%s skipping", from, to)
			assert.Equal(t, c.IsBackward || c.IsSkipping, c.CommentRequired, "%s->%s comment", from, to)
		}
	}
}

func TestClassify_Examples(t *testing.T) {
	tests := []struct {
		from, to                     Stage
		backward, skipping, required bool
		kind                         string
	}{
		{StageIdea, StageConcept, false, false, false, "forward"},
		{StageConcept, StageIdea, true, false, true, "backward"},
		{StageIdea, StageDeployed, false, true, true, "skipping"},
		{StageDeployed, StageIdea, true, true, true, "backward"},
		{StageDevelopment, StageDeployed, false, false, false, "forward"},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			c, err := Classify(tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.backward, c.IsBackward)
			assert.Equal(t, tt.skipping, c.IsSkipping)
			assert.Equal(t, tt.required, c.CommentRequired)
			assert.Equal(t, tt.kind, c.Kind())
		})
	}
}

func TestClassify_UnknownStage(t *testing.T) {
	_, err := Classify("ARCHIVED", StageIdea)
	assert.True(t, errors.Is(err, ErrInvalidStage))

	_, err = Classify(StageIdea, "")
	assert.True(t, errors.Is(err, ErrInvalidStage))
}

func TestValidateComment(t *testing.T) {
	required, err := Classify(StageConcept, StageIdea)
	require.NoError(t, err)

	_, err = required.ValidateComment("  " + strings.Repeat("x", 9) + "  ")
	assert.ErrorIs(t, err, ErrCommentRequired)
	assert.Equal(t, "Comment is required (minimum 10 characters)", err.Error())

	got, err := required.ValidateComment("  " + strings.Repeat("x", 10) + "\n")
	assert.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 10), got)

	optional, err := Classify(StageIdea, StageConcept)
	require.NoError(t, err)
	got, err = optional.ValidateComment("")
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestParse(t *testing.T) {
	s, err := Parse(" development ")
	require.NoError(t, err)
	assert.Equal(t, StageDevelopment, s)
	assert.Equal(t, 2, s.Ordinal())
	assert.Equal(t, "Development", s.Label())

	_, err = Parse("LAUNCHED")
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestStage_ScanValue(t *testing.T) {
	var s Stage
	require.NoError(t, s.Scan([]byte("CONCEPT")))
	assert.Equal(t, StageConcept, s)

	assert.Error(t, s.Scan(nil))
	assert.Error(t, s.Scan(42))

	v, err := StageDeployed.Value()
	require.NoError(t, err)
	assert.Equal(t, "DEPLOYED", v)

	_, err = Stage("nope").Value()
	assert.ErrorIs(t, err, ErrInvalidStage)
}
