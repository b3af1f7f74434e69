package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Itish41/InnovationTracker/events"
	"github.com/Itish41/InnovationTracker/lifecycle"
	"github.com/Itish41/InnovationTracker/metrics"
	"github.com/Itish41/InnovationTracker/models"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransitionService moves initiatives between stages under the stage policy
// and keeps the transition log.
type TransitionService struct {
	store  *InitiativeService
	logger *zap.Logger
}

func NewTransitionService(store *InitiativeService) *TransitionService {
	return &TransitionService{store: store, logger: store.logger.Named("transitions")}
}

// TransitionRequest is a confirmed move.
type TransitionRequest struct {
	InitiativeID uint
	ToStage      lifecycle.Stage
	Comment      *string
	ActorID      *uint
}

// TransitionResult is the committed move.
type TransitionResult struct {
	Initiative     *models.Initiative
	Transition     models.StageTransition
	Classification lifecycle.Classification
}

// Transition validates the move against the current stage, writes the new
// stage through the store's raw update and records a StageTransition, all in
// one transaction.
func (s *TransitionService) Transition(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	if !req.ToStage.Valid() {
		metrics.IncrementRejectedTransition("invalid_stage")
		return nil, &lifecycle.StageError{Stage: req.ToStage}
	}

	now := s.store.now()
	var result TransitionResult

	err := s.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := lockInitiative(tx, req.InitiativeID)
		if err != nil {
			return err
		}

		class, err := lifecycle.Classify(current.CurrentStage, req.ToStage)
		if err != nil {
			return err
		}

		var comment *string
		raw := ""
		if req.Comment != nil {
			raw = *req.Comment
		}
		trimmed, err := class.ValidateComment(raw)
		if err != nil {
			return err
		}
		if trimmed != "" {
			comment = &trimmed
		}

		values := map[string]interface{}{
			"current_stage":          string(req.ToStage),
			"last_stage_change_date": now,
		}
		if current.Milestone(req.ToStage) == nil {
			values[models.MilestoneColumn(req.ToStage)] = now
		}
		if err := s.store.writeColumns(tx, current.ID, values); err != nil {
			return err
		}

		details, err := json.Marshal(class)
		if err != nil {
			return fmt.Errorf("marshal classification: %w", err)
		}
		result.Transition = models.StageTransition{
			InitiativeID: current.ID,
			FromStage:    current.CurrentStage,
			ToStage:      req.ToStage,
			Comment:      comment,
			ActorID:      req.ActorID,
			Details:      datatypes.JSON(details),
			CreatedAt:    now,
		}
		if err := tx.Create(&result.Transition).Error; err != nil {
			return fmt.Errorf("insert stage transition: %w", err)
		}
		result.Classification = class
		return nil
	})
	if err != nil {
		s.reject(req, err)
		return nil, err
	}

	class := result.Classification
	s.logger.Info("stage changed",
		zap.Uint("initiative_id", req.InitiativeID),
		zap.String("from_stage", string(class.From)),
		zap.String("to_stage", string(class.To)),
		zap.String("kind", class.Kind()),
	)
	metrics.IncrementStageTransition(string(class.From), string(class.To), class.Kind())

	s.store.publish(ctx, events.RoutingInitiativeStageChanged, events.StageChanged{
		InitiativeID: req.InitiativeID,
		TransitionID: result.Transition.ID,
		FromStage:    class.From,
		ToStage:      class.To,
		Comment:      result.Transition.Comment,
		ActorID:      req.ActorID,
		IsBackward:   class.IsBackward,
		IsSkipping:   class.IsSkipping,
		OccurredAt:   now,
	})

	updated, err := s.store.GetByID(ctx, req.InitiativeID)
	if err != nil {
		return nil, err
	}
	s.store.index(ctx, updated)
	result.Initiative = updated
	return &result, nil
}

func (s *TransitionService) reject(req TransitionRequest, err error) {
	var reason string
	switch {
	case errors.Is(err, lifecycle.ErrCommentRequired):
		reason = "comment_required"
	case errors.Is(err, lifecycle.ErrSameStage):
		reason = "same_stage"
	case errors.Is(err, lifecycle.ErrInvalidStage):
		reason = "invalid_stage"
	case errors.Is(err, ErrInitiativeNotFound):
		return
	default:
		s.logger.Error("stage transition failed", zap.Uint("initiative_id", req.InitiativeID), zap.Error(err))
		return
	}
	metrics.IncrementRejectedTransition(reason)
	s.logger.Info("stage transition rejected",
		zap.Uint("initiative_id", req.InitiativeID),
		zap.String("to_stage", string(req.ToStage)),
		zap.String("reason", reason),
	)
}

// History lists the transitions of an initiative, newest first.
func (s *TransitionService) History(ctx context.Context, initiativeID uint) ([]models.StageTransition, error) {
	db := s.store.db.WithContext(ctx)
	if err := initiativeExists(db, initiativeID); err != nil {
		return nil, err
	}

	var transitions []models.StageTransition
	err := db.Where("initiative_id = ?", initiativeID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&transitions).Error
	if err != nil {
		return nil, fmt.Errorf("list transitions for initiative %d: %w", initiativeID, err)
	}
	return transitions, nil
}
