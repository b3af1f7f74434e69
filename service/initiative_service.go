package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Itish41/InnovationTracker/events"
	"github.com/Itish41/InnovationTracker/lifecycle"
	"github.com/Itish41/InnovationTracker/metrics"
	"github.com/Itish41/InnovationTracker/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InitiativeService persists initiatives and their role associations.
// Update is a raw write; the stage policy lives in TransitionService.
type InitiativeService struct {
	db        *gorm.DB
	logger    *zap.Logger
	indexer   Indexer
	publisher events.Publisher
	now       func() time.Time
}

func NewInitiativeService(db *gorm.DB, opts ...Option) *InitiativeService {
	o := newOptions(opts)
	return &InitiativeService{
		db:        db,
		logger:    o.logger,
		indexer:   o.indexer,
		publisher: o.publisher,
		now:       o.now,
	}
}

// InitiativeInput is the content of a new submission.
type InitiativeInput struct {
	Title               string
	Description         string
	ProblemStatement    string
	DetailedDescription string
	Category            models.Category
	Priority            models.Priority
}

// Create inserts an initiative in IDEA and links creatorUserID as its
// primary submitter.
func (s *InitiativeService) Create(ctx context.Context, in InitiativeInput, creatorUserID uint) (*models.Initiative, error) {
	now := s.now()
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	initiative := models.Initiative{
		Title:               strings.TrimSpace(in.Title),
		Description:         strings.TrimSpace(in.Description),
		ProblemStatement:    strings.TrimSpace(in.ProblemStatement),
		DetailedDescription: strings.TrimSpace(in.DetailedDescription),
		Category:            in.Category,
		Priority:            priority,
		CurrentStage:        lifecycle.StageIdea,
		IdeaDate:            &now,
		CreatedAt:           now,
		UpdatedAt:           now,
		LastStageChangeDate: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findUser(tx, creatorUserID); err != nil {
			return err
		}
		if err := tx.Create(&initiative).Error; err != nil {
			return fmt.Errorf("insert initiative: %w", err)
		}
		_, err := assignRole(tx, initiative.ID, creatorUserID, models.UserTypeSubmitter, true, now)
		return err
	})
	if err != nil {
		s.logger.Error("create initiative failed", zap.Uint("creator_id", creatorUserID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("initiative created",
		zap.Uint("initiative_id", initiative.ID),
		zap.String("category", string(initiative.Category)),
		zap.Uint("creator_id", creatorUserID),
	)
	metrics.IncrementInitiativeCreated(string(initiative.Category))

	created, err := s.GetByID(ctx, initiative.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.RoutingInitiativeCreated, events.InitiativeCreated{
		InitiativeID: created.ID,
		Title:        created.Title,
		Category:     string(created.Category),
		SubmitterID:  creatorUserID,
		OccurredAt:   now,
	})
	s.index(ctx, created)
	return created, nil
}

// GetByID returns the initiative with its associations and role summary.
func (s *InitiativeService) GetByID(ctx context.Context, id uint) (*models.Initiative, error) {
	db := s.db.WithContext(ctx)

	var initiative models.Initiative
	if err := db.First(&initiative, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInitiativeNotFound
		}
		return nil, fmt.Errorf("load initiative %d: %w", id, err)
	}

	users, err := loadAssociations(db, []uint{id})
	if err != nil {
		return nil, err
	}
	initiative.Users = users[id]
	if initiative.Users == nil {
		initiative.Users = []models.InitiativeUserView{}
	}
	initiative.ApplyRoleSummary(initiative.Users)
	return &initiative, nil
}

// Exists returns ErrInitiativeNotFound when id is unknown.
func (s *InitiativeService) Exists(ctx context.Context, id uint) error {
	return initiativeExists(s.db.WithContext(ctx), id)
}

func initiativeExists(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Initiative{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check initiative %d: %w", id, err)
	}
	if count == 0 {
		return ErrInitiativeNotFound
	}
	return nil
}

// ListFilters narrows ListAll. Zero values mean no filter.
type ListFilters struct {
	Stage    lifecycle.Stage
	Category models.Category
	// OwnerID matches the primary BUSINESS_OWNER.
	OwnerID uint
}

// ListAll returns initiatives newest first, each annotated with the role
// summary fields.
func (s *InitiativeService) ListAll(ctx context.Context, filters ListFilters) ([]models.Initiative, error) {
	db := s.db.WithContext(ctx)

	q := db.Model(&models.Initiative{})
	if filters.Stage != "" {
		q = q.Where("current_stage = ?", string(filters.Stage))
	}
	if filters.Category != "" {
		q = q.Where("category = ?", string(filters.Category))
	}
	if filters.OwnerID != 0 {
		owners := db.Model(&models.InitiativeUser{}).
			Select("initiative_users.initiative_id").
			Joins("JOIN user_types ON user_types.id = initiative_users.user_type_id").
			Where("user_types.type_name = ? AND initiative_users.user_id = ? AND initiative_users.is_primary = ?",
				models.UserTypeBusinessOwner, filters.OwnerID, true)
		q = q.Where("id IN (?)", owners)
	}

	var initiatives []models.Initiative
	if err := q.Order("created_at DESC").Order("id DESC").Find(&initiatives).Error; err != nil {
		return nil, fmt.Errorf("list initiatives: %w", err)
	}

	ids := make([]uint, len(initiatives))
	for i := range initiatives {
		ids[i] = initiatives[i].ID
	}
	users, err := loadAssociations(db, ids)
	if err != nil {
		return nil, err
	}
	for i := range initiatives {
		initiatives[i].ApplyRoleSummary(users[initiatives[i].ID])
	}
	return initiatives, nil
}

// InitiativeUpdate holds the fields a PATCH may change. Nil means untouched.
type InitiativeUpdate struct {
	Title               *string
	Description         *string
	ProblemStatement    *string
	DetailedDescription *string
	Category            *models.Category
	Priority            *models.Priority
	CurrentStage        *lifecycle.Stage

	IdeaDate         *time.Time
	ConceptDate      *time.Time
	ProjectStartDate *time.Time
	DevelopmentDate  *time.Time
	DeploymentDate   *time.Time
	CompletionDate   *time.Time
}

// IsEmpty reports whether no field is set.
func (u InitiativeUpdate) IsEmpty() bool {
	return len(u.columns()) == 0
}

func (u InitiativeUpdate) columns() map[string]interface{} {
	values := map[string]interface{}{}
	setString := func(col string, v *string) {
		if v != nil {
			values[col] = strings.TrimSpace(*v)
		}
	}
	setTime := func(col string, v *time.Time) {
		if v != nil {
			values[col] = *v
		}
	}

	setString("title", u.Title)
	setString("description", u.Description)
	setString("problem_statement", u.ProblemStatement)
	setString("detailed_description", u.DetailedDescription)
	if u.Category != nil {
		values["category"] = string(*u.Category)
	}
	if u.Priority != nil {
		values["priority"] = string(*u.Priority)
	}
	if u.CurrentStage != nil {
		values["current_stage"] = string(*u.CurrentStage)
	}
	setTime("idea_date", u.IdeaDate)
	setTime("concept_date", u.ConceptDate)
	setTime("project_start_date", u.ProjectStartDate)
	setTime("development_date", u.DevelopmentDate)
	setTime("deployment_date", u.DeploymentDate)
	setTime("completion_date", u.CompletionDate)
	return values
}

// Update writes the supplied fields and bumps updated_at. A changed
// current_stage is written as-is; callers that need the stage policy go
// through TransitionService.
func (s *InitiativeService) Update(ctx context.Context, id uint, upd InitiativeUpdate) (*models.Initiative, error) {
	if upd.CurrentStage != nil && !upd.CurrentStage.Valid() {
		return nil, &lifecycle.StageError{Stage: *upd.CurrentStage}
	}

	values := upd.columns()
	if upd.CurrentStage != nil {
		values["last_stage_change_date"] = s.now()
	}
	if err := s.writeColumns(s.db.WithContext(ctx), id, values); err != nil {
		if !errors.Is(err, ErrInitiativeNotFound) {
			s.logger.Error("update initiative failed", zap.Uint("initiative_id", id), zap.Error(err))
		}
		return nil, err
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.index(ctx, updated)
	return updated, nil
}

// writeColumns is the raw column write shared with TransitionService.
func (s *InitiativeService) writeColumns(tx *gorm.DB, id uint, values map[string]interface{}) error {
	values["updated_at"] = s.now()
	res := tx.Model(&models.Initiative{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return fmt.Errorf("update initiative %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInitiativeNotFound
	}
	return nil
}

// lockInitiative loads the row FOR UPDATE. SQLite ignores the locking clause
// and serializes writers on its own.
func lockInitiative(tx *gorm.DB, id uint) (*models.Initiative, error) {
	var initiative models.Initiative
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&initiative, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInitiativeNotFound
		}
		return nil, fmt.Errorf("lock initiative %d: %w", id, err)
	}
	return &initiative, nil
}

// EnsureUser returns the user matching in.Email, creating it if needed.
func (s *InitiativeService) EnsureUser(ctx context.Context, in UserInput) (*models.User, error) {
	return findOrCreateUser(s.db.WithContext(ctx), in, s.now())
}

// UserExists returns ErrUserNotFound when id is unknown.
func (s *InitiativeService) UserExists(ctx context.Context, id uint) error {
	_, err := findUser(s.db.WithContext(ctx), id)
	return err
}

func (s *InitiativeService) publish(ctx context.Context, routingKey string, payload any) {
	if err := s.publisher.Publish(ctx, routingKey, payload); err != nil {
		metrics.IncrementEventPublishFailure(routingKey)
		s.logger.Warn("publish event failed", zap.String("routing_key", routingKey), zap.Error(err))
	}
}

// index keeps the search index in sync. Failures never fail the write.
func (s *InitiativeService) index(ctx context.Context, initiative *models.Initiative) {
	if err := s.indexer.IndexInitiative(ctx, initiative); err != nil {
		s.logger.Warn("index initiative failed", zap.Uint("initiative_id", initiative.ID), zap.Error(err))
	}
}
