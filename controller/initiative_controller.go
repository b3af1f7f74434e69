package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Itish41/InnovationTracker/lifecycle"
	"github.com/Itish41/InnovationTracker/models"
	services "github.com/Itish41/InnovationTracker/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserIDHeader names the acting user. There is no authentication; the header
// only attributes submissions and transitions.
const UserIDHeader = "X-User-ID"

type personRequest struct {
	FirstName  string `json:"first_name" validate:"max=100"`
	LastName   string `json:"last_name" validate:"max=100"`
	Email      string `json:"email" validate:"omitempty,email,max=255"`
	Phone      string `json:"phone" validate:"max=50"`
	Department string `json:"department" validate:"max=100"`
	Function   string `json:"function" validate:"max=100"`
}

func (p *personRequest) trim() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Department = strings.TrimSpace(p.Department)
	p.Function = strings.TrimSpace(p.Function)
}

func (p personRequest) input() services.UserInput {
	return services.UserInput{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Phone:      p.Phone,
		Department: p.Department,
		Function:   p.Function,
	}
}

func (p personRequest) isEmpty() bool {
	return p.FirstName == "" && p.LastName == "" && p.Email == ""
}

type createInitiativeRequest struct {
	Title               string         `json:"title" validate:"required,min=10,max=200"`
	Description         string         `json:"description" validate:"required,min=50,max=5000"`
	ProblemStatement    string         `json:"problem_statement" validate:"required,min=20,max=2000"`
	DetailedDescription string         `json:"detailed_description" validate:"max=10000"`
	Category            string         `json:"category" validate:"required,oneof=TECHNOLOGY PROCESS PRODUCT OTHER"`
	Priority            string         `json:"priority" validate:"omitempty,oneof=CRITICAL HIGH MEDIUM LOW"`
	Submitter           *personRequest `json:"submitter"`
}

func (r *createInitiativeRequest) trim() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.ProblemStatement = strings.TrimSpace(r.ProblemStatement)
	r.DetailedDescription = strings.TrimSpace(r.DetailedDescription)
	r.Category = strings.ToUpper(strings.TrimSpace(r.Category))
	r.Priority = strings.ToUpper(strings.TrimSpace(r.Priority))
	if r.Submitter != nil {
		r.Submitter.trim()
	}
}

type updateInitiativeRequest struct {
	Title               *string `json:"title" validate:"omitempty,min=10,max=200"`
	Description         *string `json:"description" validate:"omitempty,min=50,max=5000"`
	ProblemStatement    *string `json:"problem_statement" validate:"omitempty,min=20,max=2000"`
	DetailedDescription *string `json:"detailed_description" validate:"omitempty,max=10000"`
	Category            *string `json:"category" validate:"omitempty,oneof=TECHNOLOGY PROCESS PRODUCT OTHER"`
	Priority            *string `json:"priority" validate:"omitempty,oneof=CRITICAL HIGH MEDIUM LOW"`
	CurrentStage        *string `json:"current_stage" validate:"omitempty,oneof=IDEA CONCEPT DEVELOPMENT DEPLOYED"`
	TransitionComment   *string `json:"transition_comment"`

	IdeaDate         *time.Time `json:"idea_date"`
	ConceptDate      *time.Time `json:"concept_date"`
	ProjectStartDate *time.Time `json:"project_start_date"`
	DevelopmentDate  *time.Time `json:"development_date"`
	DeploymentDate   *time.Time `json:"deployment_date"`
	CompletionDate   *time.Time `json:"completion_date"`
}

func trimPtr(s *string, upper bool) {
	if s == nil {
		return
	}
	*s = strings.TrimSpace(*s)
	if upper {
		*s = strings.ToUpper(*s)
	}
}

func (r *updateInitiativeRequest) trim() {
	trimPtr(r.Title, false)
	trimPtr(r.Description, false)
	trimPtr(r.ProblemStatement, false)
	trimPtr(r.DetailedDescription, false)
	trimPtr(r.Category, true)
	trimPtr(r.Priority, true)
	trimPtr(r.CurrentStage, true)
}

// fields returns everything except the stage, which goes through the
// transition workflow.
func (r updateInitiativeRequest) fields() services.InitiativeUpdate {
	upd := services.InitiativeUpdate{
		Title:               r.Title,
		Description:         r.Description,
		ProblemStatement:    r.ProblemStatement,
		DetailedDescription: r.DetailedDescription,
		IdeaDate:            r.IdeaDate,
		ConceptDate:         r.ConceptDate,
		ProjectStartDate:    r.ProjectStartDate,
		DevelopmentDate:     r.DevelopmentDate,
		DeploymentDate:      r.DeploymentDate,
		CompletionDate:      r.CompletionDate,
	}
	if r.Category != nil {
		c := models.Category(*r.Category)
		upd.Category = &c
	}
	if r.Priority != nil {
		p := models.Priority(*r.Priority)
		upd.Priority = &p
	}
	return upd
}

// actorID returns the X-User-ID of an existing user, or nil.
func (ctl *InitiativeController) actorID(c *gin.Context) *uint {
	raw := strings.TrimSpace(c.GetHeader(UserIDHeader))
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		ctl.logger.Debug("ignoring malformed user header", zap.String("value", raw))
		return nil
	}
	uid := uint(id)
	if err := ctl.store.UserExists(c.Request.Context(), uid); err != nil {
		if !errors.Is(err, services.ErrUserNotFound) {
			ctl.logger.Warn("user lookup failed", zap.Uint("user_id", uid), zap.Error(err))
		}
		return nil
	}
	return &uid
}

// resolveCreator picks X-User-ID, then the submitter in the body, then the
// default submitter.
func (ctl *InitiativeController) resolveCreator(c *gin.Context, submitter *personRequest) (uint, error) {
	if id := ctl.actorID(c); id != nil {
		return *id, nil
	}
	in := ctl.defaultSubmitter
	if submitter != nil && !submitter.isEmpty() {
		in = submitter.input()
	}
	user, err := ctl.store.EnsureUser(c.Request.Context(), in)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// CreateInitiative handles POST /api/initiatives.
func (ctl *InitiativeController) CreateInitiative(c *gin.Context) {
	var req createInitiativeRequest
	if !bindJSON(c, &req) {
		return
	}
	req.trim()
	if !validateRequest(c, &req) {
		return
	}

	creatorID, err := ctl.resolveCreator(c, req.Submitter)
	if err != nil {
		ctl.respondError(c, err, "create initiative")
		return
	}

	initiative, err := ctl.store.Create(c.Request.Context(), services.InitiativeInput{
		Title:               req.Title,
		Description:         req.Description,
		ProblemStatement:    req.ProblemStatement,
		DetailedDescription: req.DetailedDescription,
		Category:            models.Category(req.Category),
		Priority:            models.Priority(req.Priority),
	}, creatorID)
	if err != nil {
		ctl.respondError(c, err, "create initiative")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Initiative created successfully",
		"initiative": initiative,
	})
}

// GetAllInitiatives handles GET /api/initiatives?stage=&category=&owner=.
func (ctl *InitiativeController) GetAllInitiatives(c *gin.Context) {
	var filters services.ListFilters
	var details []fieldError

	if raw := strings.TrimSpace(c.Query("stage")); raw != "" {
		stage, err := lifecycle.Parse(raw)
		if err != nil {
			details = append(details, fieldError{Field: "stage", Message: "Stage must be one of: IDEA, CONCEPT, DEVELOPMENT, DEPLOYED"})
		}
		filters.Stage = stage
	}
	if raw := strings.ToUpper(strings.TrimSpace(c.Query("category"))); raw != "" {
		category := models.Category(raw)
		if !category.Valid() {
			details = append(details, fieldError{Field: "category", Message: "Category must be one of: TECHNOLOGY, PROCESS, PRODUCT, OTHER"})
		}
		filters.Category = category
	}
	if raw := strings.TrimSpace(c.Query("owner")); raw != "" {
		owner, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			details = append(details, fieldError{Field: "owner", Message: "Owner must be a numeric user id"})
		}
		filters.OwnerID = uint(owner)
	}
	if len(details) > 0 {
		respondValidation(c, details)
		return
	}

	initiatives, err := ctl.store.ListAll(c.Request.Context(), filters)
	if err != nil {
		ctl.respondError(c, err, "fetch initiatives")
		return
	}
	if initiatives == nil {
		initiatives = []models.Initiative{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"count":       len(initiatives),
		"initiatives": initiatives,
	})
}

// GetInitiative handles GET /api/initiatives/:id.
func (ctl *InitiativeController) GetInitiative(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	initiative, err := ctl.store.GetByID(c.Request.Context(), id)
	if err != nil {
		ctl.respondError(c, err, "fetch initiative")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"initiative": initiative,
	})
}

// UpdateInitiative handles PATCH /api/initiatives/:id. A current_stage that
// differs from the stored one goes through the transition workflow first, so
// a rejected move leaves every field untouched. An unchanged stage is a no-op.
func (ctl *InitiativeController) UpdateInitiative(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateInitiativeRequest
	if !bindJSON(c, &req) {
		return
	}
	req.trim()
	if !validateRequest(c, &req) {
		return
	}

	ctx := c.Request.Context()
	current, err := ctl.store.GetByID(ctx, id)
	if err != nil {
		ctl.respondError(c, err, "update initiative")
		return
	}

	response := gin.H{"success": true, "message": "Initiative updated successfully"}
	initiative := current

	if req.CurrentStage != nil && lifecycle.Stage(*req.CurrentStage) != current.CurrentStage {
		result, err := ctl.transitions.Transition(ctx, services.TransitionRequest{
			InitiativeID: id,
			ToStage:      lifecycle.Stage(*req.CurrentStage),
			Comment:      req.TransitionComment,
			ActorID:      ctl.actorID(c),
		})
		if err != nil {
			ctl.respondError(c, err, "update initiative")
			return
		}
		initiative = result.Initiative
		response["transition"] = result.Transition
		response["classification"] = result.Classification
	}

	if upd := req.fields(); !upd.IsEmpty() {
		initiative, err = ctl.store.Update(ctx, id, upd)
		if err != nil {
			ctl.respondError(c, err, "update initiative")
			return
		}
	}

	response["initiative"] = initiative
	c.JSON(http.StatusOK, response)
}

// GetTransitions handles GET /api/initiatives/:id/transitions.
func (ctl *InitiativeController) GetTransitions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	transitions, err := ctl.transitions.History(c.Request.Context(), id)
	if err != nil {
		ctl.respondError(c, err, "fetch transitions")
		return
	}
	if transitions == nil {
		transitions = []models.StageTransition{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"count":       len(transitions),
		"transitions": transitions,
	})
}

// SearchInitiatives handles GET /api/initiatives/search?q=.
func (ctl *InitiativeController) SearchInitiatives(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		badRequest(c, "Query parameter 'q' is required")
		return
	}
	if ctl.search == nil || !ctl.search.Enabled() {
		ctl.respondError(c, services.ErrSearchUnavailable, "search initiatives")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	results, err := ctl.search.Search(c.Request.Context(), query, limit)
	if err != nil {
		ctl.respondError(c, err, "search initiatives")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(results),
		"results": results,
	})
}
