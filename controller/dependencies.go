package controller

import (
	"context"

	"github.com/Itish41/InnovationTracker/models"
	services "github.com/Itish41/InnovationTracker/service"
	"go.uber.org/zap"
)

// InitiativeStore is the persistence the handlers need. Implemented by
// *services.InitiativeService.
type InitiativeStore interface {
	Create(ctx context.Context, in services.InitiativeInput, creatorUserID uint) (*models.Initiative, error)
	GetByID(ctx context.Context, id uint) (*models.Initiative, error)
	ListAll(ctx context.Context, filters services.ListFilters) ([]models.Initiative, error)
	Update(ctx context.Context, id uint, upd services.InitiativeUpdate) (*models.Initiative, error)
	EnsureUser(ctx context.Context, in services.UserInput) (*models.User, error)
	UserExists(ctx context.Context, id uint) error
}

// StageTransitioner applies the stage policy. Implemented by
// *services.TransitionService.
type StageTransitioner interface {
	Transition(ctx context.Context, req services.TransitionRequest) (*services.TransitionResult, error)
	History(ctx context.Context, initiativeID uint) ([]models.StageTransition, error)
}

type ContactManager interface {
	List(ctx context.Context, initiativeID uint) ([]models.InitiativeUserView, error)
	Create(ctx context.Context, initiativeID uint, in services.ContactInput) (*models.InitiativeUserView, error)
	Update(ctx context.Context, initiativeID, contactID uint, upd services.ContactUpdate) (*models.InitiativeUserView, error)
	Delete(ctx context.Context, initiativeID, contactID uint) error
}

type AttachmentManager interface {
	List(ctx context.Context, initiativeID uint) ([]models.Attachment, error)
	Upload(ctx context.Context, initiativeID uint, file services.FileUpload, createdBy *uint) (*models.Attachment, error)
	AddLink(ctx context.Context, initiativeID uint, in services.LinkInput, createdBy *uint) (*models.Attachment, error)
	Delete(ctx context.Context, initiativeID, attachmentID uint) error
	MaxBytes() int64
}

type Searcher interface {
	Enabled() bool
	Search(ctx context.Context, query string, limit int) ([]services.SearchHit, error)
}

// Dependencies wires the controller. Search may be nil.
type Dependencies struct {
	Store       InitiativeStore
	Transitions StageTransitioner
	Contacts    ContactManager
	Attachments AttachmentManager
	Search      Searcher
	// DefaultSubmitter is used when a submission names no creator.
	DefaultSubmitter services.UserInput
	Logger           *zap.Logger
}

// InitiativeController handles the /api/initiatives routes.
type InitiativeController struct {
	store            InitiativeStore
	transitions      StageTransitioner
	contacts         ContactManager
	attachments      AttachmentManager
	search           Searcher
	defaultSubmitter services.UserInput
	logger           *zap.Logger
}

func NewInitiativeController(deps Dependencies) *InitiativeController {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InitiativeController{
		store:            deps.Store,
		transitions:      deps.Transitions,
		contacts:         deps.Contacts,
		attachments:      deps.Attachments,
		search:           deps.Search,
		defaultSubmitter: deps.DefaultSubmitter,
		logger:           logger,
	}
}
