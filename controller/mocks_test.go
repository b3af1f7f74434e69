package controller

import (
	"context"

	"github.com/Itish41/InnovationTracker/models"
	services "github.com/Itish41/InnovationTracker/service"
	"github.com/stretchr/testify/mock"
)

type MockStore struct{ mock.Mock }

func (m *MockStore) Create(ctx context.Context, in services.InitiativeInput, creatorUserID uint) (*models.Initiative, error) {
	args := m.Called(ctx, in, creatorUserID)
	initiative, _ := args.Get(0).(*models.Initiative)
	return initiative, args.Error(1)
}

func (m *MockStore) GetByID(ctx context.Context, id uint) (*models.Initiative, error) {
	args := m.Called(ctx, id)
	initiative, _ := args.Get(0).(*models.Initiative)
	return initiative, args.Error(1)
}

func (m *MockStore) ListAll(ctx context.Context, filters services.ListFilters) ([]models.Initiative, error) {
	args := m.Called(ctx, filters)
	list, _ := args.Get(0).([]models.Initiative)
	return list, args.Error(1)
}

func (m *MockStore) Update(ctx context.Context, id uint, upd services.InitiativeUpdate) (*models.Initiative, error) {
	args := m.Called(ctx, id, upd)
	initiative, _ := args.Get(0).(*models.Initiative)
	return initiative, args.Error(1)
}

func (m *MockStore) EnsureUser(ctx context.Context, in services.UserInput) (*models.User, error) {
	args := m.Called(ctx, in)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockStore) UserExists(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type MockTransitions struct{ mock.Mock }

func (m *MockTransitions) Transition(ctx context.Context, req services.TransitionRequest) (*services.TransitionResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*services.TransitionResult)
	return res, args.Error(1)
}

func (m *MockTransitions) History(ctx context.Context, initiativeID uint) ([]models.StageTransition, error) {
	args := m.Called(ctx, initiativeID)
	list, _ := args.Get(0).([]models.StageTransition)
	return list, args.Error(1)
}

type MockContacts struct{ mock.Mock }

func (m *MockContacts) List(ctx context.Context, initiativeID uint) ([]models.InitiativeUserView, error) {
	args := m.Called(ctx, initiativeID)
	list, _ := args.Get(0).([]models.InitiativeUserView)
	return list, args.Error(1)
}

func (m *MockContacts) Create(ctx context.Context, initiativeID uint, in services.ContactInput) (*models.InitiativeUserView, error) {
	args := m.Called(ctx, initiativeID, in)
	v, _ := args.Get(0).(*models.InitiativeUserView)
	return v, args.Error(1)
}

func (m *MockContacts) Update(ctx context.Context, initiativeID, contactID uint, upd services.ContactUpdate) (*models.InitiativeUserView, error) {
	args := m.Called(ctx, initiativeID, contactID, upd)
	v, _ := args.Get(0).(*models.InitiativeUserView)
	return v, args.Error(1)
}

func (m *MockContacts) Delete(ctx context.Context, initiativeID, contactID uint) error {
	return m.Called(ctx, initiativeID, contactID).Error(0)
}

type MockAttachments struct{ mock.Mock }

func (m *MockAttachments) List(ctx context.Context, initiativeID uint) ([]models.Attachment, error) {
	args := m.Called(ctx, initiativeID)
	list, _ := args.Get(0).([]models.Attachment)
	return list, args.Error(1)
}

func (m *MockAttachments) Upload(ctx context.Context, initiativeID uint, file services.FileUpload, createdBy *uint) (*models.Attachment, error) {
	args := m.Called(ctx, initiativeID, file, createdBy)
	a, _ := args.Get(0).(*models.Attachment)
	return a, args.Error(1)
}

func (m *MockAttachments) AddLink(ctx context.Context, initiativeID uint, in services.LinkInput, createdBy *uint) (*models.Attachment, error) {
	args := m.Called(ctx, initiativeID, in, createdBy)
	a, _ := args.Get(0).(*models.Attachment)
	return a, args.Error(1)
}

func (m *MockAttachments) Delete(ctx context.Context, initiativeID, attachmentID uint) error {
	return m.Called(ctx, initiativeID, attachmentID).Error(0)
}

func (m *MockAttachments) MaxBytes() int64 { return 50 << 20 }

type MockSearch struct{ mock.Mock }

func (m *MockSearch) Enabled() bool { return m.Called().Bool(0) }

func (m *MockSearch) Search(ctx context.Context, query string, limit int) ([]services.SearchHit, error) {
	args := m.Called(ctx, query, limit)
	hits, _ := args.Get(0).([]services.SearchHit)
	return hits, args.Error(1)
}
