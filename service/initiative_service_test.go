package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Itish41/InnovationTracker/events"
	"github.com/Itish41/InnovationTracker/lifecycle"
	"github.com/Itish41/InnovationTracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInitiativeService_Create(t *testing.T) {
	pub := &MockPublisher{}
	pub.On("Publish", mock.Anything, events.RoutingInitiativeCreated, mock.AnythingOfType("events.InitiativeCreated")).Return(nil).Once()
	idx := &MockIndexer{}
	idx.On("IndexInitiative", mock.Anything, mock.AnythingOfType("*models.Initiative")).Return(nil).Once()

	f := newFixture(t, WithPublisher(pub), WithIndexer(idx))
	ada := f.user(t, "Ada", "Lovelace", "ada@example.com")

	created := f.initiative(t, "Automate invoice matching", models.CategoryProcess, ada.ID)

	assert.NotZero(t, created.ID)
	assert.Equal(t, lifecycle.StageIdea, created.CurrentStage)
	assert.Equal(t, models.PriorityMedium, created.Priority)
	require.NotNil(t, created.IdeaDate)
	assert.Equal(t, created.CreatedAt.Unix(), created.LastStageChangeDate.Unix())

	require.Len(t, created.Users, 1)
	assert.Equal(t, models.UserTypeSubmitter, created.Users[0].TypeName)
	assert.True(t, created.Users[0].IsPrimary)
	assert.Equal(t, ada.ID, created.Users[0].UserID)
	assert.Equal(t, "Ada Lovelace", created.SubmitterName)
	assert.Equal(t, "ada@example.com", created.SubmitterEmail)

	pub.AssertExpectations(t)
	idx.AssertExpectations(t)
	payload := pub.Calls[0].Arguments.Get(2).(events.InitiativeCreated)
	assert.Equal(t, created.ID, payload.InitiativeID)
	assert.Equal(t, ada.ID, payload.SubmitterID)
}

func TestInitiativeService_Create_KeepsPriority(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Grace", "Hopper", "grace@example.com")

	created, err := f.store.Create(context.Background(), InitiativeInput{
		Title:            "Compiler for business users",
		Description:      "Let analysts describe reports in plain English and compile them to SQL.",
		ProblemStatement: "Report requests queue for weeks.",
		Category:         models.CategoryTechnology,
		Priority:         models.PriorityCritical,
	}, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityCritical, created.Priority)
}

func TestInitiativeService_Create_UnknownCreator(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.Create(context.Background(), InitiativeInput{
		Title:    "Orphaned initiative",
		Category: models.CategoryOther,
	}, 999)
	assert.True(t, errors.Is(err, ErrUserNotFound))

	var count int64
	require.NoError(t, f.db.Model(&models.Initiative{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestInitiativeService_Create_PublishFailureDoesNotFail(t *testing.T) {
	pub := &MockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	f := newFixture(t, WithPublisher(pub))
	u := f.user(t, "Alan", "Turing", "alan@example.com")

	created := f.initiative(t, "Decode supplier emails", models.CategoryProduct, u.ID)
	assert.NotZero(t, created.ID)
}

func TestInitiativeService_GetByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrInitiativeNotFound)
}

func TestInitiativeService_GetByID_RoleSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.user(t, "Ada", "Lovelace", "ada@example.com")
	created := f.initiative(t, "Shared parts catalogue", models.CategoryProduct, sub.ID)

	_, err := f.contacts.Create(ctx, created.ID, ContactInput{
		UserInput: UserInput{FirstName: "Bob", LastName: "Owner", Email: "bob@example.com", Function: "Finance", Department: "Controlling"},
		TypeName:  models.UserTypeBusinessOwner,
		IsPrimary: true,
	})
	require.NoError(t, err)
	_, err = f.contacts.Create(ctx, created.ID, ContactInput{
		UserInput: UserInput{FirstName: "Ivy", LastName: "Tech", Email: "ivy@example.com", Department: "Platform"},
		TypeName:  models.UserTypeITOwner,
	})
	require.NoError(t, err)

	got, err := f.store.GetByID(ctx, created.ID)
	require.NoError(t, err)

	assert.Len(t, got.Users, 3)
	assert.Equal(t, "Ada Lovelace", got.SubmitterName)
	assert.Equal(t, "Bob Owner", got.BusinessOwnerName)
	assert.Equal(t, "Finance", got.BusinessOwnerFunction)
	assert.Equal(t, "Controlling", got.BusinessOwnerDepartment)
	assert.Equal(t, "Ivy Tech", got.ITOwnerName)
	assert.Equal(t, "Platform", got.ITOwnerDepartment)
}

func TestInitiativeService_ListAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.user(t, "Ada", "Lovelace", "ada@example.com")

	first := f.initiative(t, "First process idea", models.CategoryProcess, sub.ID)
	second := f.initiative(t, "Second tech idea", models.CategoryTechnology, sub.ID)
	third := f.initiative(t, "Third tech idea", models.CategoryTechnology, sub.ID)

	concept := lifecycle.StageConcept
	_, err := f.store.Update(ctx, second.ID, InitiativeUpdate{CurrentStage: &concept})
	require.NoError(t, err)

	owner, err := f.contacts.Create(ctx, third.ID, ContactInput{
		UserInput: UserInput{FirstName: "Bob", LastName: "Owner", Email: "bob@example.com"},
		TypeName:  models.UserTypeBusinessOwner,
		IsPrimary: true,
	})
	require.NoError(t, err)

	ids := func(list []models.Initiative) []uint {
		out := make([]uint, len(list))
		for i, in := range list {
			out[i] = in.ID
		}
		return out
	}

	tests := []struct {
		name    string
		filters ListFilters
		want    []uint
	}{
		{name: "all newest first", want: []uint{third.ID, second.ID, first.ID}},
		{name: "by stage", filters: ListFilters{Stage: lifecycle.StageConcept}, want: []uint{second.ID}},
		{name: "by category", filters: ListFilters{Category: models.CategoryTechnology}, want: []uint{third.ID, second.ID}},
		{name: "by owner", filters: ListFilters{OwnerID: owner.UserID}, want: []uint{third.ID}},
		{name: "no match", filters: ListFilters{Stage: lifecycle.StageDeployed}, want: []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.store.ListAll(ctx, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	all, err := f.store.ListAll(ctx, ListFilters{})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", all[0].SubmitterName)
	assert.Equal(t, "Bob Owner", all[0].BusinessOwnerName)
	assert.Empty(t, all[1].BusinessOwnerName)
}

func TestInitiativeService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.user(t, "Ada", "Lovelace", "ada@example.com")
	target := f.initiative(t, "Target initiative", models.CategoryProcess, sub.ID)
	other := f.initiative(t, "Bystander initiative", models.CategoryProcess, sub.ID)

	title := "  Renamed target initiative  "
	high := models.PriorityHigh
	updated, err := f.store.Update(ctx, target.ID, InitiativeUpdate{Title: &title, Priority: &high})
	require.NoError(t, err)

	assert.Equal(t, "Renamed target initiative", updated.Title)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, target.Description, updated.Description)
	assert.True(t, updated.UpdatedAt.After(target.UpdatedAt))

	untouched, err := f.store.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, other.Title, untouched.Title)
	assert.Equal(t, other.UpdatedAt.Unix(), untouched.UpdatedAt.Unix())
}

// The store does not apply the stage policy: a skipping move without a
// comment is written as-is and leaves no transition record.
func TestInitiativeService_Update_RawStageWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.user(t, "Ada", "Lovelace", "ada@example.com")
	target := f.initiative(t, "Raw write initiative", models.CategoryProcess, sub.ID)

	deployed := lifecycle.StageDeployed
	updated, err := f.store.Update(ctx, target.ID, InitiativeUpdate{CurrentStage: &deployed})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StageDeployed, updated.CurrentStage)
	assert.True(t, updated.LastStageChangeDate.After(target.LastStageChangeDate))

	var transitions int64
	require.NoError(t, f.db.Model(&models.StageTransition{}).Count(&transitions).Error)
	assert.Zero(t, transitions)
}

func TestInitiativeService_Update_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sub := f.user(t, "Ada", "Lovelace", "ada@example.com")
	target := f.initiative(t, "Error initiative", models.CategoryProcess, sub.ID)

	title := "Does not matter"
	_, err := f.store.Update(ctx, 999, InitiativeUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrInitiativeNotFound)

	bogus := lifecycle.Stage("ARCHIVED")
	_, err = f.store.Update(ctx, target.ID, InitiativeUpdate{CurrentStage: &bogus})
	assert.ErrorIs(t, err, lifecycle.ErrInvalidStage)
}

func TestInitiativeUpdate_IsEmpty(t *testing.T) {
	assert.True(t, InitiativeUpdate{}.IsEmpty())
	title := "x"
	assert.False(t, InitiativeUpdate{Title: &title}.IsEmpty())
}

func TestInitiativeService_EnsureUser_DedupByEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.store.EnsureUser(ctx, UserInput{FirstName: "Ada", LastName: "Lovelace", Email: "Ada@Example.com "})
	require.NoError(t, err)
	b, err := f.store.EnsureUser(ctx, UserInput{FirstName: "A.", LastName: "L.", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "ada@example.com", b.Email)

	c, err := f.store.EnsureUser(ctx, UserInput{FirstName: "No", LastName: "Email"})
	require.NoError(t, err)
	d, err := f.store.EnsureUser(ctx, UserInput{FirstName: "No", LastName: "Email"})
	require.NoError(t, err)
	assert.NotEqual(t, c.ID, d.ID)

	assert.NoError(t, f.store.UserExists(ctx, a.ID))
	assert.ErrorIs(t, f.store.UserExists(ctx, 999), ErrUserNotFound)
}
