package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Itish41/InnovationTracker/initializers"
	"github.com/Itish41/InnovationTracker/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the schema and
// seeded user types. A single connection keeps the memory database alive.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserType{},
		&models.Initiative{},
		&models.InitiativeUser{},
		&models.StageTransition{},
		&models.Attachment{},
	))
	require.NoError(t, db.Exec(
		`CREATE UNIQUE INDEX idx_initiative_users_primary ON initiative_users (initiative_id, user_type_id) WHERE is_primary`,
	).Error)
	require.NoError(t, initializers.SeedUserTypes(db))
	return db
}

// testClock returns strictly increasing times one second apart.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

func (m *MockPublisher) Close() error { return nil }

// MockIndexer records indexed initiatives.
type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) IndexInitiative(ctx context.Context, initiative *models.Initiative) error {
	args := m.Called(ctx, initiative)
	return args.Error(0)
}

type fixture struct {
	db          *gorm.DB
	clock       *testClock
	store       *InitiativeService
	transitions *TransitionService
	contacts    *ContactService
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	db := newTestDB(t)
	clock := newTestClock()
	store := NewInitiativeService(db, append([]Option{WithClock(clock.Now)}, opts...)...)
	return &fixture{
		db:          db,
		clock:       clock,
		store:       store,
		transitions: NewTransitionService(store),
		contacts:    NewContactService(store),
	}
}

func (f *fixture) user(t *testing.T, first, last, email string) *models.User {
	t.Helper()
	u, err := f.store.EnsureUser(context.Background(), UserInput{FirstName: first, LastName: last, Email: email})
	require.NoError(t, err)
	return u
}

func (f *fixture) initiative(t *testing.T, title string, category models.Category, creatorID uint) *models.Initiative {
	t.Helper()
	in := InitiativeInput{
		Title:            title,
		Description:      fmt.Sprintf("%s: a description that is long enough to pass validation rules.", title),
		ProblemStatement: "Teams lose hours every week on this.",
		Category:         category,
	}
	created, err := f.store.Create(context.Background(), in, creatorID)
	require.NoError(t, err)
	return created
}
