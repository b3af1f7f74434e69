package services

import (
	"context"
	"time"

	"github.com/Itish41/InnovationTracker/events"
	"github.com/Itish41/InnovationTracker/models"
	"go.uber.org/zap"
)

// Indexer receives the current state of an initiative after every write.
type Indexer interface {
	IndexInitiative(ctx context.Context, initiative *models.Initiative) error
}

type nopIndexer struct{}

func (nopIndexer) IndexInitiative(context.Context, *models.Initiative) error { return nil }

type options struct {
	logger    *zap.Logger
	indexer   Indexer
	publisher events.Publisher
	now       func() time.Time
}

// Option customizes a service.
type Option func(*options)

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithIndexer sets the search index kept in sync with initiative writes.
func WithIndexer(indexer Indexer) Option {
	return func(o *options) {
		if indexer != nil {
			o.indexer = indexer
		}
	}
}

// WithPublisher sets where domain events go.
func WithPublisher(publisher events.Publisher) Option {
	return func(o *options) {
		if publisher != nil {
			o.publisher = publisher
		}
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:    zap.NewNop(),
		indexer:   nopIndexer{},
		publisher: events.Nop{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
