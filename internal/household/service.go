// Package household is the application layer between the surfaces (CLI and
// TUI) and the store. It validates requests against the in-memory mirror,
// writes to the store, and leaves the mirror to be refreshed by the store's
// snapshots. Nothing here patches the mirror after a write.
package household

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tgienger/chores/internal/chores"
	"github.com/tgienger/chores/internal/db"
	"github.com/tgienger/chores/internal/models"
)

// Options configures a Service
type Options struct {
	Logger   *zap.Logger
	Location *time.Location
	// Now overrides the clock; tests pin it.
	Now func() time.Time
	// NewID overrides id generation.
	NewID func() string
}

// Service runs household operations against one store
type Service struct {
	store *db.DB
	state *models.State
	log   *zap.Logger
	loc   *time.Location
	now   func() time.Time
	newID func() string
}

// New returns a Service with an empty mirror. Call Sync or Watch before
// issuing operations.
func New(store *db.DB, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}
	return &Service{
		store: store,
		state: models.NewState(),
		log:   opts.Logger.Named("household"),
		loc:   opts.Location,
		now:   opts.Now,
		newID: opts.NewID,
	}
}

// Store returns the underlying store
func (s *Service) Store() *db.DB { return s.store }

// Location returns the household's time zone
func (s *Service) Location() *time.Location { return s.loc }

// Now returns the current time in the household's time zone
func (s *Service) Now() time.Time { return s.now().In(s.loc) }

// Snapshot returns the current mirror
func (s *Service) Snapshot() models.Snapshot { return s.state.Snapshot() }

// Ready reports whether every collection has arrived
func (s *Service) Ready() bool { return s.state.Ready() }

// Sync loads every collection into the mirror once. One-shot commands use
// it instead of Watch.
func (s *Service) Sync(ctx context.Context) error {
	for _, c := range models.Collections {
		change, err := s.store.LoadCollection(ctx, c)
		if err != nil {
			return fmt.Errorf("sync %s: %w", c, err)
		}
		s.state.Replace(change)
	}
	return nil
}

// Watch subscribes the mirror to every collection. Each delivered snapshot
// replaces its collection in the mirror before fn is called with it. The
// returned func stops watching.
func (s *Service) Watch(fn func(models.Change)) (stop func()) {
	var unsubs []func()
	for _, c := range models.Collections {
		unsubs = append(unsubs, s.store.Subscribe(c, func(change models.Change) {
			s.state.Replace(change)
			if fn != nil {
				fn(change)
			}
		}))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// FindTask resolves a task by id or by case-insensitive name
func (s *Service) FindTask(ref string) (models.Task, error) {
	snap := s.state.Snapshot()
	if t, ok := snap.Task(ref); ok {
		return t, nil
	}
	ref = strings.TrimSpace(ref)
	for _, t := range snap.Tasks {
		if strings.EqualFold(t.Name, ref) {
			return t, nil
		}
	}
	return models.Task{}, fmt.Errorf("%w: %s", chores.ErrTaskNotFound, ref)
}

// FindMember resolves a member by id or by case-insensitive name
func (s *Service) FindMember(ref string) (models.Member, error) {
	snap := s.state.Snapshot()
	if m, ok := snap.Member(ref); ok {
		return m, nil
	}
	ref = strings.TrimSpace(ref)
	for _, m := range snap.Members {
		if strings.EqualFold(m.Name, ref) {
			return m, nil
		}
	}
	return models.Member{}, fmt.Errorf("%w: %s", chores.ErrMemberNotFound, ref)
}

// commit applies a batch and logs store failures
func (s *Service) commit(ctx context.Context, op string, b *db.Batch, fields ...zap.Field) error {
	if err := b.Commit(ctx); err != nil {
		s.log.Error(op+" failed", append(fields, zap.Error(err))...)
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Debug(op, fields...)
	return nil
}
