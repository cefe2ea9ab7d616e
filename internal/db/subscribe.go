package db

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/tgienger/chores/internal/models"
)

type (
	Collection = models.Collection
	Change     = models.Change
)

const (
	Members     = models.CollectionMembers
	Tasks       = models.CollectionTasks
	History     = models.CollectionHistory
	Assignments = models.CollectionAssignments
)

// Listener receives the full contents of a collection
type Listener func(Change)

// Subscribe registers fn for a collection. fn is called with the current
// contents right away and again after every committed write to the
// collection. Calls happen one at a time on a single dispatcher goroutine,
// so fn should hand work off rather than block. The returned func
// unsubscribes.
func (db *DB) Subscribe(c Collection, fn Listener) (unsubscribe func()) {
	id := db.hub.add(c, fn)
	db.hub.publish(c)
	return func() { db.hub.remove(c, id) }
}

// Republish pushes fresh snapshots of the given collections, or of all of
// them when none are named.
func (db *DB) Republish(cs ...Collection) {
	if len(cs) == 0 {
		cs = models.Collections
	}
	db.hub.publish(cs...)
}

type hub struct {
	db *DB

	mu      sync.Mutex
	subs    map[Collection]map[int]Listener
	nextID  int
	pending map[Collection]bool

	wake   chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func newHub(db *DB) *hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &hub{
		db:      db,
		subs:    make(map[Collection]map[int]Listener),
		pending: make(map[Collection]bool),
		wake:    make(chan struct{}, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go h.run(ctx)
	return h
}

func (h *hub) add(c Collection, fn Listener) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	if h.subs[c] == nil {
		h.subs[c] = make(map[int]Listener)
	}
	h.subs[c][h.nextID] = fn
	return h.nextID
}

func (h *hub) remove(c Collection, id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[c], id)
}

// publish marks collections dirty and wakes the dispatcher without blocking.
// Bursts of writes coalesce into one snapshot per collection.
func (h *hub) publish(cs ...Collection) {
	if len(cs) == 0 {
		return
	}
	h.mu.Lock()
	for _, c := range cs {
		h.pending[c] = true
	}
	h.mu.Unlock()

	select {
	case h.wake <- struct{}{}:
	default:
	}
}

func (h *hub) close() {
	h.once.Do(func() {
		h.cancel()
		<-h.done
	})
}

func (h *hub) run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.wake:
			h.dispatch(ctx)
		}
	}
}

func (h *hub) dispatch(ctx context.Context) {
	h.mu.Lock()
	pending := h.pending
	h.pending = make(map[Collection]bool)
	h.mu.Unlock()

	for _, c := range models.Collections {
		if !pending[c] || ctx.Err() != nil {
			continue
		}

		h.mu.Lock()
		listeners := make([]Listener, 0, len(h.subs[c]))
		for _, fn := range h.subs[c] {
			listeners = append(listeners, fn)
		}
		h.mu.Unlock()
		if len(listeners) == 0 {
			continue
		}

		change, err := h.db.LoadCollection(ctx, c)
		if err != nil {
			// Subscribers keep their last snapshot; the next write retries.
			h.db.log.Warn("snapshot load failed", zap.String("collection", string(c)), zap.Error(err))
			continue
		}
		for _, fn := range listeners {
			fn(change)
		}
	}
}
