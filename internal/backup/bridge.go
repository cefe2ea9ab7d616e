package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tgienger/chores/internal/db"
	"github.com/tgienger/chores/internal/models"
)

const (
	// historyChunk caps how many history entries one upload batch carries.
	historyChunk = 500
	// downloadHistory is how much history a download keeps locally.
	downloadHistory = 100
)

// ErrNoLocalData is returned by Upload when the local copy is missing or
// holds neither members nor tasks.
var ErrNoLocalData = errors.New("no local data to upload")

// Counts reports how many records a transfer moved
type Counts struct {
	Members     int
	Tasks       int
	History     int
	Assignments int
}

func (c Counts) String() string {
	return fmt.Sprintf("%d members, %d tasks, %d history entries, %d assignments",
		c.Members, c.Tasks, c.History, c.Assignments)
}

// Options configures a Bridge
type Options struct {
	Logger *zap.Logger
	Now    func() time.Time
}

// Bridge copies household data between the store and files
type Bridge struct {
	store *db.DB
	log   *zap.Logger
	now   func() time.Time
}

// New returns a Bridge over store
func New(store *db.DB, opts Options) *Bridge {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Bridge{store: store, log: opts.Logger.Named("backup"), now: opts.Now}
}

// DefaultLocalPath is local.json in the data directory
func DefaultLocalPath() (string, error) {
	dir, err := db.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "local.json"), nil
}

// snapshot reads every collection concurrently from one consistent state.
// historyLimit <= 0 reads all history.
func (b *Bridge) snapshot(ctx context.Context, historyLimit int) (*Document, Counts, error) {
	var (
		members     []models.Member
		tasks       []models.Task
		history     []models.HistoryEntry
		assignments []models.Assignment
	)

	// One read transaction keeps a concurrent write from landing between
	// the collections.
	err := b.store.ReadTx(ctx, func(r db.Reader) error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			members, err = r.ListMembers(gctx)
			return err
		})
		g.Go(func() (err error) {
			tasks, err = r.ListTasks(gctx)
			return err
		})
		g.Go(func() (err error) {
			history, err = r.ListHistory(gctx, historyLimit)
			return err
		})
		g.Go(func() (err error) {
			assignments, err = r.ListAssignments(gctx)
			return err
		})
		return g.Wait()
	})
	if err != nil {
		return nil, Counts{}, err
	}

	counts := Counts{len(members), len(tasks), len(history), len(assignments)}
	return NewDocument(b.now(), members, tasks, history, assignments), counts, nil
}

// Export writes the whole household, history included, to path
func (b *Bridge) Export(ctx context.Context, path string) (Counts, error) {
	doc, counts, err := b.snapshot(ctx, 0)
	if err != nil {
		return Counts{}, fmt.Errorf("export: %w", err)
	}
	if err := WriteFile(path, doc); err != nil {
		return Counts{}, err
	}
	b.log.Info("exported", zap.String("path", path), zap.Stringer("counts", counts))
	return counts, nil
}

// Import replaces everything in the store with the document at path, in
// one batch. A malformed document changes nothing.
func (b *Bridge) Import(ctx context.Context, path string) (Counts, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return Counts{}, err
	}
	members, tasks, history, assignments, err := doc.Records()
	if err != nil {
		return Counts{}, err
	}

	batch := b.store.Batch()
	for _, c := range models.Collections {
		batch.Clear(c)
	}
	counts := addAll(batch, members, tasks, history, assignments)
	if err := batch.Commit(ctx); err != nil {
		b.log.Error("import failed", zap.String("path", path), zap.Error(err))
		return Counts{}, fmt.Errorf("import: %w", err)
	}
	b.log.Info("imported", zap.String("path", path), zap.Stringer("counts", counts))
	return counts, nil
}

// Upload merges the local copy into the store. Records with matching ids
// are overwritten; nothing is deleted. History goes up in chunks, so a
// failure part way leaves the earlier chunks applied.
func (b *Bridge) Upload(ctx context.Context, localPath string) (Counts, error) {
	doc, err := ReadFile(localPath)
	if errors.Is(err, os.ErrNotExist) {
		return Counts{}, ErrNoLocalData
	}
	if err != nil {
		return Counts{}, err
	}
	if doc.Empty() {
		return Counts{}, ErrNoLocalData
	}
	members, tasks, history, assignments, err := doc.Records()
	if err != nil {
		return Counts{}, err
	}

	batch := b.store.Batch()
	counts := addAll(batch, members, tasks, nil, assignments)
	if err := batch.Commit(ctx); err != nil {
		return Counts{}, fmt.Errorf("upload: %w", err)
	}

	for start := 0; start < len(history); start += historyChunk {
		end := min(start+historyChunk, len(history))
		chunk := b.store.Batch()
		addAll(chunk, nil, nil, history[start:end], nil)
		if err := chunk.Commit(ctx); err != nil {
			return counts, fmt.Errorf("upload history %d-%d: %w", start, end, err)
		}
		counts.History = end
	}

	b.log.Info("uploaded", zap.String("path", localPath), zap.Stringer("counts", counts))
	return counts, nil
}

// Download overwrites the local copy with the store's contents, keeping
// only the most recent history.
func (b *Bridge) Download(ctx context.Context, localPath string) (Counts, error) {
	doc, counts, err := b.snapshot(ctx, downloadHistory)
	if err != nil {
		return Counts{}, fmt.Errorf("download: %w", err)
	}
	if err := WriteFile(localPath, doc); err != nil {
		return Counts{}, err
	}
	b.log.Info("downloaded", zap.String("path", localPath), zap.Stringer("counts", counts))
	return counts, nil
}

// Sync uploads the local copy, when there is one, then downloads
func (b *Bridge) Sync(ctx context.Context, localPath string) (up, down Counts, err error) {
	up, err = b.Upload(ctx, localPath)
	if err != nil && !errors.Is(err, ErrNoLocalData) {
		return up, Counts{}, err
	}
	down, err = b.Download(ctx, localPath)
	return up, down, err
}

func addAll(batch *db.Batch, members []models.Member, tasks []models.Task, history []models.HistoryEntry, assignments []models.Assignment) Counts {
	for _, m := range members {
		batch.SetMember(m)
	}
	for _, t := range tasks {
		batch.SetTask(t)
	}
	for _, e := range history {
		batch.SetHistory(e)
	}
	for _, a := range assignments {
		batch.SetAssignment(a)
	}
	return Counts{len(members), len(tasks), len(history), len(assignments)}
}
