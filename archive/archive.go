package archive

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hupe1980/results/blobstore"
	"golang.org/x/sync/errgroup"
)

const frameExt = ".ce"

// Entry is one envelope of a batch.
type Entry struct {
	ID       string
	Envelope []byte
}

// Archive stores serialized envelopes by event id.
// An Archive is safe for concurrent use.
type Archive struct {
	store blobstore.Store
	opts  options
}

// New creates an archive on top of store.
func New(store blobstore.Store, opts ...Option) *Archive {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Archive{store: store, opts: o}
}

// Key returns the blob name for id.
func (a *Archive) Key(id string) (string, error) {
	if !validID(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return a.dir() + id + frameExt, nil
}

func (a *Archive) dir() string {
	if a.opts.prefix == "" {
		return ""
	}
	return strings.TrimSuffix(a.opts.prefix, "/") + "/"
}

func validID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	for i := 0; i < len(id); i++ {
		if c := id[i]; c == '/' || c == '\\' || c < 0x20 || c == 0x7f {
			return false
		}
	}
	return true
}

// Put compresses, checksums, and stores envelope under id, replacing any
// previous envelope with the same id.
func (a *Archive) Put(ctx context.Context, id string, envelope []byte) error {
	key, err := a.Key(id)
	if err != nil {
		return err
	}

	start := time.Now()
	size, err := a.put(ctx, id, key, envelope)
	a.opts.metrics.RecordArchive("put", size, time.Since(start), err)
	a.opts.logger.LogArchivePut(ctx, key, size, err)
	return err
}

func (a *Archive) put(ctx context.Context, id, key string, envelope []byte) (int, error) {
	frame, err := encodeFrame(a.opts.codec, envelope)
	if err != nil {
		return 0, err
	}

	if err := a.opts.rc.AcquireIO(ctx, len(frame)); err != nil {
		return 0, err
	}
	if err := a.store.Put(ctx, key, frame); err != nil {
		return 0, fmt.Errorf("archive put %s: %w", id, err)
	}

	if a.opts.index != nil {
		version, err := a.opts.index.Commit(ctx, IndexEntry{ID: id, Key: key, Size: len(frame)})
		if err != nil {
			return len(frame), fmt.Errorf("archive index %s: %w", id, err)
		}
		a.opts.logger.DebugContext(ctx, "archive index committed", "key", key, "version", version)
	}
	return len(frame), nil
}

// PutBatch stores entries concurrently, bounded by the controller's worker
// limit. It returns the first error; remaining puts are canceled.
func (a *Archive) PutBatch(ctx context.Context, entries []Entry) error {
	for _, e := range entries {
		if !validID(e.ID) {
			return fmt.Errorf("%w: %q", ErrInvalidID, e.ID)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if n := a.opts.rc.Workers(); n > 0 {
		g.SetLimit(n)
	}

	var failed atomic.Int64
	for _, e := range entries {
		g.Go(func() error {
			if err := a.opts.rc.AcquireWorker(gctx); err != nil {
				failed.Add(1)
				return err
			}
			defer a.opts.rc.ReleaseWorker()

			if err := a.Put(gctx, e.ID, e.Envelope); err != nil {
				failed.Add(1)
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	a.opts.logger.LogArchiveBatch(ctx, len(entries), int(failed.Load()))
	return err
}

// Get loads the envelope stored under id and verifies its checksum.
func (a *Archive) Get(ctx context.Context, id string) ([]byte, error) {
	key, err := a.Key(id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	envelope, size, err := a.get(ctx, key)
	if err != nil {
		err = fmt.Errorf("archive get %s: %w", id, err)
	}
	a.opts.metrics.RecordArchive("get", size, time.Since(start), err)
	a.opts.logger.LogArchiveGet(ctx, key, size, err)
	return envelope, err
}

func (a *Archive) get(ctx context.Context, key string) ([]byte, int, error) {
	frame, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, 0, err
	}
	if err := a.opts.rc.AcquireIO(ctx, len(frame)); err != nil {
		return nil, 0, err
	}
	envelope, err := decodeFrame(frame)
	if err != nil {
		return nil, len(frame), err
	}
	return envelope, len(frame), nil
}

// List returns the sorted ids of all archived envelopes.
func (a *Archive) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	dir := a.dir()

	names, err := a.store.List(ctx, dir)
	a.opts.metrics.RecordArchive("list", 0, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("archive list: %w", err)
	}

	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, ok := strings.CutSuffix(strings.TrimPrefix(name, dir), frameExt)
		if ok && validID(id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Delete removes the envelope stored under id. Deleting a missing id is not
// an error.
func (a *Archive) Delete(ctx context.Context, id string) error {
	key, err := a.Key(id)
	if err != nil {
		return err
	}

	start := time.Now()
	err = a.store.Delete(ctx, key)
	a.opts.metrics.RecordArchive("delete", 0, time.Since(start), err)
	if err != nil {
		a.opts.logger.ErrorContext(ctx, "archive delete failed", "key", key, "error", err)
		return fmt.Errorf("archive delete %s: %w", id, err)
	}
	return nil
}

// Latest returns the most recent index entry for id.
func (a *Archive) Latest(ctx context.Context, id string) (IndexEntry, error) {
	if a.opts.index == nil {
		return IndexEntry{}, ErrNoIndex
	}
	if !validID(id) {
		return IndexEntry{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return a.opts.index.Latest(ctx, id)
}
