package indexer

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/docsearch-mcp/internal/splitter"
	"github.com/dshills/docsearch-mcp/internal/storage"
	"github.com/dshills/docsearch-mcp/pkg/types"
)

// Indexer drives the build pipeline: split -> store. A build is
// whole-corpus; there is no incremental path.
type Indexer struct {
	store *storage.Store

	// Number of concurrent split workers
	workers int

	lock BuildLock
}

// Stats describes a completed build.
type Stats struct {
	Docs     int
	Chunks   int
	Tags     int
	Duration time.Duration
}

// ErrBuildInProgress is returned when a build is requested while another
// build is still running against the same indexer.
var ErrBuildInProgress = fmt.Errorf("a build is already in progress")

// New creates an Indexer writing to store.
func New(store *storage.Store) *Indexer {
	return &Indexer{
		store:   store,
		workers: runtime.NumCPU(),
	}
}

// Build rebuilds the store from the given corpus. The prior store content is
// discarded first, then every insert runs inside one transaction: readers
// see either the recreated-but-unpopulated store or the fully built one,
// never an intermediate state. An empty corpus is not an error; it yields a
// valid, empty store.
func (idx *Indexer) Build(ctx context.Context, docs []types.Document) (*Stats, error) {
	if !idx.lock.TryAcquire() {
		return nil, ErrBuildInProgress
	}
	defer idx.lock.Release()

	start := time.Now()

	if err := idx.store.Reset(ctx); err != nil {
		return nil, err
	}

	chunksByDoc, err := idx.splitAll(ctx, docs)
	if err != nil {
		return nil, err
	}

	tx, err := idx.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stats := &Stats{Docs: len(docs)}

	for _, doc := range docs {
		if err := tx.InsertDoc(ctx, doc); err != nil {
			return nil, err
		}
	}

	// Deduplicated union of all documents' tags; re-inserting a present
	// name is a no-op at the store layer, but the vocabulary count should
	// reflect distinct names only.
	seen := make(map[string]struct{})
	for _, doc := range docs {
		for _, tag := range doc.Tags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			if err := tx.InsertTag(ctx, tag); err != nil {
				return nil, err
			}
		}
	}
	stats.Tags = len(seen)

	for _, doc := range docs {
		for _, tag := range doc.Tags {
			if err := tx.InsertDocTag(ctx, doc.ID, tag); err != nil {
				return nil, err
			}
		}
	}

	for _, chunks := range chunksByDoc {
		for _, chunk := range chunks {
			if err := tx.InsertChunk(ctx, chunk); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit build: %w", err)
	}

	for _, chunks := range chunksByDoc {
		stats.Chunks += len(chunks)
	}
	stats.Duration = time.Since(start)
	return stats, nil
}

// splitAll runs the splitter over every document concurrently, preserving
// per-document slots so the overall chunk order follows corpus order.
func (idx *Indexer) splitAll(ctx context.Context, docs []types.Document) ([][]types.Chunk, error) {
	chunksByDoc := make([][]types.Chunk, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers)
	for i := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			chunksByDoc[i] = splitter.Split(docs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chunksByDoc, nil
}
