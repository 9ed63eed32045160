package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/slidedeck/internal/deck"
	"github.com/dgallion1/slidedeck/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// IndexEntry is one deck in the build's index.json.
type IndexEntry struct {
	Slug   string `json:"slug"`
	Lang   string `json:"lang"`
	Title  string `json:"title"`
	Slides int    `json:"slides"`
	Path   string `json:"path"` // Relative to the output directory.
	Hash   string `json:"hash"`
}

// Index is the manifest written next to the compiled decks.
type Index struct {
	JobID   string       `json:"job_id"`
	BuiltAt time.Time    `json:"built_at"`
	Decks   []IndexEntry `json:"decks"`
}

// Worker compiles the deck library into static JSON files.
type Worker struct {
	loader      *deck.Loader
	outputDir   string
	concurrency int
	log         *slog.Logger
	metrics     *metrics.Metrics
}

func NewWorker(loader *deck.Loader, outputDir string, concurrency int, log *slog.Logger, m *metrics.Metrics) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Worker{
		loader:      loader,
		outputDir:   outputDir,
		concurrency: concurrency,
		log:         log,
		metrics:     m,
	}
}

// Process runs a full build for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)
	defer func() {
		if w.metrics != nil {
			w.metrics.BuildJobs.WithLabelValues(string(job.Snapshot().Status)).Inc()
		}
	}()

	// Phase 1: discover.
	job.SetStatus(StatusBuilding, "discovering")
	refs, err := w.loader.Discover()
	if err != nil {
		log.Error("discover failed", "error", err)
		job.AddError(fmt.Sprintf("discover: %s", err))
		job.SetStatus(StatusFailed, "discovering")
		return
	}
	refs = filterLangs(refs, job.Langs)
	job.SetTotalDecks(len(refs))
	log.Info("building decks", "decks", len(refs))

	if len(refs) == 0 {
		job.AddError("no decks found")
		job.SetStatus(StatusFailed, "discovering")
		return
	}

	// Phase 2: compile and write each deck with bounded concurrency.
	job.SetStatus(StatusBuilding, "compiling")
	var (
		mu      sync.Mutex
		entries []IndexEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, ref := range refs {
		ref := ref
		g.Go(func() error {
			entry, err := w.buildDeck(gctx, ref)
			if err != nil {
				// Per-deck failures do not stop the build; only cancellation does.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Error("deck build failed", "slug", ref.Slug, "lang", ref.Lang, "error", err)
				job.AddError(fmt.Sprintf("%s/%s: %s", ref.Lang, ref.Slug, err))
				return nil
			}
			job.DeckBuilt(entry.Slides)
			mu.Lock()
			entries = append(entries, entry)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("build canceled", "error", err)
		job.AddError(fmt.Sprintf("canceled: %s", err))
		job.SetStatus(StatusFailed, "compiling")
		return
	}

	if len(entries) == 0 {
		job.SetStatus(StatusFailed, "compiling")
		return
	}

	// Phase 3: index.
	job.SetStatus(StatusBuilding, "indexing")
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Slug != entries[j].Slug {
			return entries[i].Slug < entries[j].Slug
		}
		return entries[i].Lang < entries[j].Lang
	})
	index := Index{JobID: job.ID, BuiltAt: time.Now().UTC(), Decks: entries}
	if _, err := writeJSON(filepath.Join(w.outputDir, "index.json"), index); err != nil {
		log.Error("index write failed", "error", err)
		job.AddError(fmt.Sprintf("index: %s", err))
		job.SetStatus(StatusFailed, "indexing")
		return
	}

	snap := job.Snapshot()
	log.Info("build complete", "decks_built", snap.Progress.DecksBuilt, "slides", snap.Progress.SlidesWritten, "errors", len(snap.Progress.Errors))
	if len(snap.Progress.Errors) > 0 {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

func (w *Worker) buildDeck(ctx context.Context, ref deck.Ref) (IndexEntry, error) {
	d, err := w.loader.Compile(ctx, ref)
	if err != nil {
		return IndexEntry{}, err
	}

	rel := filepath.Join(ref.Lang, ref.Slug+".json")
	data, err := writeJSON(filepath.Join(w.outputDir, rel), d)
	if err != nil {
		return IndexEntry{}, err
	}
	return IndexEntry{
		Slug:   d.Slug,
		Lang:   d.Lang,
		Title:  d.Title,
		Slides: len(d.Root.Children),
		Path:   filepath.ToSlash(rel),
		Hash:   ContentHashHex(data),
	}, nil
}

// writeJSON writes v atomically and returns the bytes written.
func writeJSON(path string, v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return nil, err
	}
	return data, nil
}

func filterLangs(refs []deck.Ref, langs []string) []deck.Ref {
	if len(langs) == 0 {
		return refs
	}
	keep := make(map[string]bool, len(langs))
	for _, l := range langs {
		keep[l] = true
	}
	var out []deck.Ref
	for _, r := range refs {
		if keep[r.Lang] {
			out = append(out, r)
		}
	}
	return out
}
