package deck

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dgallion1/slidedeck/internal/hast"
	"github.com/dgallion1/slidedeck/internal/metrics"
	"github.com/dgallion1/slidedeck/internal/parser"
	"github.com/dgallion1/slidedeck/internal/sandbox"
	"github.com/dgallion1/slidedeck/internal/slides"
)

var (
	ErrNotFound    = errors.New("deck not found")
	ErrImportCycle = errors.New("import cycle")
)

// Options configure deck discovery and compilation.
type Options struct {
	ContentDir        string
	DefaultLang       string
	Segment           slides.Config
	Parse             parser.Options
	SandboxComponents []string
}

// Ref identifies a deck file in the content directory.
type Ref struct {
	Slug string `json:"slug"`
	Lang string `json:"lang"`
	Path string `json:"-"`
}

// Deck is a compiled, segmented deck.
type Deck struct {
	Slug      string            `json:"slug"`
	Lang      string            `json:"lang"`
	Title     string            `json:"title"`
	Meta      map[string]any    `json:"meta,omitempty"`
	Hash      string            `json:"hash"`
	Root      *hast.Root        `json:"root"`
	Outline   []slides.Summary  `json:"outline"`
	Sandboxes []sandbox.Sandbox `json:"sandboxes"`
}

// Loader discovers and compiles decks from a content directory.
type Loader struct {
	opts    Options
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewLoader creates a loader. m may be nil.
func NewLoader(opts Options, log *slog.Logger, m *metrics.Metrics) *Loader {
	if opts.DefaultLang == "" {
		opts.DefaultLang = "en"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loader{opts: opts, log: log, metrics: m}
}

// Discover lists the decks directly under the content directory, sorted by
// slug then language. Subdirectories hold sub-documents and are not listed.
func (l *Loader) Discover() ([]Ref, error) {
	entries, err := os.ReadDir(l.opts.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	var refs []Ref
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}
		if !parser.IsSupportedExtension(name) {
			continue
		}
		slug, lang := l.splitName(name)
		refs = append(refs, Ref{Slug: slug, Lang: lang, Path: filepath.Join(l.opts.ContentDir, name)})
	}

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Slug != refs[j].Slug {
			return refs[i].Slug < refs[j].Slug
		}
		return refs[i].Lang < refs[j].Lang
	})
	return refs, nil
}

// Find returns the deck with the given slug and language.
func (l *Loader) Find(slug, lang string) (Ref, error) {
	refs, err := l.Discover()
	if err != nil {
		return Ref{}, err
	}
	for _, r := range refs {
		if r.Slug == slug && r.Lang == lang {
			return r, nil
		}
	}
	return Ref{}, fmt.Errorf("%w: %s/%s", ErrNotFound, lang, slug)
}

// splitName maps "fundamentals.en.mdx" to ("fundamentals", "en").
func (l *Loader) splitName(name string) (slug, lang string) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if i := strings.LastIndex(base, "."); i > 0 && i < len(base)-1 {
		return base[:i], base[i+1:]
	}
	return base, l.opts.DefaultLang
}

// Compile parses a deck, resolves its sub-document imports and segments it.
func (l *Loader) Compile(ctx context.Context, ref Ref) (*Deck, error) {
	start := time.Now()
	d, err := l.compile(ctx, ref)
	l.observe(start, d, err)
	return d, err
}

func (l *Loader) compile(ctx context.Context, ref Ref) (*Deck, error) {
	log := l.log.With("slug", ref.Slug, "lang", ref.Lang)

	abs, err := filepath.Abs(ref.Path)
	if err != nil {
		return nil, err
	}
	h := sha256.New()
	doc, err := l.load(ctx, abs, h, []string{abs}, log)
	if err != nil {
		return nil, err
	}

	d, err := l.finish(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref.Path, err)
	}
	d.Slug = ref.Slug
	d.Lang = ref.Lang
	if doc.Lang != "" && doc.Lang != ref.Lang {
		log.Warn("front matter lang differs from file name", "front_matter_lang", doc.Lang)
	}
	d.Hash = hex.EncodeToString(h.Sum(nil))

	log.Debug("compiled deck", "slides", len(d.Root.Children), "sandboxes", len(d.Sandboxes))
	return d, nil
}

// CompileSource compiles ad-hoc input. Imports are kept as content but never
// resolved against the file system.
func (l *Loader) CompileSource(filename string, data []byte) (*Deck, error) {
	start := time.Now()
	d, err := l.compileSource(filename, data)
	l.observe(start, d, err)
	return d, err
}

func (l *Loader) compileSource(filename string, data []byte) (*Deck, error) {
	p, err := parser.ForFile(filename, l.opts.Parse)
	if err != nil {
		return nil, err
	}
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	d, err := l.finish(doc)
	if err != nil {
		return nil, err
	}
	d.Slug, d.Lang = l.splitName(filepath.Base(filename))
	sum := sha256.Sum256(data)
	d.Hash = hex.EncodeToString(sum[:])
	return d, nil
}

// finish segments a parsed document and derives outline and sandboxes.
func (l *Loader) finish(doc *parser.Document) (*Deck, error) {
	root := slides.Segment(doc.Root, l.opts.Segment)
	boxes, err := sandbox.Collect(root, l.opts.SandboxComponents)
	if err != nil {
		return nil, err
	}
	if boxes == nil {
		boxes = []sandbox.Sandbox{}
	}
	return &Deck{
		Title:     doc.Title,
		Meta:      doc.Meta,
		Root:      root,
		Outline:   slides.Outline(root),
		Sandboxes: boxes,
	}, nil
}

// load parses the file at path and splices the slides of every imported
// sub-document into the components that invoke it. stack holds the chain of
// files being loaded, outermost first.
func (l *Loader) load(ctx context.Context, path string, h hash.Hash, stack []string, log *slog.Logger) (*parser.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	h.Write(data)

	p, err := parser.ForFile(path, l.opts.Parse)
	if err != nil {
		return nil, err
	}
	doc, err := p.Parse(bytes.NewReader(data), path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for _, imp := range l.subDocumentImports(doc.Root) {
		target := filepath.Join(filepath.Dir(path), filepath.FromSlash(imp.Source))
		if contains(stack, target) {
			return nil, fmt.Errorf("%w: %s", ErrImportCycle, strings.Join(append(stack, target), " -> "))
		}

		sub, err := l.load(ctx, target, h, append(stack[:len(stack):len(stack)], target), log)
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("sub-document not found, leaving import unresolved", "import", imp.ImportedName, "source", imp.Source, "from", path)
			continue
		}
		if err != nil {
			return nil, err
		}

		subSlides := slides.Segment(sub.Root, l.opts.Segment).Children
		for _, c := range doc.Root.Children {
			comp, ok := c.(*hast.Component)
			if !ok || comp.Name != imp.ImportedName {
				continue
			}
			comp.Children = append(append([]hast.Node{}, subSlides...), comp.Children...)
		}
	}
	return doc, nil
}

// subDocumentImports returns the top-level imports that bind a sub-document.
func (l *Loader) subDocumentImports(root *hast.Root) []*hast.Import {
	exts := l.opts.Segment.SubDocumentExtensions
	if len(exts) == 0 {
		exts = slides.DefaultConfig().SubDocumentExtensions
	}

	var out []*hast.Import
	for _, c := range root.Children {
		imp, ok := c.(*hast.Import)
		if !ok || imp.ImportedName == "" {
			continue
		}
		for _, ext := range exts {
			if strings.HasSuffix(imp.Source, ext) {
				out = append(out, imp)
				break
			}
		}
	}
	return out
}

func (l *Loader) observe(start time.Time, d *Deck, err error) {
	if l.metrics == nil {
		return
	}
	l.metrics.CompileDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		l.metrics.DeckCompiles.WithLabelValues("error").Inc()
		return
	}
	l.metrics.DeckCompiles.WithLabelValues("ok").Inc()
	l.metrics.SlidesPerDeck.Observe(float64(len(d.Root.Children)))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
