package deck

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/slidedeck/internal/hast"
	"github.com/dgallion1/slidedeck/internal/metrics"
	"github.com/dgallion1/slidedeck/internal/slides"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestLoader(dir string) *Loader {
	return NewLoader(Options{
		ContentDir:  dir,
		DefaultLang: "en",
		Segment:     slides.DefaultConfig(),
	}, nil, nil)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "hooks.fr.mdx", "# Hooks")
	writeFile(t, dir, "hooks.en.mdx", "# Hooks")
	writeFile(t, dir, "basics.md", "# Basics")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "_draft.en.mdx", "ignored")
	writeFile(t, dir, "parts/intro.mdx", "ignored")

	refs, err := newTestLoader(dir).Discover()
	require.NoError(t, err)

	var got []string
	for _, r := range refs {
		got = append(got, r.Lang+"/"+r.Slug)
	}
	assert.Equal(t, []string{"en/basics", "en/hooks", "fr/hooks"}, got)
}

func TestFind_NotFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "hooks.en.mdx", "# Hooks")

	_, err := newTestLoader(dir).Find("hooks", "de")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompile_SegmentsDeck(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "basics.en.md", "# Basics\n\nIntro\n\n---\n\n## Props\n\n---\n\n## State\n")

	l := newTestLoader(dir)
	ref, err := l.Find("basics", "en")
	require.NoError(t, err)
	d, err := l.Compile(context.Background(), ref)
	require.NoError(t, err)

	assert.Equal(t, "basics", d.Slug)
	assert.Equal(t, "Basics", d.Title)
	require.Len(t, d.Root.Children, 3)
	first := d.Root.Children[0].(*hast.Element)
	assert.Equal(t, "slide first-slide", first.Properties.Get("className"))
	assert.Equal(t, "Props", d.Outline[1].Title)
	assert.Len(t, d.Hash, 64)
	assert.Empty(t, d.Sandboxes)
}

func TestCompile_ResolvesSubDocumentImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "parts/intro.mdx", "## Part one\n\n---\n\n## Part two\n")
	writeFile(t, dir, "course.en.mdx", "import Intro from './parts/intro.mdx'\n\n# Course\n\n---\n\nBefore\n\n<Intro />\n\n---\n\n## After\n")

	l := newTestLoader(dir)
	ref, err := l.Find("course", "en")
	require.NoError(t, err)
	d, err := l.Compile(context.Background(), ref)
	require.NoError(t, err)

	require.Len(t, d.Root.Children, 3)
	comp, ok := d.Root.Children[1].(*hast.Component)
	require.True(t, ok, "second slide should be the spliced component")
	assert.Equal(t, "Intro", comp.Name)

	// Two sub-deck slides, then the preamble of the slide it replaced.
	require.Len(t, comp.Children, 3)
	assert.Equal(t, "Part one", hast.TextContent(comp.Children[0].(*hast.Element).Children[0]))
	assert.Equal(t, "Before", hast.TextContent(comp.Children[2]))

	assert.Equal(t, "Part one", d.Outline[1].Title)
	assert.Equal(t, hast.KindComponent, d.Outline[1].Kind)
}

func TestCompile_HashCoversSubDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "parts/intro.mdx", "one")
	writeFile(t, dir, "course.en.mdx", "import Intro from './parts/intro.mdx'\n\n<Intro />\n")

	l := newTestLoader(dir)
	ref, err := l.Find("course", "en")
	require.NoError(t, err)
	before, err := l.Compile(context.Background(), ref)
	require.NoError(t, err)

	writeFile(t, dir, "parts/intro.mdx", "two")
	after, err := l.Compile(context.Background(), ref)
	require.NoError(t, err)

	assert.NotEqual(t, before.Hash, after.Hash)
}

func TestCompile_MissingSubDocumentIsLeftUnresolved(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "course.en.mdx", "import Gone from './gone.mdx'\n\n<Gone />\n")

	l := newTestLoader(dir)
	ref, err := l.Find("course", "en")
	require.NoError(t, err)
	d, err := l.Compile(context.Background(), ref)
	require.NoError(t, err)

	require.Len(t, d.Root.Children, 1)
	comp := d.Root.Children[0].(*hast.Component)
	assert.Equal(t, "Gone", comp.Name)
	// Only the preamble (the import node) moved into the component.
	assert.Len(t, comp.Children, 1)
}

func TestCompile_ImportCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.en.mdx", "import B from './parts/b.mdx'\n\n<B />\n")
	writeFile(t, dir, "parts/b.mdx", "import C from './c.mdx'\n\n<C />\n")
	writeFile(t, dir, "parts/c.mdx", "import B from './b.mdx'\n\n<B />\n")

	l := newTestLoader(dir)
	ref, err := l.Find("a", "en")
	require.NoError(t, err)
	_, err = l.Compile(context.Background(), ref)
	assert.ErrorIs(t, err, ErrImportCycle)
}

func TestCompile_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.en.md", "# A")

	l := newTestLoader(dir)
	ref, err := l.Find("a", "en")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Compile(ctx, ref)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompile_SandboxErrorFailsDeck(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "play.en.mdx", "<Sandpack>\n\n```js\na\n```\n\n```js\nb\n```\n\n</Sandpack>\n")

	l := newTestLoader(dir)
	ref, err := l.Find("play", "en")
	require.NoError(t, err)
	_, err = l.Compile(context.Background(), ref)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defined multiple times")
}

func TestCompileSource(t *testing.T) {
	l := newTestLoader(t.TempDir())
	d, err := l.CompileSource("scratch.de.mdx", []byte("import X from './x.mdx'\n\nA\n\n---\n\nB\n"))
	require.NoError(t, err)

	assert.Equal(t, "scratch", d.Slug)
	assert.Equal(t, "de", d.Lang)
	assert.Len(t, d.Root.Children, 2)
}

func TestLibrary_CachesUntilInvalidated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.en.md", "# First")

	m := metrics.New(nil)
	lib := NewLibrary(NewLoader(Options{ContentDir: dir}, nil, m), time.Minute, nil, m)

	d1, err := lib.Get(context.Background(), "a", "en")
	require.NoError(t, err)
	assert.Equal(t, "First", d1.Title)

	writeFile(t, dir, "a.en.md", "# Second")
	d2, err := lib.Get(context.Background(), "a", "en")
	require.NoError(t, err)
	assert.Same(t, d1, d2)

	lib.Invalidate()
	d3, err := lib.Get(context.Background(), "a", "en")
	require.NoError(t, err)
	assert.Equal(t, "Second", d3.Title)
}

func TestLibrary_NotFound(t *testing.T) {
	lib := NewLibrary(newTestLoader(t.TempDir()), time.Minute, nil, nil)
	_, err := lib.Get(context.Background(), "missing", "en")
	assert.ErrorIs(t, err, ErrNotFound)
}
