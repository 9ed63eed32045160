package sandbox

import (
	"testing"

	"github.com/dgallion1/slidedeck/internal/hast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snippet(class, meta, code string) *hast.Element {
	props := hast.Properties{}
	if class != "" {
		props["className"] = class
	}
	if meta != "" {
		props["meta"] = meta
	}
	return hast.NewElement("pre", nil, hast.NewElement("code", props, hast.NewText(code)))
}

func TestBuildFileMap_DefaultPathsByLanguage(t *testing.T) {
	files, err := BuildFileMap([]hast.Node{
		snippet("language-js", "", "export default 1"),
		snippet("language-css", "", "body {}"),
		hast.NewElement("p", nil, hast.NewText("ignored")),
	})
	require.NoError(t, err)

	assert.Equal(t, FileMap{
		AppJSPath:     {Code: "export default 1"},
		StylesCSSPath: {Code: "body {}"},
	}, files)
}

func TestBuildFileMap_MetaNamesFileAndFlags(t *testing.T) {
	files, err := BuildFileMap([]hast.Node{
		snippet("language-jsx", "src/Cat.jsx active", "cat"),
		snippet("language-js", "data.js hidden", "data"),
	})
	require.NoError(t, err)

	assert.Equal(t, File{Code: "cat", Active: true}, files["/src/Cat.jsx"])
	assert.Equal(t, File{Code: "data", Hidden: true}, files["/data.js"])
}

func TestBuildFileMap_MissingFilename(t *testing.T) {
	_, err := BuildFileMap([]hast.Node{snippet("language-ts", "", "let x = 1")})
	assert.ErrorIs(t, err, ErrMissingFilename)
}

func TestBuildFileMap_DuplicatePath(t *testing.T) {
	tests := []struct {
		name     string
		snippets []hast.Node
	}{
		{"two default js", []hast.Node{snippet("language-js", "", "a"), snippet("language-js", "", "b")}},
		{"meta collides with default", []hast.Node{snippet("language-jsx", "", "a"), snippet("language-js", "src/App.jsx", "b")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildFileMap(tt.snippets)
			assert.ErrorIs(t, err, ErrDuplicateFile)
		})
	}
}

func TestBuildFileMap_Empty(t *testing.T) {
	files, err := BuildFileMap(nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCollect(t *testing.T) {
	root := &hast.Root{Children: []hast.Node{
		hast.NewElement("div", nil, hast.NewText("intro")),
		hast.NewElement("div", nil,
			&hast.Component{Name: "Sandpack", Children: []hast.Node{snippet("language-js", "", "app")}},
			&hast.Component{Name: "Chart", Children: []hast.Node{snippet("language-js", "", "not a sandbox")}},
		),
		hast.NewElement("div", nil,
			&hast.Component{Name: "SandpackWithHTMLOutput", Children: []hast.Node{snippet("language-jsx", "", "html")}},
		),
	}}

	boxes, err := Collect(root, nil)
	require.NoError(t, err)
	require.Len(t, boxes, 2)
	assert.Equal(t, 2, boxes[0].Slide)
	assert.Equal(t, "Sandpack", boxes[0].Component)
	assert.Equal(t, "app", boxes[0].Files[AppJSPath].Code)
	assert.Equal(t, 3, boxes[1].Slide)
	assert.Contains(t, boxes[1].Files, AppJSXPath)
}

func TestCollect_ErrorNamesSlide(t *testing.T) {
	root := &hast.Root{Children: []hast.Node{
		hast.NewElement("div", nil, &hast.Component{Name: "Sandpack", Children: []hast.Node{
			snippet("language-js", "", "a"),
			snippet("language-js", "", "b"),
		}}),
	}}

	_, err := Collect(root, []string{"Sandpack"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateFile)
	assert.Contains(t, err.Error(), "slide 1")
}
