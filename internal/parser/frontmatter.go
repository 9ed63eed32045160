package parser

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var fence = []byte("---")

// splitFrontMatter removes a leading YAML block delimited by --- lines and
// decodes it. Input without front matter is returned untouched.
func splitFrontMatter(src []byte) (map[string]any, []byte, error) {
	first, rest, ok := cutLine(src)
	if !ok || !bytes.Equal(bytes.TrimRight(first, " \t"), fence) {
		return nil, src, nil
	}

	var block []byte
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = cutLine(rest)
		if bytes.Equal(bytes.TrimRight(line, " \t"), fence) {
			if !looksLikeYAMLMapping(block) {
				return nil, src, nil
			}
			meta := map[string]any{}
			if err := yaml.Unmarshal(block, &meta); err != nil {
				return nil, nil, fmt.Errorf("front matter: %w", err)
			}
			return meta, rest, nil
		}
		block = append(block, line...)
		block = append(block, '\n')
	}

	// No closing fence: not front matter, just a leading thematic break.
	return nil, src, nil
}

// cutLine splits off the first line, dropping its terminator.
func cutLine(b []byte) (line, rest []byte, ok bool) {
	if len(b) == 0 {
		return nil, nil, false
	}
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return bytes.TrimSuffix(b, []byte("\r")), nil, true
	}
	return bytes.TrimSuffix(b[:i], []byte("\r")), b[i+1:], true
}

// looksLikeYAMLMapping keeps a deck that opens with two --- separators from
// being read as front matter: the first non-blank line must be a key.
func looksLikeYAMLMapping(block []byte) bool {
	for _, line := range bytes.Split(block, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		return bytes.Contains(line, []byte(":"))
	}
	return false
}

func metaString(meta map[string]any, key string) string {
	if meta == nil {
		return ""
	}
	s, _ := meta[key].(string)
	return s
}
