package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dgallion1/slidedeck/internal/hast"
	"github.com/dgallion1/slidedeck/internal/parser"
	"github.com/dgallion1/slidedeck/internal/slides"
)

// handleSegment segments an ad-hoc document. A JSON body is taken as a
// document tree; any other body is source text parsed by ?filename=.
func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	cfg := segmentOverrides(s.cfg.SegmentConfig(), r.URL.Query())

	if isJSON(r.Header.Get("Content-Type")) {
		root, err := hast.UnmarshalRoot(data)
		if err != nil {
			jsonError(w, "invalid document tree: "+err.Error(), http.StatusBadRequest)
			return
		}
		s.countSegment("json")
		writeJSON(w, http.StatusOK, slides.Segment(root, cfg))
		return
	}

	filename := "input.md"
	if v := r.URL.Query().Get("filename"); v != "" {
		filename = sanitizeFilename(v)
	}
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}
	p, err := parser.ForFile(filename, parser.Options{SanitizeHTML: s.cfg.SanitizeHTML})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.countSegment(strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."))
	writeJSON(w, http.StatusOK, slides.Segment(doc.Root, cfg))
}

// segmentOverrides applies the separators, tag and class query parameters.
// class present but empty disables the slide class.
func segmentOverrides(cfg slides.Config, q url.Values) slides.Config {
	if v := q.Get("separators"); v != "" {
		var seps []string
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				seps = append(seps, tag)
			}
		}
		if len(seps) > 0 {
			cfg.SlideSeparators = seps
		}
	}
	if v := q.Get("tag"); v != "" {
		cfg.SlideContainerTag = v
	}
	if _, ok := q["class"]; ok {
		if v := strings.TrimSpace(q.Get("class")); v != "" {
			cfg.SlideClassName = slides.Class(v)
		} else {
			cfg.SlideClassName = nil
		}
	}
	return cfg
}

func (s *Server) countSegment(format string) {
	if s.metrics != nil {
		s.metrics.SegmentRequests.WithLabelValues(format).Inc()
	}
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && (mt == "application/json" || strings.HasSuffix(mt, "+json"))
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
