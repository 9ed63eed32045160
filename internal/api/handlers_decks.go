package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dgallion1/slidedeck/internal/deck"
	"github.com/dgallion1/slidedeck/internal/slides"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	refs, err := s.library.List()
	if err != nil {
		s.log.Error("list decks failed", "error", err)
		jsonError(w, "failed to list decks", http.StatusInternalServerError)
		return
	}
	if refs == nil {
		refs = []deck.Ref{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"decks": refs})
}

// loadDeck fetches the deck named by the URL and writes the error response
// itself when that fails.
func (s *Server) loadDeck(w http.ResponseWriter, r *http.Request) (*deck.Deck, bool) {
	lang := chi.URLParam(r, "lang")
	slug := chi.URLParam(r, "slug")

	d, err := s.library.Get(r.Context(), slug, lang)
	switch {
	case err == nil:
		return d, true
	case errors.Is(err, deck.ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, deck.ErrImportCycle):
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		s.log.Error("compile deck failed", "slug", slug, "lang", lang, "error", err)
		jsonError(w, "failed to compile deck: "+err.Error(), http.StatusInternalServerError)
	}
	return nil, false
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	d, ok := s.loadDeck(w, r)
	if !ok {
		return
	}

	etag := `"` + d.Hash + `"`
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeckOutline(w http.ResponseWriter, r *http.Request) {
	d, ok := s.loadDeck(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"slug":    d.Slug,
		"lang":    d.Lang,
		"title":   d.Title,
		"outline": d.Outline,
	})
}

func (s *Server) handleDeckSlide(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		jsonError(w, "slide number must be an integer", http.StatusBadRequest)
		return
	}
	d, ok := s.loadDeck(w, r)
	if !ok {
		return
	}

	slide, ok := slides.SlideAt(d.Root, n)
	if !ok {
		jsonError(w, "slide "+strconv.Itoa(n)+" out of range", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"index":  n,
		"anchor": slides.Anchor(n),
		"total":  len(d.Root.Children),
		"slide":  slide,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
