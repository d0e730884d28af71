package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/ryosukesatoh/letter-insight/internal/apperr"
	"github.com/ryosukesatoh/letter-insight/internal/catalog"
	"github.com/ryosukesatoh/letter-insight/internal/history"
	"github.com/ryosukesatoh/letter-insight/internal/insight"
)

// Handlers holds the components behind the HTTP surface. The serving layer
// stays thin: validation, pagination, and error-to-status mapping only.
type Handlers struct {
	Cache     *catalog.Cache
	Insighter insight.Insighter
	History   *history.Store
}

type insightRequest struct {
	LetterID   string `json:"letter_id"`
	LetterText string `json:"letter_text"`
	Question   string `json:"question"`
}

type insightResponse struct {
	Answer string `json:"answer"`
	Model  string `json:"model,omitempty"`
	Cached bool   `json:"cached,omitempty"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Kind  apperr.Kind `json:"kind"`
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) handleListLetters(w http.ResponseWriter, r *http.Request) {
	page := parseIntParam(r, "page", 0)
	limit := parseIntParam(r, "limit", 10)
	if page < 0 || limit <= 0 || limit > 100 {
		writeError(w, apperr.NewInvalidRequest("page must be >= 0 and limit in 1..100"))
		return
	}

	cat, err := h.Cache.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	start := page * limit
	if start > len(cat.Letters) {
		start = len(cat.Letters)
	}
	end := start + limit
	if end > len(cat.Letters) {
		end = len(cat.Letters)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"letters":    cat.Letters[start:end],
		"has_more":   end < len(cat.Letters),
		"page":       page,
		"limit":      limit,
		"fetched_at": cat.FetchedAt,
	})
}

func (h *Handlers) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cat, err := h.Cache.Refresh(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "catalog refreshed",
		"count":   len(cat.Letters),
	})
}

func (h *Handlers) handleLetterDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Cache.Detail(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handlers) handleInsight(w http.ResponseWriter, r *http.Request) {
	var req insightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.NewInvalidRequest("request body must be valid JSON"))
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeError(w, apperr.NewInvalidRequest("question must not be empty"))
		return
	}
	if req.LetterID == "" && strings.TrimSpace(req.LetterText) == "" {
		writeError(w, apperr.NewInvalidRequest("either letter_id or letter_text is required"))
		return
	}

	letterText := req.LetterText
	if req.LetterID != "" {
		if entry, ok := h.History.Get(req.LetterID, req.Question); ok {
			writeJSON(w, http.StatusOK, insightResponse{Answer: entry.Answer, Model: entry.Model, Cached: true})
			return
		}

		// Detail fetch comes first: without text there is nothing to ask
		// the model, and its failure is the one surfaced to the caller.
		detail, err := h.Cache.Detail(r.Context(), req.LetterID)
		if err != nil {
			writeError(w, err)
			return
		}
		letterText = detail.Text
	}

	resp, err := h.Insighter.Insight(r.Context(), letterText, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.LetterID != "" {
		h.History.Put(req.LetterID, req.Question, resp.Answer, resp.Model)
	}

	writeJSON(w, http.StatusOK, insightResponse{Answer: resp.Answer, Model: resp.Model})
}

func (h *Handlers) handleQuestionHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"questions": h.History.History(r.PathValue("id")),
	})
}

func (h *Handlers) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if !h.History.Delete(r.PathValue("id"), r.PathValue("entry")) {
		writeError(w, apperr.NewNotFound("question entry"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "question deleted"})
}

func (h *Handlers) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats := h.History.Stats()

	letters := 0
	cat, err := h.Cache.Current(r.Context())
	if err == nil {
		letters = len(cat.Letters)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"catalog_letters":      letters,
		"total_insights":       stats.Insights,
		"letters_with_history": stats.Letters,
	})
}

func (h *Handlers) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	h.History.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"message": "insight cache cleared"})
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	msg := "internal error"
	var e *apperr.Error
	if errors.As(err, &e) {
		msg = e.Message
	}
	writeJSON(w, apperr.StatusOf(err), errorResponse{Error: msg, Kind: apperr.KindOf(err)})
}
