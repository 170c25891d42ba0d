// Package handler provides the HTTP handlers for the sustainability
// actions API.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/stevemurr/sustainability-tracker/action"
	"github.com/stevemurr/sustainability-tracker/store"
)

// Handler holds the server dependencies and registers routes.
type Handler struct {
	store store.Store
	mux   *http.ServeMux
}

// New creates a Handler and wires up all routes.
func New(s store.Store) *Handler {
	h := &Handler{store: s, mux: http.NewServeMux()}
	h.routes()
	return h
}

// ServeHTTP makes Handler an http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.mux.HandleFunc("GET /", h.root)
	h.mux.HandleFunc("GET /api/health", h.health)

	h.mux.HandleFunc("GET /api/actions", h.listActions)
	h.mux.HandleFunc("POST /api/actions", h.createAction)
	h.mux.HandleFunc("GET /api/actions/{id}", h.getAction)
	h.mux.HandleFunc("PUT /api/actions/{id}", h.updateAction)
	h.mux.HandleFunc("PATCH /api/actions/{id}", h.patchAction)
	h.mux.HandleFunc("DELETE /api/actions/{id}", h.deleteAction)
}

// ---------- helpers ----------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   kind,
		"message": msg,
	})
}

func writeValidationErrors(w http.ResponseWriter, errs []string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"error":   "Validation failed",
		"errors":  errs,
	})
}

// readJSON decodes the request body into a loosely typed payload.
// UseNumber keeps integer fields exact instead of going through
// float64.
func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(v)
}

// writeStoreError maps store failures to responses: validation errors
// carry the full violation list as a 400, everything else is a 500.
func writeStoreError(w http.ResponseWriter, err error) {
	var verr *action.ValidationError
	if errors.As(err, &verr) {
		writeValidationErrors(w, verr.Errors)
		return
	}
	writeError(w, http.StatusInternalServerError, "Storage error", err.Error())
}

// ---------- status endpoints ----------

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	// Only match exact root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "Sustainability Tracker API",
	})
}

// health reports liveness plus aggregate statistics over the whole
// collection.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListAll()
	if err != nil {
		log.Printf("health check failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"status":  "unhealthy",
			"error":   err.Error(),
		})
		return
	}
	totalPoints := 0
	for _, a := range records {
		totalPoints += a.Points
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  "healthy",
		"message": "Sustainability Tracker API is running",
		"statistics": map[string]int{
			"total_actions": len(records),
			"total_points":  totalPoints,
		},
	})
}

// ---------- action CRUD ----------

func (h *Handler) listActions(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListAll()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve actions", err.Error())
		return
	}
	if records == nil {
		records = []action.Action{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(records),
		"data":    records,
	})
}

func (h *Handler) createAction(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := readJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	a, errs := action.Decode(payload)
	errs = append(errs, action.ValidateStrict(a)...)
	if len(errs) > 0 {
		log.Printf("action creation failed validation: %v", errs)
		writeValidationErrors(w, errs)
		return
	}
	if err := h.store.Save(&a); err != nil {
		writeStoreError(w, err)
		return
	}
	log.Printf("created action %d: %s", a.ID, a.Action)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Action created successfully",
		"data":    a,
	})
}

// parseID extracts the numeric id from the request path. A
// non-numeric id is indistinguishable from an unknown resource.
func parseID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	return id, err == nil && id > 0
}

func (h *Handler) getAction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Action not found", "Invalid action ID format")
		return
	}
	a, err := h.store.Get(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve action", err.Error())
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "Action not found", "Action with ID "+strconv.Itoa(id)+" does not exist")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    a,
	})
}

func (h *Handler) updateAction(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *Handler) patchAction(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

// update applies a full (PUT) or partial (PATCH) update. Partial
// updates merge the supplied fields over the stored record before
// strict validation, so a merged record must still pass every rule.
func (h *Handler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Action not found", "Invalid action ID format")
		return
	}
	existing, err := h.store.Get(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve action", err.Error())
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Action not found", "Action with ID "+strconv.Itoa(id)+" does not exist")
		return
	}

	var payload map[string]any
	if err := readJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if partial {
		merged := map[string]any{
			"action": existing.Action,
			"date":   existing.Date,
			"points": existing.Points,
		}
		for _, field := range []string{"action", "date", "points"} {
			if v, ok := payload[field]; ok {
				merged[field] = v
			}
		}
		payload = merged
	}

	a, errs := action.Decode(payload)
	errs = append(errs, action.ValidateStrict(a)...)
	if len(errs) > 0 {
		log.Printf("action %d update failed validation: %v", id, errs)
		writeValidationErrors(w, errs)
		return
	}
	a.ID = id
	if err := h.store.Save(&a); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Action not found", "Action with ID "+strconv.Itoa(id)+" does not exist")
			return
		}
		writeStoreError(w, err)
		return
	}
	log.Printf("updated action %d", id)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Action updated successfully",
		"data":    a,
	})
}

func (h *Handler) deleteAction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Action not found", "Invalid action ID format")
		return
	}
	deleted, err := h.store.Delete(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete action", err.Error())
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Action not found", "Action with ID "+strconv.Itoa(id)+" does not exist")
		return
	}
	log.Printf("deleted action %d", id)
	w.WriteHeader(http.StatusNoContent)
}
