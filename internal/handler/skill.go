package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/skill-tracker/internal/apperror"
	"github.com/sakif/skill-tracker/internal/model"
	"github.com/sakif/skill-tracker/internal/service"
)

// SkillHandler manages CRUD operations over the shared skill catalog.
type SkillHandler struct {
	skills *service.SkillService
	logger *slog.Logger
}

// NewSkillHandler creates a SkillHandler.
func NewSkillHandler(skills *service.SkillService, logger *slog.Logger) *SkillHandler {
	return &SkillHandler{
		skills: skills,
		logger: logger,
	}
}

// skillRequest is the create/update body. Level is a pointer so that a
// submitted zero is distinguishable from an absent field: zero is a
// valid level, absence is a 400.
type skillRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Level       *int   `json:"level"`
	Description string `json:"description"`
}

// skillResponse wraps mutation results with a confirmation message.
type skillResponse struct {
	Message string       `json:"message"`
	Skill   *model.Skill `json:"skill,omitempty"`
}

// HandleList returns the skill catalog.
//
// HTTP: GET /skills[?limit=N&offset=M]
// Without query parameters the whole catalog is returned.
func (h *SkillHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit")
	offset := queryInt(r, "offset")

	skills, err := h.skills.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, skills)
}

// HandleCreate saves a new skill.
//
// HTTP: POST /add-skill
// 201 with the stored record on success; 400 when name, category, or
// level is missing.
func (h *SkillHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req skillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	skill, err := h.skills.Create(r.Context(), req.Name, req.Category, req.Level, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, skillResponse{
		Message: "Skill added successfully",
		Skill:   skill,
	})
}

// HandleUpdate replaces an existing skill's fields and refreshes its
// lastUpdated timestamp.
//
// HTTP: PUT /update-skill/{id}
// 400 on missing fields, 404 on an unknown ID.
func (h *SkillHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req skillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	skill, err := h.skills.Update(r.Context(), id, req.Name, req.Category, req.Level, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, skillResponse{
		Message: "Skill updated successfully",
		Skill:   skill,
	})
}

// HandleDelete removes a skill.
//
// HTTP: DELETE /delete-skill/{id}
// 200 with a confirmation on success; 404 on an unknown ID, including a
// repeated delete.
func (h *SkillHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.skills.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, skillResponse{
		Message: "Skill deleted successfully",
	})
}

// queryInt parses an integer query parameter, returning 0 when absent
// or malformed.
func queryInt(r *http.Request, key string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
