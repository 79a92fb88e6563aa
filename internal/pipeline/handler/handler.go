package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"cms-backend/internal/pipeline"
	"cms-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Routes is what the router mounts for every kind.
type Routes interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	GetBySlug(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// Handler exposes one orchestrated kind over HTTP.
type Handler[T pipeline.Entity] struct {
	orchestrator *pipeline.Orchestrator[T]
}

func New[T pipeline.Entity](o *pipeline.Orchestrator[T]) *Handler[T] {
	return &Handler[T]{orchestrator: o}
}

// Create - POST /api/v1/<kind>
func (h *Handler[T]) Create(c *gin.Context) {
	entity := h.orchestrator.New()
	if err := c.ShouldBindJSON(entity); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.orchestrator.Create(c.Request.Context(), entity)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// List - GET /api/v1/<kind>?limit=&offset=
func (h *Handler[T]) List(c *gin.Context) {
	var params pipeline.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "invalid pagination: "+err.Error())
		return
	}

	items, total, err := h.orchestrator.List(c.Request.Context(), params)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, response.Page[T]{Data: items, Total: total})
}

// Get - GET /api/v1/<kind>/:id
func (h *Handler[T]) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	entity, err := h.orchestrator.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, entity)
}

// GetBySlug - GET /api/v1/<kind>/slug/:slug
func (h *Handler[T]) GetBySlug(c *gin.Context) {
	entity, err := h.orchestrator.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, entity)
}

// Update - PUT /api/v1/<kind>/:id
// Body: {"<singular kind>": {...fields}, "changed": bool}
func (h *Handler[T]) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var envelope map[string]json.RawMessage
	if err := c.ShouldBindJSON(&envelope); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	raw, ok := envelope[h.orchestrator.Name()]
	if !ok {
		response.BadRequest(c, "missing "+h.orchestrator.Name()+" in request body")
		return
	}

	entity := h.orchestrator.New()
	if err := json.Unmarshal(raw, entity); err != nil {
		response.BadRequest(c, "invalid "+h.orchestrator.Name()+": "+err.Error())
		return
	}

	var changed bool
	if rawChanged, present := envelope["changed"]; present {
		if err := json.Unmarshal(rawChanged, &changed); err != nil {
			response.BadRequest(c, "changed must be a boolean")
			return
		}
	}

	slug, err := h.orchestrator.Update(c.Request.Context(), id, entity, changed)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"slug": slug})
}

// Delete - DELETE /api/v1/<kind>/:id
func (h *Handler[T]) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.orchestrator.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	response.NoContent(c)
}

func (h *Handler[T]) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("kind", string(h.orchestrator.Kind())).
			Msg("Pipeline failed")
	}
	_ = c.Error(err)
	response.Error(c, status, err.Error())
}

// StatusFor maps pipeline errors onto HTTP statuses.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, pipeline.ErrInvalidPayload), errors.Is(err, pipeline.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}
