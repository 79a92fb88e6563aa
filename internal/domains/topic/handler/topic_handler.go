package handler

import (
	"net/http"
	"strconv"

	"cms-backend/internal/domains/topic"
	"cms-backend/internal/pipeline"
	"cms-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type TopicHandler struct {
	service topic.TopicService
}

func NewTopicHandler(svc topic.TopicService) *TopicHandler {
	return &TopicHandler{service: svc}
}

// List - GET /api/v1/topics
func (h *TopicHandler) List(c *gin.Context) {
	var params pipeline.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "invalid pagination: "+err.Error())
		return
	}

	resp, err := h.service.List(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		response.Error(c, topic.GetHTTPStatusCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Create - POST /api/v1/topics
func (h *TopicHandler) Create(c *gin.Context) {
	var req topic.CreateTopicReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, topic.GetHTTPStatusCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusCreated, created)
}

// Vote - POST /api/v1/topics/:id/vote
func (h *TopicHandler) Vote(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}

	votes, err := h.service.Vote(c.Request.Context(), id)
	if err != nil {
		response.Error(c, topic.GetHTTPStatusCode(err), err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "votes": votes})
}

// Delete - DELETE /api/v1/topics/:id
func (h *TopicHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, topic.GetHTTPStatusCode(err), err.Error())
		return
	}

	response.NoContent(c)
}
