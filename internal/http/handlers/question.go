package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/askroom-backend/internal/http/response"
	"github.com/yungbote/askroom-backend/internal/platform/logger"
	"github.com/yungbote/askroom-backend/internal/services"
)

type QuestionHandler struct {
	log       *logger.Logger
	retrieval services.RetrievalService
}

func NewQuestionHandler(log *logger.Logger, retrieval services.RetrievalService) *QuestionHandler {
	return &QuestionHandler{
		log:       log.With("handler", "QuestionHandler"),
		retrieval: retrieval,
	}
}

type createQuestionRequest struct {
	Question string `json:"question" binding:"required"`
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	roomID, ok := parseRoomID(c)
	if !ok {
		return
	}
	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	result, err := h.retrieval.AskQuestion(c.Request.Context(), roomID, req.Question)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"question_id": result.QuestionID,
		"answer":      result.Answer,
	})
}
