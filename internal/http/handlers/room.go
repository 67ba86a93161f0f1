package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/askroom-backend/internal/http/response"
	apperrors "github.com/yungbote/askroom-backend/internal/pkg/errors"
	"github.com/yungbote/askroom-backend/internal/platform/logger"
	"github.com/yungbote/askroom-backend/internal/services"
)

type RoomHandler struct {
	log   *logger.Logger
	rooms services.RoomService
}

func NewRoomHandler(log *logger.Logger, rooms services.RoomService) *RoomHandler {
	return &RoomHandler{
		log:   log.With("handler", "RoomHandler"),
		rooms: rooms,
	}
}

type createRoomRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	room, err := h.rooms.CreateRoom(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"room_id": room.ID})
}

type roomListItem struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	QuestionCount int64     `json:"question_count"`
}

func (h *RoomHandler) ListRooms(c *gin.Context) {
	summaries, err := h.rooms.ListRooms(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	out := make([]roomListItem, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, roomListItem{
			ID:            s.Room.ID,
			Name:          s.Room.Name,
			Description:   s.Room.Description,
			CreatedAt:     s.Room.CreatedAt,
			QuestionCount: s.QuestionCount,
		})
	}
	response.RespondOK(c, gin.H{"rooms": out})
}

type questionListItem struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    *string   `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *RoomHandler) ListRoomQuestions(c *gin.Context) {
	roomID, ok := parseRoomID(c)
	if !ok {
		return
	}
	questions, err := h.rooms.ListRoomQuestions(c.Request.Context(), roomID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	out := make([]questionListItem, 0, len(questions))
	for _, q := range questions {
		out = append(out, questionListItem{
			ID:        q.ID,
			Question:  q.Question,
			Answer:    q.Answer,
			CreatedAt: q.CreatedAt,
		})
	}
	response.RespondOK(c, gin.H{"questions": out})
}

type chunkListItem struct {
	ID         uuid.UUID `json:"id"`
	Transcript string    `json:"transcript"`
	CreatedAt  time.Time `json:"created_at"`
}

func (h *RoomHandler) ListRoomChunks(c *gin.Context) {
	roomID, ok := parseRoomID(c)
	if !ok {
		return
	}
	chunks, err := h.rooms.ListRoomChunks(c.Request.Context(), roomID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	out := make([]chunkListItem, 0, len(chunks))
	for _, chunk := range chunks {
		out = append(out, chunkListItem{
			ID:         chunk.ID,
			Transcript: chunk.Transcript,
			CreatedAt:  chunk.CreatedAt,
		})
	}
	response.RespondOK(c, gin.H{"chunks": out})
}

func parseRoomID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("roomID")
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_room_id",
			fmt.Errorf("%w: room id %q is not a uuid", apperrors.ErrInvalidArgument, raw))
		return uuid.Nil, false
	}
	return id, true
}
