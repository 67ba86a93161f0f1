package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/askroom-backend/internal/http/response"
	apperrors "github.com/yungbote/askroom-backend/internal/pkg/errors"
	"github.com/yungbote/askroom-backend/internal/platform/logger"
	"github.com/yungbote/askroom-backend/internal/services"
)

const maxAudioUploadBytes = 32 << 20

type AudioHandler struct {
	log       *logger.Logger
	ingestion services.IngestionService
}

func NewAudioHandler(log *logger.Logger, ingestion services.IngestionService) *AudioHandler {
	return &AudioHandler{
		log:       log.With("handler", "AudioHandler"),
		ingestion: ingestion,
	}
}

func (h *AudioHandler) UploadAudio(c *gin.Context) {
	roomID, ok := parseRoomID(c)
	if !ok {
		return
	}
	if err := c.Request.ParseMultipartForm(maxAudioUploadBytes); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_audio_file",
			fmt.Errorf("%w: multipart field \"file\" is required", apperrors.ErrInvalidArgument))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_audio_file", err)
		return
	}
	defer f.Close()

	audio, err := io.ReadAll(io.LimitReader(f, maxAudioUploadBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_audio_file", err)
		return
	}
	if len(audio) > maxAudioUploadBytes {
		response.RespondError(c, http.StatusBadRequest, "audio_too_large",
			fmt.Errorf("%w: audio exceeds %d bytes", apperrors.ErrInvalidArgument, maxAudioUploadBytes))
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")

	chunkID, err := h.ingestion.IngestAudio(c.Request.Context(), roomID, audio, mimeType)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"chunk_id": chunkID})
}
