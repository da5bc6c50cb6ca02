package httpapi

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/soms/internal/domain"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	idempotencyTTL       = 24 * time.Hour
)

// idempotent оборачивает create-обработчик поддержкой заголовка
// Idempotency-Key: повтор с тем же ключом и телом возвращает
// сохранённый ответ, тот же ключ с другим телом — конфликт.
func (s *Server) idempotent(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(idempotencyKeyHeader)
		if key == "" || s.idempotency == nil {
			handler(c)
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		sum := sha256.Sum256(body)
		requestHash := hex.EncodeToString(sum[:])

		record, err := s.idempotency.CreateProcessing(key, requestHash, s.now().UTC().Add(idempotencyTTL))
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists):
			s.replayStoredResponse(c, record)
			return
		case errors.Is(err, domain.ErrIdempotencyHashMismatch):
			writeError(c, err)
			return
		default:
			s.logger.WithError(err).WithField("idempotency_key", key).Error("failed to register idempotency key")
			c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}

		capture := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = capture

		handler(c)

		status := capture.Status()
		var markErr error
		if status >= http.StatusOK && status < http.StatusMultipleChoices {
			markErr = s.idempotency.MarkDone(key, capture.body.Bytes(), status)
		} else {
			markErr = s.idempotency.MarkFailed(key, capture.body.Bytes(), status)
		}
		if markErr != nil {
			s.logger.WithError(markErr).WithField("idempotency_key", key).Warn("failed to store idempotent response")
		}
	}
}

// replayStoredResponse воспроизводит ответ, сохранённый по ключу.
// Запись в статусе processing означает параллельный запрос с тем же ключом.
func (s *Server) replayStoredResponse(c *gin.Context, record domain.IdempotencyRecord) {
	if record.Status == domain.IdempotencyStatusProcessing {
		c.JSON(http.StatusConflict, errorResponse{Error: "request with this idempotency key is still being processed"})
		return
	}

	c.Data(record.HTTPStatus, "application/json; charset=utf-8", record.ResponseBody)
}

// bodyCaptureWriter дублирует тело ответа в буфер для последующего replay.
type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(p []byte) (int, error) {
	w.body.Write(p)
	return w.ResponseWriter.Write(p)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
