package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/askdesk/internal/core/domain"
	"github.com/custodia-labs/askdesk/internal/logger"
)

const webhookSecretHeader = "X-WEBHOOK-SECRET"

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Query string `json:"query"`
}

// ChatResponse is the body returned by POST /api/chat.
type ChatResponse struct {
	Answer  string            `json:"answer"`
	Sources []domain.Document `json:"sources"`
	Model   string            `json:"model"`
}

// IndexRequest is the body of POST /api/docs/index.
type IndexRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// HealthHandler reports liveness.
func (s *Server) HealthHandler(c *gin.Context) {
	h := s.health.Health()
	c.JSON(http.StatusOK, gin.H{
		"status":   h.Status,
		"provider": h.Provider,
		"ts":       float64(h.Timestamp.UnixNano()) / 1e9,
	})
}

// RootHandler serves the chat UI, or a short message when it is absent.
func (s *Server) RootHandler(c *gin.Context) {
	if page := s.indexPage(); page != "" {
		c.File(page)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "API is running. UI not found in " + s.cfg.StaticDir + "/index.html.",
	})
}

// ChatHandler answers a question from the indexed documents.
func (s *Server) ChatHandler(c *gin.Context) {
	var req ChatRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		SendError(c, http.StatusBadRequest, ErrorCodeEmptyQuery, "Empty query")
		return
	}

	answer, err := s.answers.Answer(c.Request.Context(), req.Query)
	if err != nil {
		if sendClientError(c, err) {
			return
		}
		logger.Error("chat: %v", err)
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, "Failed to answer question")
		return
	}

	sources := answer.Sources
	if sources == nil {
		sources = []domain.Document{}
	}
	c.JSON(http.StatusOK, ChatResponse{
		Answer:  answer.Answer,
		Sources: sources,
		Model:   answer.Model,
	})
}

// IndexDocumentHandler ingests one document. The caller must present the
// webhook secret in the X-WEBHOOK-SECRET header or the secret query parameter.
func (s *Server) IndexDocumentHandler(c *gin.Context) {
	if err := s.verifySecret(c); err != nil {
		sendClientError(c, err)
		return
	}

	var req IndexRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := s.docs.Ingest(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		if sendClientError(c, err) {
			return
		}
		logger.Error("index document: %v", err)
		SendError(c, http.StatusInternalServerError, ErrorCodeStorageFailed, "Failed to store document")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "id": id})
}

// ListDocumentsHandler lists the most recent documents, newest first.
func (s *Server) ListDocumentsHandler(c *gin.Context) {
	limit := domain.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "limit must be an integer")
			return
		}
		limit = min(n, domain.MaxResultLimit)
	}

	items, err := s.docs.ListRecent(c.Request.Context(), limit)
	if err != nil {
		logger.Error("list documents: %v", err)
		SendError(c, http.StatusInternalServerError, ErrorCodeStorageFailed, "Failed to list documents")
		return
	}
	if items == nil {
		items = []domain.DocumentSummary{}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// verifySecret compares the presented webhook secret in constant time.
func (s *Server) verifySecret(c *gin.Context) error {
	secret := c.GetHeader(webhookSecretHeader)
	if secret == "" {
		secret = c.Query("secret")
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.cfg.WebhookSecret)) != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}

// sendClientError writes the response for client-class domain errors and
// reports whether it did. Other errors are left to the caller.
func sendClientError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		SendError(c, http.StatusForbidden, ErrorCodeInvalidSecret, "Invalid secret")
	case errors.Is(err, domain.ErrEmptyQuestion):
		SendError(c, http.StatusBadRequest, ErrorCodeEmptyQuery, "Empty query")
	case errors.Is(err, domain.ErrInvalidInput):
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
	default:
		return false
	}
	return true
}

// bindJSON decodes the body into dst, writing the error response on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			SendError(c, http.StatusRequestEntityTooLarge, ErrorCodeTooLarge, "Request body too large")
			return false
		}
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid JSON in request body: "+err.Error())
		return false
	}
	return true
}
