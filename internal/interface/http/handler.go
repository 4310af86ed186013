package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/1990jr/mindelo-lausanne-time-bridge/internal/domain/insight"
)

// serviceName is reported by the health probe; dashboards match on it.
const serviceName = "mindelo-ai-bridge"

const maxBodyBytes = 64 << 10

// HandlerInfo describes the running pipeline for the health probe.
type HandlerInfo struct {
	Provider      string
	Model         string
	Store         string
	ReviewEnabled bool
	CacheTTL      time.Duration
}

// Handler wires the HTTP transport to the insight pipeline.
type Handler struct {
	svc    insight.Service
	info   HandlerInfo
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc insight.Service, info HandlerInfo, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		info:   info,
		logger: logger.With("component", "http.handler"),
	}
}

// Insight returns today's document for the requested language. The whole
// request body is forwarded to the generator as page context.
func (h *Handler) Insight(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if !json.Valid(body) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "Invalid JSON body", nil))
		return
	}

	resp, err := h.svc.Insight(c.Request.Context(), insight.Request{
		Lang:    requestedLanguage(body),
		Context: json.RawMessage(body),
	})
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.info.CacheTTL.Seconds())))
	c.JSON(http.StatusOK, resp)
}

// Health reports liveness plus the configured provider.
func (h *Handler) Health(c *gin.Context) {
	mode := "single-pass"
	if h.info.ReviewEnabled {
		mode = "reviewed"
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"service":  serviceName,
		"provider": h.info.Provider,
		"model":    h.info.Model,
		"store":    h.info.Store,
		"mode":     mode,
	})
}

// Budget exposes today's call counter.
func (h *Handler) Budget(c *gin.Context) {
	status, err := h.svc.Budget(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "budget_unavailable", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, status)
}

// History lists recently served documents, newest first.
func (h *Handler) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer", err))
			return
		}
		limit = parsed
	}

	entries, err := h.svc.History(c.Request.Context(), c.Query("lang"), limit)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

// PurgeCache drops one cached document so the next request regenerates it.
func (h *Handler) PurgeCache(c *gin.Context) {
	day, lang := c.Param("day"), c.Param("lang")
	if err := h.svc.Purge(c.Request.Context(), day, lang); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	h.logger.Info("cache entry purged", "day", day, "lang", lang, "admin", adminSubject(c))
	c.Status(http.StatusNoContent)
}

func (h *Handler) notFound(c *gin.Context) {
	abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "Not found", nil))
}

// requestedLanguage reads a string "lang" field from an object body and
// ignores every other shape.
func requestedLanguage(body []byte) string {
	var payload struct {
		Lang any `json:"lang"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	lang, _ := payload.Lang.(string)
	return strings.TrimSpace(lang)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
