package http

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/bookscout/backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	serviceName    = "bookscout-backend"
	serviceVersion = "1.0.0"
)

// Scouter runs the book scouting pipeline
type Scouter interface {
	Scout(ctx context.Context, image []byte, buyPrice float64) (*domain.ScoutResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scouter Scouter
}

// NewHandler creates a new HTTP handler
func NewHandler(scouter Scouter) *Handler {
	return &Handler{scouter: scouter}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// Upload handles POST /api/upload: a multipart form with the book photo in
// "file" and an optional purchase cost in "buyPrice".
func (h *Handler) Upload(c *gin.Context) {
	if h.scouter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scouting service not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	buyPrice, err := parseBuyPrice(c.DefaultPostForm("buyPrice", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid buyPrice"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("cannot open upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read uploaded file"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("cannot read upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read uploaded file"})
		return
	}

	result, err := h.scouter.Scout(c.Request.Context(), image, buyPrice)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// parseBuyPrice accepts a non-negative decimal; an empty value means 0
func parseBuyPrice(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, domain.ErrInvalidRequest
	}
	return price, nil
}

// respondError maps pipeline failures to their status and message
func respondError(c *gin.Context, err error) {
	var stageErr *domain.StageError
	if errors.As(err, &stageErr) {
		c.JSON(stageErr.Status, gin.H{"error": stageErr.Message})
		return
	}

	log.Error().Err(err).Msg("unexpected scouting failure")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
