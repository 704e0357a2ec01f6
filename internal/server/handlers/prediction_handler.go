package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/brewcast/internal/curve"
	"github.com/mamadbah2/brewcast/internal/domain/models"
	"github.com/mamadbah2/brewcast/internal/yeast"
)

const readingsFormField = "readings"

// Predictor describes the prediction operation the HTTP layer needs.
type Predictor interface {
	Predict(batch models.BrewBatch) (models.Prediction, error)
}

// PredictionHandler serves batch prediction requests.
type PredictionHandler struct {
	svc      Predictor
	profiles ProfileCatalog
	logger   *zap.Logger
}

// NewPredictionHandler constructs the HTTP handler adapter.
func NewPredictionHandler(svc Predictor, profiles ProfileCatalog, logger *zap.Logger) *PredictionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictionHandler{svc: svc, profiles: profiles, logger: logger}
}

// Predict accepts a JSON batch with optional inline readings.
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req models.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid prediction payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	batch := req.Batch()
	curve.Sort(batch.Readings)
	h.respond(c, batch)
}

// PredictCSV accepts a multipart form with batch fields and a readings CSV upload.
func (h *PredictionHandler) PredictCSV(c *gin.Context) {
	req, err := parseBatchForm(c)
	if err != nil {
		h.logger.Warn("invalid prediction form", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var readings []models.GravityReading
	fileHeader, err := c.FormFile(readingsFormField)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid readings upload"})
		return
	default:
		f, err := fileHeader.Open()
		if err != nil {
			h.logger.Error("failed opening readings upload", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}
		defer f.Close()

		readings, err = curve.Parse(f)
		if err != nil {
			h.logger.Warn("readings upload rejected", zap.String("file", fileHeader.Filename), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	h.respond(c, models.NewBrewBatch(req.Name, req.OG, req.FG, req.Yeast, req.PitchDate, req.TempC, readings))
}

func (h *PredictionHandler) respond(c *gin.Context, batch models.BrewBatch) {
	// Predict always resolves the profile for its temperature estimate, even
	// when an explicit FG and a matching curve would not need it.
	if _, err := h.profiles.Lookup(batch.Yeast); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	pred, err := h.svc.Predict(batch)
	if err != nil {
		if errors.Is(err, yeast.ErrUnknownStrain) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("prediction failed", zap.String("batch", batch.Name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "prediction failed"})
		return
	}

	c.JSON(http.StatusOK, pred)
}

func parseBatchForm(c *gin.Context) (models.PredictionRequest, error) {
	req := models.PredictionRequest{
		Name:  strings.TrimSpace(c.PostForm("name")),
		Yeast: strings.TrimSpace(c.PostForm("yeast")),
	}
	if req.Name == "" {
		return req, errors.New("name is required")
	}
	if req.Yeast == "" {
		return req, errors.New("yeast is required")
	}

	var err error
	if req.OG, err = formFloat(c, "og"); err != nil {
		return req, err
	}
	if req.TempC, err = formFloat(c, "temp_c"); err != nil {
		return req, err
	}

	if raw := strings.TrimSpace(c.PostForm("fg")); raw != "" {
		fg, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, fmt.Errorf("fg %q is not numeric", raw)
		}
		req.FG = &fg
	}

	pitch, err := curve.ParseTimestamp(strings.TrimSpace(c.PostForm("pitch_date")))
	if err != nil {
		return req, fmt.Errorf("pitch_date: %w", err)
	}
	req.PitchDate = pitch

	return req, nil
}

func formFloat(c *gin.Context, key string) (float64, error) {
	raw := strings.TrimSpace(c.PostForm(key))
	if raw == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not numeric", key, raw)
	}
	return v, nil
}
