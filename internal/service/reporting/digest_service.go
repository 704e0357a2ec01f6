package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/brewcast/internal/config"
	"github.com/mamadbah2/brewcast/internal/curve"
	"github.com/mamadbah2/brewcast/internal/domain/models"
	repo "github.com/mamadbah2/brewcast/internal/repository/sheets"
	"github.com/mamadbah2/brewcast/internal/service/prediction"
)

// Predictor produces a full prediction for a batch.
type Predictor interface {
	Predict(batch models.BrewBatch) (models.Prediction, error)
}

// Service builds the periodic fermentation digest for the watched batch.
type Service struct {
	batch         config.WatchedBatch
	repo          repo.Repository
	readingsRange string
	predictor     Predictor
	logger        *zap.Logger
	now           func() time.Time
}

// NewService wires a digest service. repository may be nil, in which case
// readings come from the batch's CSV file, if any.
func NewService(batch config.WatchedBatch, repository repo.Repository, readingsRange string, predictor Predictor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		batch:         batch,
		repo:          repository,
		readingsRange: readingsRange,
		predictor:     predictor,
		logger:        logger,
		now:           time.Now,
	}
}

// LoadReadings returns the watched batch's readings from the spreadsheet, the
// CSV file, or nil when neither is configured.
func (s *Service) LoadReadings(ctx context.Context) ([]models.GravityReading, error) {
	switch {
	case s.repo != nil:
		rows, err := s.repo.ReadRange(ctx, s.readingsRange)
		if err != nil {
			return nil, fmt.Errorf("load readings range: %w", err)
		}
		readings, err := curve.FromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("parse readings range %s: %w", s.readingsRange, err)
		}
		return readings, nil
	case s.batch.ReadingsCSV != "":
		return curve.LoadFile(s.batch.ReadingsCSV)
	default:
		return nil, nil
	}
}

// BuildDigest predicts the watched batch and renders a chat-friendly message.
func (s *Service) BuildDigest(ctx context.Context) (string, error) {
	readings, err := s.LoadReadings(ctx)
	if err != nil {
		return "", err
	}

	pred, err := s.predictor.Predict(s.batch.Batch(readings))
	if err != nil {
		return "", fmt.Errorf("predict %s: %w", s.batch.Name, err)
	}

	s.logger.Debug("digest prediction ready",
		zap.String("batch", s.batch.Name),
		zap.Int("readings", len(readings)),
		zap.String("prediction_id", pred.ID))

	var b strings.Builder
	fmt.Fprintf(&b, "Fermentation digest (%s)\n", prediction.FormatDate(s.now()))
	b.WriteString(RenderSummary(pred.Summary))

	if n := len(readings); n > 0 {
		last := readings[n-1]
		fmt.Fprintf(&b, "\nLatest gravity: %v (%s)", last.Gravity, prediction.FormatDate(last.Timestamp))
	}

	if pred.Finish.Source == models.SourceTemperature && len(readings) > 0 {
		b.WriteString("\nReadings have not reached the finish band yet; finish date is temperature-based.")
	}

	return b.String(), nil
}

// RenderSummary prints one "Key: value" line per summary field.
func RenderSummary(summary models.Summary) string {
	fields := summary.Fields()
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("%s: %v", f.Key, f.Value))
	}
	return strings.Join(lines, "\n")
}
