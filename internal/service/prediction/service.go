package prediction

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/brewcast/internal/domain/models"
)

const (
	// finishTolerance is the band above FG at which the curve counts as flat.
	finishTolerance = 0.002
	// diacetylTolerance is looser so the rest is reached at or before the finish point.
	diacetylTolerance = 0.003

	baseFermentationDays = 5
	coolFactor           = 1.2
	warmFactor           = 0.8
	fgDecimals           = 3

	// exactFloatExponent is the smallest float64 binary exponent; a decimal
	// with this many fractional digits holds any float64 exactly.
	exactFloatExponent = -1074
)

// ProfileLookup resolves yeast strain keys.
type ProfileLookup interface {
	Lookup(key string) (models.YeastProfile, error)
}

// Service derives fermentation milestones from a batch. Every call recomputes
// from the batch fields; nothing is cached.
type Service struct {
	profiles ProfileLookup
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a prediction service around the given profile table.
func NewService(profiles ProfileLookup, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		profiles: profiles,
		logger:   logger,
		now:      time.Now,
	}
}

// PredictFG returns the explicit target when present, otherwise the gravity
// left after the strain's average attenuation, rounded to three decimals.
func (s *Service) PredictFG(batch models.BrewBatch) (float64, error) {
	if batch.TargetFG != nil {
		return *batch.TargetFG, nil
	}

	profile, err := s.profiles.Lookup(batch.Yeast)
	if err != nil {
		return 0, err
	}

	avgAtt := profile.Attenuation.Midpoint()
	fg := batch.OG * (1 - avgAtt/100)
	return roundFG(fg), nil
}

// roundFG rounds the exact binary value of fg, not its shortest decimal text,
// with ties to even.
func roundFG(fg float64) float64 {
	return decimal.NewFromFloatWithExponent(fg, exactFloatExponent).RoundBank(fgDecimals).InexactFloat64()
}

// PredictFinishDate returns the first reading within the finish band, falling
// back to the temperature-adjusted estimate when the curve never flattens.
func (s *Service) PredictFinishDate(batch models.BrewBatch) (time.Time, error) {
	if batch.HasCurve() {
		curveDate, ok, err := s.firstWithin(batch, finishTolerance)
		if err != nil {
			return time.Time{}, err
		}
		if ok {
			return curveDate, nil
		}
		s.logger.Debug("curve did not reach finish band, using temperature estimate",
			zap.String("batch", batch.Name),
			zap.Int("readings", len(batch.Readings)))
	}

	date, _, _, err := s.temperatureEstimate(batch)
	return date, err
}

// FinishEstimate computes both finish strategies and reports which one
// PredictFinishDate selects. Unlike PredictFinishDate it always needs the
// yeast profile.
func (s *Service) FinishEstimate(batch models.BrewBatch) (models.FinishEstimate, error) {
	tempDate, factor, days, err := s.temperatureEstimate(batch)
	if err != nil {
		return models.FinishEstimate{}, err
	}

	estimate := models.FinishEstimate{
		Date:            tempDate,
		Source:          models.SourceTemperature,
		TemperatureDate: tempDate,
		TempFactor:      factor,
		Days:            days,
	}

	if batch.HasCurve() {
		curveDate, ok, err := s.firstWithin(batch, finishTolerance)
		if err != nil {
			return models.FinishEstimate{}, err
		}
		if ok {
			estimate.CurveDate = &curveDate
			estimate.Date = curveDate
			estimate.Source = models.SourceCurve
		}
	}

	return estimate, nil
}

// DiacetylRestTrigger returns the first reading within the diacetyl band.
// The boolean is false when no curve was supplied or it never got close enough.
func (s *Service) DiacetylRestTrigger(batch models.BrewBatch) (time.Time, bool, error) {
	if !batch.HasCurve() {
		return time.Time{}, false, nil
	}
	return s.firstWithin(batch, diacetylTolerance)
}

// Summary assembles the display view of the batch.
func (s *Service) Summary(batch models.BrewBatch) (models.Summary, error) {
	fg, err := s.PredictFG(batch)
	if err != nil {
		return models.Summary{}, fmt.Errorf("predict fg: %w", err)
	}

	finish, err := s.PredictFinishDate(batch)
	if err != nil {
		return models.Summary{}, fmt.Errorf("predict finish date: %w", err)
	}

	rest, err := s.diacetylRestLabel(batch)
	if err != nil {
		return models.Summary{}, fmt.Errorf("diacetyl rest trigger: %w", err)
	}

	return models.Summary{
		BatchName:    batch.Name,
		OG:           batch.OG,
		PredictedFG:  fg,
		Yeast:        batch.Yeast,
		FinishDate:   FormatDate(finish),
		DiacetylRest: rest,
	}, nil
}

// Predict bundles the summary with the raw estimates under a fresh identifier.
func (s *Service) Predict(batch models.BrewBatch) (models.Prediction, error) {
	summary, err := s.Summary(batch)
	if err != nil {
		return models.Prediction{}, err
	}

	estimate, err := s.FinishEstimate(batch)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("finish estimate: %w", err)
	}

	prediction := models.Prediction{
		ID:        uuid.NewString(),
		Summary:   summary,
		Finish:    estimate,
		CreatedAt: s.now().UTC(),
	}

	if at, ok, err := s.DiacetylRestTrigger(batch); err != nil {
		return models.Prediction{}, fmt.Errorf("diacetyl rest trigger: %w", err)
	} else if ok {
		prediction.DiacetylRestAt = &at
	}

	s.logger.Info("batch predicted",
		zap.String("prediction_id", prediction.ID),
		zap.String("batch", batch.Name),
		zap.String("yeast", batch.Yeast),
		zap.Float64("predicted_fg", summary.PredictedFG),
		zap.String("finish_source", string(estimate.Source)))

	return prediction, nil
}

func (s *Service) diacetylRestLabel(batch models.BrewBatch) (string, error) {
	at, ok, err := s.DiacetylRestTrigger(batch)
	if err != nil {
		return "", err
	}
	if !ok {
		return models.DiacetylManualCheck, nil
	}
	return FormatDate(at), nil
}

// firstWithin scans readings in order for the first gravity at or below FG + tolerance.
func (s *Service) firstWithin(batch models.BrewBatch, tolerance float64) (time.Time, bool, error) {
	fg, err := s.PredictFG(batch)
	if err != nil {
		return time.Time{}, false, err
	}

	threshold := fg + tolerance
	for _, r := range batch.Readings {
		if r.Gravity <= threshold {
			return r.Timestamp, true, nil
		}
	}
	return time.Time{}, false, nil
}

func (s *Service) temperatureEstimate(batch models.BrewBatch) (time.Time, float64, int, error) {
	profile, err := s.profiles.Lookup(batch.Yeast)
	if err != nil {
		return time.Time{}, 0, 0, err
	}

	factor := TemperatureFactor(batch.Temperature, profile.OptimalTemp)
	days := int(math.Floor(baseFermentationDays * factor))
	return batch.PitchDate.AddDate(0, 0, days), factor, days, nil
}

// TemperatureFactor scales fermentation length: slower below the optimal
// range, faster above it. Both bounds count as within range.
func TemperatureFactor(tempC float64, optimal models.Range) float64 {
	switch {
	case tempC < optimal.Min:
		return coolFactor
	case tempC > optimal.Max:
		return warmFactor
	default:
		return 1.0
	}
}
