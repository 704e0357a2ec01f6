package models

import "time"

// GravityReading is a single hydrometer or tilt measurement.
type GravityReading struct {
	Timestamp time.Time `json:"timestamp"`
	Gravity   float64   `json:"gravity"`
}

// BrewBatch describes one fermenting batch. Readings are sorted ascending by timestamp.
type BrewBatch struct {
	Name        string
	OG          float64
	TargetFG    *float64 // overrides the attenuation estimate when set
	Yeast       string
	PitchDate   time.Time
	Temperature float64 // ambient °C
	Readings    []GravityReading
}

// NewBrewBatch builds a batch that owns a private copy of readings.
func NewBrewBatch(name string, og float64, targetFG *float64, yeast string, pitchDate time.Time, tempC float64, readings []GravityReading) BrewBatch {
	batch := BrewBatch{
		Name:        name,
		OG:          og,
		Yeast:       yeast,
		PitchDate:   pitchDate,
		Temperature: tempC,
	}

	if targetFG != nil {
		fg := *targetFG
		batch.TargetFG = &fg
	}

	if readings != nil {
		batch.Readings = make([]GravityReading, len(readings))
		copy(batch.Readings, readings)
	}

	return batch
}

// HasCurve reports whether any readings were supplied.
func (b BrewBatch) HasCurve() bool {
	return len(b.Readings) > 0
}
