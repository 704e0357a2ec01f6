package models

import "time"

// ReadingPayload is the wire shape of a gravity reading.
type ReadingPayload struct {
	Timestamp time.Time `json:"timestamp" binding:"required"`
	Gravity   float64   `json:"gravity"`
}

// PredictionRequest represents a batch submitted through the API.
type PredictionRequest struct {
	Name      string           `json:"name" binding:"required"`
	OG        float64          `json:"og"`
	FG        *float64         `json:"fg"`
	Yeast     string           `json:"yeast" binding:"required"`
	PitchDate time.Time        `json:"pitch_date" binding:"required"`
	TempC     float64          `json:"temp_c"`
	Readings  []ReadingPayload `json:"readings" binding:"omitempty,dive"`
}

// Batch converts the request into a BrewBatch. A nil readings list stays nil.
func (r PredictionRequest) Batch() BrewBatch {
	var readings []GravityReading
	if r.Readings != nil {
		readings = make([]GravityReading, 0, len(r.Readings))
		for _, rp := range r.Readings {
			readings = append(readings, GravityReading{Timestamp: rp.Timestamp, Gravity: rp.Gravity})
		}
	}
	return NewBrewBatch(r.Name, r.OG, r.FG, r.Yeast, r.PitchDate, r.TempC, readings)
}
