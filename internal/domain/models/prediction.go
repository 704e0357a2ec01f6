package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Summary keys, in presentation order.
const (
	SummaryBatchName    = "Batch Name"
	SummaryOG           = "OG (°P)"
	SummaryPredictedFG  = "Predicted FG (°P)"
	SummaryYeast        = "Yeast"
	SummaryFinishDate   = "Est. Finish Date"
	SummaryDiacetylRest = "Diacetyl Rest Trigger"
)

// DiacetylManualCheck is reported when the curve never reaches the rest window.
const DiacetylManualCheck = "Check gravity manually ~day 4"

// Summary is the presentation view of a batch prediction. It encodes to JSON
// with the display labels as keys, in presentation order.
type Summary struct {
	BatchName    string
	OG           float64
	PredictedFG  float64
	Yeast        string
	FinishDate   string
	DiacetylRest string
}

// Field is one labelled summary value.
type Field struct {
	Key   string
	Value any
}

// Fields returns the summary as ordered key/value pairs.
func (s Summary) Fields() []Field {
	return []Field{
		{Key: SummaryBatchName, Value: s.BatchName},
		{Key: SummaryOG, Value: s.OG},
		{Key: SummaryPredictedFG, Value: s.PredictedFG},
		{Key: SummaryYeast, Value: s.Yeast},
		{Key: SummaryFinishDate, Value: s.FinishDate},
		{Key: SummaryDiacetylRest, Value: s.DiacetylRest},
	}
}

// Map returns the summary keyed by its display labels.
func (s Summary) Map() map[string]any {
	fields := s.Fields()
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}

// MarshalJSON writes the labelled fields in presentation order. Struct tags
// cannot carry the degree sign, so the object is assembled by hand.
func (s Summary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by display labels. Unknown keys are ignored.
func (s *Summary) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	targets := map[string]any{
		SummaryBatchName:    &s.BatchName,
		SummaryOG:           &s.OG,
		SummaryPredictedFG:  &s.PredictedFG,
		SummaryYeast:        &s.Yeast,
		SummaryFinishDate:   &s.FinishDate,
		SummaryDiacetylRest: &s.DiacetylRest,
	}
	for key, target := range targets {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(msg, target); err != nil {
			return fmt.Errorf("summary %q: %w", key, err)
		}
	}
	return nil
}

// EstimateSource names the strategy that produced a finish date.
type EstimateSource string

const (
	SourceCurve       EstimateSource = "curve"
	SourceTemperature EstimateSource = "temperature"
)

// FinishEstimate exposes both finish-date strategies so callers can tell
// whether the readings corroborated the result.
type FinishEstimate struct {
	Date            time.Time      `json:"date"`
	Source          EstimateSource `json:"source"`
	CurveDate       *time.Time     `json:"curve_date,omitempty"`
	TemperatureDate time.Time      `json:"temperature_date"`
	TempFactor      float64        `json:"temp_factor"`
	Days            int            `json:"days"`
}

// Prediction is the full result returned by the API.
type Prediction struct {
	ID             string         `json:"id"`
	Summary        Summary        `json:"summary"`
	Finish         FinishEstimate `json:"finish"`
	DiacetylRestAt *time.Time     `json:"diacetyl_rest_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
