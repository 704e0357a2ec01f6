package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mamadbah2/brewcast/internal/domain/models"
)

// WatchedBatch is the YAML definition of the batch covered by the digest.
type WatchedBatch struct {
	Name        string    `yaml:"name"`
	OG          float64   `yaml:"og"`
	FG          *float64  `yaml:"fg"`
	Yeast       string    `yaml:"yeast"`
	PitchDate   time.Time `yaml:"pitch_date"`
	Temperature float64   `yaml:"temp_c"`

	// ReadingsCSV is used when no readings spreadsheet is configured.
	// Relative paths resolve against the batch file's directory.
	ReadingsCSV string `yaml:"readings_csv"`
}

// Batch converts the definition into a BrewBatch with the supplied readings.
func (w WatchedBatch) Batch(readings []models.GravityReading) models.BrewBatch {
	return models.NewBrewBatch(w.Name, w.OG, w.FG, w.Yeast, w.PitchDate, w.Temperature, readings)
}

// LoadWatchedBatch reads and validates a watched batch file.
func LoadWatchedBatch(path string) (*WatchedBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("watched batch: read %q: %w", path, err)
	}

	var wb WatchedBatch
	if err := yaml.Unmarshal(data, &wb); err != nil {
		return nil, fmt.Errorf("watched batch: parse yaml: %w", err)
	}

	switch {
	case wb.Name == "":
		return nil, errors.New("watched batch: name must be provided")
	case wb.Yeast == "":
		return nil, errors.New("watched batch: yeast must be provided")
	case wb.PitchDate.IsZero():
		return nil, errors.New("watched batch: pitch_date must be provided")
	}

	if wb.ReadingsCSV != "" && !filepath.IsAbs(wb.ReadingsCSV) {
		wb.ReadingsCSV = filepath.Join(filepath.Dir(path), wb.ReadingsCSV)
	}

	return &wb, nil
}
