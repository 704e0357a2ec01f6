// Command predict prints a fermentation summary for one batch.
//
//	predict -csv readings.csv -name "NEIPA Batch 62" -og 1.058 -fg 1.011 \
//	        -yeast "Verdant IPA" -pitch 2025-07-10 -temp 18
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/mamadbah2/brewcast/internal/curve"
	"github.com/mamadbah2/brewcast/internal/domain/models"
	"github.com/mamadbah2/brewcast/internal/service/prediction"
	"github.com/mamadbah2/brewcast/internal/service/reporting"
	"github.com/mamadbah2/brewcast/internal/yeast"
	"github.com/mamadbah2/brewcast/pkg/logger"
)

func main() {
	var (
		csvPath  = flag.String("csv", "", "readings CSV with sg and timepoint columns")
		name     = flag.String("name", "", "batch name")
		og       = flag.Float64("og", 0, "original gravity")
		fg       = flag.String("fg", "", "explicit target final gravity (optional)")
		strain   = flag.String("yeast", "", "yeast strain key")
		pitch    = flag.String("pitch", "", "pitch date/time")
		tempC    = flag.Float64("temp", 0, "fermentation temperature in °C")
		profiles = flag.String("profiles", "", "YAML yeast profile table (default: built-in)")
		logLevel = flag.String("log-level", "warn", "log level")
	)
	flag.Parse()

	log := logger.Must(logger.New(*logLevel))
	defer func() { _ = log.Sync() }()

	if err := run(log, *csvPath, *name, *og, *fg, *strain, *pitch, *tempC, *profiles); err != nil {
		fmt.Fprintln(os.Stderr, "predict:", err)
		os.Exit(1)
	}
}

func run(log *zap.Logger, csvPath, name string, og float64, fg, strain, pitch string, tempC float64, profilesPath string) error {
	if name == "" || strain == "" || pitch == "" {
		return fmt.Errorf("-name, -yeast and -pitch are required")
	}

	table := yeast.Default()
	if profilesPath != "" {
		t, err := yeast.LoadFile(profilesPath)
		if err != nil {
			return err
		}
		table = t
	}

	if _, err := table.Lookup(strain); err != nil {
		return err
	}

	pitchDate, err := curve.ParseTimestamp(pitch)
	if err != nil {
		return fmt.Errorf("-pitch: %w", err)
	}

	var target *float64
	if fg != "" {
		v, err := strconv.ParseFloat(fg, 64)
		if err != nil {
			return fmt.Errorf("-fg %q is not numeric", fg)
		}
		target = &v
	}

	var readings []models.GravityReading
	if csvPath != "" {
		readings, err = curve.LoadFile(csvPath)
		if err != nil {
			return err
		}
		log.Info("readings loaded", zap.String("file", csvPath), zap.Int("count", len(readings)))
	}

	batch := models.NewBrewBatch(name, og, target, strain, pitchDate, tempC, readings)
	summary, err := prediction.NewService(table, log.Named("prediction")).Summary(batch)
	if err != nil {
		return err
	}

	fmt.Println(reporting.RenderSummary(summary))
	return nil
}
