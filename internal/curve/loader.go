package curve

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mamadbah2/brewcast/internal/domain/models"
)

// ErrParse indicates the tabular source could not be turned into readings.
var ErrParse = errors.New("curve parse error")

const (
	gravityColumn    = "sg"
	gravityAltColumn = "gravity"
	timestampColumn  = "timepoint"
	byteOrderMark    = "\ufeff"
)

// nullMarkers mirrors the tokens spreadsheet and dataframe exports use for missing cells.
var nullMarkers = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"-nan": {},
	"null": {},
	"none": {},
	"#n/a": {},
	"<na>": {},
	"nat":  {},
}

// LoadFile reads a delimited readings export from disk.
func LoadFile(path string) ([]models.GravityReading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open readings %s: %w", path, err)
	}
	defer f.Close()

	readings, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("load readings %s: %w", path, err)
	}
	return readings, nil
}

// Parse reads CSV data with a header row containing sg and timepoint columns.
// Rows with a null gravity are dropped and the result is sorted by timestamp.
func Parse(r io.Reader) ([]models.GravityReading, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %v", ErrParse, err)
	}
	return fromRecords(records)
}

// FromRows converts a spreadsheet value range (header first) into readings.
func FromRows(rows [][]interface{}) ([]models.GravityReading, error) {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		record := make([]string, len(row))
		for i, cell := range row {
			if cell == nil {
				continue
			}
			record[i] = fmt.Sprint(cell)
		}
		records = append(records, record)
	}
	return fromRecords(records)
}

// Sort orders readings ascending by timestamp, keeping the input order of duplicates.
func Sort(readings []models.GravityReading) {
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})
}

func fromRecords(records [][]string) ([]models.GravityReading, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrParse)
	}

	gravityIdx, timeIdx := columnIndexes(records[0])
	if gravityIdx < 0 {
		return nil, fmt.Errorf("%w: missing %q column", ErrParse, gravityColumn)
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("%w: missing %q column", ErrParse, timestampColumn)
	}

	readings := make([]models.GravityReading, 0, len(records)-1)
	for i, row := range records[1:] {
		line := i + 2

		rawGravity := cell(row, gravityIdx)
		if isNull(rawGravity) {
			continue
		}

		gravity, err := strconv.ParseFloat(rawGravity, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %s %q is not numeric", ErrParse, line, gravityColumn, rawGravity)
		}

		rawTime := cell(row, timeIdx)
		ts, err := ParseTimestamp(rawTime)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %s: %v", ErrParse, line, timestampColumn, err)
		}

		readings = append(readings, models.GravityReading{Timestamp: ts, Gravity: gravity})
	}

	Sort(readings)
	return readings, nil
}

func columnIndexes(header []string) (gravityIdx, timeIdx int) {
	gravityIdx, timeIdx = -1, -1
	altIdx := -1

	for i, h := range header {
		switch normalizeHeader(h) {
		case gravityColumn:
			if gravityIdx < 0 {
				gravityIdx = i
			}
		case gravityAltColumn:
			if altIdx < 0 {
				altIdx = i
			}
		case timestampColumn:
			if timeIdx < 0 {
				timeIdx = i
			}
		}
	}

	if gravityIdx < 0 {
		gravityIdx = altIdx
	}
	return gravityIdx, timeIdx
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, byteOrderMark)
	return strings.ToLower(strings.TrimSpace(h))
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isNull(value string) bool {
	_, ok := nullMarkers[strings.ToLower(value)]
	return ok
}
