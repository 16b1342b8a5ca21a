package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrUnreadable wraps any condition that prevents reading the detection feed:
// a missing file, a malformed header, or an unparseable row. Callers treat it
// as fatal for the current ingestion run.
var ErrUnreadable = errors.New("detection feed unreadable")

// Column names as emitted by the survey pipeline.
const (
	colSource        = "source"
	colObservation   = "observation"
	colRA            = "ra[deg]"
	colDec           = "dec[deg]"
	colCentroidRA    = "centroid_ra[deg]"
	colCentroidDec   = "centroid_dec[deg]"
	colField         = "field"
	colTime          = "time"
	colTestStatistic = "test_statistic"
	colPeakFlux      = "peak_flux[mJy]"
	colPeakFlux90    = "peak_flux_90[mJy]"
	colPeakFlux150   = "peak_flux_150[mJy]"
	colFWHM          = "fwhm[days]"
	colStatus        = "status"
	colModified      = "modified"
)

var requiredColumns = []string{
	colSource, colObservation, colRA, colDec, colField, colTime, colTestStatistic,
}

// ReadFile parses the tab-separated detection feed at path, preserving feed
// order.
func ReadFile(path string) ([]Detection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrUnreadable, path, err)
	}
	defer file.Close()

	detections, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrUnreadable, path, err)
	}
	return detections, nil
}

// Parse reads tab-separated detections from r. The first row must be a header
// naming at least the required columns; optional centroid and flux columns are
// resolved per row into the Detection variants.
func Parse(r io.Reader) ([]Detection, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty feed")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var detections []Detection
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line+1, err)
		}
		line++

		detection, err := parseRow(index, record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		detections = append(detections, detection)
	}
	return detections, nil
}

func parseRow(index map[string]int, record []string) (Detection, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	d := Detection{
		Source:      field(colSource),
		Observation: field(colObservation),
		Field:       field(colField),
		Status:      strings.ToLower(field(colStatus)),
	}
	if d.Source == "" || d.Observation == "" {
		return Detection{}, errors.New("missing source or observation")
	}
	if isNullToken(d.Status) {
		d.Status = ""
	}

	var err error
	if d.RA, err = parseFloat(field(colRA)); err != nil {
		return Detection{}, fmt.Errorf("ra: %w", err)
	}
	if d.Dec, err = parseFloat(field(colDec)); err != nil {
		return Detection{}, fmt.Errorf("dec: %w", err)
	}
	if d.TestStatistic, err = parseFloat(field(colTestStatistic)); err != nil {
		return Detection{}, fmt.Errorf("test_statistic: %w", err)
	}
	if d.Time, err = ParseTime(field(colTime)); err != nil {
		return Detection{}, fmt.Errorf("time: %w", err)
	}
	if raw := field(colModified); !isNullToken(raw) {
		if d.Modified, err = ParseTime(raw); err != nil {
			return Detection{}, fmt.Errorf("modified: %w", err)
		}
	}

	// Centroid refinement is used only when both components are present and finite.
	centroidRA, okRA := parseOptionalFloat(field(colCentroidRA))
	centroidDec, okDec := parseOptionalFloat(field(colCentroidDec))
	if okRA && okDec {
		d.Centroid = &SkyCoord{RA: centroidRA, Dec: centroidDec}
	}

	if value, ok := parseOptionalFloat(field(colPeakFlux)); ok {
		d.Flux = Flux{Kind: FluxSingle, PeakMJy: value}
	} else {
		flux90, ok90 := parseOptionalFloat(field(colPeakFlux90))
		flux150, ok150 := parseOptionalFloat(field(colPeakFlux150))
		if ok90 || ok150 {
			d.Flux = Flux{Kind: FluxDual, Peak90MJy: flux90, Peak150MJy: flux150}
		}
	}

	if value, ok := parseOptionalFloat(field(colFWHM)); ok {
		d.FWHMDays = &value
	}

	return d, nil
}

// ParseTime accepts the timestamp formats the survey pipeline has been
// observed to emit. Naive timestamps are treated as UTC.
func ParseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

func parseFloat(value string) (float64, error) {
	if isNullToken(value) {
		return 0, errors.New("missing value")
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return f, nil
}

// parseOptionalFloat reports ok only for a present, parseable, finite value.
func parseOptionalFloat(value string) (float64, bool) {
	if isNullToken(value) {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isNullToken(value string) bool {
	switch strings.ToLower(value) {
	case "", "nan", "null", "none", "na":
		return true
	}
	return false
}
