package feed_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"skywatch/internal/feed"
)

const sampleHeader = "source\tobservation\tra[deg]\tdec[deg]\tcentroid_ra[deg]\tcentroid_dec[deg]\tfield\ttime\ttest_statistic\tpeak_flux[mJy]\tfwhm[days]\tstatus\tmodified"

func TestParseResolvesVariants(t *testing.T) {
	rows := []string{
		sampleHeader,
		"2227-55\t134258682\t336.9\t-55.2\t336.91\t-55.21\tF1\t2026-07-01 12:00:00\t25.5\t12.34\t3.5\tnew\t2026-07-02 00:00:00",
		"1049+58\t99881122\t162.4\t58.1\tnan\tnan\tF2\t2026-07-03T08:30:00Z\t14.0\t\t\t\t2026-07-03 09:00:00",
	}
	detections, err := feed.Parse(strings.NewReader(strings.Join(rows, "\n")))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(detections) != 2 {
		t.Fatalf("expected 2 detections, got %d", len(detections))
	}

	first := detections[0]
	if first.Key() != "2227-55_134258682" {
		t.Fatalf("unexpected key %q", first.Key())
	}
	if first.Centroid == nil || first.Centroid.RA != 336.91 {
		t.Fatalf("expected centroid coordinates, got %#v", first.Centroid)
	}
	if first.Flux.Kind != feed.FluxSingle || first.Flux.PeakMJy != 12.34 {
		t.Fatalf("expected single-flux variant, got %#v", first.Flux)
	}
	if first.FWHMDays == nil || *first.FWHMDays != 3.5 {
		t.Fatalf("expected fwhm 3.5, got %#v", first.FWHMDays)
	}
	if first.Status != feed.StatusNew || !first.EligibleStatus() {
		t.Fatalf("expected eligible new status, got %q", first.Status)
	}
	wantTime := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	if !first.Time.Equal(wantTime) {
		t.Fatalf("expected time %v, got %v", wantTime, first.Time)
	}

	second := detections[1]
	if second.Centroid != nil {
		t.Fatalf("NaN centroid should be dropped, got %#v", second.Centroid)
	}
	if second.Flux.Kind != feed.FluxNone {
		t.Fatalf("expected no flux, got %#v", second.Flux)
	}
	if second.Status != "" || !second.EligibleStatus() {
		t.Fatalf("expected eligible absent status, got %q", second.Status)
	}
}

func TestParseKeepsEmptyColumnsAligned(t *testing.T) {
	// Consecutive tabs mark absent optional columns. The later columns must
	// not shift left into them.
	row := "2227-55\t134258682\t336.9\t-55.2\t\t\tF1\t2026-07-01 12:00:00\t25.5\t\t\tnew\t2026-07-02 00:00:00"
	detections, err := feed.Parse(strings.NewReader(sampleHeader + "\n" + row))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	d := detections[0]
	if d.Centroid != nil {
		t.Fatalf("empty centroid columns must stay empty, got %#v", d.Centroid)
	}
	if d.TestStatistic != 25.5 {
		t.Fatalf("test_statistic misaligned: got %v", d.TestStatistic)
	}
	if d.Flux.Kind != feed.FluxNone || d.FWHMDays != nil {
		t.Fatalf("empty flux and fwhm columns must stay empty, got %#v / %#v", d.Flux, d.FWHMDays)
	}
	if d.Status != feed.StatusNew {
		t.Fatalf("status misaligned: got %q", d.Status)
	}
	wantModified := time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)
	if !d.Modified.Equal(wantModified) {
		t.Fatalf("modified misaligned: got %v", d.Modified)
	}
}

func TestParseDualFrequencyFlux(t *testing.T) {
	header := "source\tobservation\tra[deg]\tdec[deg]\tfield\ttime\ttest_statistic\tpeak_flux_90[mJy]\tpeak_flux_150[mJy]\tstatus\tmodified"
	row := "0012+30\t7\t3.1\t30.0\tF9\t2026-06-10 00:00:00\t9.1\t4.2\t6.8\tnew\t2026-06-10 01:00:00"
	detections, err := feed.Parse(strings.NewReader(header + "\n" + row))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	flux := detections[0].Flux
	if flux.Kind != feed.FluxDual || flux.Peak90MJy != 4.2 || flux.Peak150MJy != 6.8 {
		t.Fatalf("expected dual-frequency flux, got %#v", flux)
	}
}

func TestCoordinatesPreferCentroidAndNormalizeRA(t *testing.T) {
	tests := []struct {
		name      string
		detection feed.Detection
		wantRA    float64
		wantDec   float64
	}{
		{
			name:      "centroid preferred",
			detection: feed.Detection{RA: 10, Dec: -5, Centroid: &feed.SkyCoord{RA: 11, Dec: -6}},
			wantRA:    11,
			wantDec:   -6,
		},
		{
			name:      "primary fallback",
			detection: feed.Detection{RA: 10, Dec: -5},
			wantRA:    10,
			wantDec:   -5,
		},
		{
			name:      "negative ra wraps",
			detection: feed.Detection{RA: -10.0, Dec: 2},
			wantRA:    350.0,
			wantDec:   2,
		},
		{
			name:      "negative centroid ra wraps",
			detection: feed.Detection{RA: 1, Dec: 2, Centroid: &feed.SkyCoord{RA: -0.5, Dec: 3}},
			wantRA:    359.5,
			wantDec:   3,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ra, dec := tc.detection.Coordinates()
			if ra != tc.wantRA || dec != tc.wantDec {
				t.Fatalf("expected (%v, %v), got (%v, %v)", tc.wantRA, tc.wantDec, ra, dec)
			}
		})
	}
}

func TestParseRejectsMissingColumns(t *testing.T) {
	_, err := feed.Parse(strings.NewReader("source\tobservation\n1\t2"))
	if err == nil {
		t.Fatal("expected error for missing required columns")
	}
}

func TestReadFileMissingIsUnreadable(t *testing.T) {
	_, err := feed.ReadFile(filepath.Join(t.TempDir(), "absent.txt"))
	if !errors.Is(err, feed.ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

func TestReadFileMalformedRowIsUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transients.txt")
	content := sampleHeader + "\nbad-source\t\tnot-a-number\t0\t\t\tF\t2026-01-01 00:00:00\t1\t\t\tnew\t2026-01-01 00:00:00\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write feed: %v", err)
	}
	_, err := feed.ReadFile(path)
	if !errors.Is(err, feed.ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

func TestIneligibleStatusNeverAnnouncable(t *testing.T) {
	d := feed.Detection{Status: "processed"}
	if d.EligibleStatus() {
		t.Fatal("explicitly marked rows must stay ineligible")
	}
}
