package notify

import (
	"fmt"
	"strings"
	"time"

	"skywatch/internal/feed"
)

// Announcement carries the details of a newly detected transient for delivery.
type Announcement struct {
	TransientID   string
	RA            float64
	Dec           float64
	Time          time.Time
	Field         string
	TestStatistic float64
	Flux          feed.Flux
	FWHMDays      *float64
	CutoutPath    string
}

// AnnouncementFromDetection builds the deliverable view of a detection using
// its resolved coordinates.
func AnnouncementFromDetection(d feed.Detection) Announcement {
	ra, dec := d.Coordinates()
	return Announcement{
		TransientID:   d.Key(),
		RA:            ra,
		Dec:           dec,
		Time:          d.Time,
		Field:         d.Field,
		TestStatistic: d.TestStatistic,
		Flux:          d.Flux,
		FWHMDays:      d.FWHMDays,
	}
}

// Message renders the human-readable announcement body.
func (a Announcement) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "New transient detected: %s\n", a.TransientID)
	fmt.Fprintf(&b, "Coordinates: RA %s, Dec %s\n", FormatRA(a.RA), FormatDec(a.Dec))
	if !a.Time.IsZero() {
		fmt.Fprintf(&b, "Detected: %s\n", a.Time.UTC().Format("2006-01-02 15:04:05")+" UTC")
	}
	fmt.Fprintf(&b, "Field: %s | Test statistic: %.1f\n", a.Field, a.TestStatistic)

	switch a.Flux.Kind {
	case feed.FluxSingle:
		fmt.Fprintf(&b, "Peak flux: %.2f mJy\n", a.Flux.PeakMJy)
	case feed.FluxDual:
		fmt.Fprintf(&b, "Peak flux: %.2f mJy (90 GHz), %.2f mJy (150 GHz)\n", a.Flux.Peak90MJy, a.Flux.Peak150MJy)
	}
	if a.FWHMDays != nil {
		fmt.Fprintf(&b, "Duration (FWHM): %.2f days\n", *a.FWHMDays)
	}
	if a.CutoutPath != "" {
		b.WriteString("Cutout image: attached\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
