package feed

import "time"

// StatusNew marks a detection the survey pipeline has not yet reviewed.
// A detection with an empty status is treated the same way; any other value
// (for example "processed" or "rejected") permanently excludes the row from
// announcement.
const StatusNew = "new"

// SkyCoord is a J2000 sky position in degrees.
type SkyCoord struct {
	RA  float64
	Dec float64
}

// FluxKind identifies which flux columns a feed variant carries.
type FluxKind int

const (
	// FluxNone means the row carried no usable flux measurement.
	FluxNone FluxKind = iota
	// FluxSingle means the row carried a single peak_flux[mJy] value.
	FluxSingle
	// FluxDual means the row carried per-frequency peak_flux_90/peak_flux_150 values.
	FluxDual
)

// Flux is the parse-time resolved flux measurement of a detection.
// Exactly one variant is populated; a row never carries both a single peak
// flux and the dual-frequency pair.
type Flux struct {
	Kind       FluxKind
	PeakMJy    float64
	Peak90MJy  float64
	Peak150MJy float64
}

// Detection is one row of the survey detection feed.
type Detection struct {
	Source        string
	Observation   string
	RA            float64
	Dec           float64
	Centroid      *SkyCoord
	Field         string
	Time          time.Time
	TestStatistic float64
	Flux          Flux
	FWHMDays      *float64
	Status        string
	Modified      time.Time
}

// Key returns the stable identity of the detection. The deduplicator assumes
// the upstream feed keeps this unique but does not enforce it.
func (d Detection) Key() string {
	return d.Source + "_" + d.Observation
}

// Coordinates resolves the position to announce: the centroid refinement when
// the pipeline produced one, otherwise the primary fit. RA is normalized into
// [0, 360).
func (d Detection) Coordinates() (ra, dec float64) {
	if d.Centroid != nil {
		ra, dec = d.Centroid.RA, d.Centroid.Dec
	} else {
		ra, dec = d.RA, d.Dec
	}
	if ra < 0 {
		ra += 360.0
	}
	return ra, dec
}

// EligibleStatus reports whether the row may ever be announced.
func (d Detection) EligibleStatus() bool {
	return d.Status == StatusNew || d.Status == ""
}
