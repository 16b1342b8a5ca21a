// Package feed parses the tab-separated transient detection feed.
//
// Optional columns (centroid coordinates, single vs dual-frequency flux) are
// resolved once at parse time into explicit Detection variants so downstream
// code never probes for column presence. The package also owns identity-key
// construction and announcement coordinate resolution.
package feed
