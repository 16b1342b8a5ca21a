package notify

import (
	"fmt"
	"math"
)

// FormatRA renders a right ascension in degrees as sexagesimal hours,
// for example "22h 27m 13.20s".
func FormatRA(deg float64) string {
	hours := deg / 15.0
	h := int(hours)
	minutes := (hours - float64(h)) * 60.0
	m := int(minutes)
	s := (minutes - float64(m)) * 60.0
	return fmt.Sprintf("%02dh %02dm %05.2fs", h, m, s)
}

// FormatDec renders a declination in degrees as signed sexagesimal degrees,
// for example "-55° 12' 36.00\"".
func FormatDec(deg float64) string {
	sign := "+"
	if deg < 0 {
		sign = "-"
	}
	abs := math.Abs(deg)
	d := int(abs)
	minutes := (abs - float64(d)) * 60.0
	m := int(minutes)
	s := (minutes - float64(m)) * 60.0
	return fmt.Sprintf("%s%02d° %02d' %05.2f\"", sign, d, m, s)
}
