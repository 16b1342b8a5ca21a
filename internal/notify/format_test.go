package notify_test

import (
	"strings"
	"testing"

	"skywatch/internal/feed"
	"skywatch/internal/notify"
)

func TestFormatRA(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "00h 00m 00.00s"},
		{336.805, "22h 27m 13.20s"},
		{180, "12h 00m 00.00s"},
		{15.5, "01h 02m 00.00s"},
	}
	for _, tc := range tests {
		if got := notify.FormatRA(tc.deg); got != tc.want {
			t.Errorf("FormatRA(%v) = %q, want %q", tc.deg, got, tc.want)
		}
	}
}

func TestFormatDec(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{-55.21, "-55° 12' 36.00\""},
		{0, "+00° 00' 00.00\""},
		{12.5, "+12° 30' 00.00\""},
	}
	for _, tc := range tests {
		if got := notify.FormatDec(tc.deg); got != tc.want {
			t.Errorf("FormatDec(%v) = %q, want %q", tc.deg, got, tc.want)
		}
	}
}

func TestMessageDualFlux(t *testing.T) {
	announcement := notify.Announcement{
		TransientID: "src_obs",
		Flux:        feed.Flux{Kind: feed.FluxDual, Peak90MJy: 1.5, Peak150MJy: 2.25},
	}
	message := announcement.Message()
	if !strings.Contains(message, "Peak flux: 1.50 mJy (90 GHz), 2.25 mJy (150 GHz)") {
		t.Fatalf("dual flux line missing:\n%s", message)
	}
}

func TestMessageOmitsAbsentFields(t *testing.T) {
	announcement := notify.Announcement{TransientID: "src_obs"}
	message := announcement.Message()
	for _, forbidden := range []string{"Peak flux", "Duration", "Detected:", "Cutout"} {
		if strings.Contains(message, forbidden) {
			t.Fatalf("message should omit %q when data is absent:\n%s", forbidden, message)
		}
	}
}
