package progress

import (
	"fmt"

	"github.com/vidgrab/vidgrab/internal/model"
)

// Byte size thresholds, base 1024.
const (
	sizeKiB = 1024
	sizeMiB = 1024 * 1024
	sizeGiB = 1024 * 1024 * 1024
)

// Placeholder rendered for unknown durations.
const UnknownDuration = "--:--"

// Bytes renders a byte count as a human-readable string with one decimal
// place above 1 KiB. A nil count renders as "0 B".
func Bytes(b *int64) string {
	if b == nil {
		return "0 B"
	}
	n := *b
	switch {
	case n < sizeKiB:
		return fmt.Sprintf("%d B", n)
	case n < sizeMiB:
		return fmt.Sprintf("%.1f KiB", float64(n)/sizeKiB)
	case n < sizeGiB:
		return fmt.Sprintf("%.1f MiB", float64(n)/sizeMiB)
	default:
		return fmt.Sprintf("%.1f GiB", float64(n)/sizeGiB)
	}
}

// Seconds renders a duration in seconds as "H:MM:SS", or "M:SS" under an
// hour. A nil duration renders as the placeholder.
func Seconds(s *int64) string {
	if s == nil {
		return UnknownDuration
	}
	total := *s
	if total < 0 {
		return UnknownDuration
	}
	minutes, secs := total/60, total%60
	hours, minutes := minutes/60, minutes%60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// Line renders the one-line progress text shown while downloading:
//
//	"42.3%  •  12.5 MiB / 29.6 MiB  •  1.2 MiB/s  •  ETA: 0:14"
//
// Unknown speed and ETA render as "...". The percent falls back to 0.0 when
// no total is known.
func Line(ev model.ProgressEvent) string {
	percent, _ := ev.Percent()

	downloaded := Bytes(&ev.DownloadedBytes)
	total := Bytes(ev.TotalBytes)

	speed := "..."
	if ev.SpeedBytesPerSec != nil {
		bps := int64(*ev.SpeedBytesPerSec)
		speed = Bytes(&bps) + "/s"
	}

	eta := "..."
	if ev.ETASeconds != nil {
		eta = Seconds(ev.ETASeconds)
	}

	return fmt.Sprintf("%.1f%%  •  %s / %s  •  %s  •  ETA: %s", percent, downloaded, total, speed, eta)
}
