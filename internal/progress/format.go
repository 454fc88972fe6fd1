package progress

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatDuration formats d as MM:SS, or H:MM:SS from one hour up.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatRate formats an items-per-second rate. Rates below one item per
// second are shown as seconds per item.
func FormatRate(perSecond float64) string {
	if perSecond <= 0 || math.IsNaN(perSecond) || math.IsInf(perSecond, 0) {
		return "?it/s"
	}
	if perSecond < 1 {
		return fmt.Sprintf("%.2fs/it", 1/perSecond)
	}
	return humanize.SIWithDigits(perSecond, 2, "it/s")
}
