package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatPoints formats a Reiatsu amount with thousand separators
func FormatPoints(points int64) string {
	str := fmt.Sprintf("%d", points)
	negative := strings.HasPrefix(str, "-")
	str = strings.TrimPrefix(str, "-")

	n := len(str)
	var result strings.Builder
	if negative {
		result.WriteByte('-')
	}
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatPointsCompact formats an amount in compact form (e.g. 100k, 1.5M)
func FormatPointsCompact(points int64) string {
	units := []struct {
		size   float64
		suffix string
	}{
		{1e9, "B"},
		{1e6, "M"},
		{1e3, "k"},
	}

	for _, u := range units {
		if float64(points) < u.size {
			continue
		}
		scaled := float64(points) / u.size
		if scaled == float64(int64(scaled)) {
			return fmt.Sprintf("%.0f%s", scaled, u.suffix)
		}
		return fmt.Sprintf("%.1f%s", scaled, u.suffix)
	}
	return fmt.Sprintf("%d", points)
}

// FormatDuration renders d as "1h 5m", "3m 20s" or "45s"
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	case seconds > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// ProgressBar draws a bar of width cells filled to current/total
func ProgressBar(current, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := min(width, max(0, current*width/total))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
