package timeago

import (
	"fmt"
	"time"
)

// Since возвращает человекочитаемый возраст момента t относительно now
// в формате "N days ago" / "N hours ago" / "N minutes ago".
// Выбирается самая крупная применимая единица, слово склоняется по числу.
func Since(now, t time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}

	days := int(diff.Hours()) / 24
	if days > 0 {
		return fmt.Sprintf("%d %s ago", days, plural(days, "day"))
	}

	hours := int(diff.Hours())
	if hours > 0 {
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour"))
	}

	minutes := int(diff.Minutes())
	return fmt.Sprintf("%d %s ago", minutes, plural(minutes, "minute"))
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
