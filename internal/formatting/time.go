package formatting

import (
	"fmt"
	"time"
)

// FormatDateTime форматирует дату и время в указанном часовом поясе
func FormatDateTime(t time.Time, loc *time.Location) string {
	return in(t, loc).Format("02.01.2006 15:04")
}

// FormatDate форматирует только дату
func FormatDate(t time.Time, loc *time.Location) string {
	return in(t, loc).Format("02.01.2006")
}

// FormatTime форматирует только время
func FormatTime(t time.Time, loc *time.Location) string {
	return in(t, loc).Format("15:04")
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end time.Time, loc *time.Location) string {
	return fmt.Sprintf("%s-%s", FormatTime(start, loc), FormatTime(end, loc))
}

// FormatDuration форматирует длительность
func FormatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

func in(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}
