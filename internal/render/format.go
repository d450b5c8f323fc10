package render

import (
	"fmt"
	"strings"
	"time"
)

// AuthorHandle derives the display name from the denormalized author
// email: everything before the first '@'.
func AuthorHandle(email string) string {
	return strings.Split(email, "@")[0]
}

// FormatListDate renders the board-list timestamp: minutes for the
// first hour, floored hours within a day, plain date beyond that.
func FormatListDate(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	if d < time.Hour {
		return fmt.Sprintf("%d분 전", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%d시간 전", int(d.Hours()))
	}
	return t.Format("2006-01-02")
}

// FormatDetailDate renders the full timestamp shown on the post page.
func FormatDetailDate(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
