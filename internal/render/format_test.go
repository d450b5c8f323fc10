package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthorHandle(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"hong@example.com", "hong"},
		{"kim.chulsoo@mail.co.kr", "kim.chulsoo"},
		{"noatsign", "noatsign"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AuthorHandle(tt.email))
	}
}

func TestFormatListDate(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		age  time.Duration
		want string
	}{
		{"just now", 0, "0분 전"},
		{"five minutes", 5 * time.Minute, "5분 전"},
		{"just under an hour", 59 * time.Minute, "59분 전"},
		{"ninety minutes floors to one hour", 90 * time.Minute, "1시간 전"},
		{"just under a day", 23*time.Hour + 59*time.Minute, "23시간 전"},
		{"twenty five hours", 25 * time.Hour, "2026-08-29"},
		{"future timestamp clamps to zero", -time.Minute, "0분 전"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatListDate(now.Add(-tt.age), now))
		})
	}
}

func TestFormatDetailDate(t *testing.T) {
	ts := time.Date(2026, 8, 30, 9, 5, 42, 0, time.UTC)
	assert.Equal(t, "2026-08-30 09:05", FormatDetailDate(ts))
}
