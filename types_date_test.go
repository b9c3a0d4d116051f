package finledger

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want Date
	}{
		{"2025-08-29", NewDate(2025, time.August, 29)},
		{"2025-8-9", NewDate(2025, time.August, 9)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if err != nil {
			t.Errorf("ParseDate(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseDate("not-a-date"); err == nil {
		t.Error("ParseDate accepted garbage")
	}
}

func TestParseDateRelative(t *testing.T) {
	got, err := ParseDate("-7d")
	if err != nil {
		t.Fatal(err)
	}
	if want := Today().Add(-7); got != want {
		t.Errorf("ParseDate(-7d) = %s, want %s", got, want)
	}

	got, err = ParseDate("+2m")
	if err != nil {
		t.Fatal(err)
	}
	if want := Today().AddMonth(2); got != want {
		t.Errorf("ParseDate(+2m) = %s, want %s", got, want)
	}
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		from, to Date
		want     int
	}{
		{NewDate(2025, time.January, 1), NewDate(2025, time.January, 1), 0},
		{NewDate(2025, time.January, 1), NewDate(2025, time.March, 3), 61},
		{NewDate(2025, time.March, 3), NewDate(2025, time.January, 1), -61},
		{NewDate(2024, time.February, 28), NewDate(2024, time.March, 1), 2}, // leap year
	}
	for _, tt := range tests {
		if got := tt.from.DaysUntil(tt.to); got != tt.want {
			t.Errorf("%s.DaysUntil(%s) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestWholeMonthsUntil(t *testing.T) {
	tests := []struct {
		from, to Date
		want     int
	}{
		{NewDate(2025, time.January, 1), NewDate(2025, time.January, 31), 0},
		{NewDate(2025, time.January, 1), NewDate(2025, time.March, 1), 2},
		{NewDate(2025, time.October, 1), NewDate(2026, time.February, 1), 4},
		{NewDate(2025, time.January, 1), NewDate(2026, time.January, 1), 12},
	}
	for _, tt := range tests {
		if got := tt.from.WholeMonthsUntil(tt.to); got != tt.want {
			t.Errorf("%s.WholeMonthsUntil(%s) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestDateNormalization(t *testing.T) {
	// Out-of-range components roll over like time.Date.
	if got, want := NewDate(2025, time.January, 32), NewDate(2025, time.February, 1); got != want {
		t.Errorf("NewDate rollover = %s, want %s", got, want)
	}
	if got, want := NewDate(2025, time.December, 15).AddMonth(1), NewDate(2026, time.January, 15); got != want {
		t.Errorf("AddMonth year rollover = %s, want %s", got, want)
	}
}
