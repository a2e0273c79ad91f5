package k4

import (
	"testing"
	"time"
)

func TestParseDateTime(t *testing.T) {
	want := time.Date(2023, time.July, 21, 15, 30, 0, 0, time.UTC)
	tests := []string{
		"2023-07-21 15:30:00",
		"2023-07-21T15:30:00",
		"20230721;153000",
		"20230721 153000",
	}
	for _, in := range tests {
		got, err := ParseDateTime(in)
		if err != nil {
			t.Errorf("ParseDateTime(%q) error = %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDateTime(%q) = %s, want %s", in, got, want)
		}
	}

	// Date-only variants.
	for _, in := range []string{"2023-07-21", "20230721"} {
		got, err := ParseDateTime(in)
		if err != nil {
			t.Errorf("ParseDateTime(%q) error = %v", in, err)
			continue
		}
		if DateOf(got) != NewDate(2023, time.July, 21) {
			t.Errorf("ParseDateTime(%q) date = %s, want 2023-07-21", in, DateOf(got))
		}
	}

	if _, err := ParseDateTime("21/07/2023"); err == nil {
		t.Error("ParseDateTime accepted an unsupported layout")
	}
	if _, err := ParseDateTime(""); err == nil {
		t.Error("ParseDateTime accepted an empty string")
	}
}

func TestDate(t *testing.T) {
	d := NewDate(2023, time.July, 21)
	if d.Year() != 2023 || d.Month() != time.July || d.Day() != 21 {
		t.Errorf("date fields = %d-%s-%d", d.Year(), d.Month(), d.Day())
	}
	if d.String() != "2023-07-21" {
		t.Errorf("String() = %q, want 2023-07-21", d.String())
	}
	if (Date{}).String() != "" {
		t.Errorf("zero date String() = %q, want empty", Date{}.String())
	}
	if !(Date{}).IsZero() || d.IsZero() {
		t.Error("IsZero misreports")
	}

	// Out-of-range values normalize, so equal days always compare equal.
	if NewDate(2023, time.December, 32) != NewDate(2024, time.January, 1) {
		t.Error("overflowing day did not normalize")
	}
}
