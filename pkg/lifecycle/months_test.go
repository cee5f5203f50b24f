package lifecycle

import (
	"testing"
	"time"
)

func TestParseMonth_Valid(t *testing.T) {
	got, err := ParseMonth("122018")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2018, 12, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseMonth_InvalidLength(t *testing.T) {
	_, err := ParseMonth("12018") // 5 chars
	if err == nil {
		t.Fatal("expected error for invalid length, got nil")
	}
}

func TestParseMonth_InvalidMonth(t *testing.T) {
	_, err := ParseMonth("132018") // 13th month
	if err == nil {
		t.Fatal("expected error for invalid month, got nil")
	}
}

func TestParseMonth_NonDigit(t *testing.T) {
	_, err := ParseMonth("1a2018")
	if err == nil {
		t.Fatal("expected error for non-digit input, got nil")
	}
}

func TestMonthsBetweenInclusive(t *testing.T) {
	start := time.Date(2018, 12, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC)
	got := MonthsBetweenInclusive(start, end)
	if len(got) != 4 {
		t.Fatalf("got %d months, want 4", len(got))
	}
	// spot-check
	if got[0].Month() != time.December || got[3].Month() != time.March {
		t.Fatalf("unexpected months: %v", got)
	}
}

func TestFormatMonth(t *testing.T) {
	d := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	if fm := FormatMonth(d); fm != "01/2019" {
		t.Fatalf("got %q, want %q", fm, "01/2019")
	}
}

func TestCustomerAging_WholeMonths(t *testing.T) {
	created := time.Date(2018, 6, 1, 0, 0, 0, 0, time.UTC)
	ref := time.Date(2018, 12, 1, 0, 0, 0, 0, time.UTC)
	if got := CustomerAging(created, ref); got != 6 {
		t.Fatalf("got %d, want 6", got)
	}
}

func TestCustomerAging_RoundsDayFraction(t *testing.T) {
	// 2018-06-20 -> 2018-12-01 is 6 months minus 19/31, rounds to 5
	created := time.Date(2018, 6, 20, 0, 0, 0, 0, time.UTC)
	ref := time.Date(2018, 12, 1, 0, 0, 0, 0, time.UTC)
	if got := CustomerAging(created, ref); got != 5 {
		t.Fatalf("got %d, want 5", got)
	}
}

func TestCustomerAging_NeverNegative(t *testing.T) {
	// account created after the reference month
	created := time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC)
	ref := time.Date(2018, 12, 1, 0, 0, 0, 0, time.UTC)
	if got := CustomerAging(created, ref); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
}
