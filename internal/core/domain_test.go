package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d   Date
		err error
	}{
		{NewDate(2025, time.January, 1), nil},
		{NewDate(2024, time.February, 29), nil},
		{NewDate(2025, time.February, 29), ErrInvalidDay},
		{NewDate(2025, time.April, 0), ErrInvalidDay},
		{NewDate(2025, 13, 1), ErrInvalidMonth},
		{NewDate(0, time.May, 1), ErrInvalidYear},
		{Date{}, ErrInvalidYear},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if !errors.Is(err, tc.err) {
			t.Fatalf("case %d (%s): expected %v, got %v", i, tc.d.Stamp(), tc.err, err)
		}
	}
}

func TestDateString(t *testing.T) {
	if got := NewDate(2024, time.March, 0).String(); got != "March 2024" {
		t.Fatalf("month string = %q", got)
	}
	if got := NewDate(2024, time.March, 5).String(); got != "5 March, 2024" {
		t.Fatalf("day string = %q", got)
	}
	if got := NewDate(2024, time.March, 5).Stamp(); got != "2024-03-05" {
		t.Fatalf("stamp = %q", got)
	}
}

func TestMonthArithmetic(t *testing.T) {
	cases := []struct {
		in, next, prev Date
	}{
		{NewDate(2024, time.June, 3), NewDate(2024, time.July, 3), NewDate(2024, time.May, 3)},
		{NewDate(2024, time.December, 0), NewDate(2025, time.January, 0), NewDate(2024, time.November, 0)},
		{NewDate(2024, time.January, 1), NewDate(2024, time.February, 1), NewDate(2023, time.December, 1)},
	}
	for _, tc := range cases {
		if got := tc.in.AddMonth(); got != tc.next {
			t.Fatalf("%v.AddMonth() = %v, want %v", tc.in, got, tc.next)
		}
		if got := tc.in.SubMonth(); got != tc.prev {
			t.Fatalf("%v.SubMonth() = %v, want %v", tc.in, got, tc.prev)
		}
	}
}

func TestParseStamp(t *testing.T) {
	d, err := ParseStamp("2024-03-05T00:00:00Z")
	if err != nil || d != NewDate(2024, time.March, 5) {
		t.Fatalf("unexpected parse: %v %v", d, err)
	}
	if _, err := ParseStamp("05/03/2024"); err == nil {
		t.Fatalf("expected error for bad layout")
	}
}

func TestPurchaseValidate(t *testing.T) {
	good := Purchase{ID: "1", Date: NewDate(2024, time.March, 5), NOK: 10}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Purchase{Date: good.Date}).Validate(); !errors.Is(err, ErrEmptyID) {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
	bad := good
	bad.Date.Day = 40
	if err := bad.Validate(); !errors.Is(err, ErrInvalidDay) {
		t.Fatalf("expected ErrInvalidDay, got %v", err)
	}
}

func TestToNOK(t *testing.T) {
	cases := []struct {
		amount, rate float64
		want         int
	}{
		{100, 0, 100},
		{10.5, 10.2, 107},
		{99.99, 0, 99},
		{-20.7, 0, -20},
	}
	for _, tc := range cases {
		if got := ToNOK(tc.amount, tc.rate); got != tc.want {
			t.Fatalf("ToNOK(%v, %v) = %d, want %d", tc.amount, tc.rate, got, tc.want)
		}
	}
}
