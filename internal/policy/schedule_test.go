package policy

import (
	"testing"
	"time"
)

func TestNextDue_Buckets(t *testing.T) {
	published := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		age      time.Duration
		wantNext time.Duration // interval added to `now`
	}{
		{"just published", 0, time.Hour},
		{"under one hour", 59 * time.Minute, time.Hour},
		{"exactly one hour", time.Hour, 2 * time.Hour},
		{"mid second bucket", 4 * time.Hour, 2 * time.Hour},
		{"exactly seven hours", 7 * time.Hour, 12 * time.Hour},
		{"mid third bucket", 20 * time.Hour, 12 * time.Hour},
		{"exactly thirty-one hours", 31 * time.Hour, 24 * time.Hour},
		{"long past", 10 * 24 * time.Hour, 24 * time.Hour},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			now := published.Add(tc.age)
			got := NextDue(published, now)
			want := now.Add(tc.wantNext)
			if !got.Equal(want) {
				t.Errorf("NextDue(%v, %v) = %v, want %v", published, now, got, want)
			}
		})
	}
}

func TestNextDue_MonotoneInNow(t *testing.T) {
	published := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	prev := NextDue(published, published)
	for _, delta := range []time.Duration{
		30 * time.Minute, time.Hour, 6 * time.Hour, 24 * time.Hour, 72 * time.Hour,
	} {
		now := published.Add(delta)
		next := NextDue(published, now)
		if next.Before(prev) {
			t.Errorf("NextDue not monotone: prev=%v next=%v at delta=%v", prev, next, delta)
		}
		prev = next
	}
}

func TestNextDue_UsesNowNotPublishedAt(t *testing.T) {
	published := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := published.Add(10 * time.Hour)

	got := NextDue(published, now)
	want := now.Add(12 * time.Hour)
	if !got.Equal(want) {
		t.Errorf("NextDue should anchor on now, got %v want %v", got, want)
	}
}
