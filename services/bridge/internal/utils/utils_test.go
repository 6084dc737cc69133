package utils

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/plant"
	"github.com/02loveslollipop/Shizuku-irrigation/services/bridge/internal/models"
)

func f(v float64) *float64 { return &v }

func TestNormalizeValue(t *testing.T) {
	cases := []struct {
		in   *float64
		want *float64
	}{
		{nil, nil},
		{f(-999), nil},
		{f(math.NaN()), nil},
		{f(math.Inf(-1)), nil},
		{f(0), f(0)},
		{f(-5), f(-5)},
		{f(512), f(512)},
	}
	for _, tc := range cases {
		got := NormalizeValue(tc.in)
		switch {
		case tc.want == nil && got != nil:
			t.Fatalf("NormalizeValue(%v) = %v, want nil", *tc.in, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Fatalf("NormalizeValue(%v) = %v, want %v", *tc.in, got, *tc.want)
		}
	}
}

func TestBuildCandidate(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cand, err := BuildCandidate(models.DevicePayload{
		Temperature: f(24.5), Humidity: f(61), SoilMoisture: f(512), Light: f(700),
	}, ts)
	if err != nil {
		t.Fatal(err)
	}
	want := plant.Reading{Temperature: 24.5, Humidity: 61, SoilMoisture: 512, Light: 700}
	if cand.Reading != want || cand.Device != "default" || !cand.TS.Equal(ts) {
		t.Fatalf("candidate = %+v", cand)
	}

	_, err = BuildCandidate(models.DevicePayload{
		Device: "mesa-1", Temperature: f(24.5), Humidity: f(-999), SoilMoisture: f(512), Light: f(700),
	}, ts)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("err = %v", err)
	}
	if _, err := BuildCandidate(models.DevicePayload{Temperature: f(20)}, ts); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("err = %v", err)
	}
}

func TestShouldForward(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := plant.Reading{Temperature: 25, Humidity: 50, SoilMoisture: 600, Light: 500}
	last := map[string]models.LastForwarded{"mesa-1": {Reading: r, TS: base}}

	cases := []struct {
		name string
		cand models.Candidate
		want bool
	}{
		{"unknown device", models.Candidate{Device: "mesa-2", Reading: r, TS: base}, true},
		{"duplicate inside interval", models.Candidate{Device: "mesa-1", Reading: r, TS: base.Add(10 * time.Second)}, false},
		{"duplicate after interval", models.Candidate{Device: "mesa-1", Reading: r, TS: base.Add(time.Minute)}, true},
		{"changed inside interval", models.Candidate{Device: "mesa-1", Reading: plant.Reading{Temperature: 25, Humidity: 50, SoilMoisture: 580, Light: 500}, TS: base.Add(time.Second)}, true},
		{"change within epsilon", models.Candidate{Device: "mesa-1", Reading: plant.Reading{Temperature: 25.005, Humidity: 50, SoilMoisture: 600, Light: 500}, TS: base.Add(time.Second)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldForward(tc.cand, last, 30*time.Second, 0.01); got != tc.want {
				t.Fatalf("ShouldForward = %v, want %v", got, tc.want)
			}
		})
	}

	if !ShouldForward(models.Candidate{Device: "mesa-1", Reading: r, TS: base}, last, 0, 0.01) {
		t.Fatal("zero interval must always forward")
	}
}
