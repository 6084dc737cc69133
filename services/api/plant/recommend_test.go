package plant

import (
	"reflect"
	"testing"
)

func TestRecommendations(t *testing.T) {
	cases := []struct {
		reading Reading
		want    []string
	}{
		{Reading{Temperature: 25, Humidity: 60, SoilMoisture: 600, Light: 600}, []string{}},
		{
			Reading{Temperature: 35, Humidity: 90, SoilMoisture: 900, Light: 950},
			[]string{
				"La temperatura es muy alta para la planta",
				"La humedad ambiente es muy alta",
				"El suelo está muy húmedo",
				"Hay demasiada luz directa",
			},
		},
		{Reading{Temperature: 20, Humidity: 40, SoilMoisture: 400, Light: 400}, []string{}},
		{Reading{Temperature: 30, Humidity: 80, SoilMoisture: 800, Light: 800}, []string{}},
		{Reading{Temperature: 19.9, Humidity: 50, SoilMoisture: 500, Light: 500}, []string{"La temperatura es muy baja para la planta"}},
	}
	for _, tc := range cases {
		got := Recommendations(tc.reading)
		if got == nil {
			t.Fatalf("Recommendations(%+v) returned nil", tc.reading)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Recommendations(%+v) = %#v, want %#v", tc.reading, got, tc.want)
		}
	}
}

func TestDecisionTime(t *testing.T) {
	s, f := 12, 7.5
	if got := (Decision{Seconds: &s}).Time(); got != 12 {
		t.Fatalf("threshold time = %v", got)
	}
	if got := (Decision{PumpTime: &f}).Time(); got != 7.5 {
		t.Fatalf("inference time = %v", got)
	}
	if got := (Decision{}).Time(); got != 0 {
		t.Fatalf("empty time = %v", got)
	}
}

func TestDecisionCarriesOneTimeField(t *testing.T) {
	readings := []Reading{
		{Temperature: 25, Humidity: 60, SoilMoisture: 600, Light: 600},
		{Temperature: 25, Humidity: 50, SoilMoisture: 200, Light: 500},
	}
	for _, strategy := range []Strategy{StrategyThreshold, StrategyInference} {
		e := newTestEvaluator(t, strategy)
		for _, r := range readings {
			d, err := e.Decide(r)
			if err != nil {
				t.Fatal(err)
			}
			if (d.Seconds == nil) == (d.PumpTime == nil) {
				t.Fatalf("%s %+v: seconds=%v pumpTime=%v, want exactly one set", strategy, r, d.Seconds, d.PumpTime)
			}
		}
	}
}
