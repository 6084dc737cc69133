package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/plant"
)

func TestSubmitReading(t *testing.T) {
	var got map[string]float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/sensors" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Datos almacenados","evaluacion":{"estado":31.6,"estrategia":"threshold","activar":true,"tiempo_segundos":60,"razones":["Suelo seco"]}}`))
	}))
	defer srv.Close()

	resp, err := SubmitReading(context.Background(), srv.Client(), srv.URL,
		plant.Reading{Temperature: 25, Humidity: 50, SoilMoisture: 200, Light: 500})
	if err != nil {
		t.Fatal(err)
	}
	if got["humedadSuelo"] != 200 || got["temperatura"] != 25 {
		t.Fatalf("server received %v", got)
	}
	ev := resp.Evaluation
	if resp.Message != "Datos almacenados" || !ev.Activate || ev.Seconds == nil || *ev.Seconds != 60 {
		t.Fatalf("response = %+v", resp)
	}
}

func TestSubmitReadingStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := SubmitReading(context.Background(), srv.Client(), srv.URL, plant.Reading{})
	if err == nil || !strings.Contains(err.Error(), "400") {
		t.Fatalf("err = %v", err)
	}
}
