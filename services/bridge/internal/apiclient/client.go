package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/plant"
	"github.com/02loveslollipop/Shizuku-irrigation/services/bridge/internal/models"
)

// SubmitReading posts r to the irrigation API and returns the evaluation it
// stored.
func SubmitReading(ctx context.Context, client *http.Client, baseURL string, r plant.Reading) (models.SubmitResponse, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return models.SubmitResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/sensors", bytes.NewReader(body))
	if err != nil {
		return models.SubmitResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return models.SubmitResponse{}, fmt.Errorf("submit reading: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.SubmitResponse{}, fmt.Errorf("unexpected status %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	var payload models.SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.SubmitResponse{}, fmt.Errorf("decode payload: %w", err)
	}

	return payload, nil
}
