package syncqueue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPSubmitter posts edits to the scoring server's submit endpoint
// and decodes the terminal outcome.  Non-2xx responses other than the
// stale rejection are treated as transient so the edit stays queued.
type HTTPSubmitter struct {
	BaseURL  string
	DeviceID string
	Client   *http.Client
}

// NewHTTPSubmitter builds a submitter for the server at baseURL.  The
// device ID is attached to every request so accepted writes carry
// attribution.
func NewHTTPSubmitter(baseURL, deviceID string) *HTTPSubmitter {
	return &HTTPSubmitter{
		BaseURL:  baseURL,
		DeviceID: deviceID,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type submitRequest struct {
	EntryID         uint64    `json:"entryId"`
	Hole            int       `json:"hole"`
	Strokes         int       `json:"strokes"`
	ClientUpdatedAt time.Time `json:"clientUpdatedAt"`
}

type submitResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// Submit implements Submitter over HTTP.
func (s *HTTPSubmitter) Submit(ctx context.Context, edit PendingEdit) (SubmitStatus, error) {
	body, err := json.Marshal(submitRequest{
		EntryID:         edit.EntryID,
		Hole:            edit.Hole,
		Strokes:         edit.Strokes,
		ClientUpdatedAt: edit.ClientUpdatedAt,
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1/tournaments/%d/scores", s.BaseURL, edit.TournamentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-ID", s.DeviceID)

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "", fmt.Errorf("server error: %s", resp.Status)
	}
	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	switch {
	case out.Status == "accepted":
		return SubmitAccepted, nil
	case out.Status == "ignored" && out.Reason == "stale":
		return SubmitStale, nil
	default:
		return "", fmt.Errorf("unexpected submit response status %q (%s)", out.Status, resp.Status)
	}
}

// FetchEntryScores retrieves the authoritative hole -> strokes map for
// one entry, used to replace the local view after a stale rejection.
func (s *HTTPSubmitter) FetchEntryScores(ctx context.Context, tournamentID, entryID uint64) (map[int]int, error) {
	url := fmt.Sprintf("%s/v1/tournaments/%d/scores?entryId=%d", s.BaseURL, tournamentID, entryID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Device-ID", s.DeviceID)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch scores: %s", resp.Status)
	}

	var out struct {
		Scores []struct {
			Hole    int `json:"hole"`
			Strokes int `json:"strokes"`
		} `json:"scores"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode scores response: %w", err)
	}
	scores := make(map[int]int, len(out.Scores))
	for _, s := range out.Scores {
		scores[s.Hole] = s.Strokes
	}
	return scores, nil
}
