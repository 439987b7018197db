package matchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pettrack/internal/domain/reports"
	"pettrack/internal/platform/httpclient"
	"pettrack/internal/ports/matching"
)

const DefaultURL = "http://localhost:8000/match_score"

var ErrUnexpectedResponse = errors.New("matchapi: unexpected response shape")

// Client llama al servicio externo de scoring de imágenes.
type Client struct {
	http *httpclient.Client
	url  string
}

var _ matching.Matcher = (*Client)(nil)

func New(url string, timeout time.Duration) *Client {
	if strings.TrimSpace(url) == "" {
		url = DefaultURL
	}
	hc := httpclient.New(timeout)
	hc.Name = "matching"
	return &Client{http: hc, url: url}
}

type requestPet struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Breed       string            `json:"breed,omitempty"`
	Description string            `json:"description,omitempty"`
	PhotoURLs   []string          `json:"photoUrls"`
	Location    *reports.Location `json:"location,omitempty"`
}

type request struct {
	Type string     `json:"type"`
	Pet  requestPet `json:"pet"`
}

type candidate struct {
	LostID json.RawMessage `json:"lostId"`
	Score  any             `json:"score"`
}

func (c *Client) FindCandidates(ctx context.Context, found reports.Report) ([]matching.Candidate, error) {
	photos := found.PhotoURLs
	if photos == nil {
		photos = []string{}
	}

	var raw json.RawMessage
	err := c.http.DoJSON(ctx, http.MethodPost, c.url, nil, request{
		Type: string(reports.TypeFound),
		Pet: requestPet{
			ID:          found.ID,
			Name:        found.Name,
			Breed:       found.Breed,
			Description: found.Description,
			PhotoURLs:   photos,
			Location:    found.Location,
		},
	}, &raw)
	if err != nil {
		return nil, err
	}

	return parseCandidates(raw)
}

// parseCandidates acepta un array de candidatos o {"matches": [...]}.
// Cuerpo vacío, objeto sin "matches" o "matches" que no sea array son ErrUnexpectedResponse.
func parseCandidates(raw json.RawMessage) ([]matching.Candidate, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrUnexpectedResponse)
	}

	var items []candidate
	switch raw[0] {
	case '[':
		if err := decode(raw, &items); err != nil {
			return nil, err
		}
	case '{':
		var wrapped struct {
			Matches json.RawMessage `json:"matches"`
		}
		if err := decode(raw, &wrapped); err != nil {
			return nil, err
		}
		list := bytes.TrimSpace(wrapped.Matches)
		if len(list) == 0 || list[0] != '[' {
			return nil, fmt.Errorf("%w: missing matches array", ErrUnexpectedResponse)
		}
		if err := decode(list, &items); err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnexpectedResponse
	}

	out := make([]matching.Candidate, 0, len(items))
	for _, it := range items {
		id, ok := lostID(it.LostID)
		if !ok {
			continue
		}
		out = append(out, matching.Candidate{LostID: id, Score: it.Score})
	}
	return out, nil
}

// decode conserva los números como json.Number para no perder precisión en el score.
func decode(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return nil
}

// lostID acepta string o número.
func lostID(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false
	}
	return n.String(), true
}
