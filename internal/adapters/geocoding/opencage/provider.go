package opencage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pettrack/internal/domain/geocode"
	"pettrack/internal/platform/httpclient"
)

const DefaultBaseURL = "https://api.opencagedata.com"

var ErrMissingAPIKey = errors.New("opencage: api key required")

type Provider struct {
	http   *httpclient.Client
	apiKey string
}

var _ geocode.Provider = (*Provider)(nil)

func New(baseURL, apiKey string, timeout time.Duration) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}

	hc, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	hc.Name = "opencage"

	return &Provider{http: hc, apiKey: apiKey}, nil
}

type response struct {
	Status struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
	Results []struct {
		Formatted string `json:"formatted"`
		Geometry  struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
}

func (p *Provider) Geocode(ctx context.Context, address string) (geocode.Result, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("key", p.apiKey)
	q.Set("limit", "1")
	q.Set("no_annotations", "1")

	var out response
	if err := p.http.DoJSON(ctx, http.MethodGet, "/geocode/v1/json?"+q.Encode(), nil, nil, &out); err != nil {
		return geocode.Result{}, err
	}

	if out.Status.Code != http.StatusOK {
		return geocode.Result{}, fmt.Errorf("opencage: status %d %s", out.Status.Code, out.Status.Message)
	}
	if len(out.Results) == 0 {
		return geocode.Result{}, geocode.ErrNotFound
	}

	r := out.Results[0]
	return geocode.Result{
		Lng:       r.Geometry.Lng,
		Lat:       r.Geometry.Lat,
		Formatted: r.Formatted,
	}, nil
}
