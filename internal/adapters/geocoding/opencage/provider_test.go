package opencage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pettrack/internal/domain/geocode"
)

func TestProvider_Geocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geocode/v1/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "Av. Corrientes 1000, CABA" || q.Get("key") != "k" || q.Get("limit") != "1" {
			t.Errorf("unexpected query %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": {"code": 200, "message": "OK"},
			"results": [{"formatted": "Av. Corrientes 1000", "geometry": {"lat": -34.6, "lng": -58.38}}]
		}`))
	}))
	defer srv.Close()

	p, err := New(srv.URL, "k", 0)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	res, err := p.Geocode(context.Background(), "Av. Corrientes 1000, CABA")
	if err != nil {
		t.Fatalf("Geocode error: %v", err)
	}
	if res.Lng != -58.38 || res.Lat != -34.6 || res.Formatted != "Av. Corrientes 1000" {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestProvider_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":{"code":200,"message":"OK"},"results":[]}`))
	}))
	defer srv.Close()

	p, _ := New(srv.URL, "k", 0)
	if _, err := p.Geocode(context.Background(), "nowhere"); !errors.Is(err, geocode.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProvider_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"status":{"code":402,"message":"quota exceeded"},"results":[]}`))
	}))
	defer srv.Close()

	p, _ := New(srv.URL, "k", 0)
	if _, err := p.Geocode(context.Background(), "x"); err == nil {
		t.Fatalf("expected error on 402")
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := New("", " ", 0); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
