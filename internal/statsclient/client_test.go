package statsclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/a-buianova/explore-with-me/internal/model"
)

func TestSendHit(t *testing.T) {
	var got Hit
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/hit" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL)
	hit := Hit{
		App:       "ewm-main-service",
		URI:       "/events/5",
		IP:        "10.0.0.1",
		Timestamp: model.At(time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)),
	}
	if err := c.SendHit(context.Background(), hit); err != nil {
		t.Fatalf("send hit: %v", err)
	}
	if got.App != hit.App || got.URI != hit.URI || got.IP != hit.IP {
		t.Fatalf("got %+v, want %+v", got, hit)
	}
	if !got.Timestamp.Time.Equal(hit.Timestamp.Time) {
		t.Fatalf("timestamp = %v", got.Timestamp.Time)
	}
}

func TestSendHitErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	if err := New(srv.URL).SendHit(context.Background(), Hit{}); err == nil {
		t.Fatal("want error for non-2xx response")
	}
}

func TestSendHitUnreachable(t *testing.T) {
	if err := New("http://127.0.0.1:1").SendHit(context.Background(), Hit{}); err == nil {
		t.Fatal("want error when the stats service is down")
	}
}

func TestGetStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stats" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("start") != "2026-08-01 00:00:00" || q.Get("end") != "2026-08-29 00:00:00" {
			t.Errorf("range = %q..%q", q.Get("start"), q.Get("end"))
		}
		if q.Get("unique") != "true" {
			t.Errorf("unique = %q", q.Get("unique"))
		}
		if uris := q["uris"]; len(uris) != 2 || uris[0] != "/events/1" || uris[1] != "/events/2" {
			t.Errorf("uris = %v", uris)
		}
		json.NewEncoder(w).Encode([]ViewStats{
			{App: "ewm-main-service", URI: "/events/1", Hits: 12},
		})
	}))
	defer srv.Close()

	stats, err := New(srv.URL).GetStats(context.Background(),
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		[]string{"/events/1", "/events/2"}, true)
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if len(stats) != 1 || stats[0].URI != "/events/1" || stats[0].Hits != 12 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestGetStatsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetStats(context.Background(), time.Now().Add(-time.Hour), time.Now(), nil, false)
	if err == nil {
		t.Fatal("want error for non-200 response")
	}
}
