package twelvedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("symbol") != "EUR/USD" || q.Get("interval") != "1h" || q.Get("outputsize") != "2" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{
			"meta": {"symbol": "EUR/USD", "interval": "1h"},
			"values": [
				{"datetime": "2024-03-01 11:00:00", "open": "1.0810", "high": "1.0830", "low": "1.0800", "close": "1.0825"},
				{"datetime": "2024-03-01 10:00:00", "open": "1.0800", "high": "1.0815", "low": "1.0790", "close": "1.0810"}
			],
			"status": "ok"
		}`))
	}))
	defer srv.Close()

	client := NewClient(ClientOptions{APIKey: "test", BaseURL: srv.URL, RequestsPerSec: 100, MaxRetries: 1})
	bars, err := client.GetBars(context.Background(), "EURUSD", "1h", 2)
	if err != nil {
		t.Fatalf("GetBars() error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if !bars[0].Time.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("bars not sorted oldest first: %v", bars[0].Time)
	}
	if bars[1].Close != 1.0825 {
		t.Errorf("close = %v, want 1.0825", bars[1].Close)
	}
}

func TestGetBarsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 401, "message": "invalid api key", "status": "error"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientOptions{BaseURL: srv.URL, RequestsPerSec: 100, MaxRetries: 1})
	if _, err := client.GetBars(context.Background(), "EURUSD", "1h", 2); err == nil {
		t.Error("expected an API error")
	}
}

func TestGetBarsUnsupportedTimeframe(t *testing.T) {
	client := NewClient(ClientOptions{BaseURL: "http://127.0.0.1:0"})
	if _, err := client.GetBars(context.Background(), "EURUSD", "3m", 2); err == nil {
		t.Error("expected an error for an unsupported timeframe")
	}
}

func TestPairSymbol(t *testing.T) {
	tests := map[string]string{
		"EURUSD":  "EUR/USD",
		"GBP/JPY": "GBP/JPY",
		"XAUUSDT": "XAUUSDT",
	}
	for in, want := range tests {
		if got := pairSymbol(in); got != want {
			t.Errorf("pairSymbol(%q) = %q, want %q", in, got, want)
		}
	}
}
