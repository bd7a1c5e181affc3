package hebcal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(n int) *int           { return &n }

func TestCalendarEventsWireParams(t *testing.T) {
	var requests atomic.Int32
	var gotQuery map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"title":"Hebcal Jerusalem","items":[]}`))
	}))
	defer srv.Close()

	client := NewCalendarClient(ClientConfig{BaseURL: srv.URL})
	resp, err := client.Events(context.Background(), EventOptions{
		Year:          2024,
		Geonameid:     281184,
		MajorHolidays: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Title != "Hebcal Jerusalem" {
		t.Fatalf("unexpected title: %q", resp.Title)
	}

	if n := requests.Load(); n != 1 {
		t.Fatalf("expected exactly one request, got %d", n)
	}

	expect := map[string]string{
		"cfg":       "json",
		"v":         "1",
		"year":      "2024",
		"geonameid": "281184",
		"maj":       "on",
	}
	for key, want := range expect {
		if got := gotQuery[key]; len(got) != 1 || got[0] != want {
			t.Fatalf("expected %s=%s, got %v", key, want, got)
		}
	}
}

func TestCalendarLocationExclusivity(t *testing.T) {
	tests := []struct {
		name    string
		opts    EventOptions
		wantErr bool
	}{
		{
			name:    "no location",
			opts:    EventOptions{Year: 2024},
			wantErr: true,
		},
		{
			name:    "geonameid only",
			opts:    EventOptions{Year: 2024, Geonameid: 281184},
			wantErr: false,
		},
		{
			name:    "zip only",
			opts:    EventOptions{Year: 2024, ZipCode: "11213"},
			wantErr: false,
		},
		{
			name: "full coordinate triple",
			opts: EventOptions{
				Year: 2024, Latitude: floatPtr(31.76), Longitude: floatPtr(35.21),
				TimezoneID: "Asia/Jerusalem",
			},
			wantErr: false,
		},
		{
			name:    "city only",
			opts:    EventOptions{Year: 2024, City: "Jerusalem"},
			wantErr: false,
		},
		{
			name:    "geonameid and city",
			opts:    EventOptions{Year: 2024, Geonameid: 281184, City: "Jerusalem"},
			wantErr: true,
		},
		{
			name:    "zip and city",
			opts:    EventOptions{Year: 2024, ZipCode: "11213", City: "Jerusalem"},
			wantErr: true,
		},
		{
			name: "partial coordinate triple",
			opts: EventOptions{
				Year: 2024, Latitude: floatPtr(31.76), Longitude: floatPtr(35.21),
			},
			wantErr: true,
		},
		{
			name:    "bad zip shape",
			opts:    EventOptions{Year: 2024, ZipCode: "1121"},
			wantErr: true,
		},
		{
			name:    "negative geonameid",
			opts:    EventOptions{Year: 2024, Geonameid: -5},
			wantErr: true,
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()
	client := NewCalendarClient(ClientConfig{BaseURL: srv.URL})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Events(context.Background(), tt.opts)
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestCalendarDateMethodExclusivity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()
	client := NewCalendarClient(ClientConfig{BaseURL: srv.URL})

	_, err := client.Events(context.Background(), EventOptions{
		Year:      2024,
		Start:     "2024-01-01",
		End:       "2024-02-01",
		Geonameid: 281184,
	})
	if err == nil {
		t.Fatal("expected error when combining year with start/end")
	}

	_, err = client.Events(context.Background(), EventOptions{Geonameid: 281184})
	if err == nil {
		t.Fatal("expected error when neither year nor range is set")
	}
}

func TestCalendarFetchRejectsDisallowedKey(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	client := NewCalendarClient(ClientConfig{BaseURL: srv.URL})
	_, err := client.Fetch(context.Background(), Params{"year": "2024", "bogus": "on"})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if n := requests.Load(); n != 0 {
		t.Fatalf("disallowed key must fail before any request, got %d requests", n)
	}
}

func TestCalendarNonObjectResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"title":"not an object response"}]`))
	}))
	defer srv.Close()

	client := NewCalendarClient(ClientConfig{BaseURL: srv.URL})
	_, err := client.Fetch(context.Background(), Params{"year": "2024"})
	if !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestCalendarNegativeMinutesRejected(t *testing.T) {
	client := NewCalendarClient(ClientConfig{BaseURL: "http://unused"})

	_, err := client.Events(context.Background(), EventOptions{
		Year:          2024,
		Geonameid:     281184,
		CandleMinutes: intPtr(-1),
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestCalendarHolidaysHelper(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	client := NewCalendarClient(ClientConfig{BaseURL: srv.URL})
	if _, err := client.Holidays(context.Background(), 2025, "Jerusalem", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := map[string]string{"year": "2025", "maj": "on", "min": "off", "mf": "off", "city": "Jerusalem"}
	for key, want := range expect {
		if got := gotQuery[key]; len(got) != 1 || got[0] != want {
			t.Fatalf("expected %s=%s, got %v", key, want, got)
		}
	}
}

func TestCalendarDafYomiHelper(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	client := NewCalendarClient(ClientConfig{BaseURL: srv.URL})
	if _, err := client.DafYomi(context.Background(), "2024-10-02"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := gotQuery["F"]; len(got) != 1 || got[0] != "on" {
		t.Fatalf("expected F=on, got %v", got)
	}
	if gotQuery["start"][0] != "2024-10-02" || gotQuery["end"][0] != "2024-10-02" {
		t.Fatalf("expected start=end=2024-10-02, got %v", gotQuery)
	}

	if _, err := client.DafYomi(context.Background(), "02/10/2024"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}
