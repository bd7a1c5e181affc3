package hebcal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestShabbatTimesWireParams(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shabbat" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"title":"Hebcal Jerusalem","items":[
			{"title":"Candle lighting: 5:59pm","date":"2024-10-04T17:59:00+03:00","category":"candles"},
			{"title":"Havdalah: 7:10pm","date":"2024-10-05T19:10:00+03:00","category":"havdalah"}
		]}`))
	}))
	defer srv.Close()

	client := NewShabbatClient(ClientConfig{BaseURL: srv.URL})
	opts := DefaultShabbatOptions()
	opts.Geonameid = 281184
	opts.Leyning = true

	resp, err := client.Times(context.Background(), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := map[string]string{
		"cfg":       "json",
		"v":         "1",
		"geonameid": "281184",
		"b":         "18",
		"m":         "42",
		"leyning":   "on",
	}
	for key, want := range expect {
		if got := gotQuery[key]; len(got) != 1 || got[0] != want {
			t.Fatalf("expected %s=%s, got %v", key, want, got)
		}
	}

	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	if resp.Items[0].Candle == nil || resp.Items[1].Havdalah == nil {
		t.Fatal("expected candle and havdalah sub-records")
	}
}

func TestShabbatLocationRules(t *testing.T) {
	tests := []struct {
		name    string
		opts    ShabbatOptions
		wantErr bool
	}{
		{name: "no location", opts: ShabbatOptions{}, wantErr: true},
		{name: "geonameid", opts: ShabbatOptions{Geonameid: 281184}, wantErr: false},
		{
			name:    "coordinate pair",
			opts:    ShabbatOptions{Latitude: floatPtr(31.76), Longitude: floatPtr(35.21)},
			wantErr: false,
		},
		{
			name:    "partial pair",
			opts:    ShabbatOptions{Latitude: floatPtr(31.76)},
			wantErr: true,
		},
		{
			name: "geonameid and pair",
			opts: ShabbatOptions{
				Geonameid: 281184, Latitude: floatPtr(31.76), Longitude: floatPtr(35.21),
			},
			wantErr: true,
		},
		{name: "negative geonameid", opts: ShabbatOptions{Geonameid: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.params()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestShabbatCandleMinutesOnlyWhenLightingEnabled(t *testing.T) {
	opts := ShabbatOptions{
		Geonameid:     281184,
		CandleMinutes: intPtr(25),
	}
	params, err := opts.params()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := params["b"]; ok {
		t.Fatal("b must not be set when candle lighting is disabled")
	}

	opts.CandleLighting = true
	params, err = opts.params()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params["b"] != "25" {
		t.Fatalf("expected b=25, got %q", params["b"])
	}
}

func TestShabbatNegativeHavdalahRejected(t *testing.T) {
	opts := ShabbatOptions{Geonameid: 281184, HavdalahMinutes: intPtr(-3)}
	_, err := opts.params()

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}
