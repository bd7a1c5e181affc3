package hebcal

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sudo-py-dev/hebcal-api/internal/logger"
)

func TestLeyningReadings(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leyning" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Write([]byte(`{
			"date": "2024-03-09",
			"location": "Diaspora",
			"items": [{
				"date": "2024-03-09",
				"hdate": "29 Adar I 5784",
				"name": {"en": "Vayakhel", "he": "וַיַּקְהֵל"},
				"parshaNum": 22,
				"summary": "Exodus 35:1-38:20",
				"fullkriyah": {
					"1": {"k": "Exodus", "b": "35:1", "e": "35:20", "v": 20},
					"7": {"k": "Exodus", "b": "38:1", "e": "38:20", "v": 20}
				},
				"haftara": "II Kings 12:1-17",
				"triYear": 2
			}]
		}`))
	}))
	defer srv.Close()

	client := NewLeyningClient(ClientConfig{BaseURL: srv.URL})
	resp, err := client.Readings(context.Background(), LeyningOptions{Date: "2024-03-09"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := map[string]string{
		"date":      "2024-03-09",
		"i":         "off",
		"triennial": "on",
	}
	for key, want := range expect {
		if got := gotQuery[key]; len(got) != 1 || got[0] != want {
			t.Fatalf("expected %s=%s, got %v", key, want, got)
		}
	}

	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(resp.Items))
	}
	item := resp.Items[0]
	if item.NameEn != "Vayakhel" {
		t.Fatalf("unexpected name: %q", item.NameEn)
	}
	if item.NameHePlain() != "ויקהל" {
		t.Fatalf("expected nikud stripped, got %q", item.NameHePlain())
	}
	if item.FullKriyah["1"].Book != "Exodus" || item.FullKriyah["1"].Begin != "35:1" {
		t.Fatalf("unexpected first aliyah: %+v", item.FullKriyah["1"])
	}
	if item.TriYear != 2 {
		t.Fatalf("expected triYear 2, got %d", item.TriYear)
	}
}

func TestLeyningIsraelAndTriennialFlags(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	client := NewLeyningClient(ClientConfig{BaseURL: srv.URL})
	off := false
	_, err := client.Readings(context.Background(), LeyningOptions{
		Date:      "2024-03-09",
		Israel:    true,
		Triennial: &off,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery["i"][0] != "on" || gotQuery["triennial"][0] != "off" {
		t.Fatalf("expected i=on triennial=off, got %v", gotQuery)
	}
}

func TestLeyningRangeRules(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()
	client := NewLeyningClient(ClientConfig{BaseURL: srv.URL})

	if _, err := client.Readings(context.Background(), LeyningOptions{Start: "2024-01-01"}); err == nil {
		t.Fatal("expected error for partial range")
	}
	if _, err := client.Readings(context.Background(), LeyningOptions{}); err == nil {
		t.Fatal("expected error for missing date and range")
	}
}

func TestLeyningLongRangeWarnsAndSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: logger.WARN, Output: &buf})
	client := NewLeyningClient(ClientConfig{BaseURL: srv.URL, Logger: log})

	// 200-day span.
	_, err := client.Readings(context.Background(), LeyningOptions{
		Start: "2024-01-01",
		End:   "2024-07-19",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "truncated") {
		t.Fatalf("expected truncation warning, got %q", buf.String())
	}
}
