package hebcal

import (
	"testing"
	"time"
)

func TestEventFromRawCandles(t *testing.T) {
	raw := map[string]any{
		"title":    "Candle lighting: 6:04pm",
		"date":     "2024-10-04T18:04:00-04:00",
		"category": "candles",
		"hebrew":   "הדלקת נרות",
		"memo":     "Parashat Ha'azinu",
	}

	ev := eventFromRaw(raw)

	if ev.Category != CategoryCandles {
		t.Fatalf("expected candles category, got %s", ev.Category)
	}
	want := time.Date(2024, 10, 4, 18, 4, 0, 0, time.FixedZone("", -4*3600))
	if !ev.Date.Equal(want) {
		t.Fatalf("expected %v, got %v", want, ev.Date)
	}
	if ev.Candle == nil {
		t.Fatal("expected candle sub-record")
	}
	if !ev.Candle.Time.Equal(want) {
		t.Fatalf("candle time should mirror event date, got %v", ev.Candle.Time)
	}
	if ev.Candle.Memo != "Parashat Ha'azinu" {
		t.Fatalf("unexpected memo: %q", ev.Candle.Memo)
	}

	// Exactly one sub-record.
	if ev.Holiday != nil || ev.Omer != nil || ev.Havdalah != nil || ev.Parashat != nil {
		t.Fatal("only the candle sub-record should be populated")
	}
}

func TestEventFromRawUnknownCategory(t *testing.T) {
	raw := map[string]any{
		"title":    "Some future event kind",
		"date":     "2024-10-04",
		"category": "mevarchim-chodesh-galactic",
	}

	ev := eventFromRaw(raw)

	if ev.Category != CategoryUnknown {
		t.Fatalf("expected unknown category, got %s", ev.Category)
	}
	if ev.Title != "Some future event kind" {
		t.Fatalf("title must survive unknown categories, got %q", ev.Title)
	}
	if ev.Omer != nil || ev.Holiday != nil || ev.Candle != nil || ev.Havdalah != nil ||
		ev.Shabbat != nil || ev.RoshChodesh != nil || ev.Parashat != nil || ev.Zmanim != nil {
		t.Fatal("unknown category must not populate any sub-record")
	}
}

func TestEventFromRawBadDateStaysAbsent(t *testing.T) {
	raw := map[string]any{
		"title":    "Rosh Hashana",
		"date":     "around september",
		"category": "holiday",
	}

	ev := eventFromRaw(raw)

	if !ev.Date.IsZero() {
		t.Fatalf("expected zero date, got %v", ev.Date)
	}
	if ev.Holiday == nil {
		t.Fatal("holiday sub-record should still be populated")
	}
}

func TestEventFromRawOmer(t *testing.T) {
	raw := map[string]any{
		"title":    "33rd day of the Omer",
		"date":     "2024-05-26",
		"category": "omer",
		"omer": map[string]any{
			"count":  map[string]any{"he": "הַיּוֹם שְׁלוֹשָׁה וּשְׁלוֹשִׁים יוֹם", "en": "Today is 33 days"},
			"sefira": map[string]any{"he": "הוֹד שֶׁבְּהוֹד", "translit": "Hod shebeHod", "en": "Splendor within Splendor"},
		},
	}

	ev := eventFromRaw(raw)

	if ev.Omer == nil {
		t.Fatal("expected omer sub-record")
	}
	if ev.Omer.CountEn != "Today is 33 days" {
		t.Fatalf("unexpected count: %q", ev.Omer.CountEn)
	}
	if ev.Omer.SefiraTranslit != "Hod shebeHod" {
		t.Fatalf("unexpected sefira: %q", ev.Omer.SefiraTranslit)
	}
	if got := ev.Omer.SefiraHePlain(); got != "הוד שבהוד" {
		t.Fatalf("expected nikud stripped from sefira, got %q", got)
	}
}

func TestEventFromRawParashatAliyot(t *testing.T) {
	raw := map[string]any{
		"title":    "Parashat Vayakhel",
		"date":     "2024-03-09",
		"category": "parashat",
		"leyning": map[string]any{
			"torah":    "Exodus 35:1-38:20",
			"haftarah": "II Kings 12:1-17",
			"maftir":   "Exodus 38:18-38:20",
			"1":        "Exodus 35:1-35:20",
			"2":        "Exodus 35:21-35:29",
			"7":        "Exodus 38:1-38:20",
		},
	}

	ev := eventFromRaw(raw)

	if ev.Parashat == nil {
		t.Fatal("expected parashat sub-record")
	}
	if ev.Parashat.Torah != "Exodus 35:1-38:20" {
		t.Fatalf("unexpected torah: %q", ev.Parashat.Torah)
	}
	if len(ev.Parashat.Aliyot) != 3 {
		t.Fatalf("expected 3 aliyot, got %d", len(ev.Parashat.Aliyot))
	}
	if ev.Parashat.Aliyot["7"] != "Exodus 38:1-38:20" {
		t.Fatalf("unexpected aliyah 7: %q", ev.Parashat.Aliyot["7"])
	}
	if _, ok := ev.Parashat.Aliyot["torah"]; ok {
		t.Fatal("named keys must not leak into aliyot")
	}
}

func TestEventFromRawRoshChodeshAlias(t *testing.T) {
	raw := map[string]any{
		"title":    "Rosh Chodesh Nisan",
		"date":     "2024-04-09",
		"category": "Rosh Chodesh",
	}

	ev := eventFromRaw(raw)

	if ev.Category != CategoryRoshChodesh {
		t.Fatalf("expected roshchodesh, got %s", ev.Category)
	}
	if ev.RoshChodesh == nil {
		t.Fatal("expected rosh chodesh sub-record")
	}
}

func TestCalendarResponseFromRawSkipsMalformedItems(t *testing.T) {
	raw := map[string]any{
		"title": "Hebcal Test Calendar",
		"items": []any{
			map[string]any{"title": "Good", "date": "2024-10-04", "category": "holiday"},
			"not an object",
			map[string]any{"title": "Also good", "date": "garbage", "category": "nonsense"},
		},
	}

	resp := calendarResponseFromRaw(raw)

	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 mapped items, got %d", len(resp.Items))
	}
	if resp.Items[1].Category != CategoryUnknown {
		t.Fatalf("bad category should degrade to unknown, got %s", resp.Items[1].Category)
	}
}

func TestConverterResultFromRaw(t *testing.T) {
	raw := map[string]any{
		"gy": float64(2024), "gm": float64(10), "gd": float64(2),
		"hy": float64(5785), "hm": "Tishrei", "hd": float64(1),
		"hebrew": "א׳ בְּתִשְׁרֵי תשפ״ה",
		"events": []any{"Rosh Hashana 5785", 42},
		"date":   "2024-10-02",
	}

	res := converterResultFromRaw(raw)

	if res.Hy != 5785 || res.Hm != "Tishrei" || res.Hd != 1 {
		t.Fatalf("unexpected hebrew date: %d %s %d", res.Hy, res.Hm, res.Hd)
	}
	if len(res.Events) != 1 || res.Events[0] != "Rosh Hashana 5785" {
		t.Fatalf("expected only string events, got %v", res.Events)
	}
	if res.Date.IsZero() {
		t.Fatal("expected parsed date")
	}
}

func TestZmanimResponseFromRawDateShapes(t *testing.T) {
	single := zmanimResponseFromRaw(map[string]any{
		"date":  "2024-10-02",
		"times": map[string]any{"sunrise": "2024-10-02T06:55:00-04:00"},
	})
	if single.Date != "2024-10-02" || single.Range != nil {
		t.Fatalf("expected plain date, got %q range %v", single.Date, single.Range)
	}
	if single.Times.Sunrise == "" {
		t.Fatal("expected sunrise time")
	}

	ranged := zmanimResponseFromRaw(map[string]any{
		"date": map[string]any{"start": "2024-10-01", "end": "2024-10-03"},
	})
	if ranged.Range == nil || ranged.Range.Start != "2024-10-01" {
		t.Fatalf("expected range, got %v", ranged.Range)
	}
}
