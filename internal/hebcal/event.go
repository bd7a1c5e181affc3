package hebcal

import "strings"

// Field helpers for decoded JSON objects. Each tolerates missing keys and
// wrong types; response mapping never fails on a malformed item.

func strField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}

func intField(m map[string]any, key string) (int, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case float64:
		return int(v), true
	case string:
		if isDigits(v) {
			n := 0
			for _, r := range v {
				n = n*10 + int(r-'0')
			}
			return n, true
		}
	}
	return 0, false
}

func mapField(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	sub, _ := m[key].(map[string]any)
	return sub
}

// digitEntries collects the numbered alias keys ("1".."7") of a leyning map.
func digitEntries(m map[string]any) map[string]string {
	var out map[string]string
	for k, v := range m {
		if !isDigits(k) {
			continue
		}
		if s, ok := v.(string); ok {
			if out == nil {
				out = make(map[string]string)
			}
			out[k] = s
		}
	}
	return out
}

// eventFromRaw maps one raw calendar item into an Event. It is total: an
// unknown category degrades to CategoryUnknown, an unparseable date stays
// absent, and exactly one category sub-record is populated.
func eventFromRaw(data map[string]any) Event {
	ev := Event{
		Title:         strField(data, "title"),
		Hebrew:        strField(data, "hebrew"),
		Link:          strField(data, "link"),
		OriginalTitle: strField(data, "title_orig"),
		Category:      CategoryUnknown,
	}

	if t, ok := parseEventTime(strField(data, "date")); ok {
		ev.Date = t
	}

	cat := EventCategory(strings.ToLower(strField(data, "category")))
	if cat == "rosh chodesh" {
		cat = CategoryRoshChodesh
	}
	if _, known := knownCategories[cat]; known {
		ev.Category = cat
	}

	switch ev.Category {
	case CategoryOmer:
		if omer := mapField(data, "omer"); omer != nil {
			count := mapField(omer, "count")
			sefira := mapField(omer, "sefira")
			ev.Omer = &OmerInfo{
				CountHe:        strField(count, "he"),
				CountEn:        strField(count, "en"),
				SefiraHe:       strField(sefira, "he"),
				SefiraTranslit: strField(sefira, "translit"),
				SefiraEn:       strField(sefira, "en"),
			}
		}
	case CategoryHoliday:
		ev.Holiday = &HolidayInfo{
			YomTov:  boolField(data, "yomtov"),
			Subcat:  strField(data, "subcat"),
			Memo:    strField(data, "memo"),
			Leyning: mapField(data, "leyning"),
		}
	case CategoryCandles:
		ev.Candle = &CandleInfo{
			Time: ev.Date,
			Memo: strField(data, "memo"),
		}
	case CategoryHavdalah:
		ev.Havdalah = &HavdalahInfo{
			Time: ev.Date,
			Memo: strField(data, "memo"),
		}
	case CategoryShabbat:
		ley := mapField(data, "leyning")
		ev.Shabbat = &ShabbatInfo{
			Torah:    strField(ley, "torah"),
			Haftarah: strField(ley, "haftarah"),
			Maftir:   strField(ley, "maftir"),
			Leyning:  ley,
		}
	case CategoryParashat:
		ley := mapField(data, "leyning")
		ev.Parashat = &ParashatInfo{
			Torah:     strField(ley, "torah"),
			Haftarah:  strField(ley, "haftarah"),
			Maftir:    strField(ley, "maftir"),
			Aliyot:    digitEntries(ley),
			Triennial: mapField(ley, "triennial"),
		}
	case CategoryRoshChodesh:
		ley := mapField(data, "leyning")
		ev.RoshChodesh = &RoshChodeshInfo{
			Link:     ev.Link,
			Torah:    strField(ley, "torah"),
			Haftarah: strField(ley, "haftarah"),
			Maftir:   strField(ley, "maftir"),
			Portions: digitEntries(ley),
			Memo:     strField(data, "memo"),
		}
	case CategoryZmanim:
		ev.Zmanim = &ZmanimInfo{
			Title:         ev.Title,
			Time:          ev.Date,
			Hebrew:        ev.Hebrew,
			OriginalTitle: ev.OriginalTitle,
			Memo:          strField(data, "memo"),
			Subcat:        strField(data, "subcat"),
		}
	}

	return ev
}

func calendarResponseFromRaw(data map[string]any) *CalendarResponse {
	resp := &CalendarResponse{
		Title:   strField(data, "title"),
		Date:    strField(data, "date"),
		Version: strField(data, "version"),
		Raw:     data,
	}

	if loc := mapField(data, "location"); loc != nil {
		var l Location
		if decodeInto(loc, &l) == nil {
			resp.Location = &l
		}
	}
	if rng := mapField(data, "range"); rng != nil {
		resp.Range = &DateRange{
			Start: strField(rng, "start"),
			End:   strField(rng, "end"),
		}
	}
	if items, ok := data["items"].([]any); ok {
		resp.Items = make([]Event, 0, len(items))
		for _, it := range items {
			if m, ok := it.(map[string]any); ok {
				resp.Items = append(resp.Items, eventFromRaw(m))
			}
		}
	}

	return resp
}

// leyningItemWire mirrors the wire field names so the portion maps decode
// directly; the date is re-parsed defensively afterwards.
type leyningItemWire struct {
	Date         string                    `json:"date"`
	HDate        string                    `json:"hdate"`
	Type         string                    `json:"type"`
	Name         struct{ En, He string }   `json:"name"`
	ParshaNum    int                       `json:"parshaNum"`
	Summary      string                    `json:"summary"`
	SummaryParts []ReadingPortion          `json:"summaryParts"`
	FullKriyah   map[string]ReadingPortion `json:"fullkriyah"`
	Haftara      string                    `json:"haftara"`
	Haft         *ReadingPortion           `json:"haft"`
	Triennial    map[string]ReadingPortion `json:"triennial"`
	TriYear      int                       `json:"triYear"`
	TriHaftara   string                    `json:"triHaftara"`
	TriHaft      *ReadingPortion           `json:"triHaft"`
}

func leyningItemFromRaw(data map[string]any) LeyningItem {
	var wire leyningItemWire
	if err := decodeInto(data, &wire); err != nil {
		// Item deviates from the expected shape; keep what the scalar
		// fields give us instead of dropping it.
		name := mapField(data, "name")
		item := LeyningItem{
			HDate:  strField(data, "hdate"),
			Type:   strField(data, "type"),
			NameEn: strField(name, "en"),
			NameHe: strField(name, "he"),
		}
		if t, ok := parseEventTime(strField(data, "date")); ok {
			item.Date = t
		}
		return item
	}

	item := LeyningItem{
		HDate:        wire.HDate,
		Type:         wire.Type,
		NameEn:       wire.Name.En,
		NameHe:       wire.Name.He,
		ParshaNum:    wire.ParshaNum,
		Summary:      wire.Summary,
		SummaryParts: wire.SummaryParts,
		FullKriyah:   wire.FullKriyah,
		Haftara:      wire.Haftara,
		Haft:         wire.Haft,
		Triennial:    wire.Triennial,
		TriYear:      wire.TriYear,
		TriHaftara:   wire.TriHaftara,
		TriHaft:      wire.TriHaft,
	}
	if t, ok := parseEventTime(wire.Date); ok {
		item.Date = t
	}
	return item
}

func leyningResponseFromRaw(data map[string]any) *LeyningResponse {
	resp := &LeyningResponse{
		Location: strField(data, "location"),
	}
	if t, ok := parseEventTime(strField(data, "date")); ok {
		resp.Date = t
	}
	if rng := mapField(data, "range"); rng != nil {
		resp.Range = DateRange{
			Start: strField(rng, "start"),
			End:   strField(rng, "end"),
		}
	}
	if items, ok := data["items"].([]any); ok {
		resp.Items = make([]LeyningItem, 0, len(items))
		for _, it := range items {
			if m, ok := it.(map[string]any); ok {
				resp.Items = append(resp.Items, leyningItemFromRaw(m))
			}
		}
	}
	return resp
}

func zmanimResponseFromRaw(data map[string]any) *ZmanimResponse {
	resp := &ZmanimResponse{
		Version: strField(data, "version"),
	}

	// The date field is a string for single-day queries and an object with
	// start/end for ranges.
	switch d := data["date"].(type) {
	case string:
		resp.Date = d
	case map[string]any:
		resp.Range = &DateRange{
			Start: strField(d, "start"),
			End:   strField(d, "end"),
		}
	}

	if loc := mapField(data, "location"); loc != nil {
		var l Location
		if decodeInto(loc, &l) == nil {
			resp.Location = &l
		}
	}
	if times := mapField(data, "times"); times != nil {
		_ = decodeInto(times, &resp.Times)
	}

	return resp
}

func converterResultFromRaw(data map[string]any) ConverterResult {
	res := ConverterResult{
		Hm:     strField(data, "hm"),
		Hebrew: strField(data, "hebrew"),
	}
	res.Gy, _ = intField(data, "gy")
	res.Gm, _ = intField(data, "gm")
	res.Gd, _ = intField(data, "gd")
	res.Hy, _ = intField(data, "hy")
	res.Hd, _ = intField(data, "hd")

	if events, ok := data["events"].([]any); ok {
		for _, e := range events {
			if s, ok := e.(string); ok {
				res.Events = append(res.Events, s)
			}
		}
	}
	if t, ok := parseEventTime(strField(data, "date")); ok {
		res.Date = t
	}
	return res
}

func yahrzeitEventFromRaw(data map[string]any) YahrzeitEvent {
	ev := YahrzeitEvent{
		Title:      strField(data, "title"),
		Hebrew:     strField(data, "hebrew"),
		Category:   strField(data, "category"),
		YahrzeitOf: strField(data, "yahrzeitOf"),
	}
	ev.Anniversary, _ = intField(data, "anniversary")
	if t, ok := parseEventTime(strField(data, "date")); ok {
		ev.Date = t
	}
	if parts := mapField(data, "heDateParts"); parts != nil {
		hp := &HebrewDateParts{MonthName: strField(parts, "month_name")}
		hp.Yy, _ = intField(parts, "yy")
		hp.Mm, _ = intField(parts, "mm")
		hp.Dd, _ = intField(parts, "dd")
		ev.HeDateParts = hp
	}
	return ev
}

func yahrzeitResponseFromRaw(data map[string]any) *YahrzeitResponse {
	resp := &YahrzeitResponse{
		Title: strField(data, "title"),
	}
	if items, ok := data["items"].([]any); ok {
		resp.Events = make([]YahrzeitEvent, 0, len(items))
		for _, it := range items {
			if m, ok := it.(map[string]any); ok {
				resp.Events = append(resp.Events, yahrzeitEventFromRaw(m))
			}
		}
	}
	return resp
}
