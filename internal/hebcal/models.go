package hebcal

import (
	"encoding/json"
	"time"
)

// EventCategory tags a calendar event with its kind. The set is closed;
// anything the remote service sends outside it maps to CategoryUnknown.
type EventCategory string

const (
	CategoryOmer        EventCategory = "omer"
	CategoryHoliday     EventCategory = "holiday"
	CategoryHavdalah    EventCategory = "havdalah"
	CategoryCandles     EventCategory = "candles"
	CategoryRoshChodesh EventCategory = "roshchodesh"
	CategoryShabbat     EventCategory = "shabbat"
	CategoryParashat    EventCategory = "parashat"
	CategoryZmanim      EventCategory = "zmanim"
	CategoryUnknown     EventCategory = "unknown"
)

var knownCategories = map[EventCategory]struct{}{
	CategoryOmer:        {},
	CategoryHoliday:     {},
	CategoryHavdalah:    {},
	CategoryCandles:     {},
	CategoryRoshChodesh: {},
	CategoryShabbat:     {},
	CategoryParashat:    {},
	CategoryZmanim:      {},
}

// OmerInfo describes one day of the Omer count.
type OmerInfo struct {
	CountHe        string `json:"countHe,omitempty"`
	CountEn        string `json:"countEn,omitempty"`
	SefiraHe       string `json:"sefiraHe,omitempty"`
	SefiraTranslit string `json:"sefiraTranslit,omitempty"`
	SefiraEn       string `json:"sefiraEn,omitempty"`
}

// CountHePlain returns the Hebrew count with nikud stripped.
func (o OmerInfo) CountHePlain() string {
	return stripNikudLossy(o.CountHe)
}

// SefiraHePlain returns the Hebrew sefira with nikud stripped.
func (o OmerInfo) SefiraHePlain() string {
	return stripNikudLossy(o.SefiraHe)
}

type HolidayInfo struct {
	YomTov  bool           `json:"yomtov,omitempty"`
	Subcat  string         `json:"subcat,omitempty"`
	Memo    string         `json:"memo,omitempty"`
	Leyning map[string]any `json:"leyning,omitempty"`
}

type HavdalahInfo struct {
	Time time.Time `json:"time,omitempty"`
	Memo string    `json:"memo,omitempty"`
}

type CandleInfo struct {
	Time time.Time `json:"time,omitempty"`
	Memo string    `json:"memo,omitempty"`
}

type ShabbatInfo struct {
	Torah    string         `json:"torah,omitempty"`
	Haftarah string         `json:"haftarah,omitempty"`
	Maftir   string         `json:"maftir,omitempty"`
	Leyning  map[string]any `json:"leyning,omitempty"`
}

type RoshChodeshInfo struct {
	Link     string            `json:"link,omitempty"`
	Torah    string            `json:"torah,omitempty"`
	Haftarah string            `json:"haftarah,omitempty"`
	Maftir   string            `json:"maftir,omitempty"`
	Portions map[string]string `json:"portions,omitempty"`
	Memo     string            `json:"memo,omitempty"`
}

// ParashatInfo describes a weekly Torah portion. Aliyot holds the numbered
// "1".."7" reading keys.
type ParashatInfo struct {
	Torah     string            `json:"torah,omitempty"`
	Haftarah  string            `json:"haftarah,omitempty"`
	Maftir    string            `json:"maftir,omitempty"`
	Aliyot    map[string]string `json:"aliyot,omitempty"`
	Triennial map[string]any    `json:"triennial,omitempty"`
}

type ZmanimInfo struct {
	Title         string    `json:"title,omitempty"`
	Time          time.Time `json:"time,omitempty"`
	Hebrew        string    `json:"hebrew,omitempty"`
	OriginalTitle string    `json:"titleOrig,omitempty"`
	Memo          string    `json:"memo,omitempty"`
	Subcat        string    `json:"subcat,omitempty"`
}

// TitlePlain returns the title with nikud stripped.
func (z ZmanimInfo) TitlePlain() string {
	return stripNikudLossy(z.Title)
}

// MemoPlain returns the memo with nikud stripped.
func (z ZmanimInfo) MemoPlain() string {
	return stripNikudLossy(z.Memo)
}

// Event is one calendar item. Category selects which single sub-record is
// populated; all others stay nil. A zero Date means the source value could
// not be parsed.
type Event struct {
	Title         string        `json:"title"`
	Date          time.Time     `json:"date,omitempty"`
	Category      EventCategory `json:"category"`
	Hebrew        string        `json:"hebrew,omitempty"`
	Link          string        `json:"link,omitempty"`
	OriginalTitle string        `json:"titleOrig,omitempty"`

	Omer        *OmerInfo        `json:"omer,omitempty"`
	Holiday     *HolidayInfo     `json:"holiday,omitempty"`
	Havdalah    *HavdalahInfo    `json:"havdalah,omitempty"`
	Candle      *CandleInfo      `json:"candle,omitempty"`
	Shabbat     *ShabbatInfo     `json:"shabbat,omitempty"`
	RoshChodesh *RoshChodeshInfo `json:"roshchodesh,omitempty"`
	Parashat    *ParashatInfo    `json:"parashat,omitempty"`
	Zmanim      *ZmanimInfo      `json:"zmanim,omitempty"`
}

// Location is the geonames place record echoed back by the calendar and
// shabbat endpoints.
type Location struct {
	Title     string  `json:"title"`
	City      string  `json:"city"`
	Tzid      string  `json:"tzid"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	CC        string  `json:"cc"`
	Country   string  `json:"country"`
	Elevation *int    `json:"elevation,omitempty"`
	Admin1    string  `json:"admin1,omitempty"`
	AsciiName string  `json:"asciiname,omitempty"`
	Geo       string  `json:"geo,omitempty"`
	Geonameid *int    `json:"geonameid,omitempty"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CalendarResponse is the parsed body of a calendar or shabbat query. Raw
// keeps the decoded JSON object for callers that need fields this model does
// not surface.
type CalendarResponse struct {
	Title    string         `json:"title"`
	Date     string         `json:"date"`
	Version  string         `json:"version"`
	Location *Location      `json:"location,omitempty"`
	Range    *DateRange     `json:"range,omitempty"`
	Items    []Event        `json:"items"`
	Raw      map[string]any `json:"-"`
}

// ReadingPortion is one Torah reading span: book, begin verse, end verse.
type ReadingPortion struct {
	Book   string `json:"k"`
	Begin  string `json:"b"`
	End    string `json:"e"`
	Verses int    `json:"v,omitempty"`
	Parsha int    `json:"p,omitempty"`
	Note   string `json:"note,omitempty"`
}

type LeyningItem struct {
	Date         time.Time
	HDate        string
	Type         string
	NameEn       string
	NameHe       string
	ParshaNum    int
	Summary      string
	SummaryParts []ReadingPortion
	FullKriyah   map[string]ReadingPortion
	Haftara      string
	Haft         *ReadingPortion
	Triennial    map[string]ReadingPortion
	TriYear      int
	TriHaftara   string
	TriHaft      *ReadingPortion
}

// NameHePlain returns the Hebrew name with nikud stripped.
func (l LeyningItem) NameHePlain() string {
	return stripNikudLossy(l.NameHe)
}

type LeyningResponse struct {
	Date     time.Time
	Location string
	Range    DateRange
	Items    []LeyningItem
}

// ZmanimTimes carries the halachic times of a single day, all as the ISO
// timestamps the service sends.
type ZmanimTimes struct {
	ChatzotNight             string `json:"chatzotNight,omitempty"`
	AlotHaShachar            string `json:"alotHaShachar,omitempty"`
	Misheyakir               string `json:"misheyakir,omitempty"`
	MisheyakirMachmir        string `json:"misheyakirMachmir,omitempty"`
	Dawn                     string `json:"dawn,omitempty"`
	Sunrise                  string `json:"sunrise,omitempty"`
	SeaLevelSunrise          string `json:"seaLevelSunrise,omitempty"`
	SofZmanShmaMGA19Point8   string `json:"sofZmanShmaMGA19Point8,omitempty"`
	SofZmanShmaMGA16Point1   string `json:"sofZmanShmaMGA16Point1,omitempty"`
	SofZmanShmaMGA           string `json:"sofZmanShmaMGA,omitempty"`
	SofZmanShma              string `json:"sofZmanShma,omitempty"`
	SofZmanTfillaMGA19Point8 string `json:"sofZmanTfillaMGA19Point8,omitempty"`
	SofZmanTfillaMGA16Point1 string `json:"sofZmanTfillaMGA16Point1,omitempty"`
	SofZmanTfillaMGA         string `json:"sofZmanTfillaMGA,omitempty"`
	SofZmanTfilla            string `json:"sofZmanTfilla,omitempty"`
	Chatzot                  string `json:"chatzot,omitempty"`
	MinchaGedola             string `json:"minchaGedola,omitempty"`
	MinchaGedolaMGA          string `json:"minchaGedolaMGA,omitempty"`
	MinchaKetana             string `json:"minchaKetana,omitempty"`
	MinchaKetanaMGA          string `json:"minchaKetanaMGA,omitempty"`
	PlagHaMincha             string `json:"plagHaMincha,omitempty"`
	SeaLevelSunset           string `json:"seaLevelSunset,omitempty"`
	Sunset                   string `json:"sunset,omitempty"`
	BeinHaShmashos           string `json:"beinHaShmashos,omitempty"`
	Dusk                     string `json:"dusk,omitempty"`
	Tzeit7083Deg             string `json:"tzeit7083deg,omitempty"`
	Tzeit85Deg               string `json:"tzeit85deg,omitempty"`
	Tzeit42Min               string `json:"tzeit42min,omitempty"`
	Tzeit50Min               string `json:"tzeit50min,omitempty"`
	Tzeit72Min               string `json:"tzeit72min,omitempty"`
}

type ZmanimResponse struct {
	Date     string
	Range    *DateRange
	Version  string
	Location *Location
	Times    ZmanimTimes
}

// ConverterResult is one Gregorian <-> Hebrew conversion. Gy/Gm/Gd and
// Hy/Hm/Hd are both populated regardless of direction; Date is the Gregorian
// timestamp, defensively parsed.
type ConverterResult struct {
	Gy     int       `json:"gy,omitempty"`
	Gm     int       `json:"gm,omitempty"`
	Gd     int       `json:"gd,omitempty"`
	Hy     int       `json:"hy,omitempty"`
	Hm     string    `json:"hm,omitempty"`
	Hd     int       `json:"hd,omitempty"`
	Hebrew string    `json:"hebrew,omitempty"`
	Events []string  `json:"events,omitempty"`
	Date   time.Time `json:"date,omitempty"`
}

type HebrewDateParts struct {
	Yy        int    `json:"yy,omitempty"`
	Mm        int    `json:"mm,omitempty"`
	Dd        int    `json:"dd,omitempty"`
	MonthName string `json:"month_name,omitempty"`
}

type YahrzeitEvent struct {
	Title       string           `json:"title"`
	Date        time.Time        `json:"date,omitempty"`
	Hebrew      string           `json:"hebrew,omitempty"`
	Category    string           `json:"category,omitempty"`
	Anniversary int              `json:"anniversary,omitempty"`
	YahrzeitOf  string           `json:"yahrzeitOf,omitempty"`
	HeDateParts *HebrewDateParts `json:"heDateParts,omitempty"`
}

type YahrzeitResponse struct {
	Title  string          `json:"title,omitempty"`
	Events []YahrzeitEvent `json:"events"`
}

// decodeInto round-trips a decoded JSON value into a typed struct.
func decodeInto(src, dst any) error {
	b, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
