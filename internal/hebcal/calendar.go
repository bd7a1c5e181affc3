package hebcal

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sudo-py-dev/hebcal-api/internal/logger"
)

var validate = validator.New()

const calendarEndpoint = "hebcal"

var calendarAllowed = allowSet(
	"v", "cfg", "year", "yt", "month", "ny", "start", "end",
	"geonameid", "zip", "latitude", "longitude", "tzid", "city",
	"maj", "yto", "min", "nx", "mf", "ss", "mod", "s", "leyning",
	"D", "d", "o", "ykk", "molad", "yzkr", "mvch",
	"i", "c", "b", "m", "M",
	"F", "dw", "yyomi", "yys", "myomi", "nyomi",
	"dty", "dps", "dr1", "dr3", "dsm", "dksa", "ahsy",
	"dcc", "dshl", "dpa", "hdp", "lg",
)

// CalendarClient wraps the Jewish calendar endpoint: events, holidays,
// candle-lighting times, Omer days, and daily learning schedules.
type CalendarClient struct {
	transport *transport
	params    Params
	log       *logger.Logger
}

func NewCalendarClient(cfg ClientConfig) *CalendarClient {
	t := newTransport(cfg)
	return &CalendarClient{
		transport: t,
		params:    defaultParams(),
		log:       t.log,
	}
}

// EventOptions selects what a calendar query returns. Dates take either a
// year (with optional YearType/Month/NumYears) or a start+end pair; exactly
// one of the four location forms must be set.
type EventOptions struct {
	// Date selection.
	Start    string
	End      string
	Year     int
	YearType string `validate:"omitempty,oneof=G H"`
	Month    string
	NumYears int `validate:"omitempty,gte=1"`

	// Location: exactly one of geonameid, zip, lat/lon/tzid, city.
	Geonameid  int
	ZipCode    string
	Latitude   *float64
	Longitude  *float64
	TimezoneID string
	City       string

	// Israel vs. Diaspora holiday and Torah-reading scheme.
	Israel *bool

	// Holidays and events.
	MajorHolidays       bool
	YomTovOnly          bool
	MinorHolidays       bool
	RoshChodesh         bool
	MinorFasts          bool
	SpecialShabbatot    bool
	ModernHolidays      bool
	WeeklyTorahPortion  bool
	IncludeLeyning      bool
	HebrewDateForEvents bool
	HebrewDateForRange  bool
	OmerDays            bool
	YomKippurKatan      bool
	MoladDates          bool
	YizkorDates         bool
	ShabbatMevarchim    bool

	// Candle lighting and havdalah.
	CandleLightingTimes bool
	CandleMinutes       *int `validate:"omitempty,gte=0"`
	HavdalahMinutes     *int `validate:"omitempty,gte=0"`
	HavdalahAtNightfall bool

	// Daily learning schedules.
	DafYomi                     bool
	DafAWeek                    bool
	YerushalmiYomiVilna         bool
	YerushalmiYomiSchottenstein bool
	MishnaYomi                  bool
	NachYomi                    bool
	TanakhYomi                  bool
	DailyTehillim               bool
	DailyRambam1                bool
	DailyRambam3                bool
	SeferHaMitzvot              bool
	KitzurShulchanArukhYomi     bool
	ArukhHaShulchanYomi         bool
	SeferChofetzChaim           bool
	ShemiratHaLashon            bool
	PirkeiAvotShabbatot         bool

	HolidayDescriptionOnly bool
	Language               string
}

// Events validates opts, builds the wire parameters, and fetches the
// calendar. Exactly one outbound request is issued per call.
func (c *CalendarClient) Events(ctx context.Context, opts EventOptions) (*CalendarResponse, error) {
	params, err := opts.params(c.log)
	if err != nil {
		return nil, err
	}
	return c.Fetch(ctx, params)
}

// Fetch issues a calendar query with caller-provided wire parameters merged
// over the client defaults. Keys outside the endpoint allow-list are
// rejected before any network call.
func (c *CalendarClient) Fetch(ctx context.Context, extra Params) (*CalendarResponse, error) {
	merged, err := mergeParams(c.params, extra, calendarAllowed, nil)
	if err != nil {
		return nil, err
	}

	c.log.Debug("fetching calendar", "endpoint", calendarEndpoint, "params", fmt.Sprint(merged))
	data, err := c.transport.fetchJSON(ctx, calendarEndpoint, merged)
	if err != nil {
		return nil, err
	}

	obj, ok := data.(map[string]any)
	if !ok {
		return nil, ErrInvalidResponse
	}
	return calendarResponseFromRaw(obj), nil
}

// Holidays fetches the holidays of a Gregorian year. An empty city keeps the
// query location-free; majorOnly drops minor holidays and fasts.
func (c *CalendarClient) Holidays(ctx context.Context, year int, city string, majorOnly bool) (*CalendarResponse, error) {
	params := Params{"year": formatInt(year), "maj": "on"}
	if majorOnly {
		params["min"] = "off"
		params["mf"] = "off"
	}
	if city != "" {
		params["city"] = city
	}
	return c.Fetch(ctx, params)
}

// DafYomi fetches the daf yomi entry for a date, or today's when date is
// empty.
func (c *CalendarClient) DafYomi(ctx context.Context, date string) (*CalendarResponse, error) {
	params := Params{"F": "on"}
	if date != "" {
		d, err := NormalizeDate(date)
		if err != nil {
			return nil, err
		}
		params["start"] = d
		params["end"] = d
	}
	return c.Fetch(ctx, params)
}

func (o EventOptions) params(log *logger.Logger) (Params, error) {
	if err := firstTagError(validate.Struct(o)); err != nil {
		return nil, err
	}

	params, err := o.dateParams(log)
	if err != nil {
		return nil, err
	}

	loc, err := o.locationParams()
	if err != nil {
		return nil, err
	}
	for k, v := range loc {
		params[k] = v
	}

	if o.Israel != nil {
		params["i"] = onOff(*o.Israel)
	}
	if o.CandleMinutes != nil {
		params["b"] = formatInt(*o.CandleMinutes)
	}
	if o.HavdalahMinutes != nil {
		params["m"] = formatInt(*o.HavdalahMinutes)
	}
	if o.HavdalahAtNightfall {
		params["M"] = "on"
	}

	flags := []struct {
		code string
		on   bool
	}{
		{"maj", o.MajorHolidays}, {"yto", o.YomTovOnly}, {"min", o.MinorHolidays},
		{"nx", o.RoshChodesh}, {"mf", o.MinorFasts}, {"ss", o.SpecialShabbatot},
		{"mod", o.ModernHolidays}, {"s", o.WeeklyTorahPortion}, {"leyning", o.IncludeLeyning},
		{"D", o.HebrewDateForEvents}, {"d", o.HebrewDateForRange}, {"o", o.OmerDays},
		{"ykk", o.YomKippurKatan}, {"molad", o.MoladDates}, {"yzkr", o.YizkorDates},
		{"mvch", o.ShabbatMevarchim}, {"c", o.CandleLightingTimes},
		{"F", o.DafYomi}, {"dw", o.DafAWeek}, {"yyomi", o.YerushalmiYomiVilna},
		{"yys", o.YerushalmiYomiSchottenstein}, {"myomi", o.MishnaYomi}, {"nyomi", o.NachYomi},
		{"dty", o.TanakhYomi}, {"dps", o.DailyTehillim}, {"dr1", o.DailyRambam1},
		{"dr3", o.DailyRambam3}, {"dsm", o.SeferHaMitzvot}, {"dksa", o.KitzurShulchanArukhYomi},
		{"ahsy", o.ArukhHaShulchanYomi}, {"dcc", o.SeferChofetzChaim}, {"dshl", o.ShemiratHaLashon},
		{"dpa", o.PirkeiAvotShabbatot}, {"hdp", o.HolidayDescriptionOnly},
	}
	for _, f := range flags {
		if f.on {
			params[f.code] = "on"
		}
	}

	if o.Language != "" {
		params["lg"] = o.Language
	}

	return params, nil
}

func (o EventOptions) dateParams(log *logger.Logger) (Params, error) {
	hasRange := o.Start != "" || o.End != ""
	if o.Year != 0 && hasRange {
		return nil, &ValidationError{
			Field:   "year",
			Message: "cannot combine 'year' with 'start'/'end'; choose one method",
		}
	}

	if o.Year != 0 {
		params := Params{"year": formatInt(o.Year)}
		if o.YearType != "" {
			params["yt"] = o.YearType
		}
		if o.Month != "" {
			if o.Month != "x" {
				n, err := strconv.Atoi(o.Month)
				if err != nil || n < 1 || n > 12 {
					return nil, &ValidationError{Field: "month", Message: "must be 'x' or 1-12"}
				}
			}
			params["month"] = o.Month
		}
		if o.NumYears != 0 {
			params["ny"] = formatInt(o.NumYears)
		}
		return params, nil
	}

	if o.Start == "" || o.End == "" {
		return nil, &ValidationError{
			Field:   "date",
			Message: "provide either 'start' and 'end' or a 'year'",
		}
	}
	return rangeParams("", o.Start, o.End, log)
}

func (o EventOptions) locationParams() (Params, error) {
	var provided []string

	if o.Geonameid != 0 {
		if o.Geonameid < 0 {
			return nil, &ValidationError{Field: "geonameid", Message: "must be a positive integer"}
		}
		provided = append(provided, "geonameid")
	}
	if o.ZipCode != "" {
		if !isFiveDigitZip(o.ZipCode) {
			return nil, &ValidationError{Field: "zip", Message: "must be a 5-digit string"}
		}
		provided = append(provided, "zip")
	}
	if o.Latitude != nil || o.Longitude != nil || o.TimezoneID != "" {
		if o.Latitude == nil || o.Longitude == nil || o.TimezoneID == "" {
			return nil, &ValidationError{
				Field:   "location",
				Message: "latitude, longitude, and tzid must all be provided together",
			}
		}
		provided = append(provided, "latlon")
	}
	if o.City != "" {
		provided = append(provided, "city")
	}

	if len(provided) == 0 {
		return nil, &ValidationError{Field: "location", Message: "exactly one location parameter is required"}
	}
	if len(provided) > 1 {
		return nil, &ValidationError{
			Field:   "location",
			Message: fmt.Sprintf("only one location parameter is allowed, got: %s", strings.Join(provided, ", ")),
		}
	}

	switch provided[0] {
	case "geonameid":
		return Params{"geonameid": formatInt(o.Geonameid)}, nil
	case "zip":
		return Params{"zip": o.ZipCode}, nil
	case "latlon":
		return Params{
			"latitude":  formatFloat(*o.Latitude),
			"longitude": formatFloat(*o.Longitude),
			"tzid":      o.TimezoneID,
		}, nil
	default:
		return Params{"city": o.City}, nil
	}
}

func isFiveDigitZip(s string) bool {
	return len(s) == 5 && isDigits(s)
}
