package hebcal

import (
	"context"
	"fmt"

	"github.com/sudo-py-dev/hebcal-api/internal/logger"
)

const shabbatEndpoint = "shabbat"

var shabbatAllowed = allowSet(
	"b", "M", "m", "leyning", "gy", "gm", "gd", "hdp", "lg",
	"geonameid", "latitude", "longitude",
)

// ShabbatClient wraps the weekly Shabbat times endpoint.
type ShabbatClient struct {
	transport *transport
	params    Params
	log       *logger.Logger
}

func NewShabbatClient(cfg ClientConfig) *ShabbatClient {
	t := newTransport(cfg)
	return &ShabbatClient{
		transport: t,
		params:    defaultParams(),
		log:       t.log,
	}
}

// ShabbatOptions selects location and candle/havdalah behavior. Exactly one
// of geonameid or the latitude+longitude pair must be set.
type ShabbatOptions struct {
	Geonameid int
	Latitude  *float64
	Longitude *float64

	CandleLighting      bool
	CandleMinutes       *int `validate:"omitempty,gte=0"`
	HavdalahMinutes     *int `validate:"omitempty,gte=0"`
	HavdalahAtNightfall bool

	Leyning  bool
	Language string
}

// DefaultShabbatOptions carries the endpoint's conventional defaults: candle
// lighting 18 minutes before sunset, havdalah 42 minutes after.
func DefaultShabbatOptions() ShabbatOptions {
	candle, havdalah := 18, 42
	return ShabbatOptions{
		CandleLighting:  true,
		CandleMinutes:   &candle,
		HavdalahMinutes: &havdalah,
	}
}

// Times fetches the upcoming Shabbat times for the configured location.
func (c *ShabbatClient) Times(ctx context.Context, opts ShabbatOptions) (*CalendarResponse, error) {
	params, err := opts.params()
	if err != nil {
		return nil, err
	}

	merged, err := mergeParams(c.params, params, shabbatAllowed, nil)
	if err != nil {
		return nil, err
	}

	c.log.Debug("fetching shabbat times", "endpoint", shabbatEndpoint, "params", fmt.Sprint(merged))
	data, err := c.transport.fetchJSON(ctx, shabbatEndpoint, merged)
	if err != nil {
		return nil, err
	}

	obj, ok := data.(map[string]any)
	if !ok {
		return nil, ErrInvalidResponse
	}
	return calendarResponseFromRaw(obj), nil
}

func (o ShabbatOptions) params() (Params, error) {
	if err := firstTagError(validate.Struct(o)); err != nil {
		return nil, err
	}

	params := Params{}

	located := 0
	if o.Geonameid != 0 {
		if o.Geonameid < 0 {
			return nil, &ValidationError{Field: "geonameid", Message: "must be a positive integer"}
		}
		params["geonameid"] = formatInt(o.Geonameid)
		located++
	}
	if o.Latitude != nil || o.Longitude != nil {
		if o.Latitude == nil || o.Longitude == nil {
			return nil, &ValidationError{
				Field:   "location",
				Message: "both latitude and longitude must be provided together",
			}
		}
		params["latitude"] = formatFloat(*o.Latitude)
		params["longitude"] = formatFloat(*o.Longitude)
		located++
	}
	if located == 0 {
		return nil, &ValidationError{
			Field:   "location",
			Message: "provide one location: geonameid or latitude+longitude",
		}
	}
	if located > 1 {
		return nil, &ValidationError{
			Field:   "location",
			Message: "provide only one location method: geonameid or latitude+longitude",
		}
	}

	if o.CandleLighting && o.CandleMinutes != nil {
		params["b"] = formatInt(*o.CandleMinutes)
	}
	if o.HavdalahMinutes != nil {
		params["m"] = formatInt(*o.HavdalahMinutes)
	}
	if o.HavdalahAtNightfall {
		params["M"] = "on"
	}
	if o.Leyning {
		params["leyning"] = "on"
	}
	if o.Language != "" {
		params["lg"] = o.Language
	}

	return params, nil
}
