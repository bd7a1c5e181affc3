package hebcal

import (
	"context"
	"fmt"

	"github.com/sudo-py-dev/hebcal-api/internal/logger"
)

const zmanimEndpoint = "zmanim"

var zmanimAllowed = allowSet("date", "start", "end", "geonameid", "latitude", "longitude", "sec", "elevation")

// ZmanimClient wraps the halachic-times endpoint.
type ZmanimClient struct {
	transport *transport
	params    Params
	log       *logger.Logger
}

func NewZmanimClient(cfg ClientConfig) *ZmanimClient {
	t := newTransport(cfg)
	return &ZmanimClient{
		transport: t,
		params:    defaultParams(),
		log:       t.log,
	}
}

// SetParam pins a wire parameter on the client for all subsequent calls. An
// empty value removes the key. Not safe to race against a concurrent fetch
// on the same client.
func (c *ZmanimClient) SetParam(key, value string) error {
	if _, ok := zmanimAllowed[key]; !ok {
		return &ValidationError{
			Field:   key,
			Message: fmt.Sprintf("parameter %q is not allowed for this endpoint", key),
		}
	}
	if value == "" {
		delete(c.params, key)
		return nil
	}
	c.params[key] = value
	return nil
}

// ZmanimOptions selects a single date or start/end range, a location by
// geonameid or coordinate pair, and output precision flags.
type ZmanimOptions struct {
	Date  string
	Start string
	End   string

	Geonameid int `validate:"omitempty,gt=0"`
	Latitude  *float64
	Longitude *float64

	// Seconds asks for second-level precision; Elevation for
	// elevation-adjusted sunrise/sunset.
	Seconds   bool
	Elevation bool
}

// Times fetches the zmanim for the selected date or range.
func (c *ZmanimClient) Times(ctx context.Context, opts ZmanimOptions) (*ZmanimResponse, error) {
	if err := firstTagError(validate.Struct(opts)); err != nil {
		return nil, err
	}

	params, err := rangeParams(opts.Date, opts.Start, opts.End, c.log)
	if err != nil {
		return nil, err
	}

	if opts.Geonameid != 0 {
		params["geonameid"] = formatInt(opts.Geonameid)
	}
	if opts.Latitude != nil || opts.Longitude != nil {
		if opts.Latitude == nil || opts.Longitude == nil {
			return nil, &ValidationError{
				Field:   "location",
				Message: "both latitude and longitude must be provided together",
			}
		}
		params["latitude"] = formatFloat(*opts.Latitude)
		params["longitude"] = formatFloat(*opts.Longitude)
	}
	if opts.Seconds {
		params["sec"] = "1"
	}
	if opts.Elevation {
		params["elevation"] = "1"
	}

	merged, err := mergeParams(c.params, params, zmanimAllowed, nil)
	if err != nil {
		return nil, err
	}

	c.log.Debug("fetching zmanim", "endpoint", zmanimEndpoint, "params", fmt.Sprint(merged))
	data, err := c.transport.fetchJSON(ctx, zmanimEndpoint, merged)
	if err != nil {
		return nil, err
	}

	obj, ok := data.(map[string]any)
	if !ok {
		return nil, ErrInvalidResponse
	}
	return zmanimResponseFromRaw(obj), nil
}
