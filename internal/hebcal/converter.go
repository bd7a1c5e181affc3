package hebcal

import (
	"context"
	"fmt"

	"github.com/sudo-py-dev/hebcal-api/internal/logger"
)

const converterEndpoint = "converter"

var converterAllowed = allowSet(
	"cfg", "v", "date", "start", "end", "g2h", "h2g", "strict", "gs",
	"gy", "gm", "gd", "hy", "hm", "hd", "ndays", "lg", "callback",
)

// ConverterClient wraps the Hebrew date converter endpoint, both directions,
// single dates and ranges.
type ConverterClient struct {
	transport *transport
	params    Params
	log       *logger.Logger
}

func NewConverterClient(cfg ClientConfig) *ConverterClient {
	t := newTransport(cfg)
	return &ConverterClient{
		transport: t,
		params:    defaultParams(),
		log:       t.log,
	}
}

// SetParam pins a wire parameter on the client for all subsequent calls. An
// empty value removes the key. Not safe to race against a concurrent fetch
// on the same client.
func (c *ConverterClient) SetParam(key, value string) error {
	if _, ok := converterAllowed[key]; !ok {
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

// G2H converts a single Gregorian date to its Hebrew equivalent. With
// afterSunset the Hebrew date rolls over to the next day.
func (c *ConverterClient) G2H(ctx context.Context, date string, afterSunset, strict bool) (*ConverterResult, error) {
	d, err := NormalizeDate(date)
	if err != nil {
		return nil, err
	}

	params := Params{
		"date":   d,
		"g2h":    "1",
		"strict": boolDigit(strict),
	}
	if afterSunset {
		params["gs"] = "on"
	}

	obj, err := c.fetchObject(ctx, params)
	if err != nil {
		return nil, err
	}
	result := converterResultFromRaw(obj)
	return &result, nil
}

// G2HRange converts every Gregorian date in [start, end] to Hebrew dates. The
// service answers with one conversion per day.
func (c *ConverterClient) G2HRange(ctx context.Context, start, end string) ([]ConverterResult, error) {
	s, err := NormalizeDate(start)
	if err != nil {
		return nil, err
	}
	e, err := NormalizeDate(end)
	if err != nil {
		return nil, err
	}

	params := Params{"start": s, "end": e, "g2h": "1"}
	merged, err := mergeParams(c.params, params, converterAllowed, nil)
	if err != nil {
		return nil, err
	}

	c.log.Debug("fetching converter range", "endpoint", converterEndpoint, "params", fmt.Sprint(merged))
	data, err := c.transport.fetchJSON(ctx, converterEndpoint, merged)
	if err != nil {
		return nil, err
	}

	items, ok := data.([]any)
	if !ok {
		// Single-day ranges come back as one object.
		if obj, ok := data.(map[string]any); ok {
			return []ConverterResult{converterResultFromRaw(obj)}, nil
		}
		return nil, ErrInvalidResponse
	}

	results := make([]ConverterResult, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		results = append(results, converterResultFromRaw(obj))
	}
	return results, nil
}

// H2G converts a single Hebrew date (year, month name, day) to its Gregorian
// equivalent.
func (c *ConverterClient) H2G(ctx context.Context, year int, month string, day int, strict bool) (*ConverterResult, error) {
	params, err := hebrewDateParams(year, month, day)
	if err != nil {
		return nil, err
	}
	params["h2g"] = "1"
	params["strict"] = boolDigit(strict)

	obj, err := c.fetchObject(ctx, params)
	if err != nil {
		return nil, err
	}
	result := converterResultFromRaw(obj)
	return &result, nil
}

// H2GRange converts ndays consecutive Hebrew dates starting at the given one.
// ndays must be between 2 and 180.
func (c *ConverterClient) H2GRange(ctx context.Context, year int, month string, day, ndays int, strict bool) ([]ConverterResult, error) {
	if ndays < 2 || ndays > 180 {
		return nil, &ValidationError{Field: "ndays", Message: "must be between 2 and 180"}
	}

	params, err := hebrewDateParams(year, month, day)
	if err != nil {
		return nil, err
	}
	params["h2g"] = "1"
	params["ndays"] = formatInt(ndays)
	params["strict"] = boolDigit(strict)

	merged, err := mergeParams(c.params, params, converterAllowed, nil)
	if err != nil {
		return nil, err
	}

	c.log.Debug("fetching converter range", "endpoint", converterEndpoint, "params", fmt.Sprint(merged))
	data, err := c.transport.fetchJSON(ctx, converterEndpoint, merged)
	if err != nil {
		return nil, err
	}

	// Ranged h2g answers with an hdates object keyed by Gregorian date, or a
	// plain array depending on service version. Accept both.
	switch v := data.(type) {
	case []any:
		results := make([]ConverterResult, 0, len(v))
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				results = append(results, converterResultFromRaw(obj))
			}
		}
		return results, nil
	case map[string]any:
		if hdates, ok := v["hdates"].(map[string]any); ok {
			results := make([]ConverterResult, 0, len(hdates))
			for _, item := range hdates {
				if obj, ok := item.(map[string]any); ok {
					results = append(results, converterResultFromRaw(obj))
				}
			}
			return results, nil
		}
		return []ConverterResult{converterResultFromRaw(v)}, nil
	default:
		return nil, ErrInvalidResponse
	}
}

func (c *ConverterClient) fetchObject(ctx context.Context, params Params) (map[string]any, error) {
	merged, err := mergeParams(c.params, params, converterAllowed, nil)
	if err != nil {
		return nil, err
	}

	c.log.Debug("fetching converter", "endpoint", converterEndpoint, "params", fmt.Sprint(merged))
	data, err := c.transport.fetchJSON(ctx, converterEndpoint, merged)
	if err != nil {
		return nil, err
	}

	obj, ok := data.(map[string]any)
	if !ok {
		return nil, ErrInvalidResponse
	}
	return obj, nil
}

func hebrewDateParams(year int, month string, day int) (Params, error) {
	if year <= 0 {
		return nil, &ValidationError{Field: "hy", Message: "must be a positive Hebrew year"}
	}
	if month == "" {
		return nil, &ValidationError{Field: "hm", Message: "Hebrew month name is required"}
	}
	if day < 1 || day > 30 {
		return nil, &ValidationError{Field: "hd", Message: "must be between 1 and 30"}
	}
	return Params{
		"hy": formatInt(year),
		"hm": month,
		"hd": formatInt(day),
	}, nil
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
