package hebcal

import (
	"context"
	"fmt"

	"github.com/sudo-py-dev/hebcal-api/internal/logger"
)

const leyningEndpoint = "leyning"

var leyningAllowed = allowSet("date", "start", "end", "i", "triennial")

// LeyningClient wraps the Torah-reading endpoint.
type LeyningClient struct {
	transport *transport
	params    Params
	log       *logger.Logger
}

func NewLeyningClient(cfg ClientConfig) *LeyningClient {
	t := newTransport(cfg)
	return &LeyningClient{
		transport: t,
		params:    defaultParams(),
		log:       t.log,
	}
}

// LeyningOptions selects a single date or a start/end range (never both),
// the Israel reading scheme, and whether triennial aliyot are included
// (default yes).
type LeyningOptions struct {
	Date  string
	Start string
	End   string

	Israel    bool
	Triennial *bool
}

// Readings fetches the Torah readings for the selected date or range.
func (c *LeyningClient) Readings(ctx context.Context, opts LeyningOptions) (*LeyningResponse, error) {
	params, err := rangeParams(opts.Date, opts.Start, opts.End, c.log)
	if err != nil {
		return nil, err
	}
	params["i"] = onOff(opts.Israel)

	triennial := true
	if opts.Triennial != nil {
		triennial = *opts.Triennial
	}
	params["triennial"] = onOff(triennial)

	merged, err := mergeParams(c.params, params, leyningAllowed, nil)
	if err != nil {
		return nil, err
	}

	c.log.Debug("fetching leyning", "endpoint", leyningEndpoint, "params", fmt.Sprint(merged))
	data, err := c.transport.fetchJSON(ctx, leyningEndpoint, merged)
	if err != nil {
		return nil, err
	}

	obj, ok := data.(map[string]any)
	if !ok {
		return nil, ErrInvalidResponse
	}
	return leyningResponseFromRaw(obj), nil
}
