package hebcal

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sudo-py-dev/hebcal-api/internal/logger"
)

const yahrzeitEndpoint = "yahrzeit"

var yahrzeitAllowed = allowSet(
	"cfg", "v", "years", "hebdate", "yizkor", "i", "start", "end", "hdp",
)

// Numbered inputs y1,m1,d1,s1,t1,n1 ... yN,mN,dN,sN,tN,nN carry one
// anniversary record each.
var yahrzeitEventKey = regexp.MustCompile(`^[ymdstn][1-9][0-9]*$`)

// Anniversary event types accepted by the service.
const (
	EventTypeYahrzeit    = "Yahrzeit"
	EventTypeBirthday    = "Birthday"
	EventTypeAnniversary = "Anniversary"
)

// YahrzeitClient wraps the yahrzeit and anniversary endpoint. Events are
// accumulated on the client with AddEvent before fetching.
type YahrzeitClient struct {
	transport *transport
	params    Params
	log       *logger.Logger
}

func NewYahrzeitClient(cfg ClientConfig) *YahrzeitClient {
	t := newTransport(cfg)
	params := defaultParams()
	params["v"] = "yahrzeit"
	return &YahrzeitClient{
		transport: t,
		params:    params,
		log:       t.log,
	}
}

// SetParam pins a wire parameter on the client for all subsequent calls.
// Besides the fixed allow-list, numbered event keys (y1, m1, d1, s1, t1, n1,
// ...) are accepted. An empty value removes the key.
func (c *YahrzeitClient) SetParam(key, value string) error {
	if !yahrzeitKeyAllowed(key) {
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

// AddEvent registers the index-th anniversary record: the Gregorian date of
// the event, whether it occurred after sunset, its type (Yahrzeit, Birthday,
// or Anniversary), and an optional person name. Spaces in the name are
// encoded as '+' the way the service expects.
func (c *YahrzeitClient) AddEvent(index, year, month, day int, afterSunset bool, eventType, name string) error {
	if index < 1 {
		return &ValidationError{Field: "index", Message: "event index must be 1 or greater"}
	}
	if year <= 0 {
		return &ValidationError{Field: "year", Message: "must be a positive Gregorian year"}
	}
	if month < 1 || month > 12 {
		return &ValidationError{Field: "month", Message: "must be between 1 and 12"}
	}
	if day < 1 || day > 31 {
		return &ValidationError{Field: "day", Message: "must be between 1 and 31"}
	}

	switch eventType {
	case EventTypeYahrzeit, EventTypeBirthday, EventTypeAnniversary:
	default:
		return &ValidationError{
			Field:   "eventType",
			Message: "must be one of 'Yahrzeit', 'Birthday', or 'Anniversary'",
		}
	}

	c.params[fmt.Sprintf("y%d", index)] = formatInt(year)
	c.params[fmt.Sprintf("m%d", index)] = formatInt(month)
	c.params[fmt.Sprintf("d%d", index)] = formatInt(day)
	if afterSunset {
		c.params[fmt.Sprintf("s%d", index)] = "on"
	}
	c.params[fmt.Sprintf("t%d", index)] = eventType
	if name != "" {
		c.params[fmt.Sprintf("n%d", index)] = strings.ReplaceAll(name, " ", "+")
	}
	return nil
}

// Fetch issues the yahrzeit query with caller-provided wire parameters merged
// over the accumulated events.
func (c *YahrzeitClient) Fetch(ctx context.Context, extra Params) (*YahrzeitResponse, error) {
	merged, err := mergeParams(c.params, extra, yahrzeitAllowed, yahrzeitEventKey.MatchString)
	if err != nil {
		return nil, err
	}

	c.log.Debug("fetching yahrzeit", "endpoint", yahrzeitEndpoint, "params", fmt.Sprint(merged))
	data, err := c.transport.fetchJSON(ctx, yahrzeitEndpoint, merged)
	if err != nil {
		return nil, err
	}

	obj, ok := data.(map[string]any)
	if !ok {
		return nil, ErrInvalidResponse
	}
	return yahrzeitResponseFromRaw(obj), nil
}

func yahrzeitKeyAllowed(key string) bool {
	if _, ok := yahrzeitAllowed[key]; ok {
		return true
	}
	return yahrzeitEventKey.MatchString(key)
}
