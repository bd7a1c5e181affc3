package hebcal

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidResponse is returned when the remote service replies with a JSON
// value of the wrong top-level shape (e.g. an array where an object is
// expected).
var ErrInvalidResponse = errors.New("unexpected response shape from hebcal API")

// ValidationError reports a request-building rule violation. It is always
// raised before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FetchError reports an HTTP-level or network-level failure. URL is the fully
// resolved request URL; StatusCode is zero when the request never got a
// response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// InvalidLocationError is the refinement of FetchError raised when the remote
// service answers 404 because a supplied location identifier could not be
// resolved. errors.As against *FetchError still matches through Unwrap.
type InvalidLocationError struct {
	URL     string
	Message string
}

func (e *InvalidLocationError) Error() string {
	return fmt.Sprintf("invalid location: %s", e.Message)
}

func (e *InvalidLocationError) Unwrap() error {
	return &FetchError{URL: e.URL, StatusCode: http.StatusNotFound}
}

// firstTagError converts a go-playground/validator failure into the library's
// ValidationError, keeping only the first violated rule.
func firstTagError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %q constraint", fe.Tag()),
		}
	}
	return err
}
