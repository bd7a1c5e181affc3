package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/sudo-py-dev/hebcal-api/internal/hebcal"
	"github.com/sudo-py-dev/hebcal-api/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *hebcal.Service, converter *hebcal.ConverterClient) {
	v1 := app.Group("/api/v1")

	v1.Get("/events/upcoming", func(c *fiber.Ctx) error {
		locReq, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		days := 7
		if v := c.Query("days"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return fiber.NewError(fiber.StatusBadRequest, "days must be a positive integer")
			}
			days = n
		}

		loc := locReq.toLocation()
		events, err := service.Upcoming(loc, days)
		if err != nil {
			return mapServiceError(err, "no calendar data for requested location")
		}

		return c.JSON(fiber.Map{
			"location": loc,
			"days":     days,
			"events":   events,
		})
	})

	v1.Get("/events/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := req.Location.toLocation()
		snapshots, err := service.History(loc, req.From, req.To)
		if err != nil {
			return mapServiceError(err, "no calendar history for requested range")
		}

		return c.JSON(fiber.Map{
			"location":  loc,
			"from":      req.From,
			"to":        req.To,
			"snapshots": snapshots,
		})
	})

	v1.Get("/converter/g2h", func(c *fiber.Ctx) error {
		date := c.Query("date")
		if date == "" {
			return fiber.NewError(fiber.StatusBadRequest, "date query parameter is required")
		}
		afterSunset := c.QueryBool("gs")
		strict := c.QueryBool("strict", true)

		result, err := converter.G2H(c.Context(), date, afterSunset, strict)
		if err != nil {
			return mapServiceError(err, "conversion failed")
		}

		return c.JSON(result)
	})
}

func mapServiceError(err error, notFoundMsg string) error {
	var vErr *hebcal.ValidationError
	var fErr *hebcal.FetchError

	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, notFoundMsg)
	case errors.As(err, &vErr):
		return fiber.NewError(fiber.StatusBadRequest, vErr.Error())
	case errors.As(err, &fErr):
		return fiber.NewError(fiber.StatusBadGateway, fErr.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}

// locationQuery holds query parameters for identifying a tracked location.
// One of geonameid or city is required.
type locationQuery struct {
	Geonameid int    `validate:"omitempty,gt=0"`
	City      string `validate:"required_without=Geonameid"`
}

func (l locationQuery) toLocation() hebcal.TrackedLocation {
	return hebcal.TrackedLocation{
		Geonameid: l.Geonameid,
		City:      l.City,
	}
}

func parseLocationQuery(c *fiber.Ctx) (locationQuery, error) {
	var q locationQuery

	if v := c.Query("geonameid"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, errors.New("geonameid must be an integer")
		}
		q.Geonameid = n
	}
	q.City = c.Query("city")

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Location locationQuery
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	loc, err := parseLocationQuery(c)
	if err != nil {
		return err
	}
	h.Location = loc

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
