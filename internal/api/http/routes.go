package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/fishing-planner/internal/planner"
	"github.com/i474232898/fishing-planner/internal/reference"
	"github.com/i474232898/fishing-planner/internal/store"
)

var validate = validator.New()

// Default selection offered to clients that have not picked an area yet.
const (
	defaultRegionID = "western_cape"
	defaultAreaID   = "false_bay"
)

// Planner plans fishing windows.
type Planner interface {
	Plan(ctx context.Context, req planner.PlanRequest) (*planner.PlanResult, error)
}

// Reference exposes the region and species metadata.
type Reference interface {
	Regions() []reference.Region
	Species() []string
	Profile(id string) (reference.SpeciesProfile, error)
}

// Conditions reads collected condition snapshots.
type Conditions interface {
	GetLatest(regionID, areaID string) (planner.ConditionsSnapshot, error)
	GetRange(regionID, areaID string, from, to time.Time) ([]planner.ConditionsSnapshot, error)
}

type speciesInfo struct {
	ID             string   `json:"id"`
	Baits          []string `json:"baits"`
	Notes          string   `json:"notes"`
	Legal          string   `json:"legal"`
	TimePreference []string `json:"time_preference"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc Planner, ref Reference, conditions Conditions) {
	v1 := app.Group("/api/v1")

	v1.Get("/meta/regions", func(c *fiber.Ctx) error {
		ids := ref.Species()
		info := make([]speciesInfo, 0, len(ids))
		for _, id := range ids {
			sp, err := ref.Profile(id)
			if err != nil {
				continue
			}
			info = append(info, speciesInfo{
				ID:             sp.ID,
				Baits:          sp.Baits,
				Notes:          sp.Notes,
				Legal:          sp.Legal,
				TimePreference: sp.TimePreference,
			})
		}

		return c.JSON(fiber.Map{
			"regions":      ref.Regions(),
			"species":      ids,
			"species_info": info,
			"defaults": fiber.Map{
				"region_id": defaultRegionID,
				"area_id":   defaultAreaID,
			},
		})
	})

	v1.Post("/plan", func(c *fiber.Ctx) error {
		var req planner.PlanRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := svc.Plan(c.UserContext(), req)
		if err != nil {
			var ve *planner.ValidationError
			if errors.As(err, &ve) {
				return fiber.NewError(fiber.StatusBadRequest, ve.Message)
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to build plan")
		}

		return c.JSON(result)
	})

	v1.Get("/conditions/latest", func(c *fiber.Ctx) error {
		area, err := parseAreaQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshot, err := conditions.GetLatest(area.Region, area.Area)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no conditions data for requested area")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch conditions")
		}

		return c.JSON(snapshot)
	})

	v1.Get("/conditions/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshots, err := conditions.GetRange(req.Area.Region, req.Area.Area, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no conditions history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch conditions history")
		}

		return c.JSON(fiber.Map{
			"region_id": req.Area.Region,
			"area_id":   req.Area.Area,
			"from":      req.From,
			"to":        req.To,
			"snapshots": snapshots,
		})
	})
}

// areaQuery holds query parameters for identifying an area.
type areaQuery struct {
	Region string `validate:"required"`
	Area   string `validate:"required"`
}

func parseAreaQuery(c *fiber.Ctx) (areaQuery, error) {
	var q areaQuery

	q.Region = c.Query("region")
	q.Area = c.Query("area")

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Area areaQuery
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	area, err := parseAreaQuery(c)
	if err != nil {
		return err
	}
	h.Area = area

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
