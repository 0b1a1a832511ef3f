package session

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/", func(c *fiber.Ctx) error {
		sess := svc.Create()
		summary, err := svc.Summary(sess.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(summary)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		summary, err := svc.Summary(c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(summary)
	})

	r.Post("/:id/track", func(c *fiber.Ctx) error {
		if len(c.Body()) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "empty GPX body")
		}
		if err := svc.SetTrack(c.Context(), c.Params("id"), bytes.NewReader(c.Body())); err != nil {
			if errors.Is(err, ErrNotFound) {
				return mapError(err)
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		summary, err := svc.Summary(c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(summary)
	})

	r.Post("/:id/log", func(c *fiber.Ctx) error {
		if len(c.Body()) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "empty CSV body")
		}
		if err := svc.SetLog(c.Context(), c.Params("id"), bytes.NewReader(c.Body())); err != nil {
			if errors.Is(err, ErrNotFound) {
				return mapError(err)
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		summary, err := svc.Summary(c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(summary)
	})

	r.Get("/:id/track", func(c *fiber.Ctx) error {
		samples, err := svc.TrackSamples(c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(samples)
	})

	r.Get("/:id/log", func(c *fiber.Ctx) error {
		samples, err := svc.LogSamples(c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(samples)
	})

	r.Get("/:id/rows", func(c *fiber.Ctx) error {
		rows, err := svc.Rows(c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(rows)
	})

	r.Get("/:id/chart", func(c *fiber.Ctx) error {
		data, err := svc.Chart(c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(data)
	})

	r.Get("/:id/frame", func(c *fiber.Ctx) error {
		index := c.QueryInt("index", -1)
		frame, err := svc.Frame(c.Params("id"), index)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(frame)
	})

	r.Get("/:id/state", func(c *fiber.Ctx) error {
		state, err := svc.State(c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(state)
	})

	r.Put("/:id/state", func(c *fiber.Ctx) error {
		var upd StateUpdate
		if err := c.BodyParser(&upd); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		state, err := svc.UpdateState(c.Params("id"), upd)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(state)
	})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotReady), errors.Is(err, ErrNotLinked):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
