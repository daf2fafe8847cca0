package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"habitquest/internal/engine"
)

// StatusFor maps an error to the HTTP status it is reported with.
func StatusFor(err error) int {
	var (
		fe *fiber.Error
		ve *engine.ValidationError
		de *engine.InvalidDeltaError
		we *engine.InvalidWeightError
		nf *engine.NotFoundError
		se *engine.StateError
		ge engine.GateError
	)
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &ve), errors.As(err, &de), errors.As(err, &we):
		return fiber.StatusBadRequest
	case errors.As(err, &nf):
		return fiber.StatusNotFound
	case errors.As(err, &se), errors.As(err, &ge):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}
