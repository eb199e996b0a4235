package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{Validation("missing"), fiber.StatusBadRequest},
		{InvalidCredentials(), fiber.StatusUnauthorized},
		{Forbidden("nope"), fiber.StatusForbidden},
		{NotFound("gone"), fiber.StatusNotFound},
		{DuplicateEmail(), fiber.StatusConflict},
		{DuplicateApplication(), fiber.StatusConflict},
		{OfferUnavailable(), fiber.StatusConflict},
		{InvalidTransition("no"), fiber.StatusConflict},
		{Storage("db down", errors.New("dial tcp")), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Status())
		})
	}
}

func TestStorageUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("create offer: %w", Storage("could not save", cause))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindStorage, KindOf(err))
	assert.Equal(t, Kind(""), KindOf(cause))
}

func TestKindForStatus(t *testing.T) {
	assert.Equal(t, KindValidation, KindForStatus(fiber.StatusBadRequest))
	assert.Equal(t, KindNotFound, KindForStatus(fiber.StatusNotFound))
	assert.Equal(t, KindNotFound, KindForStatus(fiber.StatusMethodNotAllowed))
	assert.Equal(t, KindRateLimited, KindForStatus(fiber.StatusTooManyRequests))
	assert.Equal(t, KindHTTP, KindForStatus(fiber.StatusInternalServerError))
	assert.Equal(t, fiber.StatusTooManyRequests, New(KindRateLimited, "slow down").Status())
}
