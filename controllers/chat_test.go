package controllers

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestChatErrorStatus(t *testing.T) {
	if got := chatErrorStatus(errChatNotFound); got != fiber.StatusNotFound {
		t.Errorf("missing chat: got %d, want %d", got, fiber.StatusNotFound)
	}
	if got := chatErrorStatus(errNotParticipant); got != fiber.StatusForbidden {
		t.Errorf("non-participant: got %d, want %d", got, fiber.StatusForbidden)
	}
	if got := chatErrorStatus(errors.New("boom")); got != fiber.StatusForbidden {
		t.Errorf("unexpected error: got %d, want %d", got, fiber.StatusForbidden)
	}
}
