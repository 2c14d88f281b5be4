package models

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respondWith(t *testing.T, err error) (int, map[string]any) {
	t.Helper()

	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return RespondWithAppError(c, err)
	})

	resp, testErr := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, testErr)
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestRespondWithAppError_StoreFailureHidesCause(t *testing.T) {
	t.Parallel()

	status, body := respondWith(t, NewStoreError(errors.New(`pq: connection refused on "threads"`)))

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, CodeStoreUnavailable, body["code"])
	assert.Equal(t, "Storage unavailable", body["error"])
	_, leaked := body["details"]
	assert.False(t, leaked, "driver error text must not reach clients")
}

func TestRespondWithAppError_UnknownCodeHidesCause(t *testing.T) {
	t.Parallel()

	status, body := respondWith(t, NewInternalError(errors.New("nil pointer in ranking")))

	assert.Equal(t, fiber.StatusInternalServerError, status)
	_, leaked := body["details"]
	assert.False(t, leaked)
}

func TestRespondWithAppError_ClientErrorKeepsDetails(t *testing.T) {
	t.Parallel()

	status, body := respondWith(t, &AppError{
		Code:    CodeValidation,
		Message: "Invalid cursor",
		Err:     errors.New("illegal base64 data"),
	})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "illegal base64 data", body["details"])
}
