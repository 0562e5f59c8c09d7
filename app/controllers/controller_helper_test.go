package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eventpix/eventpix/internal/pkg/apperr"
)

func TestParseDate(t *testing.T) {
	got, err := parseDate("2026-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = parseDate("2026-06-01T15:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, 15, got.Hour())

	_, err = parseDate("01.06.2026")
	assert.Error(t, err)
}

func TestRequireConfirm(t *testing.T) {
	app := fiber.New()
	app.Delete("/thing", func(c *fiber.Ctx) error {
		if err := requireConfirm(c); err != nil {
			return renderError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp := doRequest(t, app, http.MethodDelete, "/thing", nil)
	assert.Equal(t, fiber.StatusPreconditionFailed, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, "/thing?confirm=true", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, "/thing?confirm=yes", nil)
	assert.Equal(t, fiber.StatusPreconditionFailed, resp.StatusCode)
}

func TestRenderError_KindMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperr.New(apperr.KindNotFound, "event not found"), fiber.StatusNotFound, "not_found"},
		{apperr.New(apperr.KindUnauthorized, "login required"), fiber.StatusUnauthorized, "unauthorized"},
		{apperr.New(apperr.KindNotAssociated, "no organization"), fiber.StatusForbidden, "not_associated"},
		{apperr.New(apperr.KindPreconditionFailed, "nope"), fiber.StatusPreconditionFailed, "precondition_failed"},
		{apperr.New(apperr.KindUpstreamFailure, "bad gateway"), fiber.StatusBadGateway, "upstream_failure"},
		{apperr.DuplicateEmail("taken"), fiber.StatusUnprocessableEntity, "duplicate_email"},
		{gorm.ErrRecordNotFound, fiber.StatusNotFound, "not_found"},
		{errors.New("boom"), fiber.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		app := fiber.New()
		app.Get("/fail", func(c *fiber.Ctx) error {
			return renderError(c, tc.err)
		})
		resp := doRequest(t, app, http.MethodGet, "/fail", nil)
		assert.Equal(t, tc.status, resp.StatusCode, tc.code)

		var body map[string]interface{}
		decodeBody(t, resp, &body)
		assert.Equal(t, tc.code, body["error"], tc.code)
	}
}

func TestRenderError_DuplicateEmailCarriesField(t *testing.T) {
	app := fiber.New()
	app.Get("/fail", func(c *fiber.Ctx) error {
		return renderError(c, apperr.DuplicateEmail("already registered"))
	})
	resp := doRequest(t, app, http.MethodGet, "/fail", nil)

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "already registered", body.Fields["email"])
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body io.Reader) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}
