package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillingWebhook_RejectsUnsignedRequest(t *testing.T) {
	app := fiber.New()
	app.Post("/webhooks/billing", HandleBillingWebhook)

	payload := []byte(`{"id":"evt_1","type":"invoice.paid"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/billing", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestBillingWebhook_RejectsForgedSignature(t *testing.T) {
	app := fiber.New()
	app.Post("/webhooks/billing", HandleBillingWebhook)

	payload := []byte(`{"id":"evt_1","type":"invoice.paid"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/billing", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
