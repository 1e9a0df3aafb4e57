package Controllers

import (
	"errors"
	"log"

	"Relay/Dispatch"
	"Relay/Models"
	"Relay/utils"

	"github.com/gofiber/fiber/v2"
)

// EmailController handles the email-dispatch API endpoints
type EmailController struct {
	Dispatcher *Dispatch.Dispatcher
}

// NewEmailController creates a new EmailController
func NewEmailController(dispatcher *Dispatch.Dispatcher) *EmailController {
	return &EmailController{Dispatcher: dispatcher}
}

// SendEmail handles POST /v1/send
func (c *EmailController) SendEmail(ctx *fiber.Ctx) error {
	var req Models.SendRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(Models.SendResponse{
			Success: false,
			Message: "Invalid request body",
		})
	}

	resp, err := c.Dispatcher.Dispatch(req)
	if err != nil {
		log.Printf("Dispatch failed for %s: %v", utils.ObfuscateEmail(req.ToEmail), err)
		status, message := errorResponse(err)
		return ctx.Status(status).JSON(Models.SendResponse{
			Success: false,
			Message: message,
		})
	}

	return ctx.JSON(resp)
}

// Health handles GET /health
func Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}

// errorResponse maps a dispatch error to an HTTP status and a user-facing
// message. Anything outside the known taxonomy gets a generic message so no
// internals leak to the caller.
func errorResponse(err error) (int, string) {
	var validationErr *Dispatch.ValidationError
	var templateErr *Dispatch.TemplateVariableError
	var credentialErr *Dispatch.CredentialNotFoundError
	var notConfiguredErr *Dispatch.ProviderNotConfiguredError
	var providerErr *Dispatch.ProviderUnavailableError
	var deliveryErr *Dispatch.DeliveryError

	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, err.Error()
	case errors.As(err, &templateErr):
		return fiber.StatusBadRequest, err.Error()
	case errors.As(err, &credentialErr):
		return fiber.StatusNotFound, err.Error()
	case errors.As(err, &notConfiguredErr):
		return fiber.StatusInternalServerError, err.Error()
	case errors.As(err, &providerErr):
		return fiber.StatusBadGateway, err.Error()
	case errors.As(err, &deliveryErr):
		return fiber.StatusBadGateway, err.Error()
	default:
		return fiber.StatusInternalServerError, "Oops! Something went wrong. Please try again later."
	}
}
