package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/api/dto"
	apperrors "github.com/davydocsurg/techinnover-ecommerce-api/pkg/util/errorutil"
)

func respond(c *fiber.Ctx, status int, message string, data any) error {
	body := fiber.Map{"message": message}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	return dto.Validate(out)
}

func parseQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return apperrors.NewBadRequest("invalid query parameters")
	}
	return dto.Validate(out)
}

// pathID returns the :id parameter. Malformed ids cannot match a record, so
// they are reported as not found.
func pathID(c *fiber.Ctx, resource string) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.NewNotFound(resource, id)
	}
	return id, nil
}
