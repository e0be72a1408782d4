package item

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/FrigaaAbdou/show-backend/internal/apperror"
	"github.com/FrigaaAbdou/show-backend/internal/auth"
)

type Handler struct {
	service *Service
}

type itemRequest struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	FullDescription *string  `json:"fullDescription"`
	Price           *float64 `json:"price"`
	ImgLink         *string  `json:"imgLink"`
	FormationDate   *string  `json:"formationDate"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

var errInvalidDate = apperror.New(apperror.InvalidArgument, "formationDate must be an RFC 3339 timestamp or YYYY-MM-DD date")

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/", h.getItems)
	r.Get("/:id", h.getItem)
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router, guard fiber.Handler) {
	r.Post("/", guard, h.createItem)
	r.Put("/:id", guard, h.updateItem)
	r.Delete("/:id", guard, h.deleteItem)
}

func (h *Handler) getItems(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(items)
}

func (h *Handler) getItem(c *fiber.Ctx) error {
	it, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(it)
}

func (h *Handler) createItem(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	payload := new(itemRequest)
	if err := c.BodyParser(payload); err != nil {
		return apperror.Message(c, fiber.StatusBadRequest, "Invalid request body")
	}
	patch, err := payload.patch()
	if err != nil {
		return apperror.Respond(c, err)
	}

	created, err := h.service.Create(c.UserContext(), p, patch)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateItem(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	payload := new(itemRequest)
	if err := c.BodyParser(payload); err != nil {
		return apperror.Message(c, fiber.StatusBadRequest, "Invalid request body")
	}
	patch, err := payload.patch()
	if err != nil {
		return apperror.Respond(c, err)
	}

	updated, err := h.service.Update(c.UserContext(), p, c.Params("id"), patch)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteItem(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	if err := h.service.Delete(c.UserContext(), p, c.Params("id")); err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item deleted successfully"})
}

func (r *itemRequest) patch() (Patch, error) {
	patch := Patch{
		Name:            r.Name,
		Description:     r.Description,
		FullDescription: r.FullDescription,
		Price:           r.Price,
		ImgLink:         r.ImgLink,
	}
	if r.FormationDate != nil {
		d, err := parseDate(*r.FormationDate)
		if err != nil {
			return Patch{}, err
		}
		patch.FormationDate = &d
	}
	return patch, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errInvalidDate
}
