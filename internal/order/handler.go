package order

import (
	"github.com/gofiber/fiber/v2"

	"github.com/FrigaaAbdou/show-backend/internal/apperror"
	"github.com/FrigaaAbdou/show-backend/internal/auth"
)

// Handler delegates order operations to the order service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router, guard fiber.Handler) {
	r.Post("/", guard, h.createOrder)
	r.Get("/", guard, h.getOrders)
	r.Get("/:id", guard, h.getOrder)
	r.Put("/:id", guard, h.updateOrder)
	r.Delete("/:id", guard, h.deleteOrder)
}

type createOrderRequest struct {
	Products   []LineInput `json:"products"`
	TotalPrice *float64    `json:"totalPrice"`
}

type updateOrderRequest struct {
	Products   []LineInput `json:"products"`
	TotalPrice *float64    `json:"totalPrice"`
	Status     *string     `json:"status"`
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return apperror.Message(c, fiber.StatusBadRequest, "Invalid request body")
	}

	created, err := h.service.Create(c.UserContext(), p, payload.Products, payload.TotalPrice)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	orders, err := h.service.List(c.UserContext(), p)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	o, err := h.service.Get(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(o)
}

func (h *Handler) updateOrder(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	payload := new(updateOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return apperror.Message(c, fiber.StatusBadRequest, "Invalid request body")
	}

	patch := Patch{Products: payload.Products, TotalPrice: payload.TotalPrice}
	if payload.Status != nil {
		st := Status(*payload.Status)
		patch.Status = &st
	}

	o, err := h.service.Update(c.UserContext(), p, c.Params("id"), patch)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(o)
}

func (h *Handler) deleteOrder(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	if err := h.service.Delete(c.UserContext(), p, c.Params("id")); err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order deleted successfully"})
}
