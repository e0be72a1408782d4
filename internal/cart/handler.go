package cart

import (
	"github.com/gofiber/fiber/v2"

	"github.com/FrigaaAbdou/show-backend/internal/apperror"
	"github.com/FrigaaAbdou/show-backend/internal/auth"
)

// Handler delegates cart operations to the cart service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterProtectedRoutes mounts every cart route behind guard.
func (h *Handler) RegisterProtectedRoutes(r fiber.Router, guard fiber.Handler) {
	r.Post("/", guard, h.addToCart)
	r.Get("/:userId", guard, h.getCart)
	r.Put("/:userId/:productId", guard, h.updateQuantity)
	r.Delete("/:userId/:productId", guard, h.removeFromCart)
	r.Delete("/:userId", guard, h.clearCart)
}

type addRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	payload := new(addRequest)
	if err := c.BodyParser(payload); err != nil {
		return apperror.Message(c, fiber.StatusBadRequest, "Invalid request body")
	}

	cart, err := h.service.Add(c.UserContext(), p, payload.UserID, payload.ProductID, payload.Quantity)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cart)
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	snap, err := h.service.Read(c.UserContext(), p, c.Params("userId"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(snap)
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	payload := new(quantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return apperror.Message(c, fiber.StatusBadRequest, "Invalid request body")
	}

	cart, err := h.service.SetQuantity(c.UserContext(), p, c.Params("userId"), c.Params("productId"), payload.Quantity)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(cart)
}

func (h *Handler) removeFromCart(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	cart, err := h.service.Remove(c.UserContext(), p, c.Params("userId"), c.Params("productId"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item removed from cart", "cart": cart})
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	if err := h.service.Clear(c.UserContext(), p, c.Params("userId")); err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared successfully"})
}
