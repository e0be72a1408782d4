package user

import (
	"github.com/gofiber/fiber/v2"

	"github.com/FrigaaAbdou/show-backend/internal/apperror"
	"github.com/FrigaaAbdou/show-backend/internal/auth"
)

type Handler struct {
	service *Service
}

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	AdminSecret string `json:"adminSecret"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// profile is the user shape returned next to a token.
type profile struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     auth.Role `json:"role,omitempty"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

// RegisterProtectedRoutes must run after the public routes so /all is
// matched before /:id.
func (h *Handler) RegisterProtectedRoutes(r fiber.Router, guard fiber.Handler) {
	r.Get("/all", guard, h.getUsers)
	r.Get("/:id", guard, h.getUser)
	r.Put("/:id", guard, h.updateUser)
	r.Delete("/:id", guard, h.deleteUser)
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(registerRequest)
	if err := c.BodyParser(payload); err != nil {
		return apperror.Message(c, fiber.StatusBadRequest, "Invalid request body")
	}

	session, err := h.service.Register(c.UserContext(), RegisterInput{
		Username:    payload.Username,
		Email:       payload.Email,
		Password:    payload.Password,
		Role:        auth.Role(payload.Role),
		AdminSecret: payload.AdminSecret,
	})
	if err != nil {
		return apperror.Respond(c, err)
	}

	u := session.User
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": session.Token,
		"user":  profile{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role},
	})
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return apperror.Message(c, fiber.StatusBadRequest, "Invalid request body")
	}

	session, err := h.service.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return apperror.Respond(c, err)
	}

	u := session.User
	return c.JSON(fiber.Map{
		"token": session.Token,
		"user":  profile{ID: u.ID, Username: u.Username, Email: u.Email},
	})
}

func (h *Handler) getUsers(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	users, err := h.service.List(c.UserContext(), p)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(users)
}

func (h *Handler) getUser(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	user, err := h.service.Get(c.UserContext(), p, c.Params("id"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(user)
}

func (h *Handler) updateUser(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	payload := new(updateRequest)
	if err := c.BodyParser(payload); err != nil {
		return apperror.Message(c, fiber.StatusBadRequest, "Invalid request body")
	}

	patch := Update{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	}
	// an empty role string is treated as absent
	if payload.Role != nil && *payload.Role != "" {
		role := auth.Role(*payload.Role)
		patch.Role = &role
	}

	updated, err := h.service.Update(c.UserContext(), p, c.Params("id"), patch)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteUser(c *fiber.Ctx) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return apperror.Message(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	if err := h.service.Delete(c.UserContext(), p, c.Params("id")); err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
