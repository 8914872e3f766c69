package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// UserHandler handles registration, login, profiles and the admin user
// console.
type UserHandler struct {
	authService *services.AuthService
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, userService *services.UserService) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterPublicRoutes registers the routes that need no token.
func (h *UserHandler) RegisterPublicRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/", h.HandleRegister)
	userRoutes.Post("/login", h.HandleLogin)
}

// RegisterProtectedRoutes registers the routes behind AuthRequired.
func (h *UserHandler) RegisterProtectedRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/profile", h.HandleGetProfile)
	userRoutes.Put("/profile", h.HandleUpdateProfile)
	userRoutes.Get("/", middleware.AdminRequired(), h.HandleGetUsers)
	userRoutes.Get("/:id", middleware.AdminRequired(), h.HandleGetUserByID)
	userRoutes.Put("/:id", middleware.AdminRequired(), h.HandleUpdateUser)
	userRoutes.Delete("/:id", middleware.AdminRequired(), h.HandleDeleteUser)
}

// HandleRegister handles new user registration.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	user.IsAdmin = false // admin status is never client-assigned

	if err := h.validate.Struct(user); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.authService.RegisterUser(&user); err != nil {
		log.Printf("Error registering user: %v", err)
		return respondError(c, "Could not register user", err)
	}
	user.Password = "" // never echo the hash

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	token, user, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	}
	user.Password = ""

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// HandleGetProfile returns the authenticated user's profile.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	user, err := h.userService.GetProfile(userID)
	if err != nil {
		log.Printf("Error getting profile for %s: %v", userID, err)
		return respondError(c, "Could not retrieve profile", err)
	}
	user.Password = ""
	return c.JSON(user)
}

type updateProfileRequest struct {
	Name     string `json:"name" validate:"omitempty,min=2,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// HandleUpdateProfile updates the authenticated user's own profile.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing profile update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	userID, _ := c.Locals("user_id").(string)
	user, err := h.userService.UpdateProfile(userID, req.Name, req.Email, req.Password)
	if err != nil {
		log.Printf("Error updating profile for %s: %v", userID, err)
		return respondError(c, "Could not update profile", err)
	}
	user.Password = ""
	return c.JSON(user)
}

// HandleGetUsers returns every user for the admin console.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers()
	if err != nil {
		log.Printf("Error getting all users: %v", err)
		return respondError(c, "Could not retrieve users", err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return c.JSON(users)
}

// HandleGetUserByID returns one user for the admin console.
func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	userID := c.Params("id")
	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		log.Printf("Error getting user %s: %v", userID, err)
		return respondError(c, "Could not retrieve user", err)
	}
	user.Password = ""
	return c.JSON(user)
}

type updateUserRequest struct {
	Name    string `json:"name" validate:"omitempty,min=2,max=100"`
	Email   string `json:"email" validate:"omitempty,email"`
	IsAdmin bool   `json:"is_admin"`
}

// HandleUpdateUser lets an admin update a user.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing user update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	user, err := h.userService.UpdateUser(userID, req.Name, req.Email, req.IsAdmin)
	if err != nil {
		log.Printf("Error updating user %s: %v", userID, err)
		return respondError(c, "Could not update user", err)
	}
	user.Password = ""
	return c.JSON(user)
}

// HandleDeleteUser lets an admin delete a non-admin user.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	if err := h.userService.DeleteUser(userID); err != nil {
		log.Printf("Error deleting user %s: %v", userID, err)
		return respondError(c, "Could not delete user", err)
	}
	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}
