package handlers

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the catalog routes. Reads are open to any
// authenticated user; mutations are admin-only.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/top", h.HandleGetTopProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", middleware.AdminRequired(), h.HandleCreateProduct)
	productRoutes.Put("/:id", middleware.AdminRequired(), h.HandleUpdateProduct)
	productRoutes.Delete("/:id", middleware.AdminRequired(), h.HandleDeleteProduct)
	productRoutes.Post("/:id/reviews", h.HandleCreateReview)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return respondError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetTopProducts retrieves the highest-rated products.
func (h *ProductHandler) HandleGetTopProducts(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "3"))
	products, err := h.service.GetTopProducts(limit)
	if err != nil {
		log.Printf("Error getting top products: %v", err)
		return respondError(c, "Could not retrieve top products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product with its reviews.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(productID)
	if err != nil {
		log.Printf("Error getting product %s: %v", productID, err)
		return respondError(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

type productRequest struct {
	Name        string          `json:"name" validate:"required,min=3,max=100"`
	Image       string          `json:"image" validate:"omitempty,max=255"`
	Brand       string          `json:"brand" validate:"omitempty,max=100"`
	Category    string          `json:"category" validate:"omitempty,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

// HandleCreateProduct creates a new catalog entry.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	userID, _ := c.Locals("user_id").(string)
	product := &models.Product{
		UserID:      userID,
		Name:        req.Name,
		Image:       req.Image,
		Brand:       req.Brand,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := h.service.CreateProduct(product); err != nil {
		log.Printf("Error creating product: %v", err)
		return respondError(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates an existing catalog entry.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	product, err := h.service.GetProductByID(productID)
	if err != nil {
		return respondError(c, "Could not retrieve product", err)
	}
	product.Name = req.Name
	product.Image = req.Image
	product.Brand = req.Brand
	product.Category = req.Category
	product.Description = req.Description
	product.Price = req.Price
	product.Stock = req.Stock

	if err := h.service.UpdateProduct(product); err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		return respondError(c, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a catalog entry.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.service.DeleteProduct(productID); err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		return respondError(c, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=500"`
	Name    string `json:"name" validate:"omitempty,max=100"`
}

// HandleCreateReview adds a review from the authenticated user.
func (h *ProductHandler) HandleCreateReview(c *fiber.Ctx) error {
	productID := c.Params("id")
	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing review body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	userID, _ := c.Locals("user_id").(string)
	if err := h.service.CreateReview(productID, userID, req.Name, req.Rating, req.Comment); err != nil {
		log.Printf("Error creating review for product %s: %v", productID, err)
		return respondError(c, "Could not create review", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Review added",
	})
}
