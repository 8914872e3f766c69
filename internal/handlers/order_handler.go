package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// OrderHandler handles HTTP requests for orders and payments.
type OrderHandler struct {
	orderService   *services.OrderService
	paymentService *services.PaymentService
	validate       *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService, paymentService *services.PaymentService) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		paymentService: paymentService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the order routes. The router passed in must
// already be behind AuthRequired.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/", middleware.AdminRequired(), h.HandleGetAllOrders)
	orderRoutes.Get("/mine", h.HandleGetMyOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Put("/:id/pay", h.HandleMarkPaid)
	orderRoutes.Put("/:id/deliver", middleware.AdminRequired(), h.HandleMarkDelivered)
}

type orderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Qty       int    `json:"qty" validate:"required,gt=0"`
	// Price is accepted for wire compatibility but never trusted; the
	// catalog price wins.
	Price decimal.Decimal `json:"price"`
}

type createOrderRequest struct {
	Items           []orderItemRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shipping_address" validate:"required"`
	PaymentMethod   string                 `json:"payment_method" validate:"required"`
}

// HandleCreateOrder creates a new order from the caller's cart intent.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create order body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	userID, _ := c.Locals("user_id").(string)
	items := make([]models.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = models.OrderItem{ProductID: item.ProductID, Qty: item.Qty}
	}

	order, err := h.orderService.CreateOrder(userID, items, req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return respondError(c, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetAllOrders returns every order for the admin console.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetMyOrders returns the authenticated user's orders.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	orders, err := h.orderService.GetMyOrders(userID)
	if err != nil {
		log.Printf("Error getting orders for user %s: %v", userID, err)
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID returns one order. Only the owner or an admin may
// view it.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		log.Printf("Error getting order %s: %v", orderID, err)
		return respondError(c, "Could not retrieve order", err)
	}

	userID, _ := c.Locals("user_id").(string)
	isAdmin, _ := c.Locals("is_admin").(bool)
	if order.UserID != userID && !isAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Not authorized to view this order",
		})
	}
	return c.JSON(order)
}

// payOrderRequest mirrors the capture details the payment gateway hands
// back to the client after approval.
type payOrderRequest struct {
	TransactionID string          `json:"id" validate:"required"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Payer         struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

// HandleMarkPaid settles an order against an externally-asserted
// gateway transaction.
func (h *OrderHandler) HandleMarkPaid(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req payOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing pay order body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	order, err := h.paymentService.MarkPaid(c.Context(), orderID, req.TransactionID, req.Amount, req.Payer.EmailAddress, req.Status)
	if err != nil {
		log.Printf("Error marking order %s paid: %v", orderID, err)
		return respondError(c, "Payment rejected", err)
	}
	return c.JSON(order)
}

// HandleMarkDelivered flips the delivered flag on an order.
func (h *OrderHandler) HandleMarkDelivered(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.orderService.MarkDelivered(orderID)
	if err != nil {
		log.Printf("Error marking order %s delivered: %v", orderID, err)
		return respondError(c, "Could not mark order delivered", err)
	}
	return c.JSON(order)
}
