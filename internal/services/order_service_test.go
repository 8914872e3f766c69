package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/services"
)

func catalogProduct(id, name, price string) models.Product {
	return models.Product{
		ID:    id,
		Name:  name,
		Image: "/images/" + id + ".jpg",
		Price: decimal.RequireFromString(price),
	}
}

func testShipping() models.ShippingAddress {
	return models.ShippingAddress{
		Address:    "1 Main St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "USA",
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := services.NewOrderService(orderRepo, productRepo, nil, false)

	productRepo.On("GetManyByIDs", []string{"prod-1", "prod-2"}).Return([]models.Product{
		catalogProduct("prod-1", "Laptop", "60.00"),
		catalogProduct("prod-2", "Monitor", "45.00"),
	}, nil).Once()
	orderRepo.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()

	order, err := service.CreateOrder("user-1", []models.OrderItem{
		{ProductID: "prod-1", Qty: 1},
		{ProductID: "prod-2", Qty: 1},
	}, testShipping(), "PayPal")

	assert.NoError(t, err)
	assert.Equal(t, "user-1", order.UserID)
	assert.False(t, order.IsPaid)
	assert.False(t, order.IsDelivered)
	assert.Nil(t, order.PaidAt)
	assert.Nil(t, order.PaymentResult)
	assert.Equal(t, "105.00", order.ItemsPrice.StringFixed(2))
	assert.Equal(t, "0.00", order.ShippingPrice.StringFixed(2))
	assert.Equal(t, "15.75", order.TaxPrice.StringFixed(2))
	assert.Equal(t, "120.75", order.TotalPrice.StringFixed(2))
	assert.Equal(t, "Laptop", order.Items[0].Name)
	orderRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestOrderService_CreateOrder_EmptyItems(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := services.NewOrderService(orderRepo, productRepo, nil, false)

	_, err := service.CreateOrder("user-1", nil, testShipping(), "PayPal")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	orderRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOrderService_CreateOrder_UnknownProduct(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := services.NewOrderService(orderRepo, productRepo, nil, false)

	productRepo.On("GetManyByIDs", []string{"prod-1", "prod-missing"}).Return([]models.Product{
		catalogProduct("prod-1", "Laptop", "60.00"),
	}, nil).Once()

	_, err := service.CreateOrder("user-1", []models.OrderItem{
		{ProductID: "prod-1", Qty: 1},
		{ProductID: "prod-missing", Qty: 2},
	}, testShipping(), "PayPal")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "prod-missing")
	orderRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestOrderService_CreateOrder_IgnoresClientPrice(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := services.NewOrderService(orderRepo, productRepo, nil, false)

	productRepo.On("GetManyByIDs", []string{"prod-1"}).Return([]models.Product{
		catalogProduct("prod-1", "Keyboard", "10.00"),
	}, nil).Once()
	orderRepo.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()

	// The client claims a one-cent price; the catalog says 10.00.
	order, err := service.CreateOrder("user-1", []models.OrderItem{
		{ProductID: "prod-1", Qty: 2, Price: decimal.RequireFromString("0.01")},
	}, testShipping(), "PayPal")

	assert.NoError(t, err)
	assert.Equal(t, "10.00", order.Items[0].Price.StringFixed(2))
	assert.Equal(t, "20.00", order.ItemsPrice.StringFixed(2))
	assert.Equal(t, "10.00", order.ShippingPrice.StringFixed(2))
	assert.Equal(t, "3.00", order.TaxPrice.StringFixed(2))
	assert.Equal(t, "33.00", order.TotalPrice.StringFixed(2))
}

func TestOrderService_CreateOrder_NonPositiveQty(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := services.NewOrderService(orderRepo, productRepo, nil, false)

	_, err := service.CreateOrder("user-1", []models.OrderItem{
		{ProductID: "prod-1", Qty: 0},
	}, testShipping(), "PayPal")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestOrderService_MarkDelivered(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	mq := new(MockEventPublisher)
	service := services.NewOrderService(orderRepo, productRepo, mq, false)

	stored := &models.Order{ID: "order-1", UserID: "user-1", IsPaid: false}
	orderRepo.On("GetByID", "order-1").Return(stored, nil).Once()
	orderRepo.On("Update", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	mq.On("Publish", "order", "order.delivered", mock.Anything).Return(nil).Once()

	// Paid precondition is off, so an unpaid order may still be delivered.
	order, err := service.MarkDelivered("order-1")

	assert.NoError(t, err)
	assert.True(t, order.IsDelivered)
	assert.NotNil(t, order.DeliveredAt)
	orderRepo.AssertExpectations(t)
	mq.AssertExpectations(t)
}

func TestOrderService_MarkDelivered_NotFound(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := services.NewOrderService(orderRepo, productRepo, nil, false)

	orderRepo.On("GetByID", "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := service.MarkDelivered("missing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestOrderService_MarkDelivered_AlreadyDelivered(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := services.NewOrderService(orderRepo, productRepo, nil, false)

	orderRepo.On("GetByID", "order-1").Return(&models.Order{ID: "order-1", IsDelivered: true}, nil).Once()

	_, err := service.MarkDelivered("order-1")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestOrderService_MarkDelivered_RequiresPaid(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := services.NewOrderService(orderRepo, productRepo, nil, true)

	orderRepo.On("GetByID", "order-1").Return(&models.Order{ID: "order-1", IsPaid: false}, nil).Once()

	_, err := service.MarkDelivered("order-1")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything)

	// A paid order passes the precondition.
	orderRepo.On("GetByID", "order-2").Return(&models.Order{ID: "order-2", IsPaid: true}, nil).Once()
	orderRepo.On("Update", mock.AnythingOfType("*models.Order")).Return(nil).Once()

	order, err := service.MarkDelivered("order-2")
	assert.NoError(t, err)
	assert.True(t, order.IsDelivered)
}

func TestOrderService_GetMyOrders(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := services.NewOrderService(orderRepo, productRepo, nil, false)

	expected := []models.Order{{ID: "order-1", UserID: "user-1"}}
	orderRepo.On("GetByUserID", "user-1").Return(expected, nil).Once()

	orders, err := service.GetMyOrders("user-1")

	assert.NoError(t, err)
	assert.Equal(t, expected, orders)
	orderRepo.AssertExpectations(t)
}
