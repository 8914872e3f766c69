package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/paypal"
)

// PaymentGateway verifies externally-asserted transactions. Satisfied by
// *paypal.Client.
type PaymentGateway interface {
	VerifyTransaction(ctx context.Context, transactionID string) (*paypal.Verification, error)
}

// PaymentService owns the paid transition of an order. It never trusts
// the client's payment claim: the transaction is re-verified with the
// gateway on every call and the paid amount is checked against the
// server-computed total.
type PaymentService struct {
	orderRepo repositories.OrderRepository
	gateway   PaymentGateway
	mq        EventPublisher
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(orderRepo repositories.OrderRepository, gateway PaymentGateway, mq EventPublisher) *PaymentService {
	return &PaymentService{
		orderRepo: orderRepo,
		gateway:   gateway,
		mq:        mq,
	}
}

// MarkPaid settles an order against a gateway transaction. The checks
// run in a fixed order and each failure returns without touching the
// order:
//
//  1. The gateway must confirm the transaction is genuine and completed.
//  2. The transaction id must not have settled any other order.
//  3. The order must exist and must not already be paid.
//  4. The asserted amount must equal the stored total exactly.
//
// Only then is the order marked paid and the payment result recorded.
//
// Steps 2 and 5 are separate store round-trips, so two concurrent calls
// with the same transaction id can both pass the scan; the unique index
// on the stored transaction id is the backstop that makes the second
// write fail.
func (s *PaymentService) MarkPaid(ctx context.Context, orderID, transactionID string, assertedAmount decimal.Decimal, payerEmail, gatewayStatus string) (*models.Order, error) {
	verification, err := s.gateway.VerifyTransaction(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("gateway verification for %s failed (%v): %w", transactionID, err, apperrors.ErrPaymentNotVerified)
	}
	if !verification.Verified {
		return nil, fmt.Errorf("transaction %s not confirmed by gateway (status %q): %w", transactionID, verification.Status, apperrors.ErrPaymentNotVerified)
	}

	used, err := s.orderRepo.ExistsPaidWithTransactionID(transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check transaction reuse: %w", err)
	}
	if used {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrTransactionReused)
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.IsPaid {
		return nil, fmt.Errorf("order %s is already paid: %w", orderID, apperrors.ErrConflict)
	}

	if !assertedAmount.Equal(order.TotalPrice) {
		return nil, fmt.Errorf("asserted %s but order total is %s: %w",
			assertedAmount.StringFixed(2), order.TotalPrice.StringFixed(2), apperrors.ErrAmountMismatch)
	}

	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = &models.PaymentResult{
		TransactionID: transactionID,
		Status:        gatewayStatus,
		UpdateTime:    now.UTC().Format(time.RFC3339),
		EmailAddress:  payerEmail,
	}
	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to mark order %s paid: %w", orderID, err)
	}

	publishOrderEvent(s.mq, "order.paid", map[string]interface{}{
		"orderID":       order.ID,
		"userID":        order.UserID,
		"transactionID": transactionID,
		"total":         order.TotalPrice,
	})

	return order, nil
}
