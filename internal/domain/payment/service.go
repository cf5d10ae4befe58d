// internal/domain/payment/service.go
package payment

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Service handles payment business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
	orders *order.Service
	carts  *cart.Service
	logger *logrus.Logger
}

// NewService creates a new payment service
func NewService(db *gorm.DB, cfg *config.Config, orders *order.Service, carts *cart.Service, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		orders: orders,
		carts:  carts,
		logger: logger,
	}
}

// CreatePaymentRequest represents payment recording data
type CreatePaymentRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Method  string `json:"method" binding:"required"`
	Detail  string `json:"detail"`
}

// CreatePayment records a payment for the user's order, snapshotting
// the order's current final amount. The paid lines are then removed
// from the user's cart; cart cleanup is best effort and never fails
// the payment.
func (s *Service) CreatePayment(userID uint, req *CreatePaymentRequest) (*Payment, error) {
	method := Method(req.Method)
	if !ValidMethod(method) {
		return nil, apperr.Validation("unsupported payment method: %s", req.Method)
	}

	o, err := s.orders.GetOrder(userID, req.OrderID)
	if err != nil {
		return nil, err
	}

	var existing Payment
	err = s.db.Where("order_id = ?", o.ID).First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("order is already paid")
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check existing payment: %w", err)
	}

	p := Payment{
		OrderID:       o.ID,
		UserID:        userID,
		TransactionID: uuid.New().String(),
		Method:        method,
		Amount:        o.FinalAmount,
		Detail:        req.Detail,
	}

	if err := s.db.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.cleanupCart(userID, o)

	return &p, nil
}

// GetMyPayments retrieves all payments of a user
func (s *Service) GetMyPayments(userID uint) ([]Payment, error) {
	var payments []Payment
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payments: %w", err)
	}
	return payments, nil
}

// GetPayment retrieves a single payment scoped to its owner
func (s *Service) GetPayment(userID, paymentID uint) (*Payment, error) {
	var p Payment
	err := s.db.Where("id = ? AND user_id = ?", paymentID, userID).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("payment not found")
		}
		return nil, fmt.Errorf("failed to retrieve payment: %w", err)
	}
	return &p, nil
}

func (s *Service) cleanupCart(userID uint, o *order.Order) {
	pairs := make([][2]uint, 0, len(o.Items))
	for _, item := range o.Items {
		pairs = append(pairs, [2]uint{item.ProductID, item.PackSizeID})
	}
	if err := s.carts.RemovePairs(userID, pairs); err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id":  userID,
			"order_id": o.ID,
			"error":    err.Error(),
		}).Warn("Failed to clear paid items from cart")
	}
}
