// internal/domain/payment/entity.go
package payment

import "time"

// Method identifies how a payment was made
type Method string

const (
	MethodCard Method = "card"
	MethodUPI  Method = "upi"
	MethodCOD  Method = "cod"
)

// Payment records a completed payment against an order. Amount is a
// snapshot of the order's final amount at payment time and never
// changes afterwards, even when the order total is later recomputed.
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OrderID       uint      `gorm:"not null;index" json:"order_id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	TransactionID string    `gorm:"not null;uniqueIndex;size:36" json:"transaction_id"`
	Method        Method    `gorm:"not null;size:20" json:"method"`
	Amount        int64     `gorm:"not null" json:"amount"`
	Detail        string    `gorm:"type:text" json:"detail,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the table name for Payment model
func (Payment) TableName() string {
	return "payments"
}

// ValidMethod reports whether the given method is supported
func ValidMethod(m Method) bool {
	switch m {
	case MethodCard, MethodUPI, MethodCOD:
		return true
	}
	return false
}
