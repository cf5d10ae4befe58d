// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a sellable product owned by a seller. The base
// record carries no price; prices live on the pack sizes.
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SellerID    uint           `gorm:"not null;index" json:"seller_id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	PackSizes []PackSize `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"pack_sizes,omitempty"`
}

// PackSize represents a specific priced variant of a product
// (weight/unit/price/stock), distinct from the product's base record.
type PackSize struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Weight    float64   `json:"weight"`
	Unit      string    `gorm:"size:20" json:"unit"` // KG, Gram, Piece
	Price     int64     `gorm:"not null" json:"price"` // Minor currency units
	Stock     int       `gorm:"default:0" json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Product) TableName() string  { return "products" }
func (PackSize) TableName() string { return "pack_sizes" }

// FindPackSize returns the pack size with the given id, or nil
func (p *Product) FindPackSize(packSizeID uint) *PackSize {
	for i := range p.PackSizes {
		if p.PackSizes[i].ID == packSizeID {
			return &p.PackSizes[i]
		}
	}
	return nil
}

// WithPackSize returns a copy of the product whose pack-size list is
// narrowed to the single matching variant. Used when rendering cart
// items, where only the selected variant should be expanded.
func (p *Product) WithPackSize(packSizeID uint) Product {
	narrowed := *p
	narrowed.PackSizes = nil
	if ps := p.FindPackSize(packSizeID); ps != nil {
		narrowed.PackSizes = []PackSize{*ps}
	}
	return narrowed
}
