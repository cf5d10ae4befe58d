// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"
	"time"

	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/catalog"
	"github.com/your-org/marketplace-backend/internal/domain/coupon"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/payment"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("Running database auto-migrations...")

	// Dependency order: base tables first
	models := []interface{}{
		&user.User{},
		&user.Address{},

		&catalog.Product{},
		&catalog.PackSize{},

		&cart.Cart{},
		&cart.CartItem{},

		&order.Order{},
		&order.OrderItem{},

		&coupon.Coupon{},

		&payment.Payment{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_seller_status ON order_items(seller_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_pack_sizes_product ON pack_sizes(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_coupons_seller ON coupons(seller_id)",
		"CREATE INDEX IF NOT EXISTS idx_payments_user_created ON payments(user_id, created_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("Failed to create index: %v", err)
		}
	}

	return nil
}

// SeedInitialData inserts development fixtures: one seller with a
// couple of listed products and a coupon, and one customer.
func (m *Migration) SeedInitialData() error {
	seller, err := m.seedUser("seller@example.com", "Seller123", user.RoleSeller)
	if err != nil {
		return fmt.Errorf("failed to seed seller: %w", err)
	}
	if _, err := m.seedUser("customer@example.com", "Customer123", user.RoleCustomer); err != nil {
		return fmt.Errorf("failed to seed customer: %w", err)
	}

	if err := m.seedProducts(seller.ID); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	if err := m.seedCoupon(seller.ID); err != nil {
		return fmt.Errorf("failed to seed coupon: %w", err)
	}

	return nil
}

func (m *Migration) seedUser(email, password string, role user.Role) (*user.User, error) {
	var existing user.User
	if err := m.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return &existing, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := user.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: "Demo",
		LastName:  string(role),
		Role:      role,
		IsActive:  true,
	}
	if err := m.db.Create(&u).Error; err != nil {
		return nil, err
	}

	log.Printf("Seeded user %s", email)
	return &u, nil
}

func (m *Migration) seedProducts(sellerID uint) error {
	var count int64
	m.db.Model(&catalog.Product{}).Count(&count)
	if count > 0 {
		return nil
	}

	products := []catalog.Product{
		{
			SellerID:    sellerID,
			Name:        "Basmati Rice",
			Description: "Long grain aromatic rice",
			IsActive:    true,
			PackSizes: []catalog.PackSize{
				{Weight: 500, Unit: "Gram", Price: 4000, Stock: 100},
				{Weight: 1, Unit: "KG", Price: 7500, Stock: 60},
			},
		},
		{
			SellerID:    sellerID,
			Name:        "Garam Masala",
			Description: "Ground spice blend",
			IsActive:    true,
			PackSizes: []catalog.PackSize{
				{Weight: 100, Unit: "Gram", Price: 7000, Stock: 40},
			},
		},
	}

	for _, p := range products {
		if err := m.db.Create(&p).Error; err != nil {
			return err
		}
	}

	return nil
}

func (m *Migration) seedCoupon(sellerID uint) error {
	var existing coupon.Coupon
	if err := m.db.Where("code = ?", "WELCOME10").First(&existing).Error; err == nil {
		return nil
	}

	c := coupon.Coupon{
		Code:          "WELCOME10",
		SellerID:      sellerID,
		DiscountType:  coupon.DiscountTypePercentage,
		DiscountValue: 10,
		MinOrderValue: 5000,
		MaxDiscount:   2000,
		ExpiryDate:    time.Now().AddDate(1, 0, 0),
		IsActive:      true,
	}

	return m.db.Create(&c).Error
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	// Reverse dependency order
	tables := []string{
		"payments",
		"coupons",
		"order_items",
		"orders",
		"cart_items",
		"carts",
		"pack_sizes",
		"products",
		"addresses",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("Failed to drop table %s: %v", table, err)
		}
	}

	return nil
}
