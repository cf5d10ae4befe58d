// internal/domain/user/service.go
package user

import (
	"fmt"
	"time"

	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
	"github.com/your-org/marketplace-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      Role   `json:"role"`
}

// AddressRequest represents address creation/update data
type AddressRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code" binding:"required"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
	IsDefault    bool   `json:"is_default"`
}

// Register creates a new user account
func (s *Service) Register(req *RegisterRequest) (*User, error) {
	role := req.Role
	if role == "" {
		role = RoleCustomer
	}
	if role != RoleCustomer && role != RoleSeller {
		return nil, apperr.Validation("invalid role: %s", req.Role)
	}

	var existing User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, apperr.Conflict("email already registered")
	}

	hash, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	u := User{
		Email:     req.Email,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      role,
		IsActive:  true,
	}

	if err := s.db.Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &u, nil
}

// Authenticate verifies credentials and returns the user
func (s *Service) Authenticate(email, password string) (*User, error) {
	var u User
	if err := s.db.Where("email = ? AND is_active = ?", email, true).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.Validation("invalid email or password")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.passwordManager.VerifyPassword(password, u.Password); err != nil {
		return nil, apperr.Validation("invalid email or password")
	}

	now := time.Now().UTC()
	s.db.Model(&u).Update("last_login_at", now)

	return &u, nil
}

// GetUser retrieves a user by ID with addresses
func (s *Service) GetUser(userID uint) (*User, error) {
	var u User
	if err := s.db.Preload("Addresses").First(&u, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &u, nil
}

// ListAddresses returns all addresses of a user
func (s *Service) ListAddresses(userID uint) ([]Address, error) {
	var addresses []Address
	if err := s.db.Where("user_id = ?", userID).Order("created_at").Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve addresses: %w", err)
	}
	return addresses, nil
}

// AddAddress creates a new address for a user
func (s *Service) AddAddress(userID uint, req *AddressRequest) (*Address, error) {
	country := req.Country
	if country == "" {
		country = "IN"
	}

	address := Address{
		UserID:       userID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      country,
		Phone:        req.Phone,
		IsDefault:    req.IsDefault,
	}

	if err := s.db.Create(&address).Error; err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	return &address, nil
}

// UpdateAddress updates an address owned by the user
func (s *Service) UpdateAddress(userID, addressID uint, req *AddressRequest) (*Address, error) {
	var address Address
	if err := s.db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("address not found")
		}
		return nil, fmt.Errorf("failed to retrieve address: %w", err)
	}

	address.FirstName = req.FirstName
	address.LastName = req.LastName
	address.AddressLine1 = req.AddressLine1
	address.AddressLine2 = req.AddressLine2
	address.City = req.City
	address.State = req.State
	address.PostalCode = req.PostalCode
	if req.Country != "" {
		address.Country = req.Country
	}
	address.Phone = req.Phone
	address.IsDefault = req.IsDefault

	if err := s.db.Save(&address).Error; err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	return &address, nil
}

// DeleteAddress removes an address owned by the user
func (s *Service) DeleteAddress(userID, addressID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", addressID, userID).Delete(&Address{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete address: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("address not found")
	}

	// Clear the selected-address pointer if it referenced the removed row.
	s.db.Model(&User{}).
		Where("id = ? AND selected_address_id = ?", userID, addressID).
		Update("selected_address_id", nil)

	return nil
}

// SelectAddress marks an address as the delivery address for future orders.
// Selecting the already-selected address is a no-op that still succeeds.
func (s *Service) SelectAddress(userID, addressID uint) (*Address, error) {
	var address Address
	if err := s.db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("address not found for this user")
		}
		return nil, fmt.Errorf("failed to retrieve address: %w", err)
	}

	var u User
	if err := s.db.First(&u, userID).Error; err != nil {
		return nil, apperr.NotFound("user not found")
	}

	if u.SelectedAddressID != nil && *u.SelectedAddressID == addressID {
		return &address, nil
	}

	if err := s.db.Model(&u).Update("selected_address_id", addressID).Error; err != nil {
		return nil, fmt.Errorf("failed to select address: %w", err)
	}

	return &address, nil
}

// GetSelectedAddress returns the user's currently selected delivery address
func (s *Service) GetSelectedAddress(userID uint) (*Address, error) {
	var u User
	if err := s.db.First(&u, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if u.SelectedAddressID == nil {
		return nil, apperr.NotFound("no selected address found, please select an address first")
	}

	var address Address
	if err := s.db.Where("id = ? AND user_id = ?", *u.SelectedAddressID, userID).First(&address).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("selected address not found in user addresses")
		}
		return nil, fmt.Errorf("failed to retrieve address: %w", err)
	}

	return &address, nil
}
