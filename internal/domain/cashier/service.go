// internal/domain/cashier/service.go
package cashier

import (
	"fmt"
	"time"

	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles cashier authentication
type Service struct {
	db         *gorm.DB
	config     *config.Config
	jwtManager *auth.JWTManager
	passwords  *auth.PasswordManager
}

// NewService creates a new cashier service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:         db,
		config:     cfg,
		jwtManager: auth.NewJWTManager(cfg),
		passwords:  auth.NewPasswordManager(cfg),
	}
}

// LoginRequest represents a cashier login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token   string   `json:"token"`
	Cashier *Cashier `json:"cashier"`
}

// Login verifies credentials and issues an access token
func (s *Service) Login(req *LoginRequest) (*LoginResponse, error) {
	var c Cashier
	result := s.db.Where("email = ? AND is_active = ?", req.Email, true).First(&c)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("invalid credentials")
		}
		return nil, fmt.Errorf("failed to look up cashier: %w", result.Error)
	}

	if err := s.passwords.VerifyPassword(req.Password, c.PasswordHash); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	token, err := s.jwtManager.GenerateAccessToken(c.ID, c.Email, c.Name, c.IsManager)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now().UTC()
	c.LastLoginAt = &now
	if err := s.db.Model(&c).Update("last_login_at", now).Error; err != nil {
		// Not fatal; the login itself already succeeded
		return &LoginResponse{Token: token, Cashier: &c}, nil
	}

	return &LoginResponse{Token: token, Cashier: &c}, nil
}

// Get retrieves a cashier by id
func (s *Service) Get(id string) (*Cashier, error) {
	var c Cashier
	result := s.db.Where("id = ?", id).First(&c)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cashier not found")
		}
		return nil, fmt.Errorf("failed to retrieve cashier: %w", result.Error)
	}
	return &c, nil
}
