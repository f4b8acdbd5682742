package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
)

// userService handles login accounts. Saves here bypass the audit
// interceptor: the identity store is a separate, non-audited concern.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a login account with a bcrypt-hashed password.
func (s *userService) CreateUser(email, password string, role models.UserRole, customerID *string) (*models.User, error) {
	if email == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email is required")
	}
	if len(password) < 8 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be at least 8 characters")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:      email,
		Password:   string(hash),
		Role:       role,
		IsActive:   true,
		CustomerID: customerID,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// AttemptLogin verifies the credentials and returns the user on success.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !user.IsActive {
		return nil, apperrors.ErrUserDeactivated
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return &user, nil
}

// QueryUsers retrieves a paginated, filtered account list.
func (s *userService) QueryUsers(page pagination.PageRequest, filter UserFilter) (*pagination.PageResponse[models.User], error) {
	page.Defaults()

	base := s.db.Model(&models.User{})
	if filter.Email != "" {
		base = base.Where("email LIKE ?", "%"+filter.Email+"%")
	}
	if filter.Role != nil {
		base = base.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		base = base.Where("is_active = ?", *filter.IsActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var users []models.User
	err := base.
		Scopes(pagination.Paginate(page)).
		Order("email ASC").
		Find(&users).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(users, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ChangePassword replaces the user's password after verifying the current one.
func (s *userService) ChangePassword(userID, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be at least 8 characters")
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)) != nil {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(user).Update("password", string(hash)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}
