package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rpgshop/internal/audit"
	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
	"rpgshop/internal/uuid"
)

// customerService handles customer-related business logic.
type customerService struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewCustomerService creates a new CustomerServicer.
func NewCustomerService(db *gorm.DB, recorder *audit.Recorder) CustomerServicer {
	return &customerService{db: db, recorder: recorder}
}

// CreateCustomer registers a customer and its login account. The customer
// entity is audited; the login account is not.
func (s *customerService) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*models.Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "customer name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email is required")
	}
	if strings.TrimSpace(input.CPF) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "cpf is required")
	}

	var count int64
	if err := s.db.Model(&models.Customer{}).
		Where("email = ? OR cpf = ?", input.Email, input.CPF).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a customer with this email or CPF already exists")
	}

	gender := input.Gender
	if gender == "" {
		gender = models.GenderUndisclosed
	}

	customer := &models.Customer{
		Gender:       gender,
		Name:         input.Name,
		DateOfBirth:  input.DateOfBirth,
		CPF:          input.CPF,
		Email:        input.Email,
		Ranking:      decimal.Zero,
		CustomerCode: generateCustomerCode(),
		IsActive:     true,
	}

	var saved *models.Customer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		saved, err = auditedSave(ctx, tx, txRecorder(tx), customer)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if _, err := NewUserService(tx).CreateUser(input.Email, input.Password, models.RoleCustomer, &saved.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}

	return saved, nil
}

// UpdateCustomer updates the customer's mutable fields.
func (s *customerService) UpdateCustomer(ctx context.Context, customerID string, input UpdateCustomerInput) (*models.Customer, error) {
	customer, err := s.GetCustomerByID(customerID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		customer.Name = input.Name
	}
	if input.Gender != "" {
		customer.Gender = input.Gender
	}
	if input.Email != "" {
		customer.Email = input.Email
	}
	if input.DateOfBirth != nil {
		customer.DateOfBirth = input.DateOfBirth
	}

	saved, err := auditedSave(ctx, s.db, s.recorder, customer)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return saved, nil
}

// DeactivateCustomer marks the customer inactive.
func (s *customerService) DeactivateCustomer(ctx context.Context, customerID string) (*models.Customer, error) {
	customer, err := s.GetCustomerByID(customerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, apperrors.ErrCustomerDeactivated
	}

	now := time.Now().UTC()
	customer.IsActive = false
	customer.DeactivatedAt = &now

	saved, err := auditedSave(ctx, s.db, s.recorder, customer)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return saved, nil
}

// AddAddress attaches an address to the customer.
func (s *customerService) AddAddress(ctx context.Context, customerID string, input AddressInput) (*models.Address, error) {
	if input.Street == "" || input.City == "" || input.State == "" || input.Country == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "street, city, state and country are required")
	}
	if _, err := s.GetCustomerByID(customerID); err != nil {
		return nil, err
	}

	address := &models.Address{
		CustomerID: customerID,
		Label:      input.Label,
		Street:     input.Street,
		Number:     input.Number,
		Complement: input.Complement,
		District:   input.District,
		City:       input.City,
		State:      input.State,
		Country:    input.Country,
		ZipCode:    input.ZipCode,
	}

	saved, err := auditedSave(ctx, s.db, s.recorder, address)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return saved, nil
}

// AddPhone attaches a phone number to the customer.
func (s *customerService) AddPhone(ctx context.Context, customerID string, input PhoneInput) (*models.Phone, error) {
	if input.Number == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "phone number is required")
	}
	if _, err := s.GetCustomerByID(customerID); err != nil {
		return nil, err
	}

	phoneType := input.Type
	if phoneType == "" {
		phoneType = models.PhoneTypeMobile
	}

	phone := &models.Phone{
		CustomerID: customerID,
		Type:       phoneType,
		AreaCode:   input.AreaCode,
		Number:     input.Number,
	}

	saved, err := auditedSave(ctx, s.db, s.recorder, phone)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return saved, nil
}

// AddCreditCard attaches a credit card to the customer. Marking a card
// preferred clears the flag on the customer's other cards.
func (s *customerService) AddCreditCard(ctx context.Context, customerID string, input CreditCardInput) (*models.CreditCard, error) {
	if input.Number == "" || input.HolderName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "card number and holder name are required")
	}
	if _, err := s.GetCustomerByID(customerID); err != nil {
		return nil, err
	}

	var brand models.CardBrand
	if err := s.db.Where("id = ?", input.CardBrandID).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardBrandNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	card := &models.CreditCard{
		CustomerID:  customerID,
		CardBrandID: brand.ID,
		Number:      input.Number,
		HolderName:  input.HolderName,
		CVV:         input.CVV,
		IsPreferred: input.IsPreferred,
	}

	var saved *models.CreditCard
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if input.IsPreferred {
			if err := tx.Model(&models.CreditCard{}).
				Where("customer_id = ?", customerID).
				Update("is_preferred", false).Error; err != nil {
				return err
			}
		}

		var err error
		saved, err = auditedSave(ctx, tx, txRecorder(tx), card)
		return err
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return saved, nil
}

// GetCustomerByID retrieves a customer with its contact data.
func (s *customerService) GetCustomerByID(customerID string) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.
		Preload("Phones").
		Preload("Addresses").
		Preload("CreditCards").
		Where("id = ?", customerID).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &customer, nil
}

// QueryCustomers retrieves a paginated, filtered customer list.
func (s *customerService) QueryCustomers(page pagination.PageRequest, filter CustomerFilter) (*pagination.PageResponse[models.Customer], error) {
	page.Defaults()

	base := s.db.Model(&models.Customer{})
	if filter.Name != "" {
		base = base.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Email != "" {
		base = base.Where("email = ?", filter.Email)
	}
	if filter.CPF != "" {
		base = base.Where("cpf = ?", filter.CPF)
	}
	if filter.IsActive != nil {
		base = base.Where("is_active = ?", *filter.IsActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var customers []models.Customer
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at DESC").Find(&customers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(customers, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// generateCustomerCode derives a short human-readable customer code.
func generateCustomerCode() string {
	return "CUST-" + strings.ToUpper(uuid.New()[:8])
}

// asAppError keeps AppErrors intact across transaction boundaries and
// wraps anything else as an internal error.
func asAppError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
