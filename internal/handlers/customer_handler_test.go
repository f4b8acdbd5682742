package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
	"rpgshop/internal/services"
)

type mockCustomerService struct {
	createCustomerFn     func(ctx context.Context, input services.CreateCustomerInput) (*models.Customer, error)
	updateCustomerFn     func(ctx context.Context, customerID string, input services.UpdateCustomerInput) (*models.Customer, error)
	deactivateCustomerFn func(ctx context.Context, customerID string) (*models.Customer, error)
	addAddressFn         func(ctx context.Context, customerID string, input services.AddressInput) (*models.Address, error)
	addPhoneFn           func(ctx context.Context, customerID string, input services.PhoneInput) (*models.Phone, error)
	addCreditCardFn      func(ctx context.Context, customerID string, input services.CreditCardInput) (*models.CreditCard, error)
	getCustomerByIDFn    func(customerID string) (*models.Customer, error)
	queryCustomersFn     func(page pagination.PageRequest, filter services.CustomerFilter) (*pagination.PageResponse[models.Customer], error)
}

var _ services.CustomerServicer = (*mockCustomerService)(nil)

func (m *mockCustomerService) CreateCustomer(ctx context.Context, input services.CreateCustomerInput) (*models.Customer, error) {
	if m.createCustomerFn != nil {
		return m.createCustomerFn(ctx, input)
	}
	return &models.Customer{}, nil
}

func (m *mockCustomerService) UpdateCustomer(ctx context.Context, customerID string, input services.UpdateCustomerInput) (*models.Customer, error) {
	if m.updateCustomerFn != nil {
		return m.updateCustomerFn(ctx, customerID, input)
	}
	return &models.Customer{}, nil
}

func (m *mockCustomerService) DeactivateCustomer(ctx context.Context, customerID string) (*models.Customer, error) {
	if m.deactivateCustomerFn != nil {
		return m.deactivateCustomerFn(ctx, customerID)
	}
	return &models.Customer{}, nil
}

func (m *mockCustomerService) AddAddress(ctx context.Context, customerID string, input services.AddressInput) (*models.Address, error) {
	if m.addAddressFn != nil {
		return m.addAddressFn(ctx, customerID, input)
	}
	return &models.Address{}, nil
}

func (m *mockCustomerService) AddPhone(ctx context.Context, customerID string, input services.PhoneInput) (*models.Phone, error) {
	if m.addPhoneFn != nil {
		return m.addPhoneFn(ctx, customerID, input)
	}
	return &models.Phone{}, nil
}

func (m *mockCustomerService) AddCreditCard(ctx context.Context, customerID string, input services.CreditCardInput) (*models.CreditCard, error) {
	if m.addCreditCardFn != nil {
		return m.addCreditCardFn(ctx, customerID, input)
	}
	return &models.CreditCard{}, nil
}

func (m *mockCustomerService) GetCustomerByID(customerID string) (*models.Customer, error) {
	if m.getCustomerByIDFn != nil {
		return m.getCustomerByIDFn(customerID)
	}
	return &models.Customer{}, nil
}

func (m *mockCustomerService) QueryCustomers(page pagination.PageRequest, filter services.CustomerFilter) (*pagination.PageResponse[models.Customer], error) {
	if m.queryCustomersFn != nil {
		return m.queryCustomersFn(page, filter)
	}
	resp := pagination.NewPageResponse([]models.Customer{}, 1, 20, 0)
	return &resp, nil
}

func setupCustomerRouter(handler *CustomerHandler, role models.UserRole) *gin.Engine {
	r := gin.New()
	r.POST("/customers", handler.Register)
	auth := r.Group("/", injectAuth(role))
	auth.GET("/customers", handler.List)
	auth.GET("/customers/:id", handler.Get)
	auth.PUT("/customers/:id", handler.Update)
	auth.POST("/customers/:id/addresses", handler.AddAddress)
	return r
}

func TestCustomerHandler_Register(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		customerSvc := &mockCustomerService{
			createCustomerFn: func(_ context.Context, input services.CreateCustomerInput) (*models.Customer, error) {
				return &models.Customer{
					Base:         models.Base{ID: testCustomerID},
					Name:         input.Name,
					Email:        input.Email,
					CPF:          input.CPF,
					CustomerCode: "CUST-0001",
				}, nil
			},
		}
		r := setupCustomerRouter(NewCustomerHandler(customerSvc), models.RoleCustomer)

		rec := doRequest(r, "POST", "/customers",
			`{"name":"Ana Souza","cpf":"123.456.789-00","email":"ana@rpgshop.com.br","password":"password123"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		customer := result["customer"].(map[string]interface{})
		if customer["name"] != "Ana Souza" {
			t.Errorf("expected name Ana Souza, got %v", customer["name"])
		}
		if customer["customer_code"] != "CUST-0001" {
			t.Errorf("expected a customer code, got %v", customer["customer_code"])
		}
	})

	t.Run("returns 400 on malformed cpf", func(t *testing.T) {
		r := setupCustomerRouter(NewCustomerHandler(&mockCustomerService{}), models.RoleCustomer)

		rec := doRequest(r, "POST", "/customers",
			`{"name":"Ana Souza","cpf":"not-a-cpf","email":"ana@rpgshop.com.br","password":"password123"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		r := setupCustomerRouter(NewCustomerHandler(&mockCustomerService{}), models.RoleCustomer)

		rec := doRequest(r, "POST", "/customers",
			`{"cpf":"123.456.789-00","email":"ana@rpgshop.com.br","password":"password123"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCustomerHandler_Update(t *testing.T) {
	t.Run("customer updates own profile", func(t *testing.T) {
		var gotID string
		customerSvc := &mockCustomerService{
			updateCustomerFn: func(_ context.Context, customerID string, input services.UpdateCustomerInput) (*models.Customer, error) {
				gotID = customerID
				return &models.Customer{Base: models.Base{ID: customerID}, Name: input.Name}, nil
			},
		}
		r := setupCustomerRouter(NewCustomerHandler(customerSvc), models.RoleCustomer)

		rec := doRequest(r, "PUT", "/customers/"+testCustomerID, `{"name":"Ana Lima"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotID != testCustomerID {
			t.Errorf("expected update of %s, got %s", testCustomerID, gotID)
		}
	})

	t.Run("customer cannot update another customer", func(t *testing.T) {
		otherID := "0190a1b2-0000-7000-8000-0000000000ff"
		r := setupCustomerRouter(NewCustomerHandler(&mockCustomerService{}), models.RoleCustomer)

		rec := doRequest(r, "PUT", "/customers/"+otherID, `{"name":"Ana Lima"}`)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "FORBIDDEN")
	})

	t.Run("employee updates any customer", func(t *testing.T) {
		otherID := "0190a1b2-0000-7000-8000-0000000000ff"
		var gotID string
		customerSvc := &mockCustomerService{
			updateCustomerFn: func(_ context.Context, customerID string, _ services.UpdateCustomerInput) (*models.Customer, error) {
				gotID = customerID
				return &models.Customer{Base: models.Base{ID: customerID}}, nil
			},
		}
		r := setupCustomerRouter(NewCustomerHandler(customerSvc), models.RoleEmployee)

		rec := doRequest(r, "PUT", "/customers/"+otherID, `{"name":"Ana Lima"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotID != otherID {
			t.Errorf("expected update of %s, got %s", otherID, gotID)
		}
	})

	t.Run("returns 400 on invalid path id", func(t *testing.T) {
		r := setupCustomerRouter(NewCustomerHandler(&mockCustomerService{}), models.RoleEmployee)

		rec := doRequest(r, "PUT", "/customers/not-a-uuid", `{"name":"Ana Lima"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when customer is missing", func(t *testing.T) {
		customerSvc := &mockCustomerService{
			updateCustomerFn: func(_ context.Context, _ string, _ services.UpdateCustomerInput) (*models.Customer, error) {
				return nil, apperrors.ErrCustomerNotFound
			},
		}
		r := setupCustomerRouter(NewCustomerHandler(customerSvc), models.RoleEmployee)

		rec := doRequest(r, "PUT", "/customers/"+testCustomerID, `{"name":"Ana Lima"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CUSTOMER_NOT_FOUND")
	})
}

func TestCustomerHandler_AddAddress(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		customerSvc := &mockCustomerService{
			addAddressFn: func(_ context.Context, customerID string, input services.AddressInput) (*models.Address, error) {
				return &models.Address{CustomerID: customerID, Street: input.Street, City: input.City}, nil
			},
		}
		r := setupCustomerRouter(NewCustomerHandler(customerSvc), models.RoleCustomer)

		rec := doRequest(r, "POST", "/customers/"+testCustomerID+"/addresses",
			`{"street":"Rua Augusta, 100","city":"Sao Paulo","state":"SP","country":"BR"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		address := parseJSON(t, rec)["address"].(map[string]interface{})
		if address["city"] != "Sao Paulo" {
			t.Errorf("expected city Sao Paulo, got %v", address["city"])
		}
	})

	t.Run("returns 400 on missing street", func(t *testing.T) {
		r := setupCustomerRouter(NewCustomerHandler(&mockCustomerService{}), models.RoleCustomer)

		rec := doRequest(r, "POST", "/customers/"+testCustomerID+"/addresses",
			`{"city":"Sao Paulo","state":"SP","country":"BR"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCustomerHandler_List(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		var gotFilter services.CustomerFilter
		customerSvc := &mockCustomerService{
			queryCustomersFn: func(_ pagination.PageRequest, filter services.CustomerFilter) (*pagination.PageResponse[models.Customer], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Customer{{Name: "Ana Souza"}}, 1, 20, 1)
				return &resp, nil
			},
		}
		r := setupCustomerRouter(NewCustomerHandler(customerSvc), models.RoleEmployee)

		rec := doRequest(r, "GET", "/customers?email=ana@rpgshop.com.br&is_active=true", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.Email != "ana@rpgshop.com.br" {
			t.Errorf("expected email filter, got %q", gotFilter.Email)
		}
		if gotFilter.IsActive == nil || !*gotFilter.IsActive {
			t.Error("expected is_active filter set to true")
		}
		result := parseJSON(t, rec)
		if result["total_items"] != float64(1) {
			t.Errorf("expected 1 total item, got %v", result["total_items"])
		}
	})

	t.Run("returns 400 on bad page size", func(t *testing.T) {
		r := setupCustomerRouter(NewCustomerHandler(&mockCustomerService{}), models.RoleEmployee)

		rec := doRequest(r, "GET", "/customers?page_size=9999", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
