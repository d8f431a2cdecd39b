// file: handler/client_handler_test.go

package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"bank-clients-api/common"
	"bank-clients-api/handler"
	"bank-clients-api/logger"
	"bank-clients-api/model"
	"bank-clients-api/router"
	"bank-clients-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestMain runs setup before any tests in this package are executed.
func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// mockClientService is a mock implementation of service.IClientService.
type mockClientService struct{ mock.Mock }

func (m *mockClientService) AddClient(ctx context.Context, client *model.Client) (*model.Client, error) {
	args := m.Called(ctx, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *mockClientService) RetrieveAllClients(ctx context.Context) ([]*model.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Client), args.Error(1)
}

func (m *mockClientService) RetrieveClientByID(ctx context.Context, clientID string) (*model.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *mockClientService) UpdateClient(ctx context.Context, client *model.Client) (*model.Client, error) {
	args := m.Called(ctx, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *mockClientService) DeleteClient(ctx context.Context, clientID string) (*model.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *mockClientService) AddAccountToClient(ctx context.Context, clientID string, account model.Account) (*model.Client, error) {
	args := m.Called(ctx, clientID, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *mockClientService) RetrieveClientAccounts(ctx context.Context, clientID string) ([]model.Account, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

func (m *mockClientService) RetrieveClientAccount(ctx context.Context, clientID, accountName string) (*model.Account, error) {
	args := m.Called(ctx, clientID, accountName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockClientService) RetrieveClientAccountsOver(ctx context.Context, clientID string, threshold float64) ([]model.Account, error) {
	args := m.Called(ctx, clientID, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

func (m *mockClientService) RetrieveClientAccountsUnder(ctx context.Context, clientID string, threshold float64) ([]model.Account, error) {
	args := m.Called(ctx, clientID, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

func (m *mockClientService) UpdateClientAccountBalance(ctx context.Context, clientID, accountName, operation string, amount float64) (*model.Client, error) {
	args := m.Called(ctx, clientID, accountName, operation, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *mockClientService) DeleteClientAccount(ctx context.Context, clientID, accountName string) (*model.Account, error) {
	args := m.Called(ctx, clientID, accountName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockClientService) DeleteAllClientAccounts(ctx context.Context, clientID string) ([]model.Account, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

var _ service.IClientService = (*mockClientService)(nil)

// serve routes the request through the real router so the ServeMux patterns
// are exercised together with the handlers.
func serve(svc service.IClientService, method, target, body string) *httptest.ResponseRecorder {
	r := router.NewRouter(handler.NewClientHandler(svc))

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestListClients(t *testing.T) {
	svc := new(mockClientService)
	clients := []*model.Client{
		{ID: "c1", FirstName: "Jimmy", LastName: "Jumbo"},
		{ID: "c2", FirstName: "Bonnie", LastName: "Banks"},
	}
	svc.On("RetrieveAllClients", mock.Anything).Return(clients, nil).Once()

	rr := serve(svc, http.MethodGet, "/clients", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"c1"`)
	assert.Contains(t, rr.Body.String(), `"id":"c2"`)
	svc.AssertExpectations(t)
}

func TestCreateClient(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(mockClientService)
		created := &model.Client{ID: "c1", FirstName: "Jimmy", LastName: "Jumbo",
			Accounts: []model.Account{{Name: "First Checking", Type: model.AccountTypeChecking, Balance: 0}}}
		svc.On("AddClient", mock.Anything, mock.MatchedBy(func(c *model.Client) bool {
			return c.FirstName == "Jimmy" && c.LastName == "Jumbo" && len(c.Accounts) == 0
		})).Return(created, nil).Once()

		rr := serve(svc, http.MethodPost, "/clients", `{"fname":"Jimmy","lname":"Jumbo","accounts":[]}`)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"First Checking"`)
		svc.AssertExpectations(t)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		svc := new(mockClientService)

		rr := serve(svc, http.MethodPost, "/clients", `{"lname":"Jumbo"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "AddClient")
	})

	t.Run("invalid account type is rejected", func(t *testing.T) {
		svc := new(mockClientService)

		body := `{"fname":"Jimmy","lname":"Jumbo","accounts":[{"accountName":"A","accountType":"Offshore","balance":1}]}`
		rr := serve(svc, http.MethodPost, "/clients", body)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "AddClient")
	})
}

func TestGetClient(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(mockClientService)
		svc.On("RetrieveClientByID", mock.Anything, "c1").
			Return(&model.Client{ID: "c1", FirstName: "Jimmy", LastName: "Jumbo"}, nil).Once()

		rr := serve(svc, http.MethodGet, "/clients/c1", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"fname":"Jimmy"`)
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		svc := new(mockClientService)
		svc.On("RetrieveClientByID", mock.Anything, "missing").
			Return(nil, common.NewNotFoundError("The resource with id missing could not be found", "missing")).Once()

		rr := serve(svc, http.MethodGet, "/clients/missing", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), `"code":404`)
	})
}

func TestUpdateClient(t *testing.T) {
	svc := new(mockClientService)
	svc.On("UpdateClient", mock.Anything, mock.MatchedBy(func(c *model.Client) bool {
		// The id must come from the path, not the body.
		return c.ID == "c1" && c.FirstName == "Johnny"
	})).Return(&model.Client{ID: "c1", FirstName: "Johnny", LastName: "Jumbo"}, nil).Once()

	rr := serve(svc, http.MethodPut, "/clients/c1", `{"fname":"Johnny","lname":"Jumbo","accounts":[]}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestDeleteClient(t *testing.T) {
	svc := new(mockClientService)
	svc.On("DeleteClient", mock.Anything, "c1").
		Return(&model.Client{ID: "c1", FirstName: "Jimmy", LastName: "Jumbo"}, nil).Once()

	rr := serve(svc, http.MethodDelete, "/clients/c1", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"c1"`)
	svc.AssertExpectations(t)
}

func TestAddAccount(t *testing.T) {
	svc := new(mockClientService)
	account := model.Account{Name: "Holiday Fund", Type: model.AccountTypeChecking, Balance: 500}
	svc.On("AddAccountToClient", mock.Anything, "c1", account).
		Return(&model.Client{ID: "c1", Accounts: []model.Account{account}}, nil).Once()

	rr := serve(svc, http.MethodPost, "/clients/c1/accounts",
		`{"accountName":"Holiday Fund","accountType":"Checking","balance":500}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
	svc.AssertExpectations(t)
}

func TestListAccounts(t *testing.T) {
	t.Run("no filters returns everything", func(t *testing.T) {
		svc := new(mockClientService)
		svc.On("RetrieveClientAccounts", mock.Anything, "c1").
			Return([]model.Account{{Name: "First Checking", Type: model.AccountTypeChecking, Balance: 0}}, nil).Once()

		rr := serve(svc, http.MethodGet, "/clients/c1/accounts", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("amountGreaterThan alone uses the over filter", func(t *testing.T) {
		svc := new(mockClientService)
		svc.On("RetrieveClientAccountsOver", mock.Anything, "c1", 100.0).
			Return([]model.Account{{Name: "Holiday Fund", Type: model.AccountTypeChecking, Balance: 500}}, nil).Once()

		rr := serve(svc, http.MethodGet, "/clients/c1/accounts?amountGreaterThan=100", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("amountLessThan alone uses the under filter", func(t *testing.T) {
		svc := new(mockClientService)
		svc.On("RetrieveClientAccountsUnder", mock.Anything, "c1", 100.0).
			Return([]model.Account{}, nil).Once()

		rr := serve(svc, http.MethodGet, "/clients/c1/accounts?amountLessThan=100", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("both bounds intersect inclusively", func(t *testing.T) {
		svc := new(mockClientService)
		svc.On("RetrieveClientAccounts", mock.Anything, "c1").Return([]model.Account{
			{Name: "Low", Type: model.AccountTypeChecking, Balance: 50},
			{Name: "LowerEdge", Type: model.AccountTypeChecking, Balance: 100},
			{Name: "UpperEdge", Type: model.AccountTypeSavings, Balance: 400},
			{Name: "High", Type: model.AccountTypeOther, Balance: 1000},
		}, nil).Once()

		rr := serve(svc, http.MethodGet, "/clients/c1/accounts?amountGreaterThan=100&amountLessThan=400", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "LowerEdge")
		assert.Contains(t, rr.Body.String(), "UpperEdge")
		assert.NotContains(t, rr.Body.String(), `"Low"`)
		assert.NotContains(t, rr.Body.String(), "High")
	})

	t.Run("non-numeric bound is rejected", func(t *testing.T) {
		svc := new(mockClientService)

		rr := serve(svc, http.MethodGet, "/clients/c1/accounts?amountGreaterThan=lots", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "RetrieveClientAccountsOver")
	})
}

func TestGetAccount(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(mockClientService)
		svc.On("RetrieveClientAccount", mock.Anything, "c1", "First Checking").
			Return(&model.Account{Name: "First Checking", Type: model.AccountTypeChecking, Balance: 0}, nil).Once()

		rr := serve(svc, http.MethodGet, "/clients/c1/First%20Checking", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown account maps to 404", func(t *testing.T) {
		svc := new(mockClientService)
		svc.On("RetrieveClientAccount", mock.Anything, "c1", "Ghost").
			Return(nil, common.NewNotFoundError("Account with name Ghost could not be found for client c1", "Ghost")).Once()

		rr := serve(svc, http.MethodGet, "/clients/c1/Ghost", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestUpdateAccountBalance(t *testing.T) {
	t.Run("deposit", func(t *testing.T) {
		svc := new(mockClientService)
		svc.On("UpdateClientAccountBalance", mock.Anything, "c1", "First Checking", "deposit", 500.0).
			Return(&model.Client{ID: "c1"}, nil).Once()

		rr := serve(svc, http.MethodPatch, "/clients/c1/First%20Checking/deposit", `{"amount":500}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("insufficient funds maps to 422", func(t *testing.T) {
		svc := new(mockClientService)
		svc.On("UpdateClientAccountBalance", mock.Anything, "c1", "First Checking", "withdraw", 500.0).
			Return(nil, common.NewTransactionError("Insufficient funds: account balance: 100, withdrawal amount: 500", "withdraw 500")).Once()

		rr := serve(svc, http.MethodPatch, "/clients/c1/First%20Checking/withdraw", `{"amount":500}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "Insufficient funds")
	})

	t.Run("undefined operation maps to 422", func(t *testing.T) {
		svc := new(mockClientService)
		svc.On("UpdateClientAccountBalance", mock.Anything, "c1", "First Checking", "transfer", 500.0).
			Return(nil, common.NewTransactionError("Transaction not defined", "transfer")).Once()

		rr := serve(svc, http.MethodPatch, "/clients/c1/First%20Checking/transfer", `{"amount":500}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("negative amount is rejected", func(t *testing.T) {
		svc := new(mockClientService)

		rr := serve(svc, http.MethodPatch, "/clients/c1/First%20Checking/deposit", `{"amount":-5}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "UpdateClientAccountBalance")
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("by name", func(t *testing.T) {
		svc := new(mockClientService)
		svc.On("DeleteClientAccount", mock.Anything, "c1", "Holiday Fund").
			Return(&model.Account{Name: "Holiday Fund", Type: model.AccountTypeChecking, Balance: 500}, nil).Once()

		rr := serve(svc, http.MethodDelete, "/clients/c1/Holiday%20Fund", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("the reserved name accounts clears everything", func(t *testing.T) {
		svc := new(mockClientService)
		svc.On("DeleteAllClientAccounts", mock.Anything, "c1").
			Return([]model.Account{{Name: "First Checking", Type: model.AccountTypeChecking, Balance: 0}}, nil).Once()

		rr := serve(svc, http.MethodDelete, "/clients/c1/accounts", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertNotCalled(t, "DeleteClientAccount")
		svc.AssertExpectations(t)
	})
}
