package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/andresilva/pixledger/internal/domain"
	"github.com/andresilva/pixledger/internal/dto"
	"github.com/andresilva/pixledger/pkg/locker"
)

func NewMock(t *testing.T) (*AccountHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestCreateAccountHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful creation",
			body: `{"name":"Maria Silva","email":"maria@example.com","document":"52998224725","birth_date":"1990-05-20"}`,
			prepareMock: func() {
				service.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, customer *domain.Customer) (*domain.Account, error) {
						assert.Equal(t, "Maria Silva", customer.Name)
						assert.Equal(t, "52998224725", customer.Document)
						return &domain.Account{
							Number:  1001,
							Balance: d("0.00"),
							Limit:   d("100.00"),
						}, nil
					})
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:          "Invalid request body",
			body:          `{"name":`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid request body",
		},
		{
			name:          "Missing document",
			body:          `{"name":"Maria Silva","birth_date":"1990-05-20"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "name and document are required",
		},
		{
			name:          "Invalid document",
			body:          `{"name":"Maria Silva","document":"12345678900","birth_date":"1990-05-20"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid document",
		},
		{
			name:          "Invalid email",
			body:          `{"name":"Maria Silva","email":"maria@example","document":"52998224725","birth_date":"1990-05-20"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid email",
		},
		{
			name:          "Invalid birth date",
			body:          `{"name":"Maria Silva","document":"52998224725","birth_date":"20/05/1990"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid birth date",
		},
		{
			name: "Internal server error",
			body: `{"name":"Maria Silva","document":"52998224725","birth_date":"1990-05-20"}`,
			prepareMock: func() {
				service.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.CreateAccount(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusCreated {
				var body dto.AccountResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, 1001, body.Number)
				assert.Equal(t, "100.00", body.AvailableTotal)
			}
		})
	}
}

func TestGetAccountHandler(t *testing.T) {
	handler, service := NewMock(t)

	principal := "maria@example.com"

	tests := []struct {
		name         string
		number       string
		prepareMock  func()
		expectedCode int
	}{
		{
			name:   "Account with principal key",
			number: "1001",
			prepareMock: func() {
				service.EXPECT().GetAccount(gomock.Any(), 1001).Return(&domain.Account{
					Number:   1001,
					Balance:  d("150.50"),
					Limit:    d("100.00"),
					OpenedAt: time.Now(),
				}, nil)
				service.EXPECT().GetPrincipalKey(gomock.Any(), 1001).Return(&domain.PixKey{
					Value: principal,
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid account number",
			number:       "abc",
			prepareMock:  func() {},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "Account not found",
			number: "9999",
			prepareMock: func() {
				service.EXPECT().GetAccount(gomock.Any(), 9999).Return(nil, domain.ErrAccountNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:   "Internal server error",
			number: "1001",
			prepareMock: func() {
				service.EXPECT().GetAccount(gomock.Any(), 1001).Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodGet, "/api/accounts/"+tt.number, nil)
			r = withURLParam(r, "number", tt.number)
			w := httptest.NewRecorder()

			handler.GetAccount(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body dto.AccountResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, "150.50", body.Balance)
				assert.Equal(t, "250.50", body.AvailableTotal)
				assert.Equal(t, principal, *body.PrincipalPixKey)
			}
		})
	}
}

func TestListAccountsHandler(t *testing.T) {
	handler, service := NewMock(t)

	service.EXPECT().ListAccounts(gomock.Any()).Return([]domain.Account{
		{Number: 1001, Balance: d("0.00"), Limit: d("100.00")},
		{Number: 1002, Balance: d("50.00"), Limit: d("100.00")},
	}, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	w := httptest.NewRecorder()

	handler.ListAccounts(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	var body []dto.AccountResponseDTO
	_ = json.NewDecoder(w.Body).Decode(&body)
	assert.Len(t, body, 2)
	assert.Equal(t, 1002, body[1].Number)
}

func TestDepositHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		number        string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name:   "Successful deposit",
			number: "1001",
			body:   `{"amount":"150.50"}`,
			prepareMock: func() {
				service.EXPECT().Deposit(gomock.Any(), 1001, d("150.50")).Return(&domain.Account{
					Number:  1001,
					Balance: d("150.50"),
					Limit:   d("100.00"),
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "Comma separator is accepted",
			number: "1001",
			body:   `{"amount":"150,50"}`,
			prepareMock: func() {
				service.EXPECT().Deposit(gomock.Any(), 1001, d("150.50")).Return(&domain.Account{
					Number:  1001,
					Balance: d("150.50"),
					Limit:   d("100.00"),
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "Malformed amount",
			number:        "1001",
			body:          `{"amount":"abc"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid amount",
		},
		{
			name:   "Non-positive amount",
			number: "1001",
			body:   `{"amount":"-10"}`,
			prepareMock: func() {
				service.EXPECT().Deposit(gomock.Any(), 1001, d("-10")).Return(nil, domain.ErrInvalidAmount)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "amount must be positive",
		},
		{
			name:   "Account not found",
			number: "9999",
			body:   `{"amount":"10"}`,
			prepareMock: func() {
				service.EXPECT().Deposit(gomock.Any(), 9999, d("10")).Return(nil, domain.ErrAccountNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:   "Account busy",
			number: "1001",
			body:   `{"amount":"10"}`,
			prepareMock: func() {
				service.EXPECT().Deposit(gomock.Any(), 1001, d("10")).Return(nil, locker.ErrBusy)
			},
			expectedCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodPost, "/api/accounts/"+tt.number+"/deposit", bytes.NewBufferString(tt.body))
			r = withURLParam(r, "number", tt.number)
			w := httptest.NewRecorder()

			handler.Deposit(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
		})
	}
}

func TestWithdrawHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Withdrawal dips into the limit",
			body: `{"amount":"120.00"}`,
			prepareMock: func() {
				service.EXPECT().Withdraw(gomock.Any(), 1001, d("120.00")).Return(&domain.Account{
					Number:  1001,
					Balance: d("0.00"),
					Limit:   d("30.00"),
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Insufficient funds",
			body: `{"amount":"500.00"}`,
			prepareMock: func() {
				service.EXPECT().Withdraw(gomock.Any(), 1001, d("500.00")).Return(nil, domain.ErrInsufficientFunds)
			},
			expectedCode: http.StatusPaymentRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodPost, "/api/accounts/1001/withdraw", bytes.NewBufferString(tt.body))
			r = withURLParam(r, "number", "1001")
			w := httptest.NewRecorder()

			handler.Withdraw(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body dto.AccountResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, "0.00", body.Balance)
				assert.Equal(t, "30.00", body.Limit)
				assert.Equal(t, "30.00", body.AvailableTotal)
			}
		})
	}
}

func TestGetTransactionsHandler(t *testing.T) {
	handler, service := NewMock(t)

	destination := 1002

	tests := []struct {
		name         string
		target       string
		prepareMock  func()
		expectedCode int
	}{
		{
			name:   "Default limit",
			target: "/api/accounts/1001/transactions",
			prepareMock: func() {
				service.EXPECT().History(gomock.Any(), 1001, 0).Return([]domain.Transaction{
					{
						ID:                2,
						Kind:              domain.TransactionKindTransfer,
						AccountNumber:     1001,
						DestinationNumber: &destination,
						Amount:            d("250.00"),
						Description:       "transfer to account 1002",
						CreatedAt:         time.Now(),
					},
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "Explicit limit",
			target: "/api/accounts/1001/transactions?limit=5",
			prepareMock: func() {
				service.EXPECT().History(gomock.Any(), 1001, 5).Return([]domain.Transaction{}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "Account not found",
			target: "/api/accounts/1001/transactions",
			prepareMock: func() {
				service.EXPECT().History(gomock.Any(), 1001, 0).Return(nil, domain.ErrAccountNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			r = withURLParam(r, "number", "1001")
			w := httptest.NewRecorder()

			handler.GetTransactions(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
