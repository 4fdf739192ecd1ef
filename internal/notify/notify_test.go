package notify

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/andresilva/pixledger/internal/config"
	"github.com/andresilva/pixledger/internal/domain"
	"github.com/andresilva/pixledger/pkg/clients"
)

func NewMock(t *testing.T) (*Service, *MockLedgerRepo, *clients.MockHTTPClientI) {
	cfg := &config.Config{WebhookAddress: "http://localhost:8082/events"}
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledgerRepo := NewMockLedgerRepo(ctrl)
	client := clients.NewMockHTTPClientI(ctrl)
	service := New(cfg, ledgerRepo, client)
	return service, ledgerRepo, client
}

func TestService_Start(t *testing.T) {
	service, _, _ := NewMock(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()
}

func TestService_dispatch(t *testing.T) {
	tests := []struct {
		name             string
		mockFindPending  func(ctx context.Context, limit uint32) ([]domain.Transaction, error)
		mockAddTask      func(ctx context.Context, task Task) error
		transactionCount int
	}{
		{
			name: "successfully dispatches pending events",
			mockFindPending: func(ctx context.Context, limit uint32) ([]domain.Transaction, error) {
				return []domain.Transaction{
					{ID: 1, Kind: domain.TransactionKindDeposit, AccountNumber: 1001, Amount: decimal.NewFromInt(200)},
					{ID: 2, Kind: domain.TransactionKindWithdrawal, AccountNumber: 1001, Amount: decimal.NewFromInt(50)},
				}, nil
			},
			mockAddTask: func(ctx context.Context, task Task) error {
				return nil
			},
			transactionCount: 2,
		},
		{
			name: "fails when fetching pending events",
			mockFindPending: func(ctx context.Context, limit uint32) ([]domain.Transaction, error) {
				return nil, errors.New("failed to fetch transactions")
			},
			mockAddTask: func(ctx context.Context, task Task) error {
				return nil
			},
			transactionCount: 0,
		},
		{
			name: "error in workerPool AddTask",
			mockFindPending: func(ctx context.Context, limit uint32) ([]domain.Transaction, error) {
				return []domain.Transaction{
					{ID: 3, Kind: domain.TransactionKindDeposit, AccountNumber: 1001, Amount: decimal.NewFromInt(10)},
				}, nil
			},
			mockAddTask: func(ctx context.Context, task Task) error {
				return errors.New("failed to add task to worker pool")
			},
			transactionCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			ledgerRepo := NewMockLedgerRepo(ctrl)
			workerPool := NewMockWorkerPoolI(ctrl)

			ledgerRepo.EXPECT().
				FindUnnotified(gomock.Any(), gomock.Any()).
				DoAndReturn(tt.mockFindPending).
				Times(1)
			for i := 0; i < tt.transactionCount; i++ {
				workerPool.EXPECT().
					AddTask(gomock.Any(), gomock.Any()).
					DoAndReturn(tt.mockAddTask).
					AnyTimes()
			}

			service := &Service{
				ledgerRepo: ledgerRepo,
				workerPool: workerPool,
				limit:      2,
			}

			service.dispatch(context.Background())
		})
	}
}

func TestService_send(t *testing.T) {
	tests := []struct {
		name        string
		prepareMock func(ledgerRepo *MockLedgerRepo, client *clients.MockHTTPClientI)
		expectErr   bool
	}{
		{
			name: "delivered and stamped",
			prepareMock: func(ledgerRepo *MockLedgerRepo, client *clients.MockHTTPClientI) {
				client.EXPECT().
					Post("http://localhost:8082/events", "application/json", gomock.Any()).
					Return(http.StatusOK, nil, nil)
				ledgerRepo.EXPECT().MarkNotified(gomock.Any(), 1).Return(nil)
			},
		},
		{
			name: "non-2xx response is retried then fails",
			prepareMock: func(ledgerRepo *MockLedgerRepo, client *clients.MockHTTPClientI) {
				client.EXPECT().
					Post("http://localhost:8082/events", "application/json", gomock.Any()).
					Return(http.StatusInternalServerError, nil, nil).
					Times(maxRetries)
			},
			expectErr: true,
		},
		{
			name: "recovers on a later attempt",
			prepareMock: func(ledgerRepo *MockLedgerRepo, client *clients.MockHTTPClientI) {
				gomock.InOrder(
					client.EXPECT().
						Post("http://localhost:8082/events", "application/json", gomock.Any()).
						Return(0, nil, errors.New("connection refused")),
					client.EXPECT().
						Post("http://localhost:8082/events", "application/json", gomock.Any()).
						Return(http.StatusAccepted, nil, nil),
				)
				ledgerRepo.EXPECT().MarkNotified(gomock.Any(), 1).Return(nil)
			},
		},
		{
			name: "stamping failure surfaces",
			prepareMock: func(ledgerRepo *MockLedgerRepo, client *clients.MockHTTPClientI) {
				client.EXPECT().
					Post("http://localhost:8082/events", "application/json", gomock.Any()).
					Return(http.StatusOK, nil, nil)
				ledgerRepo.EXPECT().MarkNotified(gomock.Any(), 1).Return(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			ledgerRepo := NewMockLedgerRepo(ctrl)
			client := clients.NewMockHTTPClientI(ctrl)
			tt.prepareMock(ledgerRepo, client)

			service := &Service{
				url:        "http://localhost:8082/events",
				ledgerRepo: ledgerRepo,
				client:     client,
			}

			err := service.send(context.Background(), domain.Transaction{
				ID:            1,
				Kind:          domain.TransactionKindDeposit,
				AccountNumber: 1001,
				Amount:        decimal.NewFromInt(200),
				CreatedAt:     time.Now(),
			})

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
