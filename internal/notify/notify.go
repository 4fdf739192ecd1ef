package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/andresilva/pixledger/internal/config"
	"github.com/andresilva/pixledger/internal/domain"
	"github.com/andresilva/pixledger/pkg/clients"
)

//go:generate mockgen -source=notify.go -destination=notify_mock.go -package=notify

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
)

var inflight sync.Map

type LedgerRepo interface {
	FindUnnotified(ctx context.Context, limit uint32) ([]domain.Transaction, error)
	MarkNotified(ctx context.Context, id int) error
}

// Event is the webhook payload for a single ledger record.
type Event struct {
	ID                int     `json:"id"`
	Kind              string  `json:"kind"`
	AccountNumber     int     `json:"account_number"`
	DestinationNumber *int    `json:"destination_number,omitempty"`
	PixKeyValue       *string `json:"pix_key_value,omitempty"`
	Amount            string  `json:"amount"`
	CreatedAt         string  `json:"created_at"`
}

// Service delivers ledger records to the configured webhook. A record is
// stamped as notified only after the endpoint acknowledges it with a 2xx,
// so delivery is at-least-once.
type Service struct {
	url          string
	ledgerRepo   LedgerRepo
	client       clients.HTTPClientI
	limit        uint32
	workerPool   WorkerPoolI
	pollInterval time.Duration
}

func New(cfg *config.Config, ledgerRepo LedgerRepo, client clients.HTTPClientI) *Service {
	return &Service{
		url:          cfg.WebhookAddress,
		ledgerRepo:   ledgerRepo,
		client:       client,
		limit:        1000,
		workerPool:   NewWorkerPool(10),
		pollInterval: time.Second * 5,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Webhook notifier started", zap.String("url", s.url))
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping notifier")
			return
		case <-ticker.C:
			s.dispatch(ctx)
		}
	}
}

func (s *Service) dispatch(ctx context.Context) {
	transactions, err := s.ledgerRepo.FindUnnotified(ctx, atomic.LoadUint32(&s.limit))
	if err != nil {
		zap.L().Error("Failed to fetch transactions for notification", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, transaction := range transactions {
		transaction := transaction

		if _, loaded := inflight.LoadOrStore(transaction.ID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer inflight.Delete(transaction.ID)
				return s.send(ctx, transaction)
			})
			if err != nil {
				inflight.Delete(transaction.ID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error dispatching notifications", zap.Error(err))
	}
}

func (s *Service) send(ctx context.Context, transaction domain.Transaction) error {
	payload, err := json.Marshal(Event{
		ID:                transaction.ID,
		Kind:              transaction.Kind,
		AccountNumber:     transaction.AccountNumber,
		DestinationNumber: transaction.DestinationNumber,
		PixKeyValue:       transaction.PixKeyValue,
		Amount:            transaction.Amount.StringFixed(2),
		CreatedAt:         transaction.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to encode event %d: %w", transaction.ID, err)
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			statusCode, _, err := s.client.Post(s.url, "application/json", payload)
			if err != nil || statusCode < 200 || statusCode >= 300 {
				if attempt < maxRetries {
					time.Sleep(retryInterval * time.Duration(attempt))
					continue
				}
				if err != nil {
					return fmt.Errorf("failed to deliver event %d after %d retries: %w", transaction.ID, maxRetries, err)
				}
				return fmt.Errorf("failed to deliver event %d after %d retries: status %d", transaction.ID, maxRetries, statusCode)
			}

			if err := s.ledgerRepo.MarkNotified(ctx, transaction.ID); err != nil {
				return fmt.Errorf("failed to mark event %d notified: %w", transaction.ID, err)
			}
			zap.L().Info("Event delivered", zap.Int("id", transaction.ID), zap.String("kind", transaction.Kind))
			return nil
		}
	}
	return nil
}
