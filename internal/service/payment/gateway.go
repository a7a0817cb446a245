package payment

import (
	"SkillTrack/internal/app_errors"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ChargeRequest struct {
	StudentID uuid.UUID
	CourseID  uuid.UUID
	Amount    int64
	Token     string
}

type Receipt struct {
	ID        string    `json:"id"`
	Amount    int64     `json:"amount"`
	ChargedAt time.Time `json:"charged_at"`
}

// Gateway charges a student for a course and reverses charges that could
// not be turned into an enrollment. Implementations must return
// app_errors.ErrPaymentDeclined for refusals and an upstream error for
// timeouts so callers can tell a retry from a final answer.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Receipt, error)
	Refund(ctx context.Context, receiptID string) error
}

// MockGateway approves every charge except those whose token is on the
// declined list. It remembers receipts so refunds can be checked.
type MockGateway struct {
	timeout  time.Duration
	declined map[string]struct{}
	now      func() time.Time

	mu       sync.Mutex
	receipts map[string]Receipt
	refunded map[string]struct{}
}

func NewMockGateway(timeout time.Duration, declinedTokens []string) *MockGateway {
	declined := make(map[string]struct{}, len(declinedTokens))
	for _, t := range declinedTokens {
		declined[t] = struct{}{}
	}
	return &MockGateway{
		timeout:  timeout,
		declined: declined,
		now:      time.Now,
		receipts: make(map[string]Receipt),
		refunded: make(map[string]struct{}),
	}
}

func (g *MockGateway) Charge(ctx context.Context, req ChargeRequest) (*Receipt, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return nil, app_errors.Upstream(fmt.Errorf("payment gateway: %w", err))
	}
	if req.Amount < 0 {
		return nil, app_errors.ErrInvalidAmount
	}
	if req.Token == "" {
		return nil, app_errors.Validation("payment token is required")
	}
	if _, ok := g.declined[req.Token]; ok {
		return nil, app_errors.ErrPaymentDeclined
	}
	receipt := Receipt{
		ID:        "mock_" + uuid.NewString(),
		Amount:    req.Amount,
		ChargedAt: g.now().UTC(),
	}

	g.mu.Lock()
	g.receipts[receipt.ID] = receipt
	g.mu.Unlock()
	return &receipt, nil
}

// Refund reverses a charge. Refunding the same receipt twice is a no-op.
func (g *MockGateway) Refund(ctx context.Context, receiptID string) error {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return app_errors.Upstream(fmt.Errorf("payment gateway: %w", err))
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.receipts[receiptID]; !ok {
		return fmt.Errorf("%w: %s", app_errors.ErrReceiptNotFound, receiptID)
	}
	g.refunded[receiptID] = struct{}{}
	return nil
}

// Captured returns the receipts that were charged and not refunded.
func (g *MockGateway) Captured() []Receipt {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Receipt, 0, len(g.receipts))
	for id, r := range g.receipts {
		if _, ok := g.refunded[id]; !ok {
			out = append(out, r)
		}
	}
	return out
}

func (g *MockGateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout > 0 {
		return context.WithTimeout(ctx, g.timeout)
	}
	return ctx, func() {}
}
