package payment

import (
	"SkillTrack/internal/app_errors"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGatewayCharge(t *testing.T) {
	g := NewMockGateway(time.Second, []string{"tok_declined"})
	base := ChargeRequest{StudentID: uuid.New(), CourseID: uuid.New(), Amount: 1500}

	tests := []struct {
		name    string
		token   string
		amount  int64
		wantErr error
	}{
		{name: "approved", token: "tok_ok", amount: 1500},
		{name: "free course", token: "tok_ok", amount: 0},
		{name: "declined", token: "tok_declined", amount: 1500, wantErr: app_errors.ErrPaymentDeclined},
		{name: "negative", token: "tok_ok", amount: -1, wantErr: app_errors.ErrInvalidAmount},
		{name: "no token", amount: 10, wantErr: app_errors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			req.Token = tt.token
			req.Amount = tt.amount
			receipt, err := g.Charge(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.amount, receipt.Amount)
			assert.NotEmpty(t, receipt.ID)
		})
	}
}

func TestMockGatewayCancelledContext(t *testing.T) {
	g := NewMockGateway(0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Charge(ctx, ChargeRequest{Amount: 1, Token: "t"})
	assert.True(t, app_errors.Retryable(err))
}

func TestMockGatewayRefund(t *testing.T) {
	ctx := context.Background()
	g := NewMockGateway(time.Second, nil)

	kept, err := g.Charge(ctx, ChargeRequest{Amount: 700, Token: "tok_ok"})
	require.NoError(t, err)
	reversed, err := g.Charge(ctx, ChargeRequest{Amount: 700, Token: "tok_ok"})
	require.NoError(t, err)
	assert.Len(t, g.Captured(), 2)

	require.NoError(t, g.Refund(ctx, reversed.ID))
	require.NoError(t, g.Refund(ctx, reversed.ID))

	captured := g.Captured()
	require.Len(t, captured, 1)
	assert.Equal(t, kept.ID, captured[0].ID)

	err = g.Refund(ctx, "mock_unknown")
	assert.ErrorIs(t, err, app_errors.ErrReceiptNotFound)
}
