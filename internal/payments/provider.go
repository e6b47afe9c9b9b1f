package payments

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// CheckoutParams describes what the provider needs to host a checkout page
type CheckoutParams struct {
	UserID    string
	SeatIDs   []string
	Amount    float64
	ExpiresAt time.Time
}

// CheckoutSession is the provider's handle for a hosted payment page
type CheckoutSession struct {
	ID          string
	CheckoutURL string
}

// Provider abstracts the hosted payment gateway. Production would plug a
// real gateway client in here; the stub provider stands in for local and
// test environments.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
}

// StubProvider fabricates checkout sessions without contacting a gateway.
// Payments against it complete only via an explicitly posted webhook, which
// is how the end-to-end flow is exercised in development.
type StubProvider struct {
	baseURL string
}

func NewStubProvider(baseURL string) *StubProvider {
	return &StubProvider{baseURL: strings.TrimRight(baseURL, "/")}
}

func (p *StubProvider) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	sessionID := "cs_" + hex.EncodeToString(raw)
	return &CheckoutSession{
		ID:          sessionID,
		CheckoutURL: fmt.Sprintf("%s/pay/%s", p.baseURL, sessionID),
	}, nil
}
