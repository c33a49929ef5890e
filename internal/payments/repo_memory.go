package payments

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	nextID   int64
	payments map[int64]Payment
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{payments: make(map[int64]Payment)}
}

func (r *MemoryRepo) Create(ctx context.Context, p Payment) (Payment, error) {
	if err := ctx.Err(); err != nil {
		return Payment{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := time.Now().UTC()
	p.ID = r.nextID
	p.CreatedAt = now
	p.UpdatedAt = now
	r.payments[p.ID] = p
	return p, nil
}

func (r *MemoryRepo) AttachCheckout(ctx context.Context, id int64, sessionID, intentID string) (Payment, error) {
	if err := ctx.Err(); err != nil {
		return Payment{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return Payment{}, ErrNotFound
	}
	p.CheckoutSessionID = &sessionID
	if intentID != "" {
		p.PaymentIntentID = &intentID
	}
	p.UpdatedAt = time.Now().UTC()
	r.payments[id] = p
	return p, nil
}

func (r *MemoryRepo) GetByCheckoutSession(ctx context.Context, sessionID string) (Payment, error) {
	if err := ctx.Err(); err != nil {
		return Payment{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.payments {
		if p.CheckoutSessionID != nil && *p.CheckoutSessionID == sessionID {
			return p, nil
		}
	}
	return Payment{}, ErrNotFound
}

func (r *MemoryRepo) MarkSucceeded(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return false, ErrNotFound
	}
	if p.Status == StatusSucceeded {
		return false, nil
	}
	p.Status = StatusSucceeded
	p.UpdatedAt = time.Now().UTC()
	r.payments[id] = p
	return true, nil
}

func (r *MemoryRepo) SumSucceeded(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total int64
	for _, p := range r.payments {
		if p.Status == StatusSucceeded {
			total += p.AmountCents
		}
	}
	return total, nil
}

// Get returns a payment by id.
func (r *MemoryRepo) Get(id int64) (Payment, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[id]
	return p, ok
}
