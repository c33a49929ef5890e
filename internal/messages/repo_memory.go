package messages

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	nextID   int64
	messages map[int64]Message
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{messages: make(map[int64]Message)}
}

func (r *MemoryRepo) Create(ctx context.Context, m Message) (Message, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	m.CreatedAt = time.Now().UTC()
	r.messages[m.ID] = m
	return m, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Message, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.messages[id]
	if !ok {
		return Message{}, ErrNotFound
	}
	return m, nil
}

func (r *MemoryRepo) ListForUser(ctx context.Context, userID int64, offset, limit int) ([]Message, error) {
	return r.filter(ctx, offset, limit, func(m Message) bool {
		return m.SenderID == userID || (m.RecipientID != nil && *m.RecipientID == userID)
	})
}

func (r *MemoryRepo) ListForApplicant(ctx context.Context, applicantID int64, offset, limit int) ([]Message, error) {
	return r.filter(ctx, offset, limit, func(m Message) bool {
		return m.ApplicantID != nil && *m.ApplicantID == applicantID
	})
}

func (r *MemoryRepo) MarkRead(ctx context.Context, id int64, at time.Time) (Message, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return Message{}, ErrNotFound
	}
	if m.ReadAt == nil {
		m.ReadAt = &at
		r.messages[id] = m
	}
	return m, nil
}

func (r *MemoryRepo) filter(ctx context.Context, offset, limit int, keep func(Message) bool) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Message{}
	for _, m := range r.messages {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if offset >= len(out) {
		return []Message{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}
