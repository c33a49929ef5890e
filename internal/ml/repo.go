package ml

import (
	"context"
	"database/sql"
	"sync"
	"time"
)

type Repo interface {
	// Upsert writes c over any consent with the same key. Withdrawing
	// consent stamps revoked_at.
	Upsert(ctx context.Context, c Consent) error
	// HasConsent reports whether any version of consent is currently given
	// for the user and applicant.
	HasConsent(ctx context.Context, userID int64, applicantID *int64) (bool, error)
}

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, c Consent) error {
	const query = `
INSERT INTO ml_training_consents (user_id, applicant_id, consent_given, version, consented_at, revoked_at)
VALUES ($1, $2, $3, $4, now(), CASE WHEN $3 THEN NULL ELSE now() END)
ON CONFLICT (user_id, (COALESCE(applicant_id, 0)), version) DO UPDATE
SET consent_given = EXCLUDED.consent_given,
    revoked_at = CASE WHEN EXCLUDED.consent_given THEN ml_training_consents.revoked_at ELSE now() END`
	_, err := r.DB.ExecContext(ctx, query, c.UserID, nullableInt64(c.ApplicantID), c.ConsentGiven, c.Version)
	return err
}

func (r *PGRepo) HasConsent(ctx context.Context, userID int64, applicantID *int64) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM ml_training_consents
    WHERE user_id = $1
      AND applicant_id IS NOT DISTINCT FROM $2
      AND consent_given
)`
	var ok bool
	err := r.DB.QueryRowContext(ctx, query, userID, nullableInt64(applicantID)).Scan(&ok)
	return ok, err
}

func nullableInt64(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

type consentKey struct {
	userID      int64
	applicantID int64
	version     string
}

type MemoryRepo struct {
	mu       sync.RWMutex
	nextID   int64
	consents map[consentKey]Consent
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{consents: make(map[consentKey]Consent)}
}

func keyOf(userID int64, applicantID *int64, version string) consentKey {
	k := consentKey{userID: userID, version: version}
	if applicantID != nil {
		k.applicantID = *applicantID
	}
	return k
}

func (r *MemoryRepo) Upsert(ctx context.Context, c Consent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	k := keyOf(c.UserID, c.ApplicantID, c.Version)
	existing, ok := r.consents[k]
	if !ok {
		r.nextID++
		c.ID = r.nextID
		c.ConsentedAt = now
		if !c.ConsentGiven {
			c.RevokedAt = &now
		}
		r.consents[k] = c
		return nil
	}
	existing.ConsentGiven = c.ConsentGiven
	if !c.ConsentGiven {
		existing.RevokedAt = &now
	}
	r.consents[k] = existing
	return nil
}

func (r *MemoryRepo) HasConsent(ctx context.Context, userID int64, applicantID *int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.consents {
		if c.UserID != userID || !c.ConsentGiven {
			continue
		}
		if (c.ApplicantID == nil) != (applicantID == nil) {
			continue
		}
		if c.ApplicantID != nil && *c.ApplicantID != *applicantID {
			continue
		}
		return true, nil
	}
	return false, nil
}
