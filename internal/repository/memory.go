package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stridelab/metronome/internal/model"
)

// In-memory repository implementations, selected once at startup when no
// persistent store is reachable and DEV_ALLOW_MEMORY permits it. All state is
// process-local and lost on restart; every read-modify-write runs under the
// repository mutex because requests are handled concurrently.

type memoryAuthCodeRepository struct {
	mu    sync.Mutex
	codes []model.AuthCode
}

func NewMemoryAuthCodeRepository() AuthCodeRepository {
	return &memoryAuthCodeRepository{}
}

func (r *memoryAuthCodeRepository) Create(code *model.AuthCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if code.ID == "" {
		code.ID = uuid.New().String()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}
	r.codes = append(r.codes, *code)
	return nil
}

func (r *memoryAuthCodeRepository) Find(email, code string) (*model.AuthCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Newest match wins, mirroring the SQL ORDER BY created_at DESC
	for i := len(r.codes) - 1; i >= 0; i-- {
		if r.codes[i].Email == email && r.codes[i].Code == code {
			c := r.codes[i]
			return &c, nil
		}
	}
	return nil, ErrAuthCodeNotFound
}

func (r *memoryAuthCodeRepository) Consume(email, code string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var kept []model.AuthCode
	var removed int64
	for _, c := range r.codes {
		if c.Email == email && c.Code == code {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	r.codes = kept
	return removed, nil
}

type memoryEntitlementRepository struct {
	mu           sync.Mutex
	entitlements []model.Entitlement
}

func NewMemoryEntitlementRepository() EntitlementRepository {
	return &memoryEntitlementRepository{}
}

func (r *memoryEntitlementRepository) Create(ent *model.Entitlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ent.ID == "" {
		ent.ID = uuid.New().String()
	}
	if ent.CreatedAt.IsZero() {
		ent.CreatedAt = time.Now()
	}
	r.entitlements = append(r.entitlements, *ent)
	return nil
}

func (r *memoryEntitlementRepository) ByPaymentIntentID(paymentIntentID string) (*model.Entitlement, error) {
	return r.find(func(e *model.Entitlement) bool {
		return e.StripePaymentIntentID != nil && *e.StripePaymentIntentID == paymentIntentID
	})
}

func (r *memoryEntitlementRepository) ByEmail(email string) (*model.Entitlement, error) {
	return r.find(func(e *model.Entitlement) bool {
		return e.Email != nil && *e.Email == email
	})
}

func (r *memoryEntitlementRepository) ByUserID(userID string) (*model.Entitlement, error) {
	return r.find(func(e *model.Entitlement) bool {
		return e.UserID != nil && *e.UserID == userID
	})
}

func (r *memoryEntitlementRepository) find(match func(*model.Entitlement) bool) (*model.Entitlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.entitlements) - 1; i >= 0; i-- {
		if match(&r.entitlements[i]) {
			e := r.entitlements[i]
			return &e, nil
		}
	}
	return nil, ErrEntitlementNotFound
}

type memoryProfileRepository struct {
	mu       sync.Mutex
	profiles []model.RunnerProfile
}

func NewMemoryProfileRepository() ProfileRepository {
	return &memoryProfileRepository{}
}

func (r *memoryProfileRepository) Create(profile *model.RunnerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	r.profiles = append(r.profiles, *profile)
	return nil
}

func (r *memoryProfileRepository) List(limit int) ([]model.RunnerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []model.RunnerProfile{}
	for i := len(r.profiles) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.profiles[i])
	}
	return out, nil
}

type memorySessionRepository struct {
	mu       sync.Mutex
	sessions []model.WorkoutSession
}

func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{}
}

func (r *memorySessionRepository) Create(session *model.WorkoutSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	r.sessions = append(r.sessions, *session)
	return nil
}

func (r *memorySessionRepository) List(limit int) ([]model.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []model.WorkoutSession{}
	for i := len(r.sessions) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.sessions[i])
	}
	return out, nil
}
