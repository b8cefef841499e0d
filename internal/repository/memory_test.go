package repository

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stridelab/metronome/internal/model"
)

func TestMemoryAuthCodeRepository_Consume(t *testing.T) {
	repo := NewMemoryAuthCodeRepository()

	require.NoError(t, repo.Create(&model.AuthCode{Email: "a@b.com", Code: "123456", ExpiresInMin: 10}))
	require.NoError(t, repo.Create(&model.AuthCode{Email: "a@b.com", Code: "123456", ExpiresInMin: 10}))
	require.NoError(t, repo.Create(&model.AuthCode{Email: "a@b.com", Code: "654321", ExpiresInMin: 10}))

	removed, err := repo.Consume("a@b.com", "123456")
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed, "all matching records are consumed together")

	_, err = repo.Find("a@b.com", "123456")
	assert.ErrorIs(t, err, ErrAuthCodeNotFound)

	// The other code is untouched
	_, err = repo.Find("a@b.com", "654321")
	assert.NoError(t, err)
}

// Concurrent consumption of one code succeeds for exactly one caller.
func TestMemoryAuthCodeRepository_ConsumeConcurrent(t *testing.T) {
	repo := NewMemoryAuthCodeRepository()
	require.NoError(t, repo.Create(&model.AuthCode{Email: "a@b.com", Code: "123456", ExpiresInMin: 10}))

	const goroutines = 16
	var wg sync.WaitGroup
	results := make(chan int64, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			removed, err := repo.Consume("a@b.com", "123456")
			assert.NoError(t, err)
			results <- removed
		}()
	}
	wg.Wait()
	close(results)

	var total int64
	for n := range results {
		total += n
	}
	assert.EqualValues(t, 1, total)
}

func TestMemoryEntitlementRepository_Lookups(t *testing.T) {
	repo := NewMemoryEntitlementRepository()

	email := "pro@example.com"
	pi := "pi_123"
	require.NoError(t, repo.Create(&model.Entitlement{
		Email:                 &email,
		ProActive:             true,
		Source:                model.EntitlementSourceStripe,
		StripePaymentIntentID: &pi,
	}))

	ent, err := repo.ByPaymentIntentID("pi_123")
	require.NoError(t, err)
	assert.Equal(t, email, *ent.Email)

	ent, err = repo.ByEmail(email)
	require.NoError(t, err)
	assert.Equal(t, pi, *ent.StripePaymentIntentID)

	_, err = repo.ByUserID("nobody")
	assert.ErrorIs(t, err, ErrEntitlementNotFound)
}

func TestMemoryListRepositories_LimitAndOrder(t *testing.T) {
	profiles := NewMemoryProfileRepository()
	for _, id := range []string{"first", "second", "third"} {
		require.NoError(t, profiles.Create(&model.RunnerProfile{UserID: id, PreferredUnit: "min_per_km"}))
	}

	got, err := profiles.List(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Newest first, mirroring the SQL ORDER BY created_at DESC
	assert.Equal(t, "third", got[0].UserID)
	assert.Equal(t, "second", got[1].UserID)
}
