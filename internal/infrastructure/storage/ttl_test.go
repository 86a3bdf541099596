package storage_test

import (
	"testing"
	"time"

	"llmtracer/backend/internal/infrastructure/storage"

	"github.com/stretchr/testify/assert"
)

func TestExpiryEpoch_UsesGivenDays(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	got := storage.ExpiryEpoch(30, now)
	want := now.Add(30 * 24 * time.Hour).Unix()
	assert.Equal(t, want, got)
}

func TestExpiryEpoch_NonPositiveDaysFallsBackToDefault(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	want := now.Add(90 * 24 * time.Hour).Unix()

	assert.Equal(t, want, storage.ExpiryEpoch(0, now))
	assert.Equal(t, want, storage.ExpiryEpoch(-5, now))
}
