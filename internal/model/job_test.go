package model_test

import (
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"secure-print-release/internal/model"
	"testing"
	"time"
)

func TestCalculateCost(t *testing.T) {
	base := decimal.RequireFromString("0.10")

	tests := []struct {
		name     string
		options  model.PrintOptions
		expected string
	}{
		{"single page", model.PrintOptions{Pages: 1, Copies: 1}, "0.10"},
		{"color doubles", model.PrintOptions{Pages: 3, Copies: 2, Color: true}, "1.20"},
		{"duplex discount", model.PrintOptions{Pages: 3, Copies: 2, Duplex: true}, "0.48"},
		{"color and duplex", model.PrintOptions{Pages: 3, Copies: 2, Color: true, Duplex: true}, "0.96"},
		{"rounded to cents", model.PrintOptions{Pages: 1, Copies: 1, Duplex: true}, "0.08"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost := model.CalculateCost(base, tt.options)
			assert.Equal(t, tt.expected, cost.StringFixed(2))
		})
	}
}

func TestJob_DurableDeadline(t *testing.T) {
	submitted := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	hours := 2

	job := &model.Job{SubmittedAt: submitted, ExpiresAt: submitted.Add(15 * time.Minute)}
	assert.Equal(t, submitted.Add(15*time.Minute), job.DurableDeadline(24))

	job = &model.Job{SubmittedAt: submitted, ExpiresAt: submitted.Add(48 * time.Hour)}
	assert.Equal(t, submitted.Add(24*time.Hour), job.DurableDeadline(24))

	job = &model.Job{SubmittedAt: submitted, ExpiresAt: submitted.Add(48 * time.Hour), ExpiryHours: &hours}
	assert.Equal(t, submitted.Add(2*time.Hour), job.DurableDeadline(24))

	job = &model.Job{SubmittedAt: submitted}
	assert.Equal(t, submitted.Add(24*time.Hour), job.DurableDeadline(24))
}

func TestDocument_HasValidEnvelope(t *testing.T) {
	assert.True(t, (&model.Document{IsEncrypted: false}).HasValidEnvelope())
	assert.True(t, (&model.Document{IsEncrypted: true, IV: make([]byte, 16), AuthTag: make([]byte, 16)}).HasValidEnvelope())
	assert.False(t, (&model.Document{IsEncrypted: true, IV: make([]byte, 12), AuthTag: make([]byte, 16)}).HasValidEnvelope())
	assert.False(t, (&model.Document{IsEncrypted: true}).HasValidEnvelope())
}

func TestAlreadyViewedError(t *testing.T) {
	err := &model.AlreadyViewedError{ViewCount: 1}
	assert.ErrorIs(t, err, model.ErrAlreadyViewed)
	assert.Contains(t, err.Error(), "viewCount=1")
}
