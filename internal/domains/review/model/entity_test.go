package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		rating string
		want   string
	}{
		{"4.5", "4-5-jo-bloggs"},
		{"4", "4-jo-bloggs"},
		{"0", "0-jo-bloggs"},
	}

	for _, tt := range tests {
		t.Run(tt.rating, func(t *testing.T) {
			r := &Review{Rating: decimal.RequireFromString(tt.rating), RefereeName: "Jo Bloggs"}
			d := Derive(r)
			assert.Equal(t, tt.want, d.Slug)
			assert.Equal(t, tt.want, d.StorageKey)
			assert.True(t, d.Publish)
		})
	}
}

func TestValidateRating(t *testing.T) {
	tests := []struct {
		rating  string
		wantErr bool
	}{
		{"0", false},
		{"3.5", false},
		{"5", false},
		{"5.5", true},
		{"-0.5", true},
		{"4.25", true},
	}

	for _, tt := range tests {
		t.Run(tt.rating, func(t *testing.T) {
			r := &Review{Rating: decimal.RequireFromString(tt.rating), RefereeName: "A", Body: "Great"}
			if tt.wantErr {
				assert.Error(t, r.Validate())
			} else {
				assert.NoError(t, r.Validate())
			}
		})
	}
}

func TestRatingAcceptsNumberOrString(t *testing.T) {
	var r Review
	require.NoError(t, json.Unmarshal([]byte(`{"rating": 4.5, "refereeName": "A"}`), &r))
	assert.Equal(t, "4.5", r.Rating.String())

	require.NoError(t, json.Unmarshal([]byte(`{"rating": "3"}`), &r))
	assert.Equal(t, "3", r.Rating.String())
}
