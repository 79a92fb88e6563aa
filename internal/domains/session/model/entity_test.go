package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	s := &Session{Title: "Manchester 2020", DateHeld: "2020-03-01"}

	d := Derive(s)
	assert.Equal(t, "manchester-2020-2020-03-01", d.Slug)
	assert.Equal(t, d.Slug, d.StorageKey)
	assert.True(t, d.Publish)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		wantErr bool
	}{
		{name: "valid", session: Session{Title: "Leeds", DateHeld: "2021-11-30"}},
		{name: "missing title", session: Session{DateHeld: "2021-11-30"}, wantErr: true},
		{name: "bad date", session: Session{Title: "Leeds", DateHeld: "30/11/2021"}, wantErr: true},
		{name: "missing date", session: Session{Title: "Leeds"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.session.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
