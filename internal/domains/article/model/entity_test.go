package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	a := &Article{AuthorID: 7, Title: "Why Votes Matter!", Status: "draft"}

	d := Derive(a)
	assert.Equal(t, "why-votes-matter", d.Slug)
	assert.Equal(t, "7-why-votes-matter", d.StorageKey)
	assert.False(t, d.Publish)

	a.Status = "Published"
	assert.True(t, Derive(a).Publish)
}

func TestNormalize_DefaultsToDraft(t *testing.T) {
	a := &Article{AuthorID: 1, Title: " Hello "}
	a.Normalize()

	assert.Equal(t, "Hello", a.Title)
	assert.Equal(t, StatusDraft, a.Status)
	assert.NoError(t, a.Validate())
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&Article{Title: "No author", Status: StatusDraft}).Validate())
	assert.Error(t, (&Article{AuthorID: 1, Title: "X", Status: "ARCHIVED"}).Validate())
	assert.NoError(t, (&Article{AuthorID: 1, Title: "X", Status: StatusPublished}).Validate())
}
