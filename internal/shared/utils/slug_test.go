package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Manchester 2020":          "manchester-2020",
		"  Leading and trailing  ": "leading-and-trailing",
		"Q&A: Night!":              "qa-night",
		"Zoë Núñez":                "zoe-nunez",
		"Nguyễn Nhật Ánh":          "nguyen-nhat-anh",
		"Đặng Thị":                 "dang-thi",
		"a -- b":                   "a-b",
		"Tabs\tand\nnewlines":      "tabs-and-newlines",
		"---":                      "",
		"":                         "",
	}

	for in, want := range cases {
		assert.Equal(t, want, GenerateSlug(in), "input %q", in)
	}
}

func TestJoinSlug(t *testing.T) {
	assert.Equal(t, "manchester-2020-2020-03-01", JoinSlug("Manchester 2020", "2020-03-01"))
	assert.Equal(t, "42-jane-doe", JoinSlug("42", "Jane Doe"))
	assert.Equal(t, "only", JoinSlug("", "Only", "   "))
}

func TestRemoveDiacritics(t *testing.T) {
	assert.Equal(t, "Cafe creme", RemoveDiacritics("Café crème"))
	assert.Equal(t, "strasse", RemoveDiacritics("straße"))
}
