package pipeline

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Kind names an entity kind. It doubles as the URL segment and as the
// middle component of asset object keys.
type Kind string

const (
	KindSession   Kind = "sessions"
	KindCandidate Kind = "candidates"
	KindMember    Kind = "members"
	KindReview    Kind = "reviews"
	KindArticle   Kind = "articles"
	KindDocument  Kind = "documents"
)

// Entity is a record that owns at most one asset.
type Entity interface {
	// Normalize trims the human-entered fields in place.
	Normalize()
	// Validate checks field constraints (ozzo-validation).
	Validate() error

	// SetID pins the row key, so update derivations use the addressed key
	// rather than whatever the body carried.
	SetID(int64)

	Asset() AssetRef
	SetAsset(AssetRef)
	// SetSlug stores the published slug; nil means not externally resolvable.
	SetSlug(*string)
}

// Derivation is the output of a kind's deriver. Derivers are pure.
type Derivation struct {
	Slug       string
	StorageKey string
	// Publish is false when the kind's publish condition does not hold;
	// the slug is then nulled before the row is written.
	Publish bool
}

// AssetRef holds either an upload payload (a data URI) or the locator of a
// stored object ("v<version>/<object key>"). Empty means no asset.
type AssetRef string

const dataURIPrefix = "data:"

func (r AssetRef) IsEmpty() bool { return strings.TrimSpace(string(r)) == "" }

// IsPayload reports whether the reference carries raw upload data.
func (r AssetRef) IsPayload() bool { return strings.HasPrefix(string(r), dataURIPrefix) }

// Payload is a decoded data URI.
type Payload struct {
	ContentType string
	Data        []byte
}

// Decode parses "data:<mime>[;param]*;base64,<data>".
func (r AssetRef) Decode() (*Payload, error) {
	if !r.IsPayload() {
		return nil, fmt.Errorf("%w: not a data URI", ErrInvalidPayload)
	}

	header, encoded, ok := strings.Cut(strings.TrimPrefix(string(r), dataURIPrefix), ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing data separator", ErrInvalidPayload)
	}

	params := strings.Split(header, ";")
	if params[len(params)-1] != "base64" {
		return nil, fmt.Errorf("%w: only base64 data URIs are accepted", ErrInvalidPayload)
	}

	contentType := params[0]
	if contentType == "" || len(params) == 1 {
		contentType = "application/octet-stream"
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidPayload)
	}

	return &Payload{ContentType: contentType, Data: data}, nil
}

// Locator builds the stored reference for an object written at version.
func Locator(version, objectKey string) AssetRef {
	return AssetRef("v" + version + "/" + objectKey)
}

// ObjectKey extracts the store-internal object key from a locator. A
// reference without a version prefix is taken to be a bare key.
func (r AssetRef) ObjectKey() string {
	s := string(r)
	if len(s) > 1 && s[0] == 'v' {
		if version, key, ok := strings.Cut(s[1:], "/"); ok && isDigits(version) {
			return key
		}
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
