package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path"

	"cms-backend/internal/infrastructure/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ObjectStore is the external store assets live in.
type ObjectStore interface {
	// Put stores data under key and returns the stored version.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Remove deletes key; storage.ErrObjectNotFound if it is absent.
	Remove(ctx context.Context, key string) error
}

// AssetClient is what the orchestrator needs from the asset layer.
type AssetClient interface {
	Upload(ctx context.Context, entity Entity, kind Kind, d Derivation, hasChanged bool) error
	Destroy(ctx context.Context, ref AssetRef)
}

// Assets uploads and destroys entity assets under
// "<namespace>/<kind>/<storage key>/<upload id>". Every upload gets its
// own object, so two rows never share one, whatever their names derive to.
type Assets struct {
	store     ObjectStore
	namespace string
	uploadID  func() string
}

type AssetsOption func(*Assets)

// WithUploadIDs replaces the uuid generator for the last key segment.
func WithUploadIDs(next func() string) AssetsOption {
	return func(a *Assets) { a.uploadID = next }
}

func NewAssets(store ObjectStore, namespace string, opts ...AssetsOption) *Assets {
	a := &Assets{store: store, namespace: namespace, uploadID: uuid.NewString}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ObjectKey is the object key of one upload of a kind's storage key.
func (a *Assets) ObjectKey(kind Kind, storageKey, uploadID string) string {
	return path.Join(a.namespace, string(kind), storageKey, uploadID)
}

// Upload stores the entity's payload and swaps it for the returned
// locator. Without a change signal, or without a payload, it makes no
// store call: re-uploading on metadata-only edits would rotate the
// locator.
func (a *Assets) Upload(ctx context.Context, entity Entity, kind Kind, d Derivation, hasChanged bool) error {
	ref := entity.Asset()
	if !hasChanged || !ref.IsPayload() {
		return nil
	}

	payload, err := ref.Decode()
	if err != nil {
		return err
	}
	if d.StorageKey == "" {
		return fmt.Errorf("%w: %s name yields no storage key", ErrValidation, kind)
	}

	key := a.ObjectKey(kind, d.StorageKey, a.uploadID())
	version, err := a.store.Put(ctx, key, payload.Data, payload.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrPayloadTooLarge) || errors.Is(err, storage.ErrInvalidImage) {
			return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		return fmt.Errorf("upload %s: %w", key, err)
	}

	entity.SetAsset(Locator(version, key))

	log.Debug().
		Str("kind", string(kind)).
		Str("key", key).
		Str("version", version).
		Msg("Asset uploaded")

	return nil
}

// Destroy removes the object behind ref. It never fails the caller: an
// absent object counts as removed, other errors are logged and dropped.
func (a *Assets) Destroy(ctx context.Context, ref AssetRef) {
	if ref.IsEmpty() || ref.IsPayload() {
		return
	}

	key := ref.ObjectKey()
	err := a.store.Remove(ctx, key)
	switch {
	case err == nil:
		log.Debug().Str("key", key).Msg("Asset destroyed")
	case errors.Is(err, storage.ErrObjectNotFound):
		log.Info().Str("key", key).Msg("Asset already absent")
	default:
		log.Error().Err(err).Str("key", key).Msg("Asset cleanup failed, object leaked")
	}
}
