package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Descriptor binds an entity kind to its constructor, deriver and storage.
type Descriptor[T Entity] struct {
	Kind Kind
	// Name is the singular kind name, used as the envelope key of update
	// bodies ("session", "article", ...).
	Name   string
	New    func() T
	Derive func(T) Derivation
	Repo   Repository[T]
}

// CreateResult is returned by Create. Slug is nil for unpublished entities.
type CreateResult struct {
	ID   int64   `json:"id"`
	Slug *string `json:"slug,omitempty"`
}

// Orchestrator runs the create/update/delete pipelines for one kind. The
// row write is the commit point: assets are uploaded before it and
// destroyed only after it succeeded. An upload whose row write fails is
// removed again.
//
// Two concurrent updates of the same key are not serialized; each may
// destroy what it read as the previous asset.
type Orchestrator[T Entity] struct {
	desc     Descriptor[T]
	assets   AssetClient
	notifier Notifier
}

type Option[T Entity] func(*Orchestrator[T])

// WithNotifier sets where creation events go. Defaults to nowhere.
func WithNotifier[T Entity](n Notifier) Option[T] {
	return func(o *Orchestrator[T]) {
		if n != nil {
			o.notifier = n
		}
	}
}

func NewOrchestrator[T Entity](desc Descriptor[T], assets AssetClient, opts ...Option[T]) *Orchestrator[T] {
	o := &Orchestrator[T]{
		desc:     desc,
		assets:   assets,
		notifier: nopNotifier{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator[T]) Kind() Kind { return o.desc.Kind }

func (o *Orchestrator[T]) Name() string { return o.desc.Name }

// New returns a zero entity of the orchestrated kind.
func (o *Orchestrator[T]) New() T { return o.desc.New() }

// Create: derive -> upload -> insert -> notify.
func (o *Orchestrator[T]) Create(ctx context.Context, entity T) (*CreateResult, error) {
	entity.Normalize()
	if err := entity.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if ref := entity.Asset(); !ref.IsEmpty() && !ref.IsPayload() {
		return nil, fmt.Errorf("%w: new %s must carry a data URI or nothing", ErrInvalidPayload, o.desc.Name)
	}

	d := o.derive(entity)

	if err := o.assets.Upload(ctx, entity, o.desc.Kind, d, true); err != nil {
		return nil, fmt.Errorf("create %s: %w", o.desc.Name, err)
	}

	id, err := o.desc.Repo.Create(ctx, entity)
	if err != nil {
		// The object was uploaded under a fresh key; nothing else points at it.
		o.assets.Destroy(ctx, entity.Asset())
		if errors.Is(err, ErrDuplicateKey) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("create %s: %w", o.desc.Name, err)
	}

	result := &CreateResult{ID: id, Slug: publishedSlug(d)}

	if err := o.notifier.EntityCreated(ctx, Event{Kind: o.desc.Kind, ID: id, Slug: result.Slug}); err != nil {
		log.Warn().Err(err).
			Str("kind", string(o.desc.Kind)).
			Int64("id", id).
			Msg("Failed to enqueue creation event")
	}

	log.Info().
		Str("kind", string(o.desc.Kind)).
		Int64("id", id).
		Msg("Entity created")

	return result, nil
}

// Update: read -> validate -> derive -> upload -> update row -> destroy
// previous asset.
//
// With assetChanged false the stored reference is carried over whatever
// the caller sent, so the asset is neither uploaded nor destroyed.
func (o *Orchestrator[T]) Update(ctx context.Context, key int64, entity T, assetChanged bool) (*string, error) {
	existing, found, err := o.desc.Repo.ReadOne(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s %d: %w", o.desc.Name, key, err)
	}
	if !found {
		return nil, ErrNotFound
	}
	previous := existing.Asset()

	entity.SetID(key)
	entity.Normalize()
	if err := entity.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	d := o.derive(entity)

	if !assetChanged {
		entity.SetAsset(previous)
	} else {
		ref := entity.Asset()
		if !ref.IsEmpty() && !ref.IsPayload() && ref != previous {
			return nil, fmt.Errorf("%w: changed %s asset must be a data URI or empty", ErrInvalidPayload, o.desc.Name)
		}
		if err := o.assets.Upload(ctx, entity, o.desc.Kind, d, true); err != nil {
			return nil, fmt.Errorf("update %s %d: %w", o.desc.Name, key, err)
		}
	}

	replaced := assetChanged && entity.Asset() != previous

	affected, err := o.desc.Repo.Update(ctx, key, entity)
	if err == nil && affected == 0 {
		err = ErrNotFound
	}
	if err != nil {
		if replaced {
			o.assets.Destroy(ctx, entity.Asset())
		}
		if errors.Is(err, ErrDuplicateKey) || errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update %s %d: %w", o.desc.Name, key, err)
	}

	if replaced {
		o.assets.Destroy(ctx, previous)
	}

	log.Info().
		Str("kind", string(o.desc.Kind)).
		Int64("id", key).
		Bool("asset_changed", assetChanged).
		Msg("Entity updated")

	return publishedSlug(d), nil
}

// Delete: read -> destroy asset -> delete row. A failed destroy does not
// stop the row delete.
func (o *Orchestrator[T]) Delete(ctx context.Context, key int64) error {
	existing, found, err := o.desc.Repo.ReadOne(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s %d: %w", o.desc.Name, key, err)
	}
	if !found {
		return ErrNotFound
	}

	o.assets.Destroy(ctx, existing.Asset())

	affected, err := o.desc.Repo.Delete(ctx, key)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", o.desc.Name, key, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	log.Info().
		Str("kind", string(o.desc.Kind)).
		Int64("id", key).
		Msg("Entity deleted")

	return nil
}

func (o *Orchestrator[T]) Get(ctx context.Context, key int64) (T, error) {
	entity, found, err := o.desc.Repo.ReadOne(ctx, key)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("read %s %d: %w", o.desc.Name, key, err)
	}
	if !found {
		var zero T
		return zero, ErrNotFound
	}
	return entity, nil
}

func (o *Orchestrator[T]) GetBySlug(ctx context.Context, slug string) (T, error) {
	entity, found, err := o.desc.Repo.ReadBySlug(ctx, slug)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("read %s by slug: %w", o.desc.Name, err)
	}
	if !found {
		var zero T
		return zero, ErrNotFound
	}
	return entity, nil
}

func (o *Orchestrator[T]) List(ctx context.Context, params ListParams) ([]T, int64, error) {
	items, total, err := o.desc.Repo.List(ctx, params.Normalize())
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", o.desc.Kind, err)
	}
	return items, total, nil
}

func (o *Orchestrator[T]) derive(entity T) Derivation {
	d := o.desc.Derive(entity)
	entity.SetSlug(publishedSlug(d))
	return d
}

func publishedSlug(d Derivation) *string {
	if !d.Publish || d.Slug == "" {
		return nil
	}
	s := d.Slug
	return &s
}
