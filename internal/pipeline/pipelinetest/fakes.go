// Package pipelinetest provides in-memory stand-ins for the object store and
// a repository, sharing one journal so tests can assert call order.
package pipelinetest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"cms-backend/internal/infrastructure/storage"
	"cms-backend/internal/pipeline"
	"cms-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Journal records side effects in the order they happened.
type Journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *Journal) Record(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// Filter returns entries starting with prefix.
func (j *Journal) Filter(prefix string) []string {
	var out []string
	for _, e := range j.Entries() {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// Store is an in-memory pipeline.ObjectStore.
type Store struct {
	mu      sync.Mutex
	journal *Journal
	objects map[string][]byte
	version int64

	PutErr    error
	RemoveErr error
}

func NewStore(j *Journal) *Store {
	return &Store{journal: j, objects: make(map[string][]byte), version: 1700000000}
}

func (s *Store) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.journal.Record("store.put %s", key)
	if s.PutErr != nil {
		return "", s.PutErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	s.objects[key] = append([]byte(nil), data...)
	return strconv.FormatInt(s.version, 10), nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.journal.Record("store.remove %s", key)
	if s.RemoveErr != nil {
		return s.RemoveErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(s.objects, key)
	return nil
}

func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

// Object returns the stored bytes under key.
func (s *Store) Object(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Seed places an object without journaling it.
func (s *Store) Seed(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
}

// Widget is a minimal entity: slug from the title, published when Live.
type Widget struct {
	ID    int64             `json:"id"`
	Title string            `json:"title"`
	Live  bool              `json:"live"`
	Slug  *string           `json:"slug"`
	Image pipeline.AssetRef `json:"image"`
}

func (w *Widget) Normalize() { w.Title = strings.TrimSpace(w.Title) }

func (w *Widget) Validate() error {
	return validation.ValidateStruct(w,
		validation.Field(&w.Title, validation.Required, validation.Length(1, 100)),
	)
}

func (w *Widget) SetID(id int64)              { w.ID = id }
func (w *Widget) Asset() pipeline.AssetRef     { return w.Image }
func (w *Widget) SetAsset(r pipeline.AssetRef) { w.Image = r }
func (w *Widget) SetSlug(s *string)            { w.Slug = s }

func DeriveWidget(w *Widget) pipeline.Derivation {
	slug := utils.GenerateSlug(w.Title)
	return pipeline.Derivation{Slug: slug, StorageKey: slug, Publish: w.Live}
}

const KindWidget pipeline.Kind = "widgets"

// RepoOptions describe how a kind behaves in memory.
type RepoOptions[T pipeline.Entity] struct {
	New  func() T
	Slug func(T) *string
	// Key returns a caller-supplied key; nil means serial keys.
	Key func(T) int64
	// Conflict reports whether two rows violate a uniqueness rule.
	Conflict func(a, b T) bool
}

// Repo is an in-memory pipeline.Repository. Rows are deep-copied through
// JSON so callers never alias stored state.
type Repo[T pipeline.Entity] struct {
	mu      sync.Mutex
	journal *Journal
	opts    RepoOptions[T]
	rows    map[int64]T
	nextID  int64

	ReadErr   error
	WriteErr  error
	DeleteErr error
	// VanishOnWrite drops the row after ReadOne, as a concurrent delete would.
	VanishOnWrite bool
}

func NewRepo[T pipeline.Entity](j *Journal, opts RepoOptions[T]) *Repo[T] {
	return &Repo[T]{journal: j, opts: opts, rows: make(map[int64]T), nextID: 1}
}

func (r *Repo[T]) clone(v T) T {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	out := r.opts.New()
	if err := json.Unmarshal(data, out); err != nil {
		panic(err)
	}
	return out
}

func (r *Repo[T]) conflicts(key int64, v T) bool {
	if r.opts.Conflict == nil {
		return false
	}
	for id, row := range r.rows {
		if id != key && r.opts.Conflict(row, v) {
			return true
		}
	}
	return false
}

func (r *Repo[T]) Create(_ context.Context, v T) (int64, error) {
	r.journal.Record("repo.create")
	if r.WriteErr != nil {
		return 0, r.WriteErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	if r.opts.Key != nil {
		id = r.opts.Key(v)
		if _, taken := r.rows[id]; taken {
			return 0, fmt.Errorf("insert %d: %w", id, pipeline.ErrDuplicateKey)
		}
	}
	if r.conflicts(-1, v) {
		return 0, fmt.Errorf("insert: %w", pipeline.ErrDuplicateKey)
	}
	if r.opts.Key == nil {
		r.nextID++
	}

	row := r.clone(v)
	row.SetID(id)
	r.rows[id] = row
	return id, nil
}

func (r *Repo[T]) ReadOne(_ context.Context, key int64) (T, bool, error) {
	var zero T
	r.journal.Record("repo.read %d", key)
	if r.ReadErr != nil {
		return zero, false, r.ReadErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[key]
	if !ok {
		return zero, false, nil
	}
	if r.VanishOnWrite {
		delete(r.rows, key)
	}
	return r.clone(row), true, nil
}

func (r *Repo[T]) ReadBySlug(_ context.Context, slug string) (T, bool, error) {
	var zero T
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if s := r.opts.Slug(row); s != nil && *s == slug {
			return r.clone(row), true, nil
		}
	}
	return zero, false, nil
}

func (r *Repo[T]) List(_ context.Context, params pipeline.ListParams) ([]T, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	items := []T{}
	for i, id := range ids {
		if i < params.Offset || len(items) >= params.Limit {
			continue
		}
		items = append(items, r.clone(r.rows[id]))
	}
	return items, int64(len(ids)), nil
}

func (r *Repo[T]) Update(_ context.Context, key int64, v T) (int64, error) {
	r.journal.Record("repo.update %d", key)
	if r.WriteErr != nil {
		return 0, r.WriteErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[key]; !ok {
		return 0, nil
	}
	if r.conflicts(key, v) {
		return 0, pipeline.ErrDuplicateKey
	}
	row := r.clone(v)
	row.SetID(key)
	r.rows[key] = row
	return 1, nil
}

func (r *Repo[T]) Delete(_ context.Context, key int64) (int64, error) {
	r.journal.Record("repo.delete %d", key)
	if r.DeleteErr != nil {
		return 0, r.DeleteErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[key]; !ok {
		return 0, nil
	}
	delete(r.rows, key)
	return 1, nil
}

// Row returns a copy of the stored row.
func (r *Repo[T]) Row(key int64) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[key]
	if !ok {
		var zero T
		return zero, false
	}
	return r.clone(row), true
}

func (r *Repo[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// Notifier records creation events.
type Notifier struct {
	mu     sync.Mutex
	Events []pipeline.Event
	Err    error
}

func (n *Notifier) EntityCreated(_ context.Context, e pipeline.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Events = append(n.Events, e)
	return nil
}

// Fixture wires an orchestrator over the fakes.
type Fixture[T pipeline.Entity] struct {
	Journal      *Journal
	Store        *Store
	Repo         *Repo[T]
	Notifier     *Notifier
	Assets       *pipeline.Assets
	Orchestrator *pipeline.Orchestrator[T]
}

// NewKindFixture wires desc over the fakes; desc.Repo is replaced by an
// in-memory repository built from opts.
func NewKindFixture[T pipeline.Entity](desc pipeline.Descriptor[T], opts RepoOptions[T]) *Fixture[T] {
	j := &Journal{}
	opts.New = desc.New
	f := &Fixture[T]{
		Journal:  j,
		Store:    NewStore(j),
		Repo:     NewRepo(j, opts),
		Notifier: &Notifier{},
	}
	desc.Repo = f.Repo
	f.Assets = pipeline.NewAssets(f.Store, "test", pipeline.WithUploadIDs(Sequence()))
	f.Orchestrator = pipeline.NewOrchestrator(desc, f.Assets, pipeline.WithNotifier[T](f.Notifier))
	return f
}

// NewFixture wires a Widget orchestrator with unique titles.
func NewFixture() *Fixture[*Widget] {
	return NewKindFixture(pipeline.Descriptor[*Widget]{
		Kind:   KindWidget,
		Name:   "widget",
		New:    func() *Widget { return &Widget{} },
		Derive: DeriveWidget,
	}, RepoOptions[*Widget]{
		Slug:     func(w *Widget) *string { return w.Slug },
		Conflict: func(a, b *Widget) bool { return a.Title == b.Title },
	})
}

// Sequence returns "1", "2", ... on successive calls.
func Sequence() func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return strconv.Itoa(n)
	}
}

// DataURI builds a base64 data URI around data.
func DataURI(contentType string, data []byte) pipeline.AssetRef {
	return pipeline.AssetRef("data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data))
}
