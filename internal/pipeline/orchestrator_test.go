package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"cms-backend/internal/pipeline"
	"cms-backend/internal/pipeline/pipelinetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG fake image bytes")

func seedWidget(t *testing.T, f *pipelinetest.Fixture[*pipelinetest.Widget], title string) int64 {
	t.Helper()
	res, err := f.Orchestrator.Create(context.Background(), &pipelinetest.Widget{
		Title: title,
		Live:  true,
		Image: pipelinetest.DataURI("image/png", pngBytes),
	})
	require.NoError(t, err)
	return res.ID
}

func TestCreate_UploadsBeforeInsert(t *testing.T) {
	f := pipelinetest.NewFixture()

	res, err := f.Orchestrator.Create(context.Background(), &pipelinetest.Widget{
		Title: "  Hello World ",
		Live:  true,
		Image: pipelinetest.DataURI("image/png", pngBytes),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"store.put test/widgets/hello-world/1",
		"repo.create",
	}, f.Journal.Entries())

	require.NotNil(t, res.Slug)
	assert.Equal(t, "hello-world", *res.Slug)

	row, ok := f.Repo.Row(res.ID)
	require.True(t, ok)
	assert.Equal(t, pipeline.AssetRef("v1700000001/test/widgets/hello-world/1"), row.Image)
	require.NotNil(t, row.Slug)
	assert.Equal(t, "hello-world", *row.Slug)

	require.Len(t, f.Notifier.Events, 1)
	assert.Equal(t, pipelinetest.KindWidget, f.Notifier.Events[0].Kind)
	assert.Equal(t, res.ID, f.Notifier.Events[0].ID)
}

func TestCreate_UnpublishedHasNoSlug(t *testing.T) {
	f := pipelinetest.NewFixture()

	res, err := f.Orchestrator.Create(context.Background(), &pipelinetest.Widget{Title: "Draft"})
	require.NoError(t, err)
	assert.Nil(t, res.Slug)

	row, _ := f.Repo.Row(res.ID)
	assert.Nil(t, row.Slug)
	assert.True(t, row.Image.IsEmpty())
	assert.Empty(t, f.Journal.Filter("store."))
}

func TestCreate_UploadFailureWritesNoRow(t *testing.T) {
	f := pipelinetest.NewFixture()
	f.Store.PutErr = errors.New("store unavailable")

	_, err := f.Orchestrator.Create(context.Background(), &pipelinetest.Widget{
		Title: "Broken",
		Image: pipelinetest.DataURI("image/png", pngBytes),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unavailable")
	assert.NotErrorIs(t, err, pipeline.ErrDuplicateKey)
	assert.Empty(t, f.Journal.Filter("repo."))
	assert.Empty(t, f.Notifier.Events)
}

func TestCreate_Duplicate(t *testing.T) {
	f := pipelinetest.NewFixture()
	seedWidget(t, f, "Same")

	_, err := f.Orchestrator.Create(context.Background(), &pipelinetest.Widget{Title: "Same"})
	assert.ErrorIs(t, err, pipeline.ErrDuplicateKey)
	assert.Len(t, f.Notifier.Events, 1)
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		widget  *pipelinetest.Widget
		wantErr error
	}{
		{
			name:    "missing title",
			widget:  &pipelinetest.Widget{Title: "   "},
			wantErr: pipeline.ErrValidation,
		},
		{
			name:    "locator instead of payload",
			widget:  &pipelinetest.Widget{Title: "X", Image: "v1/test/widgets/other"},
			wantErr: pipeline.ErrInvalidPayload,
		},
		{
			name:    "malformed data uri",
			widget:  &pipelinetest.Widget{Title: "X", Image: "data:image/png;base64,@@@"},
			wantErr: pipeline.ErrInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := pipelinetest.NewFixture()
			_, err := f.Orchestrator.Create(context.Background(), tt.widget)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.Journal.Entries())
		})
	}
}

func TestCreate_NotifierFailureIsIgnored(t *testing.T) {
	f := pipelinetest.NewFixture()
	f.Notifier.Err = errors.New("queue down")

	res, err := f.Orchestrator.Create(context.Background(), &pipelinetest.Widget{Title: "Quiet"})
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
}

func TestUpdate_UnchangedAssetIsCarriedOver(t *testing.T) {
	f := pipelinetest.NewFixture()
	id := seedWidget(t, f, "Original")
	before, _ := f.Repo.Row(id)

	slug, err := f.Orchestrator.Update(context.Background(), id, &pipelinetest.Widget{
		Title: "Renamed",
		Live:  true,
		Image: pipelinetest.DataURI("image/png", []byte("ignored")),
	}, false)
	require.NoError(t, err)
	require.NotNil(t, slug)
	assert.Equal(t, "renamed", *slug)

	after, _ := f.Repo.Row(id)
	assert.Equal(t, before.Image, after.Image)
	assert.Equal(t, "Renamed", after.Title)
	assert.Len(t, f.Journal.Filter("store.put"), 1, "only the seed upload")
	assert.Empty(t, f.Journal.Filter("store.remove"))
}

func TestUpdate_ChangedAssetDestroysPreviousAfterWrite(t *testing.T) {
	f := pipelinetest.NewFixture()
	id := seedWidget(t, f, "Before")
	before, _ := f.Repo.Row(id)

	_, err := f.Orchestrator.Update(context.Background(), id, &pipelinetest.Widget{
		Title: "After",
		Live:  true,
		Image: pipelinetest.DataURI("image/png", []byte("new")),
	}, true)
	require.NoError(t, err)

	entries := f.Journal.Entries()
	assert.Equal(t, []string{
		"store.put test/widgets/before/1",
		"repo.create",
		"repo.read 1",
		"store.put test/widgets/after/2",
		"repo.update 1",
		"store.remove test/widgets/before/1",
	}, entries)

	after, _ := f.Repo.Row(id)
	assert.NotEqual(t, before.Image, after.Image)
	assert.True(t, f.Store.Has(after.Image.ObjectKey()))
	assert.False(t, f.Store.Has(before.Image.ObjectKey()))
}

func TestUpdate_SameNameReplacementGetsFreshObject(t *testing.T) {
	f := pipelinetest.NewFixture()
	id := seedWidget(t, f, "Stable")

	_, err := f.Orchestrator.Update(context.Background(), id, &pipelinetest.Widget{
		Title: "Stable",
		Image: pipelinetest.DataURI("image/png", []byte("replacement")),
	}, true)
	require.NoError(t, err)

	row, _ := f.Repo.Row(id)
	assert.Equal(t, pipeline.AssetRef("v1700000002/test/widgets/stable/2"), row.Image)
	assert.True(t, f.Store.Has("test/widgets/stable/2"))
	assert.False(t, f.Store.Has("test/widgets/stable/1"))
	assert.Equal(t, []string{"store.remove test/widgets/stable/1"}, f.Journal.Filter("store.remove"))
}

func TestUpdate_KeepingCurrentLocatorDestroysNothing(t *testing.T) {
	f := pipelinetest.NewFixture()
	id := seedWidget(t, f, "Kept")
	before, _ := f.Repo.Row(id)

	_, err := f.Orchestrator.Update(context.Background(), id, &pipelinetest.Widget{
		Title: "Kept",
		Image: before.Image,
	}, true)
	require.NoError(t, err)

	after, _ := f.Repo.Row(id)
	assert.Equal(t, before.Image, after.Image)
	assert.True(t, f.Store.Has(before.Image.ObjectKey()))
	assert.Empty(t, f.Journal.Filter("store.remove"))
}

func TestUpdate_ClearingAssetDestroysPrevious(t *testing.T) {
	f := pipelinetest.NewFixture()
	id := seedWidget(t, f, "Pictured")

	_, err := f.Orchestrator.Update(context.Background(), id, &pipelinetest.Widget{Title: "Pictured"}, true)
	require.NoError(t, err)

	row, _ := f.Repo.Row(id)
	assert.True(t, row.Image.IsEmpty())
	assert.Equal(t, 0, f.Store.Len())
}

func TestUpdate_MissingKey(t *testing.T) {
	f := pipelinetest.NewFixture()

	_, err := f.Orchestrator.Update(context.Background(), 42, &pipelinetest.Widget{
		Title: "Ghost",
		Image: pipelinetest.DataURI("image/png", pngBytes),
	}, true)
	assert.ErrorIs(t, err, pipeline.ErrNotFound)
	assert.Empty(t, f.Journal.Filter("store."))
}

func TestUpdate_MissingKeyWinsOverInvalidBody(t *testing.T) {
	f := pipelinetest.NewFixture()

	_, err := f.Orchestrator.Update(context.Background(), 42, &pipelinetest.Widget{Title: "  "}, false)
	assert.ErrorIs(t, err, pipeline.ErrNotFound)
	assert.NotErrorIs(t, err, pipeline.ErrValidation)
}

func TestUpdate_UploadFailureLeavesRowAndAsset(t *testing.T) {
	f := pipelinetest.NewFixture()
	id := seedWidget(t, f, "Keep")
	before, _ := f.Repo.Row(id)
	f.Store.PutErr = errors.New("timeout")

	_, err := f.Orchestrator.Update(context.Background(), id, &pipelinetest.Widget{
		Title: "Lost",
		Image: pipelinetest.DataURI("image/png", []byte("new")),
	}, true)
	require.Error(t, err)

	after, _ := f.Repo.Row(id)
	assert.Equal(t, before, after)
	assert.Empty(t, f.Journal.Filter("repo.update"))
	assert.Empty(t, f.Journal.Filter("store.remove"))
}

func TestUpdate_RowWriteFailureKeepsPreviousAsset(t *testing.T) {
	f := pipelinetest.NewFixture()
	id := seedWidget(t, f, "Old")
	before, _ := f.Repo.Row(id)
	f.Repo.WriteErr = errors.New("connection reset")

	_, err := f.Orchestrator.Update(context.Background(), id, &pipelinetest.Widget{
		Title: "New",
		Image: pipelinetest.DataURI("image/png", []byte("new")),
	}, true)
	require.Error(t, err)

	assert.True(t, f.Store.Has(before.Image.ObjectKey()))
	assert.Equal(t, []string{"store.remove test/widgets/new/2"}, f.Journal.Filter("store.remove"))
	assert.Equal(t, 1, f.Store.Len())
}

func TestUpdate_RowVanishedBetweenReadAndWrite(t *testing.T) {
	f := pipelinetest.NewFixture()
	id := seedWidget(t, f, "Racy")
	f.Repo.VanishOnWrite = true

	_, err := f.Orchestrator.Update(context.Background(), id, &pipelinetest.Widget{
		Title: "Racy 2",
		Image: pipelinetest.DataURI("image/png", []byte("new")),
	}, true)
	assert.ErrorIs(t, err, pipeline.ErrNotFound)
	assert.Equal(t, []string{"store.remove test/widgets/racy-2/2"}, f.Journal.Filter("store.remove"))
}

func TestUpdate_DuplicateKey(t *testing.T) {
	f := pipelinetest.NewFixture()
	seedWidget(t, f, "First")
	id := seedWidget(t, f, "Second")

	_, err := f.Orchestrator.Update(context.Background(), id, &pipelinetest.Widget{Title: "First"}, false)
	assert.ErrorIs(t, err, pipeline.ErrDuplicateKey)
}

func TestUpdate_RejectsForeignLocator(t *testing.T) {
	f := pipelinetest.NewFixture()
	id := seedWidget(t, f, "Mine")

	_, err := f.Orchestrator.Update(context.Background(), id, &pipelinetest.Widget{
		Title: "Mine",
		Image: "v1700000009/test/widgets/someone-else",
	}, true)
	assert.ErrorIs(t, err, pipeline.ErrInvalidPayload)
}

func TestDelete_DestroysAssetThenRow(t *testing.T) {
	f := pipelinetest.NewFixture()
	id := seedWidget(t, f, "Doomed")

	require.NoError(t, f.Orchestrator.Delete(context.Background(), id))

	assert.Equal(t, []string{
		"repo.read 1",
		"store.remove test/widgets/doomed/1",
		"repo.delete 1",
	}, f.Journal.Entries()[2:])
	assert.Equal(t, 0, f.Store.Len())

	_, err := f.Orchestrator.Get(context.Background(), id)
	assert.ErrorIs(t, err, pipeline.ErrNotFound)
}

func TestDelete_DestroyFailureIsNotFatal(t *testing.T) {
	f := pipelinetest.NewFixture()
	id := seedWidget(t, f, "Sticky")
	f.Store.RemoveErr = errors.New("permission denied")

	require.NoError(t, f.Orchestrator.Delete(context.Background(), id))

	_, ok := f.Repo.Row(id)
	assert.False(t, ok)
}

func TestDelete_AbsentObjectIsSuccess(t *testing.T) {
	f := pipelinetest.NewFixture()
	id := seedWidget(t, f, "Gone")
	require.NoError(t, f.Store.Remove(context.Background(), "test/widgets/gone/1"))

	assert.NoError(t, f.Orchestrator.Delete(context.Background(), id))
}

func TestDelete_MissingKey(t *testing.T) {
	f := pipelinetest.NewFixture()

	err := f.Orchestrator.Delete(context.Background(), 7)
	assert.ErrorIs(t, err, pipeline.ErrNotFound)
	assert.Empty(t, f.Journal.Filter("store."))
}

func TestReads(t *testing.T) {
	f := pipelinetest.NewFixture()
	seedWidget(t, f, "Alpha")
	seedWidget(t, f, "Beta")
	_, err := f.Orchestrator.Create(context.Background(), &pipelinetest.Widget{Title: "Hidden"})
	require.NoError(t, err)

	w, err := f.Orchestrator.GetBySlug(context.Background(), "beta")
	require.NoError(t, err)
	assert.Equal(t, "Beta", w.Title)

	_, err = f.Orchestrator.GetBySlug(context.Background(), "hidden")
	assert.ErrorIs(t, err, pipeline.ErrNotFound)

	items, total, err := f.Orchestrator.List(context.Background(), pipeline.ListParams{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Alpha", items[0].Title)

	items, _, err = f.Orchestrator.List(context.Background(), pipeline.ListParams{Offset: 2})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Hidden", items[0].Title)
}

func TestSameNamedEntitiesNeverShareAnObject(t *testing.T) {
	f := pipelinetest.NewKindFixture(pipeline.Descriptor[*pipelinetest.Widget]{
		Kind:   pipelinetest.KindWidget,
		Name:   "widget",
		New:    func() *pipelinetest.Widget { return &pipelinetest.Widget{} },
		Derive: pipelinetest.DeriveWidget,
	}, pipelinetest.RepoOptions[*pipelinetest.Widget]{
		Slug: func(w *pipelinetest.Widget) *string { return w.Slug },
	})
	ctx := context.Background()

	first := seedWidget(t, f, "Twin")
	second := seedWidget(t, f, "Twin")

	a, _ := f.Repo.Row(first)
	b, _ := f.Repo.Row(second)
	assert.NotEqual(t, a.Image.ObjectKey(), b.Image.ObjectKey())

	require.NoError(t, f.Orchestrator.Delete(ctx, second))

	a, _ = f.Repo.Row(first)
	assert.True(t, f.Store.Has(a.Image.ObjectKey()), "surviving row must still resolve")
}

func TestCreate_NameWithoutStorageKeyIsRejected(t *testing.T) {
	f := pipelinetest.NewFixture()

	_, err := f.Orchestrator.Create(context.Background(), &pipelinetest.Widget{
		Title: "李 王",
		Image: pipelinetest.DataURI("image/png", pngBytes),
	})
	assert.ErrorIs(t, err, pipeline.ErrValidation)
	assert.Empty(t, f.Journal.Entries())

	_, err = f.Orchestrator.Create(context.Background(), &pipelinetest.Widget{Title: "张 三"})
	assert.NoError(t, err, "no asset, no storage key needed")
}

func TestCreate_DuplicateLeavesLiveObjectUntouched(t *testing.T) {
	f := pipelinetest.NewFixture()
	id := seedWidget(t, f, "Taken")
	live, _ := f.Repo.Row(id)

	_, err := f.Orchestrator.Create(context.Background(), &pipelinetest.Widget{
		Title: "Taken",
		Image: pipelinetest.DataURI("image/png", []byte("intruder")),
	})
	require.ErrorIs(t, err, pipeline.ErrDuplicateKey)

	assert.Equal(t, []string{
		"store.put test/widgets/taken/1",
		"repo.create",
		"store.put test/widgets/taken/2",
		"repo.create",
		"store.remove test/widgets/taken/2",
	}, f.Journal.Entries())

	data, ok := f.Store.Object(live.Image.ObjectKey())
	require.True(t, ok)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, 1, f.Store.Len())
}

func TestCreate_InsertFailureRemovesUpload(t *testing.T) {
	f := pipelinetest.NewFixture()
	f.Repo.WriteErr = errors.New("connection reset")

	_, err := f.Orchestrator.Create(context.Background(), &pipelinetest.Widget{
		Title: "Orphan",
		Image: pipelinetest.DataURI("image/png", pngBytes),
	})
	require.Error(t, err)
	assert.Equal(t, 0, f.Store.Len())
}
