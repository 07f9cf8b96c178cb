package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/generation"
	"github.com/studydeck/studydeck-api/internal/task"
)

type uploadServiceFixture struct {
	svc     *uploadServiceImpl
	uploads *mockUploadStore
	users   *mockUserStore
	emitter *fakeEventEmitter
	owner   *domain.User
}

func newUploadServiceFixture(t *testing.T, extractor generation.Extractor) *uploadServiceFixture {
	t.Helper()

	uploads := newMockUploadStore()
	users := newMockUserStore()
	emitter := &fakeEventEmitter{}

	owner, err := domain.NewUser("owner@example.com", "Owner", "hash", time.Now().UTC())
	require.NoError(t, err)
	users.add(owner)

	svc := NewUploadService(nil, uploads, users, extractor, emitter, nil).(*uploadServiceImpl)
	svc.runTx = passthroughTx

	return &uploadServiceFixture{
		svc:     svc,
		uploads: uploads,
		users:   users,
		emitter: emitter,
		owner:   owner,
	}
}

func TestCreateUploadAndEnqueueTask(t *testing.T) {
	t.Parallel()

	t.Run("saves upload, bumps stats, and emits event", func(t *testing.T) {
		t.Parallel()
		extractor := &fakeExtractor{text: "mitochondria are the powerhouse", topics: []string{"biology"}}
		f := newUploadServiceFixture(t, extractor)

		upload, err := f.svc.CreateUploadAndEnqueueTask(
			context.Background(),
			f.owner.ID,
			"Cell Biology Notes",
			domain.SourceTypeText,
			"mitochondria are the powerhouse",
		)
		require.NoError(t, err)

		assert.Equal(t, f.owner.ID, upload.OwnerID)
		assert.Equal(t, "mitochondria are the powerhouse", upload.ExtractedText)
		assert.Equal(t, []string{"biology"}, upload.Topics)

		stored, err := f.uploads.GetByID(context.Background(), upload.ID)
		require.NoError(t, err)
		assert.Equal(t, upload.Title, stored.Title)

		user, err := f.users.GetByID(context.Background(), f.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, user.Stats.TotalUploads)

		require.Len(t, f.emitter.events, 1)
		event := f.emitter.events[0]
		assert.Equal(t, task.TaskTypeUploadGeneration, event.Type)

		var payload struct {
			UploadID uuid.UUID `json:"upload_id"`
		}
		require.NoError(t, event.UnmarshalPayload(&payload))
		assert.Equal(t, upload.ID, payload.UploadID)
	})

	t.Run("extraction failure", func(t *testing.T) {
		t.Parallel()
		extractor := &fakeExtractor{err: generation.ErrExtractionFailed}
		f := newUploadServiceFixture(t, extractor)

		_, err := f.svc.CreateUploadAndEnqueueTask(
			context.Background(),
			f.owner.ID,
			"Broken PDF",
			domain.SourceTypePDF,
			"garbage",
		)
		assert.ErrorIs(t, err, generation.ErrExtractionFailed)
		assert.Empty(t, f.emitter.events)
	})

	t.Run("unknown owner", func(t *testing.T) {
		t.Parallel()
		extractor := &fakeExtractor{text: "text"}
		f := newUploadServiceFixture(t, extractor)

		_, err := f.svc.CreateUploadAndEnqueueTask(
			context.Background(),
			uuid.New(),
			"Notes",
			domain.SourceTypeText,
			"text",
		)
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Empty(t, f.emitter.events)
	})

	t.Run("store failure emits no event", func(t *testing.T) {
		t.Parallel()
		extractor := &fakeExtractor{text: "text"}
		f := newUploadServiceFixture(t, extractor)
		f.uploads.createErr = errors.New("disk full")

		_, err := f.svc.CreateUploadAndEnqueueTask(
			context.Background(),
			f.owner.ID,
			"Notes",
			domain.SourceTypeText,
			"text",
		)
		require.Error(t, err)
		assert.Empty(t, f.emitter.events)
	})
}

func TestGetUpload(t *testing.T) {
	t.Parallel()

	f := newUploadServiceFixture(t, &fakeExtractor{text: "text"})
	created, err := f.svc.CreateUploadAndEnqueueTask(
		context.Background(), f.owner.ID, "Notes", domain.SourceTypeText, "text")
	require.NoError(t, err)

	upload, err := f.svc.GetUpload(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, upload.Title)

	_, err = f.svc.GetUpload(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUploadNotFound)
}

func TestListUploads(t *testing.T) {
	t.Parallel()

	f := newUploadServiceFixture(t, &fakeExtractor{text: "text"})
	for i := 0; i < 3; i++ {
		_, err := f.svc.CreateUploadAndEnqueueTask(
			context.Background(), f.owner.ID, "Notes", domain.SourceTypeText, "text")
		require.NoError(t, err)
	}

	uploads, err := f.svc.ListUploads(context.Background(), f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, uploads, 3)

	uploads, err = f.svc.ListUploads(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, uploads)
}
