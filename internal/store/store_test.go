package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sandeep45-cyber/Youtube-clone/internal/database"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	db := &database.DB{DB: sqlDB}
	return New(db), mock, func() { sqlDB.Close() }
}

func videoRows(id uuid.UUID, status models.VideoStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "title", "description", "raw_path", "status", "renditions",
		"processed_path", "playback_url", "error", "uploaded_by", "created_at", "updated_at",
	}).AddRow(id, "clip", nil, "s3://raw-videos/raw/"+id.String()+"-clip.mp4", status, nil,
		nil, nil, nil, nil, now, now)
}

func TestGetNotFound(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	id := uuid.New()
	mock.ExpectQuery(`SELECT .* FROM videos WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.Get(context.Background(), id)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("there were unfulfilled expectations: %v", err)
	}
}

func TestGetDecodesRenditions(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "raw_path", "status", "renditions",
		"processed_path", "playback_url", "error", "uploaded_by", "created_at", "updated_at",
	}).AddRow(id, "clip", nil, "s3://raw-videos/raw/x.mp4", models.VideoStatusReady,
		[]byte(`{"720p":{"path":"s3://processed-videos/processed/x/720p.mp4","playbackUrl":"http://minio/processed-videos/processed/x/720p.mp4","height":720}}`),
		"s3://processed-videos/processed/x/720p.mp4", "http://minio/processed-videos/processed/x/720p.mp4",
		nil, nil, now, now)

	mock.ExpectQuery(`SELECT .* FROM videos WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(rows)

	video, err := s.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	rendition, ok := video.Renditions["720p"]
	if !ok {
		t.Fatal("expected 720p rendition")
	}
	if rendition.Height != 720 {
		t.Errorf("rendition height = %d, want 720", rendition.Height)
	}
}

func TestMergeStatusAndClearError(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	id := uuid.New()
	mock.ExpectExec(`UPDATE videos SET status = \$1, error = NULL, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(models.VideoStatusProcessing, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	patch := models.StatusPatch(models.VideoStatusProcessing)
	patch.ClearError = true
	if err := s.Merge(context.Background(), id, patch); err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("there were unfulfilled expectations: %v", err)
	}
}

func TestMergeClearPlaybackDropsPriorOutputs(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	id := uuid.New()
	mock.ExpectExec(`UPDATE videos SET status = \$1, error = NULL, processed_path = NULL, playback_url = NULL, renditions = \$2, updated_at = NOW\(\) WHERE id = \$3`).
		WithArgs(models.VideoStatusProcessing, []byte(`{}`), id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	empty := map[string]models.Rendition{}
	patch := models.StatusPatch(models.VideoStatusProcessing)
	patch.ClearError = true
	patch.ClearPlayback = true
	patch.Renditions = &empty
	if err := s.Merge(context.Background(), id, patch); err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("there were unfulfilled expectations: %v", err)
	}
}

func TestMergeRenditionsCommit(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	id := uuid.New()
	mock.ExpectExec(`UPDATE videos SET status = \$1, processed_path = \$2, playback_url = \$3, renditions = \$4, updated_at = NOW\(\) WHERE id = \$5`).
		WithArgs(models.VideoStatusReady, "s3://processed-videos/processed/x/720p.mp4",
			"http://minio/processed-videos/processed/x/720p.mp4", sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	status := models.VideoStatusReady
	path := "s3://processed-videos/processed/x/720p.mp4"
	playback := "http://minio/processed-videos/processed/x/720p.mp4"
	renditions := map[string]models.Rendition{
		"720p": {Path: path, PlaybackURL: playback, Height: 720},
	}
	err := s.Merge(context.Background(), id, models.VideoPatch{
		Status:        &status,
		ProcessedPath: &path,
		PlaybackURL:   &playback,
		Renditions:    &renditions,
	})
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("there were unfulfilled expectations: %v", err)
	}
}

func TestMergeEmptyPatchRejected(t *testing.T) {
	s, _, done := newMockStore(t)
	defer done()

	if err := s.Merge(context.Background(), uuid.New(), models.VideoPatch{}); err == nil {
		t.Fatal("expected error for empty patch")
	}
}

func TestMergeMissingRecord(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	id := uuid.New()
	mock.ExpectExec(`UPDATE videos SET status = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(models.VideoStatusQueued, id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Merge(context.Background(), id, models.StatusPatch(models.VideoStatusQueued))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindByRawPath(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	id := uuid.New()
	rawPath := "s3://raw-videos/raw/" + id.String() + "-clip.mp4"
	mock.ExpectQuery(`SELECT .* FROM videos WHERE raw_path = \$1 ORDER BY created_at DESC LIMIT 1`).
		WithArgs(rawPath).
		WillReturnRows(videoRows(id, models.VideoStatusUploading))

	video, err := s.FindByRawPath(context.Background(), rawPath)
	if err != nil {
		t.Fatalf("FindByRawPath returned error: %v", err)
	}
	if video.ID != id {
		t.Errorf("video id = %s, want %s", video.ID, id)
	}
}

func TestListWithStatusFilter(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	id := uuid.New()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM videos WHERE status = \$1`).
		WithArgs("ready").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT .* FROM videos WHERE status = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("ready", 20, 0).
		WillReturnRows(videoRows(id, models.VideoStatusReady))

	videos, total, err := s.List(context.Background(), "ready", 1, 20)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 1 || len(videos) != 1 {
		t.Fatalf("got %d videos, total %d, want 1/1", len(videos), total)
	}
}
