package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Sandeep45-cyber/Youtube-clone/internal/database"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no video record exists for the
// requested id.
var ErrNotFound = errors.New("video not found")

// Store persists video records. It is the only writer to the videos
// table; callers mutate records exclusively through partial Merge
// writes so concurrent actors never clobber unrelated fields.
type Store struct {
	db *database.DB
}

// New creates a new video store.
func New(db *database.DB) *Store {
	return &Store{db: db}
}

const videoColumns = `id, title, description, raw_path, status, renditions,
       processed_path, playback_url, error, uploaded_by, created_at, updated_at`

// Create inserts a new video record and returns it with the
// server-assigned timestamps.
func (s *Store) Create(ctx context.Context, video *models.Video) (*models.Video, error) {
	query := `
		INSERT INTO videos (id, title, description, raw_path, status, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + videoColumns

	row := s.db.QueryRowContext(ctx, query,
		video.ID, video.Title, video.Description, video.RawPath, video.Status, video.UploadedBy,
	)
	created, err := scanVideo(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}
	return created, nil
}

// Get retrieves a video record by id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	video, err := scanVideo(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return video, nil
}

// FindByRawPath retrieves the video record whose raw_path matches. Used
// by the dispatcher as a fallback when a storage object key cannot be
// parsed back into a video id. If several records share a raw path the
// most recently created one wins.
func (s *Store) FindByRawPath(ctx context.Context, rawPath string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE raw_path = $1 ORDER BY created_at DESC LIMIT 1`
	video, err := scanVideo(s.db.QueryRowContext(ctx, query, rawPath))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find video by raw path: %w", err)
	}
	return video, nil
}

// Merge applies a partial update to a video record. Only fields present
// in the patch are written; updated_at is always refreshed with the
// server clock.
func (s *Store) Merge(ctx context.Context, id uuid.UUID, patch models.VideoPatch) error {
	if patch.Empty() {
		return fmt.Errorf("empty patch for video %s", id)
	}

	var (
		sets []string
		args []interface{}
	)
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.RawPath != nil {
		add("raw_path", *patch.RawPath)
	}
	if patch.ProcessedPath != nil {
		add("processed_path", *patch.ProcessedPath)
	}
	if patch.PlaybackURL != nil {
		add("playback_url", *patch.PlaybackURL)
	}
	if patch.Error != nil {
		add("error", *patch.Error)
	} else if patch.ClearError {
		sets = append(sets, "error = NULL")
	}
	if patch.ClearPlayback {
		sets = append(sets, "processed_path = NULL", "playback_url = NULL")
	}
	if patch.Renditions != nil {
		encoded, err := json.Marshal(*patch.Renditions)
		if err != nil {
			return fmt.Errorf("failed to encode renditions: %w", err)
		}
		add("renditions", encoded)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE videos SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to merge video: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read merge result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List retrieves a page of video records, newest first, optionally
// filtered by status. It returns the page and the total match count.
func (s *Store) List(ctx context.Context, status string, page, pageSize int) ([]models.Video, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var (
		countQuery = `SELECT COUNT(*) FROM videos`
		listQuery  = `SELECT ` + videoColumns + ` FROM videos`
		args       []interface{}
	)
	if status != "" {
		countQuery += ` WHERE status = $1`
		listQuery += ` WHERE status = $1`
		args = append(args, status)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	listQuery += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := s.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, *video)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate videos: %w", err)
	}

	return videos, total, nil
}

// Delete removes a video record.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVideo(row rowScanner) (*models.Video, error) {
	var (
		video      models.Video
		renditions []byte
	)
	if err := row.Scan(
		&video.ID, &video.Title, &video.Description, &video.RawPath,
		&video.Status, &renditions, &video.ProcessedPath, &video.PlaybackURL,
		&video.Error, &video.UploadedBy, &video.CreatedAt, &video.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(renditions) > 0 {
		if err := json.Unmarshal(renditions, &video.Renditions); err != nil {
			return nil, fmt.Errorf("failed to decode renditions: %w", err)
		}
	}
	return &video, nil
}
