package models

import (
	"time"

	"github.com/google/uuid"
)

// VideoStatus represents the lifecycle state of a video.
type VideoStatus string

const (
	VideoStatusUploading  VideoStatus = "uploading"
	VideoStatusQueued     VideoStatus = "queued"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusReady      VideoStatus = "ready"
	VideoStatusFailed     VideoStatus = "failed"
)

// transitions holds the permitted lifecycle edges. The only backward
// edge is failed -> queued, entered by an explicit re-request.
var transitions = map[VideoStatus][]VideoStatus{
	VideoStatusUploading:  {VideoStatusQueued},
	VideoStatusQueued:     {VideoStatusProcessing},
	VideoStatusProcessing: {VideoStatusReady, VideoStatusFailed},
	VideoStatusFailed:     {VideoStatusQueued},
}

// CanTransition reports whether moving a video from one status to
// another is a permitted lifecycle edge.
func CanTransition(from, to VideoStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Valid reports whether the status is one of the known lifecycle states.
func (s VideoStatus) Valid() bool {
	switch s {
	case VideoStatusUploading, VideoStatusQueued, VideoStatusProcessing,
		VideoStatusReady, VideoStatusFailed:
		return true
	}
	return false
}

// Rendition is one transcoded output at a specific target resolution.
type Rendition struct {
	Path        string `json:"path"`
	PlaybackURL string `json:"playbackUrl"`
	Height      int    `json:"height"`
}

// Video represents one uploaded video and its processing state.
type Video struct {
	ID            uuid.UUID            `json:"video_id" db:"id"`
	Title         string               `json:"title" db:"title"`
	Description   *string              `json:"description,omitempty" db:"description"`
	RawPath       string               `json:"raw_path" db:"raw_path"`
	Status        VideoStatus          `json:"status" db:"status"`
	Renditions    map[string]Rendition `json:"renditions,omitempty" db:"renditions"`
	ProcessedPath *string              `json:"processed_path,omitempty" db:"processed_path"`
	PlaybackURL   *string              `json:"playback_url,omitempty" db:"playback_url"`
	Error         *string              `json:"error,omitempty" db:"error"`
	UploadedBy    *string              `json:"uploaded_by,omitempty" db:"uploaded_by"`
	CreatedAt     time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" db:"updated_at"`
}

// BestRendition returns the rendition with the greatest height, or
// false when no renditions are recorded.
func (v *Video) BestRendition() (Rendition, bool) {
	var best Rendition
	found := false
	for _, r := range v.Renditions {
		if !found || r.Height > best.Height {
			best = r
			found = true
		}
	}
	return best, found
}
