package models

// VideoPatch is a partial update to a video record. Only fields with a
// non-nil pointer (or ClearError set) are written; everything else is
// left untouched by the store. updated_at is always refreshed by the
// store itself.
type VideoPatch struct {
	Status        *VideoStatus
	RawPath       *string
	ProcessedPath *string
	PlaybackURL   *string
	Error         *string
	// ClearError sets the error column to NULL. Mutually exclusive
	// with Error.
	ClearError bool
	// ClearPlayback sets the processed path and playback URL columns
	// to NULL. Mutually exclusive with ProcessedPath and PlaybackURL.
	ClearPlayback bool
	// Renditions replaces the stored rendition map wholesale.
	Renditions *map[string]Rendition
}

// Empty reports whether the patch carries no fields to write.
func (p VideoPatch) Empty() bool {
	return p.Status == nil &&
		p.RawPath == nil &&
		p.ProcessedPath == nil &&
		p.PlaybackURL == nil &&
		p.Error == nil &&
		!p.ClearError &&
		!p.ClearPlayback &&
		p.Renditions == nil
}

// StatusPatch returns a patch that only moves the status.
func StatusPatch(s VideoStatus) VideoPatch {
	return VideoPatch{Status: &s}
}
