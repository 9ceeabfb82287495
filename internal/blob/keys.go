package blob

import (
	"fmt"
	"path"
	"strings"
)

// Object keys follow fixed naming conventions: sources live under
// raw/<videoID>-<filename> in the raw bucket, renditions under
// processed/<videoID>/<height>p.mp4 in the processed bucket. Stored
// record paths are fully qualified as s3://<bucket>/<key>.

const storageScheme = "s3://"

// StoragePath formats a fully-qualified object location.
func StoragePath(bucket, key string) string {
	return storageScheme + bucket + "/" + key
}

// ParseStoragePath splits a fully-qualified object location into bucket
// and key.
func ParseStoragePath(p string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(p, storageScheme)
	if !ok {
		return "", "", fmt.Errorf("storage path %q missing %s scheme", p, storageScheme)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("storage path %q missing bucket or key", p)
	}
	return bucket, key, nil
}

// RawObjectKey builds the source object key for a video upload.
func RawObjectKey(videoID, filename string) string {
	return fmt.Sprintf("raw/%s-%s", videoID, path.Base(filename))
}

// VideoIDFromRawKey derives the video id from a raw object key, or
// false when the key does not follow the upload naming convention.
// UUIDs are 36 characters, so the id is a fixed-width slice of the
// base name.
func VideoIDFromRawKey(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, "raw/")
	if !ok {
		return "", false
	}
	const uuidLen = 36
	if len(rest) <= uuidLen || rest[uuidLen] != '-' {
		return "", false
	}
	return rest[:uuidLen], true
}

// RenditionLabel returns the map label for a target height, e.g. "720p".
func RenditionLabel(height int) string {
	return fmt.Sprintf("%dp", height)
}

// RenditionKey builds the processed object key for one rendition. When
// only a single resolution is configured the legacy flat form
// processed/<videoID>.mp4 is used.
func RenditionKey(videoID string, height int, totalRenditions int) string {
	if totalRenditions == 1 {
		return fmt.Sprintf("processed/%s.mp4", videoID)
	}
	return fmt.Sprintf("processed/%s/%dp.mp4", videoID, height)
}
