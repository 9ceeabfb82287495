package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sandeep45-cyber/Youtube-clone/internal/blob"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/metrics"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/models"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/queue"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidState is returned when a processing request's
	// precondition on the record's current fields is violated.
	ErrInvalidState = errors.New("video is not in a processable state")

	// ErrDispatchFailed is returned when the job publish fails after
	// the status merge already succeeded. The record is left in queued
	// with no in-flight job; re-invoking RequestProcessing recovers it.
	ErrDispatchFailed = errors.New("failed to dispatch transcode job")
)

// RecordStore is the slice of the video store the dispatcher needs.
type RecordStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Video, error)
	FindByRawPath(ctx context.Context, rawPath string) (*models.Video, error)
	Merge(ctx context.Context, id uuid.UUID, patch models.VideoPatch) error
}

// Publisher publishes job messages.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// Dispatcher decides when a video moves from uploading to queued and
// publishes the transcode job. Both entry points (the explicit process
// request and the storage finalize notification) converge on the same
// merge-then-publish sequence so the state transition logic exists
// once.
type Dispatcher struct {
	store           RecordStore
	publisher       Publisher
	rawBucket       string
	processedBucket string
	logger          *zap.Logger
}

// New creates a new dispatcher.
func New(recordStore RecordStore, publisher Publisher, rawBucket, processedBucket string, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		store:           recordStore,
		publisher:       publisher,
		rawBucket:       rawBucket,
		processedBucket: processedBucket,
		logger:          logger,
	}
}

// RequestProcessing transitions an uploaded video to queued and
// publishes exactly one transcode job for it. The status merge must
// succeed before the publish is attempted; a publish failure therefore
// leaves a detectable stuck queued record rather than an untracked
// in-flight job.
func (d *Dispatcher) RequestProcessing(ctx context.Context, id uuid.UUID) error {
	video, err := d.store.Get(ctx, id)
	if err != nil {
		return err
	}
	return d.enqueue(ctx, video)
}

// OnUploadFinalized handles an object-store finalize notification for
// a raw upload. Unknown objects are logged and dropped; duplicate
// notifications for a video already past uploading are no-ops.
func (d *Dispatcher) OnUploadFinalized(ctx context.Context, bucket, key string) error {
	if bucket != d.rawBucket {
		d.logger.Debug("Ignoring finalize event outside raw bucket",
			zap.String("bucket", bucket), zap.String("key", key))
		return nil
	}

	video, err := d.resolveVideo(ctx, bucket, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The event is not retried by policy; an upload with no
			// matching record has nothing to transition.
			d.logger.Warn("No video record for finalized upload, dropping event",
				zap.String("bucket", bucket), zap.String("key", key))
			return nil
		}
		return err
	}

	switch video.Status {
	case models.VideoStatusQueued, models.VideoStatusProcessing, models.VideoStatusReady:
		d.logger.Info("Duplicate finalize notification, skipping",
			zap.String("video_id", video.ID.String()),
			zap.String("status", string(video.Status)))
		return nil
	}

	return d.enqueue(ctx, video)
}

// resolveVideo derives the record for a finalized object, first by
// parsing the video id out of the key's naming convention, then by a
// raw path lookup.
func (d *Dispatcher) resolveVideo(ctx context.Context, bucket, key string) (*models.Video, error) {
	if idStr, ok := blob.VideoIDFromRawKey(key); ok {
		if id, err := uuid.Parse(idStr); err == nil {
			video, err := d.store.Get(ctx, id)
			if err == nil {
				return video, nil
			}
			if !errors.Is(err, store.ErrNotFound) {
				return nil, err
			}
		}
	}
	return d.store.FindByRawPath(ctx, blob.StoragePath(bucket, key))
}

// enqueue performs the shared status-merge-then-publish sequence.
func (d *Dispatcher) enqueue(ctx context.Context, video *models.Video) error {
	inputBucket, inputObject, err := blob.ParseStoragePath(video.RawPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if inputBucket != d.rawBucket {
		return fmt.Errorf("%w: raw path is outside bucket %s", ErrInvalidState, d.rawBucket)
	}

	if err := d.store.Merge(ctx, video.ID, models.StatusPatch(models.VideoStatusQueued)); err != nil {
		return fmt.Errorf("failed to mark video queued: %w", err)
	}

	msg := models.JobMessage{
		VideoID:      video.ID.String(),
		InputBucket:  inputBucket,
		InputObject:  inputObject,
		OutputBucket: d.processedBucket,
	}
	if err := d.publisher.Publish(ctx, queue.TranscodeRoutingKey, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	metrics.JobsPublished.Inc()

	d.logger.Info("Transcode job dispatched",
		zap.String("video_id", msg.VideoID),
		zap.String("input", inputObject))
	return nil
}
