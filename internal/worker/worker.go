package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Sandeep45-cyber/Youtube-clone/internal/blob"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/config"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/metrics"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/models"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/store"
	"github.com/Sandeep45-cyber/Youtube-clone/internal/transcoder"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrBadRequest is returned for malformed job payloads. No record is
// touched: there is no id to blame, and redelivery of the same bytes
// cannot succeed.
var ErrBadRequest = errors.New("malformed job payload")

// RecordStore is the slice of the video store the worker needs.
type RecordStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Video, error)
	Merge(ctx context.Context, id uuid.UUID, patch models.VideoPatch) error
}

// BlobStore moves media bytes between object storage and local files.
type BlobStore interface {
	Download(ctx context.Context, bucket, key, localPath string) error
	Upload(ctx context.Context, localPath, bucket, key, contentType string) error
	PublicURL(bucket, key string) string
}

// Worker turns one transcode job message into a committed rendition
// set. It holds no state between jobs; every invocation re-reads the
// record before mutating it.
type Worker struct {
	store  RecordStore
	blob   BlobStore
	engine transcoder.Engine
	cfg    config.TranscodeConfig
	// defaultOutputBucket is used when the job message does not name
	// one.
	defaultOutputBucket string
	logger              *zap.Logger
}

// New creates a new worker.
func New(recordStore RecordStore, blobStore BlobStore, engine transcoder.Engine, cfg config.TranscodeConfig, defaultOutputBucket string, logger *zap.Logger) *Worker {
	return &Worker{
		store:               recordStore,
		blob:                blobStore,
		engine:              engine,
		cfg:                 cfg,
		defaultOutputBucket: defaultOutputBucket,
		logger:              logger,
	}
}

// HandleJob processes one job message body. It returns nil once the
// record has reached a terminal state for this attempt (ready, or
// failed with the error recorded). A non-nil return means the job's
// outcome is not reflected in the record: ErrBadRequest and
// store.ErrNotFound gain nothing from redelivery, anything else is a
// transient store failure the queue should redeliver.
func (w *Worker) HandleJob(ctx context.Context, body []byte) error {
	var msg models.JobMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	videoID, err := uuid.Parse(msg.VideoID)
	if err != nil {
		return fmt.Errorf("%w: invalid videoId: %v", ErrBadRequest, err)
	}

	video, err := w.store.Get(ctx, videoID)
	if err != nil {
		return fmt.Errorf("failed to read video %s: %w", videoID, err)
	}

	// A redelivered job for a record already past queued is not
	// distinguishable from a deliberate re-queue, so it is always
	// treated as a fresh attempt that overwrites prior results.
	if video.Status == models.VideoStatusProcessing ||
		video.Status == models.VideoStatusReady ||
		video.Status == models.VideoStatusFailed {
		w.logger.Info("Reprocessing video with prior attempt",
			zap.String("video_id", videoID.String()),
			zap.String("status", string(video.Status)))
	}

	// Entering processing drops the prior attempt's outputs so a
	// non-empty rendition map only ever belongs to a ready record.
	emptyRenditions := map[string]models.Rendition{}
	if err := w.store.Merge(ctx, videoID, models.VideoPatch{
		Status:        statusPtr(models.VideoStatusProcessing),
		ClearError:    true,
		ClearPlayback: true,
		Renditions:    &emptyRenditions,
	}); err != nil {
		return fmt.Errorf("failed to mark video processing: %w", err)
	}

	tempDir, err := os.MkdirTemp(w.cfg.TempDir, "transcode-"+msg.VideoID+"-")
	if err != nil {
		return w.fail(ctx, videoID, fmt.Errorf("workspace: %w", err))
	}
	// Local artifacts are released regardless of outcome.
	defer os.RemoveAll(tempDir)

	sourcePath := filepath.Join(tempDir, "source"+extOrDefault(msg.InputObject))
	if err := w.blob.Download(ctx, msg.InputBucket, msg.InputObject, sourcePath); err != nil {
		return w.fail(ctx, videoID, fmt.Errorf("download: %w", err))
	}

	outputBucket := msg.OutputBucket
	if outputBucket == "" {
		outputBucket = w.defaultOutputBucket
	}

	heights := append([]int(nil), w.cfg.Heights...)
	sort.Ints(heights)

	// Renditions accumulate locally and are committed in a single
	// merge: a failure at any resolution leaves no partial set behind.
	renditions := make(map[string]models.Rendition, len(heights))
	for _, height := range heights {
		label := blob.RenditionLabel(height)
		outputPath := filepath.Join(tempDir, label+".mp4")

		started := time.Now()
		if err := w.engine.Transcode(ctx, sourcePath, height, outputPath); err != nil {
			return w.fail(ctx, videoID, fmt.Errorf("transcode %s: %w", label, err))
		}
		metrics.TranscodeDuration.Observe(time.Since(started).Seconds())

		key := blob.RenditionKey(msg.VideoID, height, len(heights))
		if err := w.blob.Upload(ctx, outputPath, outputBucket, key, "video/mp4"); err != nil {
			return w.fail(ctx, videoID, fmt.Errorf("upload %s: %w", label, err))
		}

		renditions[label] = models.Rendition{
			Path:        blob.StoragePath(outputBucket, key),
			PlaybackURL: w.blob.PublicURL(outputBucket, key),
			Height:      height,
		}
		metrics.RenditionsProduced.WithLabelValues(label).Inc()
	}

	best := renditions[blob.RenditionLabel(heights[len(heights)-1])]
	if err := w.store.Merge(ctx, videoID, models.VideoPatch{
		Status:        statusPtr(models.VideoStatusReady),
		Renditions:    &renditions,
		ProcessedPath: &best.Path,
		PlaybackURL:   &best.PlaybackURL,
	}); err != nil {
		return fmt.Errorf("failed to commit renditions: %w", err)
	}
	metrics.JobsProcessed.WithLabelValues("ready").Inc()

	w.logger.Info("Video ready",
		zap.String("video_id", msg.VideoID),
		zap.Int("renditions", len(renditions)))
	return nil
}

// fail records the failure on the video record. The returned error is
// nil when the record was updated: the attempt is terminal and must not
// be redelivered.
func (w *Worker) fail(ctx context.Context, videoID uuid.UUID, cause error) error {
	msg := cause.Error()
	if err := w.store.Merge(ctx, videoID, models.VideoPatch{
		Status: statusPtr(models.VideoStatusFailed),
		Error:  &msg,
	}); err != nil {
		return fmt.Errorf("failed to record failure %q: %w", msg, err)
	}
	metrics.JobsProcessed.WithLabelValues("failed").Inc()

	w.logger.Error("Transcode job failed",
		zap.String("video_id", videoID.String()),
		zap.Error(cause))
	return nil
}

func statusPtr(s models.VideoStatus) *models.VideoStatus {
	return &s
}

func extOrDefault(object string) string {
	if ext := filepath.Ext(object); ext != "" {
		return ext
	}
	return ".mp4"
}

// IsPermanent reports whether a HandleJob error cannot be cured by
// redelivery.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrBadRequest) || errors.Is(err, store.ErrNotFound)
}
