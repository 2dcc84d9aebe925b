package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nyaysetu/nyaysetu/internal/filestore"
)

// AudioCleanupJob expires synthesized voice replies. Audio files are
// single-use artifacts; once the client has fetched one there is no
// reason to keep it around.
type AudioCleanupJob struct {
	files  filestore.Store
	maxAge time.Duration
}

func NewAudioCleanupJob(files filestore.Store, maxAge time.Duration) *AudioCleanupJob {
	return &AudioCleanupJob{files: files, maxAge: maxAge}
}

func (j *AudioCleanupJob) Name() string {
	return "audio_cleanup"
}

func (j *AudioCleanupJob) Run(ctx context.Context) error {
	cleaner, ok := j.files.(filestore.Cleaner)
	if !ok {
		return nil
	}
	maxAge := j.maxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	cutoff := time.Now().Add(-maxAge)
	removed, err := cleaner.RemoveBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if removed > 0 {
		logutil.GetLogger(ctx).Info("expired audio removed", zap.Int("count", removed))
	}
	return nil
}
