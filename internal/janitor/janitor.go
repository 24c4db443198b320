package janitor

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"server/internal/infra"
)

// maxUploadAge is how long an orphaned temp upload may linger before the
// sweep reclaims it. Normal requests remove their own upload within seconds;
// anything older was leaked by a crash or kill mid-pipeline.
const maxUploadAge = time.Hour

// Janitor periodically sweeps stale temp uploads out of the upload directory.
// It never touches the generated-output directory.
type Janitor struct {
	uploadDir string
	log       infra.Logger
	cron      *cron.Cron
}

// New constructs a Janitor for the given upload directory.
func New(uploadDir string, log infra.Logger) *Janitor {
	return &Janitor{uploadDir: uploadDir, log: log, cron: cron.New()}
}

// Start schedules the sweep every 30 minutes.
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc("*/30 * * * *", j.Sweep); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

// Stop halts the schedule; a running sweep finishes first.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

// Sweep removes regular files in the upload directory older than maxUploadAge.
func (j *Janitor) Sweep() {
	entries, err := os.ReadDir(j.uploadDir)
	if err != nil {
		j.log.Warn().Err(err).Str("dir", j.uploadDir).Msg("janitor: cannot read upload dir")
		return
	}

	cutoff := time.Now().Add(-maxUploadAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(j.uploadDir, entry.Name())); err == nil {
			removed++
		}
	}
	if removed > 0 {
		j.log.Debug().Int("removed", removed).Msg("janitor: reclaimed stale uploads")
	}
}
