package engine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gcbaptista/tfidf-search/internal/errors"
	"github.com/gcbaptista/tfidf-search/model"
)

// StartBuild runs Build as a background job and returns the job ID.
// The job reports one progress step per collection path.
func (e *Engine) StartBuild(paths []string) (string, error) {
	if e.snapshot.Load() != nil {
		return "", fmt.Errorf("index is already published: %w", errors.ErrAlreadyFinalized)
	}

	jobID := e.jobManager.CreateJob(model.JobTypeBuildIndex, map[string]string{
		"operation": "build_index",
		"documents": strconv.Itoa(len(paths)),
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.executeBuildJob(ctx, paths, jobID)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start build job: %w", err)
	}

	return jobID, nil
}

// executeBuildJob executes the build job.
func (e *Engine) executeBuildJob(ctx context.Context, paths []string, jobID string) error {
	cfg := e.buildConfig
	next := cfg.ProgressCallback
	cfg.ProgressCallback = func(processed, total int, message string) {
		e.jobManager.UpdateJobProgress(jobID, processed, total, message)
		if next != nil {
			next(processed, total, message)
		}
	}

	e.jobManager.UpdateJobProgress(jobID, 0, len(paths), "extracting documents")
	stats, err := e.build(ctx, paths, cfg)
	if err != nil {
		return err
	}
	if stats.Errors != nil {
		e.log.WithError(stats.Errors).WithField("job_id", jobID).Warnf("%d documents skipped", len(stats.Skipped))
	}
	e.jobManager.UpdateJobProgress(jobID, len(paths), len(paths), "index published")
	return nil
}
