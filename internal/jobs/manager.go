package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/tfidf-search/internal/errors"
	"github.com/gcbaptista/tfidf-search/internal/logger"
	"github.com/gcbaptista/tfidf-search/model"
)

// Manager handles background job execution and tracking
type Manager struct {
	mu      sync.RWMutex
	jobs    map[string]*model.Job
	done    map[string]chan struct{} // Closed when the job reaches a terminal status
	workers chan struct{}            // Limits concurrent jobs
	ctx     context.Context          // Parent of every job context, cancelled by Stop
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	log     *logrus.Entry
}

// NewManager creates a new job manager with specified worker count
func NewManager(maxWorkers int) *Manager {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		jobs:    make(map[string]*model.Job),
		done:    make(map[string]chan struct{}),
		workers: make(chan struct{}, maxWorkers),
		ctx:     ctx,
		cancel:  cancel,
		log:     logger.WithComponent("jobs"),
	}
}

// Stop cancels running jobs and waits for them to return
func (m *Manager) Stop() {
	m.cancel()
	m.wg.Wait()
	m.log.Info("job manager stopped")
}

// CreateJob creates a new job and returns its ID
func (m *Manager) CreateJob(jobType model.JobType, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}

	m.jobs[job.ID] = job
	m.done[job.ID] = make(chan struct{})
	m.log.WithFields(logrus.Fields{"job_id": job.ID, "type": job.Type}).Info("job created")
	return job.ID
}

// GetJob retrieves a copy of a job by ID
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	return copyJob(job), nil
}

// ListJobs returns all jobs, oldest first, optionally filtered by status
func (m *Manager) ListJobs(status *model.JobStatus) []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if status == nil || job.Status == *status {
			result = append(result, copyJob(job))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// ExecuteJob runs a job function in a goroutine with proper tracking
func (m *Manager) ExecuteJob(jobID string, jobFunc func(ctx context.Context, job *model.Job) error) error {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return errors.NewJobNotFoundError(jobID)
	}

	if job.Status != model.JobStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is not in pending status (current: %s)", jobID, job.Status)
	}

	job.Status = model.JobStatusRunning
	now := time.Now()
	job.StartedAt = &now
	snapshot := copyJob(job)
	m.mu.Unlock()

	// Acquire worker slot
	select {
	case m.workers <- struct{}{}:
	case <-m.ctx.Done():
		m.finishJob(jobID, model.JobStatusFailed, "job manager shutting down")
		return fmt.Errorf("job manager is shutting down")
	}

	m.wg.Add(1)
	go func() {
		defer func() {
			<-m.workers // Release worker slot
			m.wg.Done()
		}()

		startTime := time.Now()
		err := jobFunc(m.ctx, snapshot)
		executionTime := time.Since(startTime)

		entry := m.log.WithFields(logrus.Fields{"job_id": jobID, "duration": executionTime})
		if err != nil {
			m.finishJob(jobID, model.JobStatusFailed, err.Error())
			entry.WithError(err).Error("job failed")
			return
		}
		m.finishJob(jobID, model.JobStatusCompleted, "")
		entry.Info("job completed")
	}()

	return nil
}

// WaitJob blocks until the job is completed or failed, or ctx is done.
func (m *Manager) WaitJob(ctx context.Context, jobID string) (*model.Job, error) {
	m.mu.RLock()
	done, exists := m.done[jobID]
	m.mu.RUnlock()
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}

	select {
	case <-done:
		return m.GetJob(jobID)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// UpdateJobProgress updates the progress of a running job
func (m *Manager) UpdateJobProgress(jobID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}

	if job.Progress == nil {
		job.Progress = &model.JobProgress{}
	}

	job.Progress.Current = current
	job.Progress.Total = total
	job.Progress.Percentage = job.Progress.GetProgressPercentage()
	job.Progress.Message = message
}

// finishJob moves a job to a terminal status
func (m *Manager) finishJob(jobID string, status model.JobStatus, errorMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}

	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}
	now := time.Now()
	job.CompletedAt = &now
	close(m.done[jobID])
}

// copyJob returns a copy to avoid race conditions
func copyJob(job *model.Job) *model.Job {
	jobCopy := *job
	if job.Progress != nil {
		progressCopy := *job.Progress
		jobCopy.Progress = &progressCopy
	}
	return &jobCopy
}
