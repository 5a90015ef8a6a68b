// Package jobs runs background maintenance work and records every run in
// job_runs.
package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"personnel/internal/domain/employee"
	"personnel/internal/platform/metrics"
	"personnel/internal/platform/querier"
)

const (
	JobReconcileDuplicates = "reconcile_duplicates"

	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Reconciler is satisfied by *employee.Service.
type Reconciler interface {
	ReconcileDuplicates(ctx context.Context) (employee.ReconcileResult, error)
}

type Run struct {
	ID         int64           `json:"id"`
	JobType    string          `json:"jobType"`
	Status     string          `json:"status"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt *time.Time      `json:"finishedAt,omitempty"`
}

type Service struct {
	DB         querier.Querier
	Reconciler Reconciler
	Metrics    *metrics.Collector
	Interval   time.Duration
	queue      chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db querier.Querier, reconciler Reconciler, collector *metrics.Collector, interval time.Duration) *Service {
	return &Service{
		DB:         db,
		Reconciler: reconciler,
		Metrics:    collector,
		Interval:   interval,
		queue:      make(chan job, 16),
	}
}

// Start launches the worker and, when an interval is set, the periodic
// reconciliation schedule. Both stop with ctx.
func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Interval > 0 {
		go s.scheduleReconcile(ctx, s.Interval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		logrus.WithField("job_type", jobType).Warn("job queue full")
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// Reconcile runs duplicate reconciliation synchronously and records the run.
func (s *Service) Reconcile(ctx context.Context) (employee.ReconcileResult, error) {
	var result employee.ReconcileResult
	_, err := s.RunNow(ctx, JobReconcileDuplicates, func(ctx context.Context) (any, error) {
		var err error
		result, err = s.Reconciler.ReconcileDuplicates(ctx)
		return result, err
	})
	return result, err
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				logrus.WithError(err).WithField("job_type", j.Type).Warn("job run failed")
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	var runID int64
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, j.Type, StatusRunning).Scan(&runID); err != nil {
		logrus.WithError(err).WithField("job_type", j.Type).Warn("job run insert failed")
	}

	started := time.Now()
	details, err := j.Run(ctx)
	status := StatusCompleted
	var errText *string
	if err != nil {
		status = StatusFailed
		msg := err.Error()
		errText = &msg
	}
	s.Metrics.JobRun(j.Type, status)

	resultJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		logrus.WithError(marshalErr).Warn("job details marshal failed")
		resultJSON = []byte("{}")
	}
	if runID != 0 {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, result_json = $2, error = $3, finished_at = now()
      WHERE id = $4
    `, status, resultJSON, errText, runID); updErr != nil {
			logrus.WithError(updErr).WithField("run_id", runID).Warn("job run update failed")
		}
	}
	logrus.WithFields(logrus.Fields{
		"job_type":   j.Type,
		"status":     status,
		"durationMs": time.Since(started).Milliseconds(),
	}).Info("job finished")
	return details, err
}

func (s *Service) scheduleReconcile(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobReconcileDuplicates, func(ctx context.Context) (any, error) {
				return s.Reconciler.ReconcileDuplicates(ctx)
			})
		}
	}
}

// Runs lists recorded runs, newest first.
func (s *Service) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.Query(ctx, `
    SELECT id, job_type, status, result_json, COALESCE(error, ''), started_at, finished_at
    FROM job_runs
    ORDER BY started_at DESC, id DESC
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list job runs")
	}
	defer rows.Close()

	out := make([]Run, 0)
	for rows.Next() {
		var r Run
		var result []byte
		if err := rows.Scan(&r.ID, &r.JobType, &r.Status, &result, &r.Error, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, errors.Wrap(err, "scan job run")
		}
		if len(result) > 0 {
			r.Result = json.RawMessage(result)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
