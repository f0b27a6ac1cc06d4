package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/answerscope/internal/pipeline"
)

// Job status values. A job moves queued -> running stages -> done|failed.
const (
	StatusQueued = "queued"
	StatusDone   = "done"
	StatusFailed = "failed"
)

// Event is one progress update from a running job.
type Event struct {
	JobID string    `json:"job_id"`
	Stage string    `json:"stage"`
	At    time.Time `json:"at"`
}

// Snapshot is the externally visible state of a job at a point in time.
type Snapshot struct {
	ID       string           `json:"id"`
	Keyword  string           `json:"keyword"`
	URL      string           `json:"url"`
	Stage    string           `json:"stage"`
	Err      string           `json:"error,omitempty"`
	Result   *pipeline.Result `json:"result,omitempty"`
	Started  time.Time        `json:"started"`
	Finished time.Time        `json:"finished,omitempty"`
}

// Job is a handle to one background scan. Events are buffered so a slow or
// absent consumer never blocks the pipeline.
type Job struct {
	ID string

	mu       sync.Mutex
	keyword  string
	url      string
	stage    string
	err      error
	result   *pipeline.Result
	started  time.Time
	finished time.Time

	events chan Event
	done   chan struct{}
}

// Start launches a scan in the background and returns immediately with a
// handle. The pipeline value is copied so the stage hook is private to this
// job. Cancel the context to abort between stages.
func Start(ctx context.Context, p pipeline.Pipeline, req pipeline.Request) *Job {
	j := &Job{
		ID:      uuid.New().String(),
		keyword: req.Keyword,
		url:     req.URL,
		stage:   StatusQueued,
		started: time.Now().UTC(),
		events:  make(chan Event, 16),
		done:    make(chan struct{}),
	}

	p.OnStage = func(stage string) {
		j.setStage(stage)
	}

	go func() {
		defer close(j.done)
		defer close(j.events)

		res, err := p.Run(ctx, req)

		j.mu.Lock()
		j.finished = time.Now().UTC()
		if err != nil {
			j.err = err
			j.stage = StatusFailed
		} else {
			j.result = &res
			j.stage = StatusDone
		}
		stage := j.stage
		j.mu.Unlock()

		j.publish(stage)
		if err != nil {
			log.Error().Err(err).Str("job", j.ID).Msg("scan job failed")
		} else {
			log.Info().Str("job", j.ID).Msg("scan job finished")
		}
	}()

	return j
}

func (j *Job) setStage(stage string) {
	j.mu.Lock()
	j.stage = stage
	j.mu.Unlock()
	j.publish(stage)
}

func (j *Job) publish(stage string) {
	ev := Event{JobID: j.ID, Stage: stage, At: time.Now().UTC()}
	select {
	case j.events <- ev:
	default:
		// Buffer full: drop rather than stall the scan.
	}
}

// Events returns the job's progress stream. The channel closes when the job
// finishes.
func (j *Job) Events() <-chan Event {
	return j.events
}

// Done returns a channel closed when the job has finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes and returns its result.
func (j *Job) Wait() (pipeline.Result, error) {
	<-j.done
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return pipeline.Result{}, j.err
	}
	return *j.result, nil
}

// Snapshot returns the current state of the job.
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	s := Snapshot{
		ID:       j.ID,
		Keyword:  j.keyword,
		URL:      j.url,
		Stage:    j.stage,
		Started:  j.started,
		Finished: j.finished,
		Result:   j.result,
	}
	if j.err != nil {
		s.Err = j.err.Error()
	}
	return s
}
