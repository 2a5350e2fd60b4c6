package pipeline

import (
	"context"
	"log"
	"time"

	"pulse-video-pipeline/types"
)

// Job is one entry of a batch request.
type Job struct {
	Topic string `json:"topic"`
	State string `json:"state"`
}

// JobResult records the outcome of one batch entry. Status is "ok" or
// "error"; Error is empty on success.
type JobResult struct {
	Topic      string  `json:"topic"`
	State      string  `json:"state"`
	Status     string  `json:"status"`
	Error      string  `json:"error,omitempty"`
	OutputPath string  `json:"output_path,omitempty"`
	ElapsedS   float64 `json:"elapsed_s"`
}

// RunBatch processes jobs sequentially. A failing job is recorded and
// the batch moves on; the result slice always has one entry per job.
func (p *Pipeline) RunBatch(ctx context.Context, jobs []Job, cleanup bool) []JobResult {
	results := make([]JobResult, 0, len(jobs))
	for i, job := range jobs {
		log.Printf("[batch] Job %d/%d: %q (state=%s)", i+1, len(jobs), job.Topic, job.State)
		start := time.Now()

		jr := JobResult{Topic: job.Topic, State: job.State}

		state, err := types.ParseState(job.State)
		if err == nil {
			var res *Result
			res, err = p.Run(ctx, job.Topic, state, cleanup)
			if err == nil {
				jr.Status = "ok"
				jr.OutputPath = res.OutputPath
			}
		}
		if err != nil {
			log.Printf("[batch] ⚠  Job %d failed: %v", i+1, err)
			jr.Status = "error"
			jr.Error = err.Error()
		}

		jr.ElapsedS = time.Since(start).Seconds()
		results = append(results, jr)
	}
	return results
}
