package provisioning

import (
	"fmt"
	"time"
)

// StageStatus is the lifecycle status of a deployment stage.
type StageStatus string

const (
	// StatusNotStarted means the stage has not begun.
	StatusNotStarted StageStatus = "not_started"
	// StatusInProgress means the stage is currently running.
	StatusInProgress StageStatus = "in_progress"
	// StatusSucceeded means the stage completed successfully.
	StatusSucceeded StageStatus = "succeeded"
	// StatusFailed means the stage returned an error.
	StatusFailed StageStatus = "failed"
)

// StageRecord captures the outcome of one stage in a pipeline run.
type StageRecord struct {
	Name       string
	Status     StageStatus
	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
}

// RunStages executes deployment stages strictly in order. A stage runs only
// after every earlier stage has succeeded; on the first failure the
// remaining stages are left not started. The returned records always cover
// every stage.
func RunStages(ctx *Context, stages []Stage) ([]StageRecord, error) {
	start := time.Now()
	ctx.Observer.Printf("Starting deployment with %d stages...", len(stages))

	records := make([]StageRecord, len(stages))
	for i, stage := range stages {
		records[i] = StageRecord{Name: stage.Name(), Status: StatusNotStarted}
	}

	for i, stage := range stages {
		name := fmt.Sprintf("%s (%d/%d)", stage.Name(), i+1, len(stages))
		records[i].Status = StatusInProgress
		records[i].StartedAt = time.Now()

		LogStageStart(ctx.Observer, stage.Name())
		ctx.Observer.Printf("[%s] starting", name)

		if err := stage.Run(ctx); err != nil {
			records[i].Status = StatusFailed
			records[i].FinishedAt = time.Now()
			records[i].Err = err
			LogStageFailed(ctx.Observer, stage.Name(), err)
			return records, fmt.Errorf("%s stage failed: %w", stage.Name(), err)
		}

		records[i].Status = StatusSucceeded
		records[i].FinishedAt = time.Now()
		LogStageComplete(ctx.Observer, stage.Name(), time.Since(records[i].StartedAt))
	}

	ctx.Observer.Printf("Deployment completed in %v", time.Since(start).Round(time.Millisecond))
	return records, nil
}
