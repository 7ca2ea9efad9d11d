package dispatch

import (
	"context"
	"sync"

	"systrack/internal/model"
	"systrack/internal/report"
)

const (
	speedtestStarted = "Speedtest started. This may take a minute. Run 'speedtest' again to check for results."
	speedtestRunning = "Speedtest is still running. Try again in a moment."
)

type jobState int

const (
	jobIdle jobState = iota
	jobRunning
	jobDone
)

// speedtestJob serializes bandwidth runs behind the web terminal. A run
// outlives the HTTP request that started it, so polling happens by
// reissuing the verb: the first call starts the measurement, later calls
// report progress, and the completed result is handed out once before
// the job resets.
type speedtestJob struct {
	mu     sync.Mutex
	state  jobState
	result model.ThroughputResult
}

func (j *speedtestJob) poll(app *Deps) string {
	j.mu.Lock()
	defer j.mu.Unlock()

	switch j.state {
	case jobRunning:
		return speedtestRunning
	case jobDone:
		res := j.result
		j.state = jobIdle
		j.result = model.ThroughputResult{}
		return report.FormatThroughput(res)
	default:
		j.state = jobRunning
		go j.run(app)
		return speedtestStarted
	}
}

// run executes the measurement off the request goroutine. The detached
// context carries its own deadline since the originating request is
// long gone by the time a slow run finishes.
func (j *speedtestJob) run(app *Deps) {
	ctx, cancel := context.WithTimeout(context.Background(), app.Config.SpeedtestTimeout())
	defer cancel()

	res := app.Measure(ctx)

	j.mu.Lock()
	j.state = jobDone
	j.result = res
	j.mu.Unlock()
}
