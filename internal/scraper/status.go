package scraper

// Version is the runner version reported to the GUI and the coordinator.
const Version = "1.0.0"

// RunnerStatus is the shell's own liveness report. It is computed locally;
// no sidecar round-trip is involved.
type RunnerStatus struct {
	Online      bool    `json:"online"`
	RunnerName  string  `json:"runner_name"`
	Version     string  `json:"version"`
	CurrentJob  *string `json:"current_job"`
	LastJobTime *string `json:"last_job_time"`
}

func NewRunnerStatus(runnerName string) RunnerStatus {
	return RunnerStatus{
		Online:     true,
		RunnerName: runnerName,
		Version:    Version,
	}
}
