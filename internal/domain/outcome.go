package domain

// State is a step of the command lifecycle.
type State string

const (
	StateInit        State = "init"
	StateConfiguring State = "configuring"
	StateExecuting   State = "executing"
	StateReconciling State = "reconciling"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
)

// CommandOutcome is the final result of one invocation.
type CommandOutcome struct {
	Operation string
	State     State
	Results   []TopicResult
	// Topics holds the listing produced by list-topics, name -> partitions.
	Topics map[string]int
	Err    error
}

// Failures returns the errors of the results that failed.
func (o CommandOutcome) Failures() []error {
	var errs []error
	for _, r := range o.Results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

// ExitCode is the process exit status for this outcome.
func (o CommandOutcome) ExitCode() int {
	if o.State == StateCompleted {
		return ExitOK
	}
	if o.Err == nil {
		return ExitFailure
	}
	return ExitCode(o.Err)
}
