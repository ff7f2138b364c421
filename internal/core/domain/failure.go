package domain

import "go.trai.ch/zerr"

// Metadata keys attached to execution failures.
const (
	StageKey    = "stage"
	TaskKey     = "task"
	PipelineKey = "pipeline"
)

// FailedStage returns the name of the pipeline stage that caused err.
func FailedStage(err error) (string, bool) {
	return failureValue(err, StageKey)
}

// FailedTask returns the name of the innermost task that caused err.
func FailedTask(err error) (string, bool) {
	return failureValue(err, TaskKey)
}

// FailedTasks returns the names of all failed tasks recorded in err, outermost first.
func FailedTasks(err error) []string {
	var names []string
	walkErrors(err, func(e error) bool {
		if z, ok := e.(*zerr.Error); ok {
			if v, ok := z.Metadata()[TaskKey].(string); ok {
				names = append(names, v)
			}
		}
		return true
	})
	return names
}

func failureValue(err error, key string) (string, bool) {
	var (
		found string
		ok    bool
	)
	walkErrors(err, func(e error) bool {
		z, isZerr := e.(*zerr.Error)
		if !isZerr {
			return true
		}
		if v, has := z.Metadata()[key].(string); has {
			found, ok = v, true
		}
		return true
	})
	return found, ok
}

// walkErrors visits err and its whole tree of causes depth first.
func walkErrors(err error, visit func(error) bool) bool {
	if err == nil {
		return true
	}
	if !visit(err) {
		return false
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if !walkErrors(e, visit) {
				return false
			}
		}
	case interface{ Unwrap() error }:
		return walkErrors(u.Unwrap(), visit)
	}
	return true
}
