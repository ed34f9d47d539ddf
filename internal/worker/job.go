package worker

import (
	"time"
)

// What caused a run.
const (
	TriggerStartup  = "startup"
	TriggerWatch    = "watch"
	TriggerSchedule = "schedule"
	TriggerReload   = "reload"
)

// Job asks the worker for one retention run over the current listing.
// Jobs carry no listing of their own; the worker always reads the source
// fresh, so a newer job fully replaces an older one.
type Job struct {
	Trigger string
	At      time.Time
}

func NewJob(trigger string) Job {
	return Job{Trigger: trigger, At: time.Now()}
}
