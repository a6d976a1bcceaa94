package wire

import "time"

// jobIntervals is the Scheduler's per-job cadence (spec.md §5). In
// test mode every interval compresses into the 10-30s band so an
// end-to-end run finishes in seconds instead of hours.
type jobIntervals struct {
	Discover   time.Duration
	Reschedule time.Duration
	DispatchDue time.Duration
	Heartbeat  time.Duration
}

func resolveIntervals(workerIntervalHours int, testMode bool) jobIntervals {
	if testMode {
		return jobIntervals{
			Discover:    30 * time.Second,
			Reschedule:  20 * time.Second,
			DispatchDue: 10 * time.Second,
			Heartbeat:   10 * time.Second,
		}
	}

	discover := time.Duration(workerIntervalHours) * time.Hour
	if workerIntervalHours <= 0 {
		discover = 6 * time.Hour
	}

	return jobIntervals{
		Discover:    discover,
		Reschedule:  time.Hour,
		DispatchDue: time.Minute,
		Heartbeat:   30 * time.Second,
	}
}
