package shared

import "time"

type RateDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}
