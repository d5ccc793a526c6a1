package workers

import "errors"

// ErrInvalidSchedule is returned for a sync schedule cron cannot parse.
var ErrInvalidSchedule = errors.New("invalid sync schedule")
