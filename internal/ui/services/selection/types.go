package selection

import "time"

// State holds selection state
type State struct {
	PendingHover string // throttled hover waiting to be applied
	HasPending   bool
}

// HoverRetry is the delay after which a throttled hover is retried
func HoverRetry(ratePerSecond int) time.Duration {
	if ratePerSecond < 1 {
		ratePerSecond = 1
	}
	return time.Second / time.Duration(ratePerSecond)
}
