package gate

import (
	"time"

	"github.com/abhisek/initiation/internal/session"
)

// verdictMsg carries the outcome of a submit or approve call back into the
// screen's update loop.
type verdictMsg struct {
	Result session.Result
	Err    error
}

// flickerMsg animates the candle on the reveal.
type flickerMsg time.Time
