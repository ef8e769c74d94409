package astar

import (
	"time"

	"github.com/mvilches/ludoteca/pegs"
)

// Status is the terminal outcome of a solve. The zero value is
// StatusExhausted, the outcome of an empty frontier.
type Status int

const (
	StatusExhausted Status = iota
	StatusSuccess
	StatusTimeout
	StatusNodeLimit
)

func (st Status) String() string {
	switch st {
	case StatusExhausted:
		return "EXHAUSTED"
	case StatusSuccess:
		return "SUCCESS"
	case StatusTimeout:
		return "TIMEOUT"
	case StatusNodeLimit:
		return "NODE_LIMIT_EXCEEDED"
	}
	return "UNKNOWN"
}

func (st Status) MarshalText() ([]byte, error) {
	return []byte(st.String()), nil
}

// Stats describes one solve attempt. BestPegs is the fewest pegs seen on
// any expanded state, 1 on success.
type Stats struct {
	Expanded  uint64        `json:"expanded" yaml:"expanded"`
	Generated uint64        `json:"generated" yaml:"generated"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
	BestPegs  int           `json:"best_pegs" yaml:"best_pegs"`
}

// Result carries the outcome of a solve. Moves is nil unless the status
// is StatusSuccess.
type Result struct {
	Status Status      `json:"status" yaml:"status"`
	Moves  []pegs.Move `json:"moves,omitempty" yaml:"moves,omitempty"`
	Stats  Stats       `json:"stats" yaml:"stats"`
}
