package utils

import (
	"fmt"
	"time"

	"github.com/rickb777/period"
)

// Period is a command line flag holding an ISO-8601 period ("P10D", "PT12H").
type Period struct {
	p period.Period
}

func (p *Period) UnmarshalText(b []byte) error {
	parsed, err := period.Parse(string(b))
	if err != nil {
		return fmt.Errorf("Only ISO-8601 periods (\"P10D\", \"PT12H\", ...) are allowed. Got %s", b)
	}
	p.p = parsed
	return nil
}

func (p *Period) String() string {
	return p.p.String()
}

func (p *Period) IsZero() bool {
	return p.p.IsZero()
}

// Duration converts the period to a fixed duration, with years and months
// approximated the way period.Period approximates them.
func (p *Period) Duration() time.Duration {
	return p.p.DurationApprox()
}
