package lib

import (
	"github.com/hauke96/sigolo/v2"

	"time"
)

// Timer tracks nested named spans of a long-running job and logs how long each
// one took.
type Timer struct {
	name  string
	spans []span
}

type span struct {
	name  string
	start time.Time
}

func NewTimer(name string) *Timer {
	return &Timer{name: name}
}

func (t *Timer) Start(name string) {
	sigolo.Debugf("%s: %s...", t.name, name)
	t.spans = append(t.spans, span{name, time.Now()})
}

// Stop closes the innermost span, which must be name.
func (t *Timer) Stop(name string) time.Duration {
	if len(t.spans) == 0 || t.spans[len(t.spans)-1].name != name {
		panic("timer: stopping " + name + " which is not the innermost span")
	}
	s := t.spans[len(t.spans)-1]
	t.spans = t.spans[:len(t.spans)-1]
	elapsed := time.Since(s.start)
	sigolo.Debugf("%s: %s took %v", t.name, name, elapsed.Round(time.Millisecond))
	return elapsed
}

// Depth is the number of open spans.
func (t *Timer) Depth() int {
	return len(t.spans)
}
