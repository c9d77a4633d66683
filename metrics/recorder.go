// Package metrics records build observations.
package metrics

import "time"

// Recorder receives the observations of a build. The zero NoopRecorder is
// used when metrics are not exposed.
type Recorder interface {
	ObservePages(locale string, n int)
	ObserveDuplicates(n int)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|failed
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObservePages(string, int)           {}
func (NoopRecorder) ObserveDuplicates(int)              {}
func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string)             {}
