/*
Package report provides the summary of growing and evaluating a tree and
the sinks it can be sent to.
*/
package report

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

/*
Report summarizes the growth of a tree on a training set and its
evaluation against a test set.
*/
type Report struct {
	// Name identifies the report among others for the same dataset
	Name         string
	Dataset      string
	Label        string
	TrainSamples int
	TestSamples  int
	Nodes        int
	Depth        int
	Accuracy     float64
	Duration     time.Duration
}

/*
Fields returns the fields of the report as strings keyed by their snake
cased names.
*/
func (r *Report) Fields() map[string]string {
	return map[string]string{
		"name":          r.Name,
		"dataset":       r.Dataset,
		"label":         r.Label,
		"train_samples": strconv.Itoa(r.TrainSamples),
		"test_samples":  strconv.Itoa(r.TestSamples),
		"nodes":         strconv.Itoa(r.Nodes),
		"depth":         strconv.Itoa(r.Depth),
		"accuracy":      strconv.FormatFloat(r.Accuracy, 'f', -1, 64),
		"duration":      r.Duration.String(),
	}
}

/*
Reporter is an interface wrapping the Report method, which sends a report
somewhere or returns an error if it cannot.
*/
type Reporter interface {
	Report(context.Context, *Report) error
}

/*
ReporterFunc wraps a function with the Report method signature to implement
the Reporter interface
*/
type ReporterFunc func(context.Context, *Report) error

// Report calls the ReporterFunc
func (rf ReporterFunc) Report(ctx context.Context, r *Report) error {
	return rf(ctx, r)
}

// LogReporter is a Reporter writing reports as info level log events
type LogReporter struct {
	logger zerolog.Logger
}

// NewLogReporter returns a LogReporter writing to the given logger
func NewLogReporter(logger zerolog.Logger) *LogReporter {
	return &LogReporter{logger}
}

// Report implements Reporter
func (lr *LogReporter) Report(_ context.Context, r *Report) error {
	lr.logger.Info().
		Str("name", r.Name).
		Str("dataset", r.Dataset).
		Str("label", r.Label).
		Int("train_samples", r.TrainSamples).
		Int("test_samples", r.TestSamples).
		Int("nodes", r.Nodes).
		Int("depth", r.Depth).
		Float64("accuracy", r.Accuracy).
		Dur("duration", r.Duration).
		Msg("Tree evaluated")
	return nil
}

/*
Multi takes a number of reporters and returns a Reporter sending reports to
all of them in order. It stops on the first one returning an error.
*/
func Multi(reporters ...Reporter) Reporter {
	return ReporterFunc(func(ctx context.Context, r *Report) error {
		for _, reporter := range reporters {
			if err := reporter.Report(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
}
