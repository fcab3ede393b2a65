package controller

import (
	"context"
	"time"

	"github.com/brewlogic/brewfleet-core/internal/capability"
	"github.com/brewlogic/brewfleet-core/internal/machine"
)

// Logger defines the logging interface used by the Controller.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Controller runs the standard usage sequence against any machine.
//
// It depends only on the machine's public capability-query/invoke contract;
// concrete construction is the factory's concern.
type Controller struct {
	logger Logger
}

// New creates a Controller with a no-op logger.
func New() *Controller {
	return &Controller{logger: noopLogger{}}
}

// SetLogger sets the logger for the controller.
func (c *Controller) SetLogger(logger Logger) {
	c.logger = logger
}

// Operate performs the standard usage sequence on a machine:
//
//  1. Capture the machine's description.
//  2. Invoke the mandatory brew capability exactly once. Brew failure is
//     terminal: optional capabilities are skipped.
//  3. Invoke every other declared capability once, in registration order.
//     An optional failure is recorded and the remaining optionals still run.
//
// The returned report contains every outcome; Operate itself never returns
// an error because partial failure is a valid, reportable run.
func (c *Controller) Operate(ctx context.Context, m *machine.Machine) *OperationReport {
	report := &OperationReport{
		Description: m.Describe(),
		StartedAt:   time.Now().UTC(),
	}
	defer func() {
		report.FinishedAt = time.Now().UTC()
	}()

	c.logger.Debug("operating machine", "make", m.Make(), "model", m.Model())

	// Mandatory brew. Presence is guaranteed by the Machine invariant, so a
	// failure here is an execution error, not a support error.
	brewRes := m.Invoke(ctx, capability.CapBrew)
	report.Brew = outcomeFromResult(brewRes)
	if !brewRes.OK() {
		c.logger.Warn("brew failed, skipping optional capabilities",
			"make", m.Make(),
			"model", m.Model(),
			"error", brewRes.Err,
		)
		return report
	}

	// Optional capabilities in registration order, continue-on-error.
	for _, id := range m.Capabilities() {
		if id == capability.CapBrew {
			continue
		}

		res := m.Invoke(ctx, id)
		report.Optional = append(report.Optional, outcomeFromResult(res))
		if !res.OK() {
			c.logger.Warn("optional capability failed",
				"capability", id,
				"make", m.Make(),
				"model", m.Model(),
				"error", res.Err,
			)
		}
	}

	c.logger.Info("machine operated",
		"make", m.Make(),
		"model", m.Model(),
		"optional_count", len(report.Optional),
		"optional_failures", report.OptionalFailures(),
	)
	return report
}
