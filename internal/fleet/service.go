package fleet

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brewlogic/brewfleet-core/internal/controller"
	"github.com/brewlogic/brewfleet-core/internal/infrastructure/mqtt"
	"github.com/brewlogic/brewfleet-core/internal/machine"
)

// ReportPublisher publishes operation reports to the MQTT surface.
// mqtt.Client satisfies this interface.
type ReportPublisher interface {
	PublishRetained(topic string, payload []byte) error
}

// MetricsRecorder records operation metrics.
// telemetry.Client satisfies this interface.
type MetricsRecorder interface {
	WriteInvocation(machineID, capability string, ok bool, elapsed time.Duration)
	WriteOperation(machineID, kind, outcome string, elapsed time.Duration, optionalFailures int)
}

// Service resolves machine IDs to live machines and runs operations
// against them, fanning results out to history, MQTT, and telemetry.
//
// History, publisher, and metrics are optional; when unset the
// corresponding fan-out step is skipped. Only resolution and
// construction failures are returned as errors: a completed run with
// capability failures is a valid, reportable result.
type Service struct {
	registry *Registry
	factory  *machine.Factory
	ctrl     *controller.Controller

	history   HistoryRepository
	retention int

	publisher ReportPublisher
	metrics   MetricsRecorder

	logger Logger
}

// NewService creates a Service wiring the registry, factory, and controller.
func NewService(registry *Registry, factory *machine.Factory, ctrl *controller.Controller) *Service {
	return &Service{
		registry: registry,
		factory:  factory,
		ctrl:     ctrl,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	s.logger = logger
}

// SetHistory enables operation history recording.
// retention is the number of rows to keep per machine; zero disables pruning.
func (s *Service) SetHistory(history HistoryRepository, retention int) {
	s.history = history
	s.retention = retention
}

// SetPublisher enables publishing of operation reports over MQTT.
func (s *Service) SetPublisher(publisher ReportPublisher) {
	s.publisher = publisher
}

// SetMetrics enables telemetry recording of operation metrics.
func (s *Service) SetMetrics(metrics MetricsRecorder) {
	s.metrics = metrics
}

// reportMessage is the JSON payload published to the report topic.
type reportMessage struct {
	MachineID string                      `json:"machine_id"`
	Kind      string                      `json:"kind"`
	Outcome   string                      `json:"outcome"`
	Report    *controller.OperationReport `json:"report"`
}

// Operate runs the standard operation sequence on a fleet machine.
//
// It resolves the machine ID to its persisted record, reconstructs the
// live machine from the record's kind via the factory, and hands it to
// the controller. The resulting report is appended to history,
// published to MQTT, and recorded as telemetry where those sinks are
// configured; failures in any sink are logged, never returned.
//
// Returns ErrMachineNotFound for unknown IDs and machine.ErrUnknownKind
// when the record's kind has no registered bundle.
func (s *Service) Operate(ctx context.Context, machineID string) (*controller.OperationReport, error) {
	record, err := s.registry.Get(ctx, machineID)
	if err != nil {
		return nil, fmt.Errorf("resolving machine %q: %w", machineID, err)
	}

	m, err := s.factory.Create(record.Kind, record.Make, record.Model)
	if err != nil {
		return nil, fmt.Errorf("building machine %q: %w", machineID, err)
	}

	report := s.ctrl.Operate(ctx, m)
	outcome := ReportOutcome(report)

	s.logger.Info("operation completed",
		"machine_id", machineID,
		"kind", record.Kind,
		"outcome", outcome,
	)

	s.recordHistory(ctx, machineID, report)
	s.publishReport(machineID, record.Kind, outcome, report)
	s.recordMetrics(machineID, record.Kind, outcome, report)

	return report, nil
}

// recordHistory appends the report to the history log and prunes old rows.
func (s *Service) recordHistory(ctx context.Context, machineID string, report *controller.OperationReport) {
	if s.history == nil {
		return
	}

	if err := s.history.Record(ctx, machineID, report); err != nil {
		s.logger.Error("failed to record operation history",
			"machine_id", machineID,
			"error", err,
		)
		return
	}

	if s.retention > 0 {
		pruned, err := s.history.PruneToRetention(ctx, machineID, s.retention)
		if err != nil {
			s.logger.Error("failed to prune operation history",
				"machine_id", machineID,
				"error", err,
			)
			return
		}
		if pruned > 0 {
			s.logger.Debug("operation history pruned",
				"machine_id", machineID,
				"rows", pruned,
			)
		}
	}
}

// publishReport publishes the report to the machine's report topic.
func (s *Service) publishReport(machineID, kind, outcome string, report *controller.OperationReport) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(reportMessage{
		MachineID: machineID,
		Kind:      kind,
		Outcome:   outcome,
		Report:    report,
	})
	if err != nil {
		s.logger.Error("failed to marshal report", "machine_id", machineID, "error", err)
		return
	}

	topic := mqtt.Topics{}.MachineReport(machineID)
	if err := s.publisher.PublishRetained(topic, payload); err != nil {
		s.logger.Error("failed to publish report",
			"machine_id", machineID,
			"topic", topic,
			"error", err,
		)
	}
}

// recordMetrics writes per-invocation and per-operation telemetry.
func (s *Service) recordMetrics(machineID, kind, outcome string, report *controller.OperationReport) {
	if s.metrics == nil {
		return
	}

	s.metrics.WriteInvocation(machineID, string(report.Brew.Capability), report.Brew.OK,
		time.Duration(report.Brew.ElapsedMS)*time.Millisecond)
	for _, opt := range report.Optional {
		s.metrics.WriteInvocation(machineID, string(opt.Capability), opt.OK,
			time.Duration(opt.ElapsedMS)*time.Millisecond)
	}

	elapsed := report.FinishedAt.Sub(report.StartedAt)
	s.metrics.WriteOperation(machineID, kind, outcome, elapsed, report.OptionalFailures())
}
