package fleet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/brewlogic/brewfleet-core/internal/capability"
	"github.com/brewlogic/brewfleet-core/internal/controller"
	"github.com/brewlogic/brewfleet-core/internal/machine"
)

// recordingPublisher captures published reports.
type recordingPublisher struct {
	mu       sync.Mutex
	topics   []string
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) PublishRetained(topic string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return nil
}

// recordingMetrics captures telemetry writes.
type recordingMetrics struct {
	mu          sync.Mutex
	invocations []string // "capability:outcome"
	operations  []string // "kind:outcome"
}

func (m *recordingMetrics) WriteInvocation(_, capID string, ok bool, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.invocations = append(m.invocations, capID+":"+outcome)
}

func (m *recordingMetrics) WriteOperation(_, kind, outcome string, _ time.Duration, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations = append(m.operations, kind+":"+outcome)
}

// newTestService builds a Service over a seeded registry and fast simulator.
func newTestService(t *testing.T, fault func(capability.Capability) error) (*Service, string) {
	t.Helper()

	registry := NewRegistry(NewMockRepository())
	rec := &Record{Kind: machine.KindGrinderWiFi, Make: "Jura", Model: "Z10"}
	if err := registry.Create(context.Background(), rec); err != nil {
		t.Fatalf("seeding registry: %v", err)
	}

	sim := capability.NewSimulator(capability.SimOptions{
		BrewDelay:    time.Millisecond,
		GrindDelay:   time.Millisecond,
		ReorderDelay: time.Millisecond,
		Fault:        fault,
	})
	factory := machine.NewFactory(sim)

	return NewService(registry, factory, controller.New()), rec.ID
}

func TestServiceOperate(t *testing.T) {
	svc, machineID := newTestService(t, nil)

	report, err := svc.Operate(context.Background(), machineID)
	if err != nil {
		t.Fatalf("Operate() error = %v", err)
	}

	if report.BrewFailed() {
		t.Error("brew failed unexpectedly")
	}
	if len(report.Optional) != 2 {
		t.Errorf("optional outcomes = %d, want 2 (grind, reorder)", len(report.Optional))
	}
	if report.Description[0] != "Jura Z10" {
		t.Errorf("description identity = %q, want Jura Z10", report.Description[0])
	}
}

func TestServiceOperateNotFound(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Operate(context.Background(), "missing")
	if !errors.Is(err, ErrMachineNotFound) {
		t.Errorf("Operate() error = %v, want ErrMachineNotFound", err)
	}
}

func TestServiceOperateUnknownKind(t *testing.T) {
	svc, _ := newTestService(t, nil)

	// Seed a record whose kind has no registered bundle.
	stale := &Record{Kind: "steam-wand", Make: "Acme", Model: "Prototype"}
	if err := svc.registry.Create(context.Background(), stale); err != nil {
		t.Fatalf("seeding registry: %v", err)
	}

	_, err := svc.Operate(context.Background(), stale.ID)
	if !errors.Is(err, machine.ErrUnknownKind) {
		t.Errorf("Operate() error = %v, want machine.ErrUnknownKind", err)
	}
}

func TestServiceOperateRecordsHistory(t *testing.T) {
	svc, machineID := newTestService(t, nil)

	history := NewSQLiteHistoryRepository(openTestDB(t))
	svc.SetHistory(history, 2)

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if _, err := svc.Operate(ctx, machineID); err != nil {
			t.Fatalf("Operate() error = %v", err)
		}
	}

	entries, err := history.List(ctx, machineID, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("history entries = %d, want 2 (retention applied)", len(entries))
	}
	if entries[0].Outcome != OutcomeOK {
		t.Errorf("entry outcome = %q, want ok", entries[0].Outcome)
	}
}

func TestServiceOperatePublishesReport(t *testing.T) {
	svc, machineID := newTestService(t, nil)

	pub := &recordingPublisher{}
	svc.SetPublisher(pub)

	if _, err := svc.Operate(context.Background(), machineID); err != nil {
		t.Fatalf("Operate() error = %v", err)
	}

	if len(pub.topics) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.topics))
	}
	wantTopic := fmt.Sprintf("brewfleet/report/%s", machineID)
	if pub.topics[0] != wantTopic {
		t.Errorf("topic = %q, want %q", pub.topics[0], wantTopic)
	}

	var msg reportMessage
	if err := json.Unmarshal(pub.payloads[0], &msg); err != nil {
		t.Fatalf("unmarshalling payload: %v", err)
	}
	if msg.MachineID != machineID {
		t.Errorf("payload machine_id = %q, want %q", msg.MachineID, machineID)
	}
	if msg.Outcome != OutcomeOK {
		t.Errorf("payload outcome = %q, want ok", msg.Outcome)
	}
	if msg.Report == nil || msg.Report.Brew.Capability != capability.CapBrew {
		t.Error("payload report missing brew outcome")
	}
}

func TestServiceOperatePublishFailureDoesNotFail(t *testing.T) {
	svc, machineID := newTestService(t, nil)

	svc.SetPublisher(&recordingPublisher{err: errors.New("broker gone")})

	if _, err := svc.Operate(context.Background(), machineID); err != nil {
		t.Errorf("Operate() error = %v, want nil despite publish failure", err)
	}
}

func TestServiceOperateRecordsMetrics(t *testing.T) {
	svc, machineID := newTestService(t, func(id capability.Capability) error {
		if id == capability.CapGrind {
			return errors.New("hopper empty")
		}
		return nil
	})

	metrics := &recordingMetrics{}
	svc.SetMetrics(metrics)

	report, err := svc.Operate(context.Background(), machineID)
	if err != nil {
		t.Fatalf("Operate() error = %v", err)
	}
	if report.OptionalFailures() != 1 {
		t.Fatalf("optional failures = %d, want 1", report.OptionalFailures())
	}

	wantInvocations := []string{"brew:ok", "grind:error", "reorder:ok"}
	if len(metrics.invocations) != len(wantInvocations) {
		t.Fatalf("invocations = %v, want %v", metrics.invocations, wantInvocations)
	}
	for i, want := range wantInvocations {
		if metrics.invocations[i] != want {
			t.Errorf("invocations[%d] = %q, want %q", i, metrics.invocations[i], want)
		}
	}

	if len(metrics.operations) != 1 || metrics.operations[0] != "grinder-wifi:partial" {
		t.Errorf("operations = %v, want [grinder-wifi:partial]", metrics.operations)
	}
}

func TestServiceOperateBrewFailure(t *testing.T) {
	svc, machineID := newTestService(t, func(id capability.Capability) error {
		if id == capability.CapBrew {
			return errors.New("boiler offline")
		}
		return nil
	})

	metrics := &recordingMetrics{}
	svc.SetMetrics(metrics)

	report, err := svc.Operate(context.Background(), machineID)
	if err != nil {
		t.Fatalf("Operate() error = %v", err)
	}
	if !report.BrewFailed() {
		t.Error("expected brew failure")
	}
	if len(report.Optional) != 0 {
		t.Errorf("optionals ran after brew failure: %d", len(report.Optional))
	}

	if len(metrics.operations) != 1 || metrics.operations[0] != "grinder-wifi:brew_failed" {
		t.Errorf("operations = %v, want [grinder-wifi:brew_failed]", metrics.operations)
	}
}
