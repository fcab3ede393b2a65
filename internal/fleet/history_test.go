package fleet

import (
	"context"
	"testing"
	"time"

	"github.com/brewlogic/brewfleet-core/internal/capability"
	"github.com/brewlogic/brewfleet-core/internal/controller"
)

func sampleReport(brewOK bool, optionalFailures int) *controller.OperationReport {
	report := &controller.OperationReport{
		Description: []string{"Acme X1", "capability: brew"},
		Brew: controller.Outcome{
			Capability: capability.CapBrew,
			OK:         brewOK,
			ElapsedMS:  200,
		},
		StartedAt:  time.Now().UTC().Add(-time.Second),
		FinishedAt: time.Now().UTC(),
	}
	if !brewOK {
		report.Brew.Error = "boiler offline"
		return report
	}
	for i := 0; i < optionalFailures; i++ {
		report.Optional = append(report.Optional, controller.Outcome{
			Capability: capability.CapGrind,
			OK:         false,
			Error:      "hopper empty",
		})
	}
	return report
}

func TestReportOutcome(t *testing.T) {
	tests := []struct {
		name   string
		report *controller.OperationReport
		want   string
	}{
		{
			name:   "all succeeded",
			report: sampleReport(true, 0),
			want:   OutcomeOK,
		},
		{
			name:   "brew failed",
			report: sampleReport(false, 0),
			want:   OutcomeBrewFailed,
		},
		{
			name:   "optional failed",
			report: sampleReport(true, 1),
			want:   OutcomePartial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReportOutcome(tt.report); got != tt.want {
				t.Errorf("ReportOutcome() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHistoryRecordAndList(t *testing.T) {
	repo := NewSQLiteHistoryRepository(openTestDB(t))
	ctx := context.Background()

	if err := repo.Record(ctx, "m1", sampleReport(true, 0)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := repo.Record(ctx, "m1", sampleReport(false, 0)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := repo.Record(ctx, "m2", sampleReport(true, 1)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	entries, err := repo.List(ctx, "m1", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List(m1) = %d entries, want 2", len(entries))
	}

	// Newest first
	if entries[0].Outcome != OutcomeBrewFailed {
		t.Errorf("entries[0].Outcome = %q, want brew_failed", entries[0].Outcome)
	}
	if entries[1].Outcome != OutcomeOK {
		t.Errorf("entries[1].Outcome = %q, want ok", entries[1].Outcome)
	}

	// Report round-trips through JSON
	if entries[0].Report.Brew.Error != "boiler offline" {
		t.Errorf("Report.Brew.Error = %q, want boiler offline", entries[0].Report.Brew.Error)
	}
	if entries[0].MachineID != "m1" {
		t.Errorf("MachineID = %q, want m1", entries[0].MachineID)
	}
	if entries[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestHistoryRecordValidation(t *testing.T) {
	repo := NewSQLiteHistoryRepository(openTestDB(t))
	ctx := context.Background()

	if err := repo.Record(ctx, "", sampleReport(true, 0)); err == nil {
		t.Error("Record() expected error for empty machine id")
	}
	if err := repo.Record(ctx, "m1", nil); err == nil {
		t.Error("Record() expected error for nil report")
	}
}

func TestHistoryListLimit(t *testing.T) {
	repo := NewSQLiteHistoryRepository(openTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.Record(ctx, "m1", sampleReport(true, 0)); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	entries, err := repo.List(ctx, "m1", 3)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("List(limit=3) = %d entries, want 3", len(entries))
	}
}

func TestHistoryPruneToRetention(t *testing.T) {
	repo := NewSQLiteHistoryRepository(openTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.Record(ctx, "m1", sampleReport(true, 0)); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	// Another machine's history must not be pruned
	if err := repo.Record(ctx, "m2", sampleReport(true, 0)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	pruned, err := repo.PruneToRetention(ctx, "m1", 2)
	if err != nil {
		t.Fatalf("PruneToRetention() error = %v", err)
	}
	if pruned != 3 {
		t.Errorf("PruneToRetention() = %d rows, want 3", pruned)
	}

	m1, err := repo.List(ctx, "m1", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(m1) != 2 {
		t.Errorf("List(m1) = %d entries after prune, want 2", len(m1))
	}

	m2, err := repo.List(ctx, "m2", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(m2) != 1 {
		t.Errorf("List(m2) = %d entries after prune, want 1", len(m2))
	}
}

func TestHistoryPruneDisabled(t *testing.T) {
	repo := NewSQLiteHistoryRepository(openTestDB(t))
	ctx := context.Background()

	if err := repo.Record(ctx, "m1", sampleReport(true, 0)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	pruned, err := repo.PruneToRetention(ctx, "m1", 0)
	if err != nil {
		t.Fatalf("PruneToRetention() error = %v", err)
	}
	if pruned != 0 {
		t.Errorf("PruneToRetention(keep=0) = %d rows, want 0", pruned)
	}
}
