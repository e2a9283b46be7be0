package auditlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func tempRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.db")
	r, err := OpenAt(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func save(t *testing.T, r *SQLiteRepository, entries ...*AuditEntry) {
	t.Helper()
	for _, e := range entries {
		if err := r.Save(context.Background(), e); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
}

// ids returns the resource IDs of entries, in order.
func ids(entries []AuditEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ResourceID
	}
	return out
}

func TestSave_AssignsIDAndTimestamp(t *testing.T) {
	r := tempRepo(t)

	entry := &AuditEntry{Command: "ec2kit instance list", Outcome: OutcomeSuccess, DurationMs: 12}
	save(t, r, entry)

	if entry.ID == 0 {
		t.Error("expected ID to be assigned")
	}
	if entry.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestSave_RoundTripsLaunchFields(t *testing.T) {
	r := tempRepo(t)

	entry := &AuditEntry{
		Timestamp:     time.Now().UTC(),
		Command:       "ec2kit instance provision",
		Args:          "--yes",
		Region:        "us-east-1",
		ResourceType:  ResourceInstance,
		ResourceID:    "i-0abc",
		ResourceName:  "MyPythonInstance",
		InstanceType:  "t3.micro",
		SecurityGroup: "sg-0123",
		Outcome:       OutcomeSuccess,
		DurationMs:    4200,
	}
	save(t, r, entry)

	got, err := r.List(context.Background(), Filter{Limit: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if diff := cmp.Diff(*entry, got[0], cmpopts.EquateApproxTime(time.Microsecond)); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	r := tempRepo(t)
	base := time.Now().UTC().Add(-time.Hour)

	for i, id := range []string{"i-1", "i-2", "i-3"} {
		save(t, r, &AuditEntry{
			Command:    "ec2kit instance provision",
			ResourceID: id,
			Outcome:    OutcomeSuccess,
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		})
	}

	got, err := r.List(context.Background(), Filter{Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if diff := cmp.Diff([]string{"i-3", "i-2"}, ids(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	all, err := r.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("zero Limit returned %d entries, want 3", len(all))
	}
}

func TestList_Filters(t *testing.T) {
	r := tempRepo(t)
	now := time.Now().UTC()

	save(t, r,
		&AuditEntry{Command: "ec2kit instance provision", Region: "us-east-1", ResourceType: ResourceInstance, ResourceID: "i-east", Outcome: OutcomeSuccess, Timestamp: now.Add(-3 * time.Minute)},
		&AuditEntry{Command: "ec2kit instance provision", Region: "eu-west-1", ResourceType: ResourceInstance, ResourceID: "i-west", Outcome: OutcomeError, Timestamp: now.Add(-2 * time.Minute)},
		&AuditEntry{Command: "ec2kit keypair create", Region: "us-east-1", ResourceType: ResourceKeyPair, ResourceID: "key-1", Outcome: OutcomeSuccess, Timestamp: now.Add(-time.Minute)},
		&AuditEntry{Command: "ec2kit instance list", Region: "us-east-1", ResourceID: "old", Outcome: OutcomeSuccess, Timestamp: now.Add(-48 * time.Hour)},
	)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "region", filter: Filter{Region: "us-east-1"}, want: []string{"key-1", "i-east", "old"}},
		{name: "resource type", filter: Filter{ResourceType: ResourceInstance}, want: []string{"i-west", "i-east"}},
		{name: "outcome", filter: Filter{Outcome: OutcomeError}, want: []string{"i-west"}},
		{name: "command", filter: Filter{Command: "ec2kit keypair create"}, want: []string{"key-1"}},
		{name: "since", filter: Filter{Since: now.Add(-time.Hour)}, want: []string{"key-1", "i-west", "i-east"}},
		{name: "combined", filter: Filter{Region: "us-east-1", ResourceType: ResourceInstance, Outcome: OutcomeSuccess}, want: []string{"i-east"}},
		{name: "no match", filter: Filter{Region: "ap-south-1"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.List(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLaunches(t *testing.T) {
	r := tempRepo(t)
	now := time.Now().UTC()

	save(t, r,
		&AuditEntry{Command: "ec2kit instance provision", Region: "us-east-1", ResourceType: ResourceInstance, ResourceID: "i-1", InstanceType: "t3.micro", SecurityGroup: "sg-1", Outcome: OutcomeSuccess, Timestamp: now.Add(-2 * time.Minute)},
		&AuditEntry{Command: "ec2kit instance provision", Region: "us-east-1", ResourceType: ResourceInstance, ResourceID: "i-2", Outcome: OutcomeError, Timestamp: now.Add(-time.Minute)},
		&AuditEntry{Command: "ec2kit instance provision", Region: "eu-west-1", ResourceType: ResourceInstance, ResourceID: "i-3", Outcome: OutcomeSuccess, Timestamp: now},
		&AuditEntry{Command: "ec2kit keypair create", Region: "us-east-1", ResourceType: ResourceKeyPair, ResourceID: "key-1", Outcome: OutcomeSuccess, Timestamp: now},
	)

	got, err := r.Launches(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("Launches failed: %v", err)
	}
	if diff := cmp.Diff([]string{"i-3", "i-1"}, ids(got)); diff != "" {
		t.Errorf("all regions mismatch (-want +got):\n%s", diff)
	}

	east, err := r.Launches(context.Background(), "us-east-1", 10)
	if err != nil {
		t.Fatalf("Launches failed: %v", err)
	}
	if len(east) != 1 || east[0].InstanceType != "t3.micro" || east[0].SecurityGroup != "sg-1" {
		t.Errorf("unexpected us-east-1 launches: %+v", east)
	}
}

func TestPrune(t *testing.T) {
	r := tempRepo(t)
	now := time.Now().UTC()

	save(t, r,
		&AuditEntry{Command: "ec2kit instance list", ResourceID: "old", Outcome: OutcomeSuccess, Timestamp: now.Add(-48 * time.Hour)},
		&AuditEntry{Command: "ec2kit instance list", ResourceID: "recent", Outcome: OutcomeSuccess, Timestamp: now.Add(-time.Hour)},
	)
	cutoff := now.Add(-24 * time.Hour)

	counted, err := r.Prune(context.Background(), cutoff, true)
	if err != nil {
		t.Fatalf("dry-run Prune failed: %v", err)
	}
	if counted != 1 {
		t.Fatalf("dry run counted %d, want 1", counted)
	}
	if all, _ := r.List(context.Background(), Filter{}); len(all) != 2 {
		t.Fatalf("dry run removed entries: %d left", len(all))
	}

	removed, err := r.Prune(context.Background(), cutoff, false)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	remaining, err := r.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if diff := cmp.Diff([]string{"recent"}, ids(remaining)); diff != "" {
		t.Errorf("remaining mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenAt_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	first, err := OpenAt(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	save(t, first, &AuditEntry{Command: "ec2kit instance list", ResourceID: "kept", Outcome: OutcomeSuccess})
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := OpenAt(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()

	got, err := second.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if diff := cmp.Diff([]string{"kept"}, ids(got)); diff != "" {
		t.Errorf("entries after reopen mismatch (-want +got):\n%s", diff)
	}
}
