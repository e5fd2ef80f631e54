package recorder

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/domain"
)

func batchAt(ts time.Time, values ...float64) *domain.SampleBatch {
	readings := make([]domain.Reading, len(values))
	for i, v := range values {
		readings[i] = domain.Reading{
			Channel: domain.Channel{Index: i, Kind: domain.Analog},
			Value:   v,
		}
	}
	return domain.NewSampleBatch(ts, readings)
}

func TestAppendCreatesMonthPartition(t *testing.T) {
	root := t.TempDir()
	w := NewPartitionWriter(root, "jd")
	defer w.Close()

	ts := time.Date(2024, time.March, 15, 11, 30, 0, 0, time.UTC)
	if err := w.Append(batchAt(ts, 1.23456, 2.5)); err != nil {
		t.Fatalf("append: %v", err)
	}

	want := filepath.Join(root, "2024-03", "JD_2024-03.tsv")
	if got := w.ActivePath(); got != want {
		t.Fatalf("expected active path %s, got %s", want, got)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("partition file missing: %v", err)
	}
}

func TestNothingCreatedBeforeFirstAppend(t *testing.T) {
	root := t.TempDir()
	w := NewPartitionWriter(root, "jd")

	if got := w.ActivePath(); got != "" {
		t.Fatalf("expected no active path before append, got %s", got)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty root, found %d entries", len(entries))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close without append: %v", err)
	}
}

func TestRecordFormat(t *testing.T) {
	root := t.TempDir()
	w := NewPartitionWriter(root, "ab")
	defer w.Close()

	ts := time.Date(2024, time.March, 15, 11, 30, 0, 0, time.UTC)
	if err := w.Append(batchAt(ts, 1.23456, -0.5, 0)); err != nil {
		t.Fatalf("append: %v", err)
	}

	data, err := os.ReadFile(w.ActivePath())
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "2024-03-15T11:30:00\t1.2346\t-0.5000\t0.0000\n"
	if string(data) != want {
		t.Fatalf("record mismatch:\n got %q\nwant %q", data, want)
	}
}

func TestAppendsLandInOrder(t *testing.T) {
	root := t.TempDir()
	w := NewPartitionWriter(root, "ab")
	defer w.Close()

	base := time.Date(2024, time.March, 15, 11, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := w.Append(batchAt(base.Add(time.Duration(i)*10*time.Minute), float64(i))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	data, err := os.ReadFile(w.ActivePath())
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 records, got %d", len(lines))
	}
	for i, prefix := range []string{"2024-03-15T11:00:00", "2024-03-15T11:10:00", "2024-03-15T11:20:00"} {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Fatalf("record %d: expected prefix %s, got %q", i, prefix, lines[i])
		}
	}
}

func TestRotatesOnMonthChange(t *testing.T) {
	root := t.TempDir()
	w := NewPartitionWriter(root, "ab")
	defer w.Close()

	march := time.Date(2024, time.March, 31, 23, 50, 0, 0, time.UTC)
	april := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	if err := w.Append(batchAt(march, 1)); err != nil {
		t.Fatalf("append march: %v", err)
	}
	if err := w.Append(batchAt(april, 2)); err != nil {
		t.Fatalf("append april: %v", err)
	}

	if got, want := w.ActivePath(), filepath.Join(root, "2024-04", "AB_2024-04.tsv"); got != want {
		t.Fatalf("expected rotation to %s, got %s", want, got)
	}
	if _, err := os.Stat(filepath.Join(root, "2024-03", "AB_2024-03.tsv")); err != nil {
		t.Fatalf("march partition missing after rotation: %v", err)
	}
}

func TestReusesExistingPartitionDirectory(t *testing.T) {
	root := t.TempDir()
	ts := time.Date(2024, time.March, 15, 11, 30, 0, 0, time.UTC)

	w1 := NewPartitionWriter(root, "ab")
	if err := w1.Append(batchAt(ts, 1)); err != nil {
		t.Fatalf("first writer append: %v", err)
	}
	if err := w1.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// a restart mid-month must append to the same file, not truncate it
	w2 := NewPartitionWriter(root, "ab")
	defer w2.Close()
	if err := w2.Append(batchAt(ts.Add(10*time.Minute), 2)); err != nil {
		t.Fatalf("second writer append: %v", err)
	}

	data, err := os.ReadFile(w2.ActivePath())
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if n := strings.Count(string(data), "\n"); n != 2 {
		t.Fatalf("expected 2 records after restart, got %d", n)
	}
}

func TestUnwritableRootFailsWithPersistenceError(t *testing.T) {
	// a plain file where the save root should be makes MkdirAll fail
	root := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(root, []byte("x"), 0o644); err != nil {
		t.Fatalf("prepare blocker: %v", err)
	}

	w := NewPartitionWriter(root, "ab")
	ts := time.Date(2024, time.March, 15, 11, 30, 0, 0, time.UTC)
	err := w.Append(batchAt(ts, 1))
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected persistence failure, got %v", err)
	}
}

func TestOperatorInitialsDefault(t *testing.T) {
	root := t.TempDir()
	w := NewPartitionWriter(root, "  ")
	defer w.Close()

	ts := time.Date(2024, time.March, 15, 11, 30, 0, 0, time.UTC)
	if err := w.Append(batchAt(ts, 1)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if got, want := filepath.Base(w.ActivePath()), "NULL_2024-03.tsv"; got != want {
		t.Fatalf("expected file %s, got %s", want, got)
	}
}
