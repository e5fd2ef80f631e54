// Package recorder persists sample batches to month-partitioned files under
// the operator-configured save root.
package recorder

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/domain"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/ports"
)

const timestampLayout = "2006-01-02T15:04:05"

// PartitionWriter appends one tab-separated record per batch to
// <root>/<YYYY-MM>/<INITIALS>_<YYYY-MM>.tsv. The month directory is created
// lazily on first use and creation is idempotent, so directory races with an
// external inspector are tolerated. Appends land in call order; calls come
// from the single-threaded scheduler loop.
type PartitionWriter struct {
	root     string
	operator string

	mu   sync.Mutex
	key  domain.PartitionKey
	file *os.File
	w    *bufio.Writer
}

// NewPartitionWriter builds a writer rooted at dir. Nothing is created until
// the first Append so an unwritable root surfaces as a failed cycle, not a
// startup crash.
func NewPartitionWriter(root, operator string) *PartitionWriter {
	operator = strings.ToUpper(strings.TrimSpace(operator))
	if operator == "" {
		operator = "NULL"
	}
	return &PartitionWriter{root: root, operator: operator}
}

func (p *PartitionWriter) Name() string { return "partition-file" }

// Append writes one record: ISO-like timestamp, then one value per configured
// channel in configured order, 4 decimal places, tab-separated.
func (p *PartitionWriter) Append(b *domain.SampleBatch) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := domain.PartitionKeyFor(b.Timestamp)
	if p.file == nil || key != p.key {
		if err := p.rotateLocked(key); err != nil {
			return err
		}
	}

	var line strings.Builder
	line.WriteString(b.Timestamp.Format(timestampLayout))
	for _, r := range b.Readings {
		fmt.Fprintf(&line, "\t%.4f", r.Value)
	}
	line.WriteByte('\n')

	if _, err := p.w.WriteString(line.String()); err != nil {
		return fmt.Errorf("%w: append to %s: %v", domain.ErrPersistence, p.file.Name(), err)
	}
	// Cycles are seconds apart; flush per record so a crash loses nothing.
	if err := p.w.Flush(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", domain.ErrPersistence, p.file.Name(), err)
	}
	return nil
}

func (p *PartitionWriter) rotateLocked(key domain.PartitionKey) error {
	if p.file != nil {
		if err := p.closeLocked(); err != nil {
			return err
		}
	}

	dir := filepath.Join(p.root, key.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create partition %s: %v", domain.ErrPersistence, dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.tsv", p.operator, key))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", domain.ErrPersistence, path, err)
	}

	p.key = key
	p.file = f
	p.w = bufio.NewWriter(f)
	return nil
}

// ActivePath reports the file currently receiving records, or "" before the
// first append.
func (p *PartitionWriter) ActivePath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return ""
	}
	return p.file.Name()
}

// Close flushes and closes the active partition file.
func (p *PartitionWriter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return nil
	}
	return p.closeLocked()
}

func (p *PartitionWriter) closeLocked() error {
	if err := p.w.Flush(); err != nil {
		p.file.Close()
		p.file = nil
		return fmt.Errorf("%w: flush %s: %v", domain.ErrPersistence, p.key, err)
	}
	err := p.file.Close()
	p.file = nil
	p.w = nil
	if err != nil {
		return fmt.Errorf("%w: close %s: %v", domain.ErrPersistence, p.key, err)
	}
	return nil
}

var _ ports.Recorder = (*PartitionWriter)(nil)
