// Package archive is the optional secondary persistence path: every batch is
// also inserted into a SQL table so site tooling can pick it up. The
// partition file remains the system of record.
package archive

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/domain"
	"github.com/illiteratewaffle/Analytical-Data-Acquisition/internal/ports"
)

// SQLArchive writes one row per reading. It works against any database/sql
// driver; placeholder syntax is selected by driver name (postgres uses $n,
// sqlite3 uses ?).
type SQLArchive struct {
	db     *sql.DB
	driver string
	table  string
}

func New(db *sql.DB, driver, table string) *SQLArchive {
	return &SQLArchive{db: db, driver: driver, table: table}
}

func (a *SQLArchive) Name() string { return "sql-archive:" + a.driver }

func (a *SQLArchive) Append(b *domain.SampleBatch) error {
	if b == nil || len(b.Readings) == 0 {
		return nil
	}

	var q strings.Builder
	q.WriteString("INSERT INTO ")
	q.WriteString(a.table)
	q.WriteString(" (batch_id, ts, channel, kind, value) VALUES ")

	args := make([]any, 0, len(b.Readings)*5)
	for i, r := range b.Readings {
		if i > 0 {
			q.WriteString(",")
		}
		q.WriteString("(")
		for j := 0; j < 5; j++ {
			if j > 0 {
				q.WriteString(",")
			}
			q.WriteString(a.placeholder(len(args) + j + 1))
		}
		q.WriteString(")")
		args = append(args, b.ID.String(), b.Timestamp, r.Channel.Index, r.Channel.Kind.String(), r.Value)
	}

	if _, err := a.db.Exec(q.String(), args...); err != nil {
		return fmt.Errorf("%w: archive insert: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (a *SQLArchive) placeholder(n int) string {
	if a.driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

var _ ports.Recorder = (*SQLArchive)(nil)
