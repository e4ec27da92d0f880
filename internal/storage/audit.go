package storage

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Operation is one recorded audit entry.
type Operation struct {
	ID          string
	Kind        string
	Face        *int
	Layer       *int
	Plane       *int
	RequestedAt time.Time
}

// AuditLog records admitted cube operations to a DB. It implements
// concurrentcube.AuditLogger.
type AuditLog struct {
	db *DB
}

// NewAuditLog returns an AuditLog backed by db.
func NewAuditLog(db *DB) *AuditLog {
	return &AuditLog{db: db}
}

// LogRotation records an admitted rotation.
func (a *AuditLog) LogRotation(face, layer, plane int) {
	a.insert("rotate", &face, &layer, &plane)
}

// LogSnapshot records an admitted snapshot.
func (a *AuditLog) LogSnapshot() {
	a.insert("snapshot", nil, nil, nil)
}

func (a *AuditLog) insert(kind string, face, layer, plane *int) {
	_, err := a.db.Exec(`
		INSERT INTO operations (op_id, kind, face, layer, plane, requested_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), kind, face, layer, plane, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		// The audit log is a best-effort side channel; a write failure must
		// never fail the operation it is recording. Stderr, not stdout, so
		// it never interleaves with a command's normal output (e.g. cubectl
		// run's snapshot line).
		fmt.Fprintln(os.Stderr, "storage: audit log write failed:", err)
	}
}

// List returns the most recent operations, newest first.
func (a *AuditLog) List(limit int) ([]Operation, error) {
	rows, err := a.db.Query(`
		SELECT op_id, kind, face, layer, plane, requested_at
		FROM operations
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: list operations: %w", err)
	}
	defer rows.Close()

	var ops []Operation
	for rows.Next() {
		var op Operation
		var requestedAt string
		if err := rows.Scan(&op.ID, &op.Kind, &op.Face, &op.Layer, &op.Plane, &requestedAt); err != nil {
			return nil, fmt.Errorf("storage: scan operation: %w", err)
		}
		op.RequestedAt, _ = time.Parse(time.RFC3339Nano, requestedAt)
		ops = append(ops, op)
	}
	return ops, nil
}
