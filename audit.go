package dockwerk

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	"google.golang.org/protobuf/proto"
)

// MessageAudit persists a trace of every send and post the loop records
// against it (signal emits are not recorded), the sqlite-backed equivalent of the teacher's in-memory
// ring-buffer log, sized for a full session instead of the last N lines.
// Each row's attribute bag is an OTLP common.v1.KeyValue list purely as a
// convenient, already-imported typed key/value encoding — MessageAudit
// never talks to a collector or opens a network connection of any kind.
type MessageAudit struct {
	db *sql.DB
}

// OpenMessageAudit opens (creating if needed) a sqlite database at path
// and ensures the trace table exists.
func OpenMessageAudit(path string) (*MessageAudit, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("dockwerk: open audit db: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS message_trace (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts_unix_nano INTEGER NOT NULL,
	kind TEXT NOT NULL,
	handler TEXT NOT NULL,
	message_type TEXT NOT NULL,
	attrs BLOB
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("dockwerk: create audit schema: %w", err)
	}
	return &MessageAudit{db: db}, nil
}

// Close releases the underlying sqlite connection.
func (a *MessageAudit) Close() error { return a.db.Close() }

// Record inserts one trace row. The loop records kind "send", "post" or
// "post-conflated" (callers outside this package may use their own kind
// strings for application-level events sharing the same trail).
func (a *MessageAudit) Record(kind string, handler Handler, msg Message) {
	attrs := encodeAttrs(handler, msg)
	_, _ = a.db.Exec(
		`INSERT INTO message_trace (ts_unix_nano, kind, handler, message_type, attrs) VALUES (?, ?, ?, ?, ?)`,
		time.Now().UnixNano(), kind, fmt.Sprintf("%T", handler), msg.MessageType(), attrs,
	)
}

// encodeAttrs builds a small OTLP KeyValue list (handler type, message
// type) and marshals it to bytes for storage. Errors are swallowed: a
// failed attribute encoding must never block the trace row itself from
// being written.
func encodeAttrs(handler Handler, msg Message) []byte {
	kvs := []*commonpb.KeyValue{
		{Key: "handler", Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: fmt.Sprintf("%T", handler)}}},
		{Key: "message_type", Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: msg.MessageType()}}},
	}
	list := &commonpb.KeyValueList{Values: kvs}
	data, err := proto.Marshal(list)
	if err != nil {
		return nil
	}
	return data
}

// Trace is one decoded message_trace row, returned by Recent.
type Trace struct {
	TimestampUnixNano int64
	Kind              string
	Handler           string
	MessageType       string
}

// Recent returns the last n trace rows, most recent first.
func (a *MessageAudit) Recent(n int) ([]Trace, error) {
	rows, err := a.db.Query(
		`SELECT ts_unix_nano, kind, handler, message_type FROM message_trace ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("dockwerk: query audit trail: %w", err)
	}
	defer rows.Close()

	var out []Trace
	for rows.Next() {
		var t Trace
		if err := rows.Scan(&t.TimestampUnixNano, &t.Kind, &t.Handler, &t.MessageType); err != nil {
			return nil, fmt.Errorf("dockwerk: scan audit row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
