package testutil

import (
	"context"
	"database/sql/driver"
	"testing"
)

func TestStubDBUpsertsAndFiltersRows(t *testing.T) {
	ctx := context.Background()
	_, conn := NewStubDB()

	if err := conn.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	insert := "INSERT INTO state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload"
	for _, v := range []string{"first", "second"} {
		if _, err := conn.ExecContext(ctx, insert, []driver.NamedValue{{Value: "k"}, {Value: []byte(v)}}); err != nil {
			t.Fatalf("ExecContext insert: %v", err)
		}
	}
	if _, err := conn.ExecContext(ctx, insert, []driver.NamedValue{{Value: "other"}, {Value: []byte("x")}}); err != nil {
		t.Fatalf("ExecContext insert: %v", err)
	}
	if got := len(conn.Tables["state"]); got != 2 {
		t.Fatalf("expected upsert to keep 2 rows, got %d", got)
	}

	rows, err := conn.QueryContext(ctx, "SELECT bucket, payload FROM state WHERE bucket = $1", []driver.NamedValue{{Value: "k"}})
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	defer func() { _ = rows.Close() }()
	dest := make([]driver.Value, 2)
	if err := rows.Next(dest); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if dest[0] != "k" || string(dest[1].([]byte)) != "second" {
		t.Fatalf("unexpected row values: %v", dest)
	}
	if err := rows.Next(dest); err == nil {
		t.Fatalf("expected filtered result to contain a single row")
	}
}

func TestStubTxBuffersUntilCommit(t *testing.T) {
	ctx := context.Background()
	_, conn := NewStubDB()

	tx, err := conn.BeginTx(ctx, driver.TxOptions{})
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	if _, err := conn.ExecContext(ctx, "INSERT INTO state(bucket,payload) VALUES($1,$2)", []driver.NamedValue{{Value: "k"}, {Value: []byte("v")}}); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	if len(conn.Tables["state"]) != 0 {
		t.Fatalf("expected rows to stay pending before commit")
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if len(conn.Tables["state"]) != 0 {
		t.Fatalf("expected rollback to discard pending rows")
	}
}
