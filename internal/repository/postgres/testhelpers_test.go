package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRow satisfies pgx.Row with a canned Scan.
type fakeRow struct {
	scan func(dest []any) error
}

func (r fakeRow) Scan(dest ...any) error {
	return r.scan(dest)
}

type execCall struct {
	sql  string
	args []any
}

// fakeTx implements pgx.Tx over in-memory association state, so the
// transactional write paths can run without a server.
type fakeTx struct {
	failExecOn string

	execs      []execCall
	committed  bool
	rolledBack bool

	categories map[int64]struct{}
	tags       map[int64]struct{}
}

func newFakeTx() *fakeTx {
	return &fakeTx{
		categories: map[int64]struct{}{},
		tags:       map[int64]struct{}{},
	}
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if t.failExecOn != "" && strings.Contains(sql, t.failExecOn) {
		return pgconn.CommandTag{}, errors.New("forced exec failure")
	}

	t.execs = append(t.execs, execCall{sql: sql, args: args})

	switch {
	case strings.HasPrefix(sql, "DELETE FROM post_categories"):
		t.categories = map[int64]struct{}{}
	case strings.HasPrefix(sql, "DELETE FROM post_tags"):
		t.tags = map[int64]struct{}{}
	case strings.HasPrefix(sql, "INSERT INTO post_categories"):
		t.categories[args[1].(int64)] = struct{}{}
	case strings.HasPrefix(sql, "INSERT INTO post_tags"):
		t.tags[args[1].(int64)] = struct{}{}
	}

	return pgconn.NewCommandTag(""), nil
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return fakeRow{scan: func(dest []any) error {
		if id, ok := dest[0].(*int64); ok {
			*id = 1
		}
		return nil
	}}
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return t, nil
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("not implemented")
}

func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (t *fakeTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (t *fakeTx) Prepare(ctx context.Context, name string, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("not implemented")
}

func (t *fakeTx) Conn() *pgx.Conn {
	return nil
}

// fakeDB implements DBTX, handing out fakeTx transactions.
type fakeDB struct {
	failExecOn string
	rowScan    func(sql string, dest []any) error

	execs       []execCall
	queryRowSQL []string
	begun       []*fakeTx
}

func (f *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	tx := newFakeTx()
	tx.failExecOn = f.failExecOn
	f.begun = append(f.begun, tx)
	return tx, nil
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag(""), nil
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected query")
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.queryRowSQL = append(f.queryRowSQL, sql)
	return fakeRow{scan: func(dest []any) error {
		if f.rowScan != nil {
			return f.rowScan(sql, dest)
		}
		return nil
	}}
}
