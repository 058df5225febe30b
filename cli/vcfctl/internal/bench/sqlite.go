package bench

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLTarget answers query methods with operator-supplied SQL. Parameters bind
// by name (:chromosome, @gene, $limit); list parameters bind as JSON text so
// statements can use json_each.
type SQLTarget struct {
	name       string
	driver     string
	dsn        string
	statements map[string]string
	// params holds the parameter names each statement references, resolved on Connect.
	params map[string]map[string]bool
	db     *sql.DB
}

var paramRef = regexp.MustCompile(`[:@$]([A-Za-z_][A-Za-z0-9_]*)`)

// NewSQLite returns a target over the SQLite database file at path.
func NewSQLite(path string, statements map[string]string) *SQLTarget {
	return &SQLTarget{name: "SQLite", driver: "sqlite", dsn: path, statements: statements}
}

func (t *SQLTarget) Name() string { return t.name }

func (t *SQLTarget) Connect(ctx context.Context) error {
	db, err := sql.Open(t.driver, t.dsn)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}
	t.params = make(map[string]map[string]bool, len(t.statements))
	for method, stmt := range t.statements {
		t.params[method] = statementParams(stmt)
	}
	t.db = db
	return nil
}

func (t *SQLTarget) Close() error {
	if t.db == nil {
		return nil
	}
	err := t.db.Close()
	t.db = nil
	return err
}

func (t *SQLTarget) Query(ctx context.Context, method string, params map[string]any) (int, error) {
	if t.db == nil {
		return 0, fmt.Errorf("%s: not connected", t.name)
	}
	stmt, ok := t.statements[method]
	if !ok || strings.TrimSpace(stmt) == "" {
		return 0, fmt.Errorf("%w: %s", ErrNotImplemented, method)
	}
	args, err := namedArgs(t.params[method], params)
	if err != nil {
		return 0, err
	}
	rows, err := t.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	n := 0
	for rows.Next() {
		n++
	}
	return n, rows.Err()
}

// namedArgs binds the params listed in refs, in name order.
func namedArgs(refs map[string]bool, params map[string]any) ([]any, error) {
	names := make([]string, 0, len(params))
	for k := range params {
		if refs[k] {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	args := make([]any, 0, len(names))
	for _, k := range names {
		v := params[k]
		switch v.(type) {
		case []any, []string, map[string]any:
			b, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("param %s: %w", k, err)
			}
			v = string(b)
		}
		args = append(args, sql.Named(k, v))
	}
	return args, nil
}

func statementParams(stmt string) map[string]bool {
	refs := map[string]bool{}
	for _, m := range paramRef.FindAllStringSubmatch(stmt, -1) {
		refs[m[1]] = true
	}
	return refs
}
