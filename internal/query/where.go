// AngelaMos | 2026
// where.go

package query

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/leadflow/internal/core"
)

// Where accumulates AND-ed conditions written with ? placeholders.
type Where struct {
	conds []string
	args  []any
}

func (w *Where) Add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

// AnyILike adds one condition matching pattern case-insensitively against
// any of the columns.
func (w *Where) AnyILike(search string, columns ...string) {
	if search == "" || len(columns) == 0 {
		return
	}

	pattern := "%" + core.EscapeLike(search) + "%"
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = col + " ILIKE ?"
		w.args = append(w.args, pattern)
	}
	w.conds = append(w.conds, "("+strings.Join(parts, " OR ")+")")
}

func (w *Where) Empty() bool {
	return len(w.conds) == 0
}

func (w *Where) SQL() string {
	if w.Empty() {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

func (w *Where) Args() []any {
	return w.args
}

// Rebind converts ? placeholders to postgres positional parameters.
func Rebind(q string) string {
	return sqlx.Rebind(sqlx.DOLLAR, q)
}
