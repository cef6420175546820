package db

import (
	"strconv"
	"strings"
)

// Where accumulates AND-ed SQL conditions with numbered Postgres placeholders.
// Conditions are written with '?' and rewritten to $n in order.
type Where struct {
	conds []string
	args  []any
}

// NewWhere starts a builder whose first placeholder will be $(len(args)+1).
func NewWhere(args ...any) *Where {
	return &Where{args: append([]any(nil), args...)}
}

// Add appends cond, replacing each '?' with the next placeholder bound to args in order.
func (w *Where) Add(cond string, args ...any) *Where {
	var b strings.Builder
	i := 0
	for _, r := range cond {
		if r == '?' && i < len(args) {
			w.args = append(w.args, args[i])
			b.WriteString("$" + strconv.Itoa(len(w.args)))
			i++
			continue
		}
		b.WriteRune(r)
	}
	w.conds = append(w.conds, b.String())
	return w
}

// In appends "column IN (...)". An empty list matches nothing.
func (w *Where) In(column string, values []string) *Where {
	if len(values) == 0 {
		w.conds = append(w.conds, "FALSE")
		return w
	}
	holders := make([]string, len(values))
	for i, v := range values {
		w.args = append(w.args, v)
		holders[i] = "$" + strconv.Itoa(len(w.args))
	}
	w.conds = append(w.conds, column+" IN ("+strings.Join(holders, ", ")+")")
	return w
}

// SQL renders the conditions joined with AND, or "TRUE" when there are none.
func (w *Where) SQL() string {
	if len(w.conds) == 0 {
		return "TRUE"
	}
	return strings.Join(w.conds, " AND ")
}

// Args returns the bound arguments in placeholder order.
func (w *Where) Args() []any {
	return w.args
}

// Next returns the placeholder that the next bound argument would receive.
func (w *Where) Next() string {
	return "$" + strconv.Itoa(len(w.args)+1)
}

// LikeContains escapes s for use as an ILIKE substring pattern.
func LikeContains(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// Bind appends v without adding a condition and returns its placeholder.
func (w *Where) Bind(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}
