// Package export renders report rows as CSV. The output is byte-stable:
// header row, one line per record, fields quoted only when they contain a
// comma, quote, CR or LF, lines joined by "\n" with no trailing newline. An
// empty dataset yields the header followed by a single "\n".
package export

import (
	"strings"
)

const ContentType = "text/csv; charset=utf-8"

// Column names one CSV field and how to read it from a row.
type Column[T any] struct {
	Name  string
	Value func(*T) string
}

func quote(v string) string {
	if !strings.ContainsAny(v, ",\"\r\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func header[T any](cols []Column[T]) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = quote(c.Name)
	}
	return strings.Join(names, ",")
}

// CSV encodes rows with the given columns.
func CSV[T any](cols []Column[T], rows []T) []byte {
	head := header(cols)
	if len(rows) == 0 {
		return []byte(head + "\n")
	}
	var b strings.Builder
	b.WriteString(head)
	for i := range rows {
		b.WriteByte('\n')
		for j, c := range cols {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quote(c.Value(&rows[i])))
		}
	}
	return []byte(b.String())
}
