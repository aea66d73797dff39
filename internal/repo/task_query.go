package repo

import (
	"strconv"
	"strings"

	dom "taskflow/internal/domain"
)

const taskColumns = "id, title, done"

// SortColumn is a column tasks may be ordered by.
type SortColumn string

const (
	SortByID    SortColumn = "id"
	SortByTitle SortColumn = "title"
	SortByDone  SortColumn = "done"
)

// ParseSortColumn maps a client value onto the allow-list; anything else is SortByID.
func ParseSortColumn(s string) SortColumn {
	switch SortColumn(s) {
	case SortByTitle:
		return SortByTitle
	case SortByDone:
		return SortByDone
	default:
		return SortByID
	}
}

// SortOrder is an ORDER BY direction.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ParseSortOrder maps a client value onto asc/desc; anything else is Asc.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == Desc {
		return Desc
	}
	return Asc
}

// Statement is SQL text plus its positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

// BuildListQuery renders the SELECT for a filter. Only allow-listed identifiers
// reach the SQL text; done, limit and offset are always bound.
// A non-positive Limit binds NULL, which Postgres treats as no limit.
func BuildListQuery(f dom.TaskFilter) Statement {
	var b strings.Builder
	args := make([]any, 0, 3)
	bind := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	b.WriteString("SELECT " + taskColumns + " FROM tasks")
	if f.Done != nil {
		b.WriteString(" WHERE done = " + bind(*f.Done))
	}
	if f.Sort != "" || f.Order != "" {
		b.WriteString(" ORDER BY " + string(ParseSortColumn(f.Sort)) + " " + strings.ToUpper(string(ParseSortOrder(f.Order))))
	}

	var limit any
	if f.Limit > 0 {
		limit = f.Limit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	b.WriteString(" LIMIT " + bind(limit))
	b.WriteString(" OFFSET " + bind(offset))

	return Statement{SQL: b.String(), Args: args}
}
