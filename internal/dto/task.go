package dto

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	dom "taskflow/internal/domain"
)

// TaskRequest is the JSON body for POST /tasks and PUT /tasks/{id}.
type TaskRequest struct {
	Title string `json:"title" binding:"max=255" example:"Buy milk"`
	Done  *bool  `json:"done" binding:"required" example:"false"`
}

// NewTask validates the request and converts it. The title is stored trimmed.
func (r TaskRequest) NewTask() (dom.NewTask, error) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return dom.NewTask{}, dom.InvalidInput("title must not be empty")
	}
	var done bool
	if r.Done != nil {
		done = *r.Done
	}
	return dom.NewTask{Title: title, Done: done}, nil
}

type TaskResponse struct {
	ID    int64  `json:"id" example:"1"`
	Title string `json:"title" example:"Buy milk"`
	Done  bool   `json:"done" example:"false"`
}

type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

type GetTaskResponse struct {
	Task TaskResponse `json:"task"`
}

type TaskMutationResponse struct {
	Status string       `json:"status" example:"success"`
	Task   TaskResponse `json:"task"`
}

type DeleteTaskResponse struct {
	Status  string `json:"status" example:"success"`
	Deleted int64  `json:"deleted" example:"1"`
}

type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

type ErrorResponse struct {
	Status string `json:"status" example:"error"`
	Error  string `json:"error" example:"Not found: task 1 not found"`
}

// Pagination bounds the limit a client may request.
type Pagination struct {
	DefaultLimit int64
	MaxLimit     int64
}

// ParseListQuery reads done, offset, page, limit, sort and order from the query string.
// Unparseable numbers or booleans are InvalidInput; out-of-range numbers are normalized.
// page is 0-based and only consulted when offset is absent; a page whose offset
// overflows int64 is InvalidInput.
func ParseListQuery(q url.Values, p Pagination) (dom.TaskFilter, error) {
	var f dom.TaskFilter

	if raw := q.Get("done"); raw != "" {
		done, err := strconv.ParseBool(raw)
		if err != nil {
			return dom.TaskFilter{}, dom.InvalidInput("done must be true or false")
		}
		f.Done = &done
	}

	limit, err := intParam(q, "limit")
	if err != nil {
		return dom.TaskFilter{}, err
	}
	switch {
	case limit <= 0:
		limit = p.DefaultLimit
	case p.MaxLimit > 0 && limit > p.MaxLimit:
		limit = p.MaxLimit
	}
	f.Limit = limit

	offset, err := intParam(q, "offset")
	if err != nil {
		return dom.TaskFilter{}, err
	}
	if q.Get("offset") == "" {
		page, err := intParam(q, "page")
		if err != nil {
			return dom.TaskFilter{}, err
		}
		if page > 0 && limit > 0 {
			if page > math.MaxInt64/limit {
				return dom.TaskFilter{}, dom.InvalidInput("page is out of range")
			}
			offset = page * limit
		}
	}
	if offset < 0 {
		offset = 0
	}
	f.Offset = offset

	f.Sort = q.Get("sort")
	f.Order = q.Get("order")
	return f, nil
}

func intParam(q url.Values, name string) (int64, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, dom.InvalidInput(name + " must be an integer")
	}
	return n, nil
}
