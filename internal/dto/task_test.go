package dto

import (
	"net/url"
	"testing"

	dom "taskflow/internal/domain"
)

var paging = Pagination{DefaultLimit: 20, MaxLimit: 100}

func TestParseListQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  dom.TaskFilter
	}{
		{"defaults", "", dom.TaskFilter{Limit: 20}},
		{"full", "done=true&limit=10&offset=0&sort=title&order=desc", dom.TaskFilter{Limit: 10, Sort: "title", Order: "desc"}},
		{"page derives offset", "limit=10&page=3", dom.TaskFilter{Limit: 10, Offset: 30}},
		{"offset wins over page", "limit=10&page=3&offset=7", dom.TaskFilter{Limit: 10, Offset: 7}},
		{"limit clamped", "limit=5000", dom.TaskFilter{Limit: 100}},
		{"zero limit uses default", "limit=0", dom.TaskFilter{Limit: 20}},
		{"negative offset clamps", "offset=-4", dom.TaskFilter{Limit: 20}},
		{"sort passed through raw", "sort=nope&order=up", dom.TaskFilter{Limit: 20, Sort: "nope", Order: "up"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			got, err := ParseListQuery(q, paging)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			got.Done = nil
			if got != tt.want {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseListQueryDone(t *testing.T) {
	q, _ := url.ParseQuery("done=false")
	f, err := ParseListQuery(q, paging)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Done == nil || *f.Done {
		t.Fatalf("expected done=false filter, got %v", f.Done)
	}
}

func TestParseListQueryRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"done=maybe", "limit=ten", "offset=1.5", "page=x"} {
		q, _ := url.ParseQuery(raw)
		_, err := ParseListQuery(q, paging)
		if dom.KindOf(err) != dom.KindInvalidInput {
			t.Errorf("%s: expected invalid input, got %v", raw, err)
		}
	}
}

func TestParseListQueryRejectsOverflowingPage(t *testing.T) {
	q, _ := url.ParseQuery("limit=10&page=922337203685477581")
	_, err := ParseListQuery(q, paging)
	if dom.KindOf(err) != dom.KindInvalidInput {
		t.Fatalf("expected invalid input for a page whose offset overflows, got %v", err)
	}

	q, _ = url.ParseQuery("limit=10&page=922337203685477580")
	f, err := ParseListQuery(q, paging)
	if err != nil {
		t.Fatalf("largest representable page: %v", err)
	}
	if f.Offset != 9223372036854775800 {
		t.Fatalf("unexpected offset %d", f.Offset)
	}
}

func TestTaskRequestNewTask(t *testing.T) {
	yes := true
	got, err := TaskRequest{Title: "  Buy milk ", Done: &yes}.NewTask()
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if got.Title != "Buy milk" || !got.Done {
		t.Fatalf("unexpected task %#v", got)
	}

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := TaskRequest{Title: title, Done: &yes}.NewTask()
		if dom.KindOf(err) != dom.KindInvalidInput {
			t.Errorf("title %q: expected invalid input, got %v", title, err)
		}
	}
}
