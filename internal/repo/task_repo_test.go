package repo

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"testing"

	dom "taskflow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
)

var taskCols = []string{"id", "title", "done"}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PGTaskRepo) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new pgxmock pool: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		mock.Close()
	})
	return mock, NewPGTaskRepo(mock)
}

func TestListBindsFilter(t *testing.T) {
	mock, r := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE done = $1 ORDER BY title DESC LIMIT $2 OFFSET $3")).
		WithArgs(true, int64(10), int64(0)).
		WillReturnRows(pgxmock.NewRows(taskCols).
			AddRow(int64(2), "walk dog", true).
			AddRow(int64(1), "buy milk", true))

	got, err := r.List(context.Background(), dom.TaskFilter{Done: boolPtr(true), Limit: 10, Sort: "title", Order: "desc"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []dom.Task{{ID: 2, Title: "walk dog", Done: true}, {ID: 1, Title: "buy milk", Done: true}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tasks: %#v", got)
	}
}

func TestListEmptyIsNotNil(t *testing.T) {
	mock, r := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, done FROM tasks")).
		WithArgs(int64(5), int64(0)).
		WillReturnRows(pgxmock.NewRows(taskCols))

	got, err := r.List(context.Background(), dom.TaskFilter{Limit: 5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestListFailureIsDatabaseError(t *testing.T) {
	mock, r := newMockRepo(t)
	cause := errors.New("connection refused")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, done FROM tasks")).
		WithArgs(int64(5), int64(0)).
		WillReturnError(cause)

	_, err := r.List(context.Background(), dom.TaskFilter{Limit: 5})
	if dom.KindOf(err) != dom.KindDatabase {
		t.Fatalf("expected database error, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause must be preserved for logging")
	}
}

func TestGetByID(t *testing.T) {
	mock, r := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, done FROM tasks WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(taskCols).AddRow(int64(7), "read", false))

	got, err := r.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != (dom.Task{ID: 7, Title: "read", Done: false}) {
		t.Fatalf("unexpected task: %#v", got)
	}
}

func TestGetByIDMissingIsNotFound(t *testing.T) {
	mock, r := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := r.GetByID(context.Background(), 404)
	if dom.KindOf(err) != dom.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.Error() != "Not found: task 404 not found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestCreateReturnsAssignedID(t *testing.T) {
	mock, r := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tasks (title, done)")).
		WithArgs("Buy milk", false).
		WillReturnRows(pgxmock.NewRows(taskCols).AddRow(int64(11), "Buy milk", false))

	got, err := r.Create(context.Background(), dom.NewTask{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.ID != 11 || got.Title != "Buy milk" || got.Done {
		t.Fatalf("unexpected task: %#v", got)
	}
}

func TestCreateConstraintViolationIsDatabaseError(t *testing.T) {
	mock, r := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tasks")).
		WithArgs("x", true).
		WillReturnError(&pgconn.PgError{Code: "23502", Message: "null value in column"})

	_, err := r.Create(context.Background(), dom.NewTask{Title: "x", Done: true})
	var de *dom.Error
	if !errors.As(err, &de) || de.Kind != dom.KindDatabase {
		t.Fatalf("expected database error, got %v", err)
	}
	if de.Detail != "failed to insert task: constraint violation" {
		t.Fatalf("unexpected detail %q", de.Detail)
	}
}

func TestUpdateMissingIsNotFound(t *testing.T) {
	mock, r := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasks SET title = $2, done = $3")).
		WithArgs(int64(9), "t", true).
		WillReturnError(pgx.ErrNoRows)

	_, err := r.Update(context.Background(), 9, dom.NewTask{Title: "t", Done: true})
	if dom.KindOf(err) != dom.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateReturnsRow(t *testing.T) {
	mock, r := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE tasks")).
		WithArgs(int64(3), "renamed", true).
		WillReturnRows(pgxmock.NewRows(taskCols).AddRow(int64(3), "renamed", true))

	got, err := r.Update(context.Background(), 3, dom.NewTask{Title: "renamed", Done: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got != (dom.Task{ID: 3, Title: "renamed", Done: true}) {
		t.Fatalf("unexpected task: %#v", got)
	}
}

func TestDelete(t *testing.T) {
	mock, r := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := r.Delete(context.Background(), 5); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	err := r.Delete(context.Background(), 5)
	if dom.KindOf(err) != dom.KindNotFound {
		t.Fatalf("repeated delete must be not found, got %v", err)
	}
}

func TestDeleteFailureIsDatabaseError(t *testing.T) {
	mock, r := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks")).
		WithArgs(int64(5)).
		WillReturnError(errors.New("broken pipe"))

	err := r.Delete(context.Background(), 5)
	if dom.KindOf(err) != dom.KindDatabase {
		t.Fatalf("expected database error, got %v", err)
	}
	if err.Error() != "Database error: failed to delete task" {
		t.Fatalf("driver text must not reach the message: %q", err.Error())
	}
}
