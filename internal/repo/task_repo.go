package repo

import (
	"context"

	dom "taskflow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DBTX is the subset of *pgxpool.Pool the repository needs.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// TaskRepo is the persistence adapter for tasks. Every error it returns is a *dom.Error
// of kind NotFound or Database.
type TaskRepo interface {
	List(ctx context.Context, f dom.TaskFilter) ([]dom.Task, error)
	GetByID(ctx context.Context, id int64) (dom.Task, error)
	Create(ctx context.Context, t dom.NewTask) (dom.Task, error)
	Update(ctx context.Context, id int64, t dom.NewTask) (dom.Task, error)
	Delete(ctx context.Context, id int64) error
}

var tracer = otel.Tracer("taskflow/repo")

type PGTaskRepo struct {
	db DBTX
}

func NewPGTaskRepo(db DBTX) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func (r *PGTaskRepo) List(ctx context.Context, f dom.TaskFilter) ([]dom.Task, error) {
	ctx, span := startSpan(ctx, "tasks.list")
	defer span.End()

	stmt := BuildListQuery(f)
	span.SetAttributes(attribute.String("db.statement", stmt.SQL))

	rows, err := r.db.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fail(span, storeError(err, "failed to read tasks"))
	}
	defer rows.Close()

	list := make([]dom.Task, 0)
	for rows.Next() {
		var t dom.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Done); err != nil {
			return nil, fail(span, storeError(err, "failed to read tasks"))
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(span, storeError(err, "failed to read tasks"))
	}
	return list, nil
}

func (r *PGTaskRepo) GetByID(ctx context.Context, id int64) (dom.Task, error) {
	ctx, span := startSpan(ctx, "tasks.get", attribute.Int64("task.id", id))
	defer span.End()

	var t dom.Task
	err := r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id).Scan(&t.ID, &t.Title, &t.Done)
	if err != nil {
		return dom.Task{}, fail(span, lookupError(err, id, "failed to read task"))
	}
	return t, nil
}

func (r *PGTaskRepo) Create(ctx context.Context, in dom.NewTask) (dom.Task, error) {
	ctx, span := startSpan(ctx, "tasks.create")
	defer span.End()

	query := `
		INSERT INTO tasks (title, done)
		VALUES ($1, $2)
		RETURNING ` + taskColumns
	var t dom.Task
	if err := r.db.QueryRow(ctx, query, in.Title, in.Done).Scan(&t.ID, &t.Title, &t.Done); err != nil {
		return dom.Task{}, fail(span, storeError(err, "failed to insert task"))
	}
	span.SetAttributes(attribute.Int64("task.id", t.ID))
	return t, nil
}

func (r *PGTaskRepo) Update(ctx context.Context, id int64, in dom.NewTask) (dom.Task, error) {
	ctx, span := startSpan(ctx, "tasks.update", attribute.Int64("task.id", id))
	defer span.End()

	query := `
		UPDATE tasks SET title = $2, done = $3
		WHERE id = $1
		RETURNING ` + taskColumns
	var t dom.Task
	if err := r.db.QueryRow(ctx, query, id, in.Title, in.Done).Scan(&t.ID, &t.Title, &t.Done); err != nil {
		return dom.Task{}, fail(span, lookupError(err, id, "failed to update task"))
	}
	return t, nil
}

// Delete removes the row permanently. Deleting a missing id is NotFound, not a no-op.
func (r *PGTaskRepo) Delete(ctx context.Context, id int64) error {
	ctx, span := startSpan(ctx, "tasks.delete", attribute.Int64("task.id", id))
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fail(span, storeError(err, "failed to delete task"))
	}
	if tag.RowsAffected() == 0 {
		return fail(span, notFound(id))
	}
	return nil
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("db.system", "postgresql"))
	return tracer.Start(ctx, name,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func fail(span trace.Span, err error) error {
	if dom.KindOf(err) == dom.KindDatabase {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
