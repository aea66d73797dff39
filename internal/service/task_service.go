package service

import (
	"context"

	"taskflow/internal/cache"
	dom "taskflow/internal/domain"
	"taskflow/internal/repo"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// TaskService fronts the repository with an optional read cache. With the cache
// enabled, identical concurrent reads of the same generation share one load.
type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	sf    singleflight.Group
	log   logrus.FieldLogger
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache, log logrus.FieldLogger) *TaskService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TaskService{repo: r, cache: c, log: log.WithField("component", "task_service")}
}

func (s *TaskService) List(ctx context.Context, f dom.TaskFilter) ([]dom.Task, error) {
	if s.cache == nil {
		return s.repo.List(ctx, f)
	}
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.log.WithError(err).Warn("task cache generation read failed")
		return s.repo.List(ctx, f)
	}

	v, err := s.shared(ctx, cache.ListKey(gen, f), func(ctx context.Context) (interface{}, error) {
		list, err := s.cache.GetList(ctx, gen, f)
		if err == nil && list != nil {
			return list, nil
		}
		if err != nil {
			s.log.WithError(err).Warn("task list cache read failed")
		}
		list, err = s.repo.List(ctx, f)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetList(ctx, gen, f, list); err != nil {
			s.log.WithError(err).Warn("task list cache write failed")
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Task), nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (dom.Task, error) {
	if s.cache == nil {
		return s.repo.GetByID(ctx, id)
	}
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.log.WithError(err).WithField("task_id", id).Warn("task cache generation read failed")
		return s.repo.GetByID(ctx, id)
	}

	v, err := s.shared(ctx, cache.TaskKey(gen, id), func(ctx context.Context) (interface{}, error) {
		t, ok, err := s.cache.GetTask(ctx, gen, id)
		if ok {
			return t, nil
		}
		if err != nil {
			s.log.WithError(err).WithField("task_id", id).Warn("task cache read failed")
		}
		t, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetTask(ctx, gen, t); err != nil {
			s.log.WithError(err).WithField("task_id", id).Warn("task cache write failed")
		}
		return t, nil
	})
	if err != nil {
		return dom.Task{}, err
	}
	return v.(dom.Task), nil
}

// shared runs load once per key across concurrent callers. The load is detached
// from the caller that started it, so one caller going away does not fail the
// others; each caller still returns as soon as its own ctx is done.
func (s *TaskService) shared(ctx context.Context, key string, load func(context.Context) (interface{}, error)) (interface{}, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.sf.DoChan(key, func() (interface{}, error) {
		return load(detached)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, dom.DatabaseError("request cancelled", ctx.Err())
	}
}

func (s *TaskService) Create(ctx context.Context, in dom.NewTask) (dom.Task, error) {
	t, err := s.repo.Create(ctx, in)
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, t.ID)
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, id int64, in dom.NewTask) (dom.Task, error) {
	t, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, id)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, id)
	return nil
}

func (s *TaskService) invalidateCache(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.WithError(err).WithField("task_id", id).Warn("task cache invalidation failed")
	}
}
