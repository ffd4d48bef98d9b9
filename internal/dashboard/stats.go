// Package dashboard reduces the owner's lists into display counts. Every
// load is a full recompute from the fetched slices; sections degrade
// independently, so one failing fetch never corrupts the others.
package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nexus/internal/core/cache"
	"nexus/internal/domain"
	"nexus/internal/resource"
)

type ContactStats struct {
	Total  int `json:"total"`
	Leads  int `json:"leads"`
	Active int `json:"active"`
	Past   int `json:"past"`
}

type TaskStats struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

type DealStats struct {
	Total      int            `json:"total"`
	TotalValue float64        `json:"totalValue"`
	ByStage    map[string]int `json:"byStage"`
}

type ActivityStats struct {
	Total  int            `json:"total"`
	ByType map[string]int `json:"byType"`
}

type ProjectStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

type Stats struct {
	Contacts   ContactStats  `json:"contacts"`
	Tasks      TaskStats     `json:"tasks"`
	Deals      DealStats     `json:"deals"`
	Activities ActivityStats `json:"activities"`
	Projects   ProjectStats  `json:"projects"`
	// Errors maps a failed section to its message; present sections stay
	// correct.
	Errors map[string]string `json:"errors,omitempty"`
}

const cacheTTL = 30 * time.Second

type Service struct {
	contacts   *resource.Service[domain.Contact]
	tasks      *resource.Service[domain.Task]
	deals      *resource.Service[domain.Deal]
	activities *resource.Service[domain.Activity]
	projects   *resource.Service[domain.Project]
	cache      *cache.Cache
	log        *zap.Logger
}

func NewService(
	contacts *resource.Service[domain.Contact],
	tasks *resource.Service[domain.Task],
	deals *resource.Service[domain.Deal],
	activities *resource.Service[domain.Activity],
	projects *resource.Service[domain.Project],
	c *cache.Cache,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		contacts: contacts, tasks: tasks, deals: deals,
		activities: activities, projects: projects,
		cache: c, log: log,
	}
}

func cacheKey(ownerID string) string { return "dash:" + ownerID }

// Load computes the owner's dashboard, optionally served from cache.
// Degraded snapshots are served but never cached, so a transient section
// failure stops being visible as soon as the store recovers.
func (s *Service) Load(ctx context.Context, ownerID string) (*Stats, error) {
	return cache.GetOrLoadJSON[Stats](s.cache, ctx, cacheKey(ownerID), cacheTTL,
		func(ctx context.Context) (*Stats, error) {
			st := s.compute(ctx, ownerID)
			if len(st.Errors) > 0 {
				return st, cache.ErrSkipStore
			}
			return st, nil
		})
}

// Invalidate drops the cached dashboard after a mutation.
func (s *Service) Invalidate(ctx context.Context, ownerID string) {
	s.cache.Forget(ctx, cacheKey(ownerID))
}

func (s *Service) compute(ctx context.Context, ownerID string) *Stats {
	st := &Stats{}
	var mu sync.Mutex
	fail := func(section string, err error) {
		mu.Lock()
		if st.Errors == nil {
			st.Errors = make(map[string]string)
		}
		st.Errors[section] = err.Error()
		mu.Unlock()
		s.log.Warn("dashboard section failed", zap.String("section", section), zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.contacts.List(gctx, ownerID)
		if err != nil {
			fail("contacts", err)
			return nil
		}
		st.Contacts = reduceContacts(items)
		return nil
	})
	g.Go(func() error {
		items, err := s.tasks.List(gctx, ownerID)
		if err != nil {
			fail("tasks", err)
			return nil
		}
		st.Tasks = reduceTasks(items)
		return nil
	})
	g.Go(func() error {
		items, err := s.deals.List(gctx, ownerID)
		if err != nil {
			fail("deals", err)
			return nil
		}
		st.Deals = reduceDeals(items)
		return nil
	})
	g.Go(func() error {
		items, err := s.activities.List(gctx, ownerID)
		if err != nil {
			fail("activities", err)
			return nil
		}
		st.Activities = reduceActivities(items)
		return nil
	})
	g.Go(func() error {
		items, err := s.projects.List(gctx, ownerID)
		if err != nil {
			fail("projects", err)
			return nil
		}
		st.Projects = reduceProjects(items)
		return nil
	})
	_ = g.Wait()

	if st.Deals.ByStage == nil {
		st.Deals.ByStage = map[string]int{}
	}
	if st.Activities.ByType == nil {
		st.Activities.ByType = map[string]int{}
	}
	if st.Projects.ByStatus == nil {
		st.Projects.ByStatus = map[string]int{}
	}
	return st
}

func reduceContacts(items []domain.Contact) ContactStats {
	var cs ContactStats
	cs.Total = len(items)
	for _, c := range items {
		switch c.Status {
		case domain.ContactStatusLead:
			cs.Leads++
		case domain.ContactStatusActive:
			cs.Active++
		case domain.ContactStatusPast:
			cs.Past++
		}
	}
	return cs
}

func reduceTasks(items []domain.Task) TaskStats {
	var ts TaskStats
	ts.Total = len(items)
	for _, t := range items {
		switch t.Status {
		case domain.TaskStatusTodo:
			ts.Todo++
		case domain.TaskStatusInProgress:
			ts.InProgress++
		case domain.TaskStatusCompleted:
			ts.Completed++
		}
	}
	return ts
}

func reduceDeals(items []domain.Deal) DealStats {
	ds := DealStats{ByStage: map[string]int{}}
	ds.Total = len(items)
	for _, d := range items {
		ds.TotalValue += d.Value
		ds.ByStage[d.Stage]++
	}
	return ds
}

func reduceActivities(items []domain.Activity) ActivityStats {
	as := ActivityStats{ByType: map[string]int{}}
	as.Total = len(items)
	for _, a := range items {
		as.ByType[a.Type]++
	}
	return as
}

func reduceProjects(items []domain.Project) ProjectStats {
	ps := ProjectStats{ByStatus: map[string]int{}}
	ps.Total = len(items)
	for _, p := range items {
		ps.ByStatus[p.Status]++
	}
	return ps
}
