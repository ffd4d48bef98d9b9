// Package app wires services together so cmd/api and the test harness
// build the same object graph.
package app

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	authsvc "nexus/internal/auth"
	coreauth "nexus/internal/core/auth"
	"nexus/internal/core/cache"
	"nexus/internal/dashboard"
	"nexus/internal/docgen"
	"nexus/internal/domain"
	"nexus/internal/resource"
)

type App struct {
	DB  *gorm.DB
	Log *zap.Logger
	JWT *coreauth.JWTer

	Auth      *authsvc.Service
	Dashboard *dashboard.Service
	Docgen    *docgen.Generator

	Contacts   *resource.Service[domain.Contact]
	Tasks      *resource.Service[domain.Task]
	Events     *resource.Service[domain.CalendarEvent]
	Deals      *resource.Service[domain.Deal]
	Activities *resource.Service[domain.Activity]
	Projects   *resource.Service[domain.Project]
	Documents  *resource.Service[domain.Document]
	Profiles   *resource.Service[domain.UserProfile]
}

func New(db *gorm.DB, jwter *coreauth.JWTer, c *cache.Cache, baseURL string, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{DB: db, Log: log, JWT: jwter}

	a.Contacts = resource.New[domain.Contact](db,
		resource.WithSearchColumns[domain.Contact]("name", "email", "company"))
	a.Tasks = resource.New[domain.Task](db,
		resource.WithSearchColumns[domain.Task]("title", "description"))
	a.Events = resource.New[domain.CalendarEvent](db,
		resource.WithOrderBy[domain.CalendarEvent]("start_time ASC"),
		resource.WithSearchColumns[domain.CalendarEvent]("title", "location"))
	a.Deals = resource.New[domain.Deal](db,
		resource.WithSearchColumns[domain.Deal]("title"))
	a.Activities = resource.New[domain.Activity](db,
		resource.WithSearchColumns[domain.Activity]("title", "description"))
	a.Projects = resource.New[domain.Project](db,
		resource.WithSearchColumns[domain.Project]("name"))
	a.Documents = resource.New[domain.Document](db,
		resource.WithSearchColumns[domain.Document]("title", "content"))
	a.Profiles = resource.New[domain.UserProfile](db)

	a.Auth = authsvc.NewService(db, jwter, c, baseURL, log)
	a.Dashboard = dashboard.NewService(a.Contacts, a.Tasks, a.Deals, a.Activities, a.Projects, c, log)
	a.Docgen = docgen.NewGenerator(a.Documents, a.Profiles)
	return a
}

// Migrate creates/updates every table the API serves.
func (a *App) Migrate() error {
	return a.DB.AutoMigrate(
		&domain.User{},
		&domain.Contact{},
		&domain.Task{},
		&domain.CalendarEvent{},
		&domain.Deal{},
		&domain.Activity{},
		&domain.Project{},
		&domain.UserProfile{},
		&domain.Document{},
	)
}
