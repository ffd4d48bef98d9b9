package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nexus/internal/app"
	"nexus/internal/domain"
	"nexus/internal/transport/http/crudhttp"
	mdw "nexus/internal/transport/http/middleware"
)

func NewAPIEngine(a *app.App) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(a.Log, true),
		mdw.Metrics(),
		mdw.AccessLog(a.Log),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// Public auth surface; per-IP throttle slows credential guessing
	public := api.Group("")
	public.Use(mdw.RateLimitPerIP(5, 20))
	mountAuthActions(public, a)

	// Everything below requires a session
	owner := api.Group("")
	owner.Use(mdw.AuthJWT(a.JWT, a.Auth.IsRevoked))

	mountOwnerActions(owner, a)
	mountResources(owner, a)

	return r
}

// mountResources binds the seven CRUD domains; one declaration each.
func mountResources(g *gin.RouterGroup, a *app.App) {
	invalidate := func(c *gin.Context, uid string) {
		a.Dashboard.Invalidate(c.Request.Context(), uid)
	}

	crudhttp.Mount(crudhttp.Config[domain.Contact]{
		Group: g, Path: "/contacts", Svc: a.Contacts,
		FilterParams: []string{"status"},
		AfterMutate:  invalidate,
	})
	crudhttp.Mount(crudhttp.Config[domain.Task]{
		Group: g, Path: "/tasks", Svc: a.Tasks,
		FilterParams: []string{"status", "priority", "project_id", "contact_id"},
		AfterMutate:  invalidate,
	})
	crudhttp.Mount(crudhttp.Config[domain.CalendarEvent]{
		Group: g, Path: "/events", Svc: a.Events,
		FilterParams: []string{"event_type", "contact_id"},
	})
	crudhttp.Mount(crudhttp.Config[domain.Deal]{
		Group: g, Path: "/deals", Svc: a.Deals,
		FilterParams: []string{"stage", "contact_id"},
		AfterMutate:  invalidate,
	})
	crudhttp.Mount(crudhttp.Config[domain.Activity]{
		Group: g, Path: "/activities", Svc: a.Activities,
		FilterParams: []string{"type", "contact_id", "deal_id"},
		AfterMutate:  invalidate,
	})
	crudhttp.Mount(crudhttp.Config[domain.Project]{
		Group: g, Path: "/projects", Svc: a.Projects,
		FilterParams: []string{"status", "priority"},
		AfterMutate:  invalidate,
	})
	crudhttp.Mount(crudhttp.Config[domain.Document]{
		Group: g, Path: "/documents", Svc: a.Documents,
		FilterParams: []string{"kind"},
	})
}
