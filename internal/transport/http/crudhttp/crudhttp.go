// Package crudhttp binds a resource service to the standard five routes.
// Each domain mounts itself with one declaration.
package crudhttp

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nexus/internal/resource"
	httpez "nexus/internal/transport/http/ez"
	resp "nexus/internal/transport/http/response"
)

type Config[T any] struct {
	Group *gin.RouterGroup // already behind AuthJWT
	Path  string
	Svc   *resource.Service[T]
	// FilterParams are query params passed through as column equality
	// filters (param name == column name).
	FilterParams []string
	// AfterMutate runs after create/update/delete (dashboard invalidation).
	AfterMutate func(c *gin.Context, ownerID string)
}

func Mount[T any](cfg Config[T]) {
	mutated := func(c *gin.Context, uid string) {
		if cfg.AfterMutate != nil {
			cfg.AfterMutate(c, uid)
		}
	}

	// Create
	cfg.Group.POST(cfg.Path, func(c *gin.Context) {
		uid := c.GetString("userId")
		var m T
		if err := c.ShouldBindJSON(&m); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, httpez.BindMsg(err)))
			return
		}
		out, err := cfg.Svc.Create(c.Request.Context(), uid, &m)
		if err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		mutated(c, uid)
		c.JSON(http.StatusOK, resp.OK(out))
	})

	// List (optional q + equality filters)
	cfg.Group.GET(cfg.Path, func(c *gin.Context) {
		uid := c.GetString("userId")
		f := resource.Filter{Query: c.Query("q")}
		for _, p := range cfg.FilterParams {
			if v := c.Query(p); v != "" {
				if f.Equals == nil {
					f.Equals = map[string]string{}
				}
				f.Equals[p] = v
			}
		}
		items, err := cfg.Svc.Find(c.Request.Context(), uid, f)
		if err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"list": items, "total": len(items)}))
	})

	// Search (server-side OR substring match)
	cfg.Group.GET(cfg.Path+"/search", func(c *gin.Context) {
		uid := c.GetString("userId")
		items, err := cfg.Svc.Search(c.Request.Context(), uid, c.Query("q"))
		if err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"list": items, "total": len(items)}))
	})

	// Get
	cfg.Group.GET(cfg.Path+"/:id", func(c *gin.Context) {
		uid := c.GetString("userId")
		out, err := cfg.Svc.Get(c.Request.Context(), uid, c.Param("id"))
		if errors.Is(err, resource.ErrNotFound) {
			c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
			return
		}
		if err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	})

	// Update (merge patch)
	cfg.Group.PUT(cfg.Path+"/:id", func(c *gin.Context) {
		uid := c.GetString("userId")
		var patch map[string]any
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, httpez.BindMsg(err)))
			return
		}
		out, err := cfg.Svc.Update(c.Request.Context(), uid, c.Param("id"), patch)
		if errors.Is(err, resource.ErrNotFound) {
			c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
			return
		}
		if err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		mutated(c, uid)
		c.JSON(http.StatusOK, resp.OK(out))
	})

	// Delete
	cfg.Group.DELETE(cfg.Path+"/:id", func(c *gin.Context) {
		uid := c.GetString("userId")
		err := cfg.Svc.Delete(c.Request.Context(), uid, c.Param("id"))
		if errors.Is(err, resource.ErrNotFound) {
			c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "not found"))
			return
		}
		if err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
			return
		}
		mutated(c, uid)
		c.JSON(http.StatusOK, resp.OK(gin.H{"id": c.Param("id")}))
	})
}
