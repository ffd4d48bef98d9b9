package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nexus/internal/app"
	authsvc "nexus/internal/auth"
	"nexus/internal/docgen"
	"nexus/internal/domain"
	httpez "nexus/internal/transport/http/ez"
)

func bearerToken(c *gin.Context) string {
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}

// authErr keeps the friendly message and picks the right business code.
func authErr(err error) error {
	switch {
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return httpez.Unauthorized(err.Error())
	case errors.Is(err, authsvc.ErrAccountExists),
		errors.Is(err, authsvc.ErrInvalidEmail),
		errors.Is(err, authsvc.ErrWeakPassword),
		errors.Is(err, authsvc.ErrResetTokenInvalid):
		return httpez.BadRequest(err.Error())
	case errors.Is(err, authsvc.ErrUnreachable):
		return httpez.Internal(err.Error(), err)
	default:
		return err
	}
}

func mountAuthActions(api *gin.RouterGroup, a *app.App) {
	ez := httpez.New(api)

	type credsIn struct {
		Email    string `json:"email"    binding:"required"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name"     binding:"omitempty,max=64"`
	}

	httpez.Register(ez, httpez.Action[credsIn, *authsvc.Result]{
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *credsIn) (*authsvc.Result, error) {
			res, err := a.Auth.SignUp(c.Request.Context(), in.Email, in.Password, in.Name)
			if err != nil {
				return nil, authErr(err)
			}
			return res, nil
		},
	})

	httpez.Register(ez, httpez.Action[credsIn, *authsvc.Result]{
		Method: http.MethodPost,
		Path:   "/auth/signin",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *credsIn) (*authsvc.Result, error) {
			res, err := a.Auth.SignIn(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return nil, authErr(err)
			}
			return res, nil
		},
	})

	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/signout",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := a.Auth.SignOut(c.Request.Context(), bearerToken(c)); err != nil {
				return nil, httpez.Internal("signout failed", err)
			}
			return gin.H{"ok": 1}, nil
		},
	})

	// No session is a normal null here, never a 401.
	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/auth/me",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			u, err := a.Auth.CurrentUser(c.Request.Context(), bearerToken(c))
			if err != nil {
				return nil, err
			}
			return gin.H{"user": u}, nil
		},
	})

	type resetReqIn struct {
		Email string `json:"email" binding:"required"`
	}
	httpez.Register(ez, httpez.Action[resetReqIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/reset-password",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *resetReqIn) (gin.H, error) {
			// the link is delivered out of band; the response never says
			// whether the account exists
			if _, err := a.Auth.RequestPasswordReset(c.Request.Context(), in.Email); err != nil {
				return nil, authErr(err)
			}
			return gin.H{"ok": 1}, nil
		},
	})

	type resetIn struct {
		Token    string `json:"token"    binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	httpez.Register(ez, httpez.Action[resetIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/reset-password/confirm",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *resetIn) (gin.H, error) {
			if err := a.Auth.ResetPassword(c.Request.Context(), in.Token, in.Password); err != nil {
				return nil, authErr(err)
			}
			return gin.H{"ok": 1}, nil
		},
	})
}

func mountOwnerActions(owner *gin.RouterGroup, a *app.App) {
	ez := httpez.New(owner)

	type pwIn struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	httpez.Register(ez, httpez.Action[pwIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/password",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *pwIn) (gin.H, error) {
			uid := c.GetString("userId")
			if err := a.Auth.UpdatePassword(c.Request.Context(), uid, in.OldPassword, in.NewPassword); err != nil {
				return nil, authErr(err)
			}
			return gin.H{"ok": 1}, nil
		},
	})

	// Dashboard
	httpez.Register(ez, httpez.Action[struct{}, any]{
		Method: http.MethodGet,
		Path:   "/dashboard",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (any, error) {
			return a.Dashboard.Load(c.Request.Context(), c.GetString("userId"))
		},
	})

	// Profile: one row per owner, upserted.
	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/profile",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			profiles, err := a.Profiles.List(c.Request.Context(), c.GetString("userId"))
			if err != nil {
				return nil, err
			}
			if len(profiles) == 0 {
				return gin.H{"profile": nil}, nil
			}
			return gin.H{"profile": profiles[0]}, nil
		},
	})

	type profileIn struct {
		CompanyName string   `json:"companyName"`
		Industry    string   `json:"industry"`
		TeamSize    string   `json:"teamSize"`
		Modules     []string `json:"modules"`
	}
	httpez.Register(ez, httpez.Action[profileIn, *domain.UserProfile]{
		Method: http.MethodPut,
		Path:   "/profile",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *profileIn) (*domain.UserProfile, error) {
			ctx := c.Request.Context()
			uid := c.GetString("userId")
			existing, err := a.Profiles.List(ctx, uid)
			if err != nil {
				return nil, err
			}
			if len(existing) > 0 {
				return a.Profiles.Update(ctx, uid, existing[0].ID, map[string]any{
					"companyName": in.CompanyName,
					"industry":    in.Industry,
					"teamSize":    in.TeamSize,
					"modules":     toAny(in.Modules),
				})
			}
			p := domain.UserProfile{
				CompanyName: in.CompanyName,
				Industry:    in.Industry,
				TeamSize:    in.TeamSize,
				Modules:     in.Modules,
			}
			return a.Profiles.Create(ctx, uid, &p)
		},
	})

	// Document tools
	httpez.Register(ez, httpez.Action[struct{}, []docgen.Template]{
		Method: http.MethodGet,
		Path:   "/documents/templates",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]docgen.Template, error) {
			return docgen.Templates(), nil
		},
	})

	type genIn struct {
		TemplateID string            `json:"templateId" binding:"required"`
		Title      string            `json:"title"`
		Fields     map[string]string `json:"fields"`
	}
	httpez.Register(ez, httpez.Action[genIn, *domain.Document]{
		Method: http.MethodPost,
		Path:   "/documents/generate",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *genIn) (*domain.Document, error) {
			doc, err := a.Docgen.Generate(c.Request.Context(), c.GetString("userId"), in.TemplateID, in.Title, in.Fields)
			if errors.Is(err, docgen.ErrUnknownTemplate) {
				return nil, httpez.BadRequest(err.Error())
			}
			if err != nil {
				return nil, err
			}
			return doc, nil
		},
	})
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
