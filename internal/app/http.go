package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"social-login-service/internal/auth/flow"
	"social-login-service/internal/auth/handler"
	"social-login-service/internal/auth/provider"
	"social-login-service/internal/auth/provider/facebook"
	"social-login-service/internal/auth/provider/google"
	"social-login-service/internal/auth/provider/linkedin"
	"social-login-service/internal/auth/resolver"
	"social-login-service/internal/auth/state"
	"social-login-service/internal/config"
	"social-login-service/internal/middleware"
	"social-login-service/internal/session"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	// ----------------------------
	// Stores
	// ----------------------------

	var (
		sessionStore     session.Store
		stateStore       state.Store
		identityResolver resolver.Resolver
		cleanup          func() error
	)

	if cfg.DevMode() {
		// Dev mode runs without Postgres and Redis; everything lives
		// in process memory.
		memoryStates := state.NewMemoryStore(cfg.StateTTL)
		sessionStore = session.NewMemoryStore()
		stateStore = memoryStates
		identityResolver = resolver.NewMemoryResolver()
		cleanup = func() error {
			memoryStates.Close()
			return nil
		}
	} else {
		infra, err := setupInfra(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		sessionStore = session.NewRedisStore(infra.Redis.Client)
		stateStore = state.NewRedisStore(infra.Redis.Client, cfg.StateTTL)
		identityResolver = resolver.NewDBResolver(infra.DB)
		cleanup = infra.DB.Close
	}

	// ----------------------------
	// Providers
	// ----------------------------

	googleProvider, err := google.New(
		ctx,
		cfg.Google.ClientID,
		cfg.Google.ClientSecret,
		cfg.RedirectURL("google"),
	)
	if err != nil {
		return nil, nil, err
	}

	facebookProvider, err := facebook.New(
		cfg.Facebook.ClientID,
		cfg.Facebook.ClientSecret,
		cfg.RedirectURL("facebook"),
	)
	if err != nil {
		return nil, nil, err
	}

	linkedinProvider, err := linkedin.New(
		cfg.LinkedIn.ClientID,
		cfg.LinkedIn.ClientSecret,
		cfg.RedirectURL("linkedin"),
	)
	if err != nil {
		return nil, nil, err
	}

	registry := provider.NewRegistry(
		googleProvider,
		facebookProvider,
		linkedinProvider,
	)

	// ----------------------------
	// Flow, issuer, handlers
	// ----------------------------

	loginFlow := flow.New(registry, stateStore)
	issuer := session.NewIssuer(identityResolver, sessionStore, cfg.SessionTTL)

	authHandler := handler.New(loginFlow, issuer, sessionStore, handler.Options{
		PostLoginRedirect: cfg.PostLoginRedirect,
		SecureCookies:     !cfg.DevMode(),
	})

	authMiddleware := middleware.NewAuthMiddleware(sessionStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/me", func(c *gin.Context) {
		userID, _ := middleware.UserIDFromContext(c.Request.Context())
		c.JSON(200, gin.H{
			"user_id": userID,
		})
	})

	return router, cleanup, nil
}
