package bootstrap

import (
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	accounthttp "github.com/rotaops/rota-backend/internal/accounts/http"
	accountsvc "github.com/rotaops/rota-backend/internal/accounts/service"
	httpapi "github.com/rotaops/rota-backend/internal/api/http"
	apimw "github.com/rotaops/rota-backend/internal/api/http/middleware"
	"github.com/rotaops/rota-backend/internal/auth"
	"github.com/rotaops/rota-backend/internal/auth/identity"
	authmw "github.com/rotaops/rota-backend/internal/auth/middleware"
	dircache "github.com/rotaops/rota-backend/internal/directory/cache"
	dirhttp "github.com/rotaops/rota-backend/internal/directory/http"
	dirrepo "github.com/rotaops/rota-backend/internal/directory/repository"
	dirsvc "github.com/rotaops/rota-backend/internal/directory/service"
	projecthttp "github.com/rotaops/rota-backend/internal/projects/http"
	projectrepo "github.com/rotaops/rota-backend/internal/projects/repository"
	projectsvc "github.com/rotaops/rota-backend/internal/projects/service"
	rotationrepo "github.com/rotaops/rota-backend/internal/rotations/repository"
	rotationsvc "github.com/rotaops/rota-backend/internal/rotations/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	DB             *pgxpool.Pool
	Redis          *redis.Client
	AuthClient     *fbauth.Client
	WebAPIKey      string
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(apimw.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	rotationRepo := rotationrepo.NewRepo(dep.DB)
	projectRepo := projectrepo.NewRepo(dep.DB)
	directoryRepo := dirrepo.NewRepo(dep.DB)

	provider := identity.NewFirebase(dep.AuthClient, dep.WebAPIKey)

	rotations := rotationsvc.New(rotationRepo)
	projects := projectsvc.New(projectRepo, rotationRepo)
	accounts := accountsvc.New(directoryRepo, provider)

	var rosterCache dirsvc.RosterCache
	if dep.Redis != nil {
		rosterCache = dircache.NewRosterCache(dep.Redis)
	}
	directory := dirsvc.New(directoryRepo, rosterCache, provider)

	api := r.Group("/api/v1")
	api.Use(authmw.TokenMiddleware(dep.AuthClient))

	projecthttp.New(projects, rotations).Register(
		api.Group("/projects"),
		api.Group("/rotations"),
	)
	accounthttp.New(accounts).Register(api.Group("/account"))

	// The directory routes live under /users but only admins pass the gate.
	admin := api.Group("")
	admin.Use(auth.AdminOnly(directoryRepo))
	admin.Use(apimw.RateLimit(apimw.NewRateLimiter(apimw.DefaultRateLimitConfig())))
	dirhttp.New(directory).Register(admin)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-Id")
	cfg.AllowCredentials = !cfg.AllowAllOrigins
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
