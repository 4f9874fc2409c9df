// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	auditlogfeature "github.com/dalemusser/skillmatch/internal/app/features/auditlog"
	coursesfeature "github.com/dalemusser/skillmatch/internal/app/features/courses"
	dashboardfeature "github.com/dalemusser/skillmatch/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/skillmatch/internal/app/features/errors"
	groupsfeature "github.com/dalemusser/skillmatch/internal/app/features/groups"
	healthfeature "github.com/dalemusser/skillmatch/internal/app/features/health"
	homefeature "github.com/dalemusser/skillmatch/internal/app/features/home"
	loginfeature "github.com/dalemusser/skillmatch/internal/app/features/login"
	logoutfeature "github.com/dalemusser/skillmatch/internal/app/features/logout"
	profilefeature "github.com/dalemusser/skillmatch/internal/app/features/profile"
	projectsfeature "github.com/dalemusser/skillmatch/internal/app/features/projects"
	recommendationsfeature "github.com/dalemusser/skillmatch/internal/app/features/recommendations"
	searchfeature "github.com/dalemusser/skillmatch/internal/app/features/search"
	usersfeature "github.com/dalemusser/skillmatch/internal/app/features/users"
	"github.com/dalemusser/skillmatch/internal/app/store/audit"
	coursestore "github.com/dalemusser/skillmatch/internal/app/store/courses"
	groupstore "github.com/dalemusser/skillmatch/internal/app/store/groups"
	projectstore "github.com/dalemusser/skillmatch/internal/app/store/projects"
	recommendstore "github.com/dalemusser/skillmatch/internal/app/store/recommendations"
	userstore "github.com/dalemusser/skillmatch/internal/app/store/users"
	"github.com/dalemusser/skillmatch/internal/app/system/auditlog"
	"github.com/dalemusser/skillmatch/internal/app/system/auth"
	"github.com/dalemusser/skillmatch/internal/app/system/imageprobe"
	"github.com/dalemusser/skillmatch/internal/app/system/ratelimit"
	"github.com/dalemusser/skillmatch/internal/app/system/toast"
	"github.com/dalemusser/skillmatch/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. SkillMatch initializes the template
// engine, applies session, toast and CSRF middleware, and mounts feature
// routers for every area of the site.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionTTL, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	notifier := toast.New([]byte(appCfg.SessionKey), secure, logger)
	toast.Use(notifier)

	errLog := errorsfeature.NewErrorLogger(logger)

	// Stores over the backend API.
	userStore := userstore.New(deps.Backend)
	courseStore := coursestore.New(deps.Backend)
	groupStore := groupstore.New(deps.Backend)
	projectStore := projectstore.New(deps.Backend)
	recStore := recommendstore.New(deps.Backend)

	// Audit events go to Mongo when it is configured, and to zap per config.
	var auditStore *audit.Store
	if deps.MongoDatabase != nil {
		auditStore = audit.New(deps.MongoDatabase)
		if appCfg.AuditRetention > 0 {
			retention := workers.NewAuditRetention(auditStore, logger, time.Hour, appCfg.AuditRetention)
			retention.Start()
			onShutdown(retention.Stop)
		}
	}
	auditLogger := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	limiter := ratelimit.NewLoginLimiter(appCfg.LoginRateLimit, appCfg.LoginRateWindow)
	onShutdown(limiter.Stop)

	r := chi.NewRouter()

	protect := csrf.Protect(csrfKey(appCfg),
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.RequestHeader("X-CSRF-Token"),
	)
	if !secure {
		// gorilla/csrf treats every request as HTTPS unless told otherwise.
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, csrf.PlaintextHTTPRequest(req))
			})
		})
	}

	// Health check and static assets sit outside CSRF and sessions.
	healthHandler := healthfeature.NewHandler(deps.Backend, deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(r chi.Router) {
		r.Use(protect)
		r.Use(notifier.Middleware)
		// Loads SessionUser into context if signed in.
		r.Use(sessionMgr.LoadSessionUser)

		homeHandler := homefeature.NewHandler(logger)
		r.Mount("/", homefeature.Routes(homeHandler))

		// Authentication
		loginHandler := loginfeature.NewHandler(userStore, sessionMgr, errLog, auditLogger, limiter, logger)
		r.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, userStore, auditLogger, logger)
		r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		// Error pages
		errorsHandler := errorsfeature.NewHandler()
		r.Get("/forbidden", errorsHandler.Forbidden)
		r.Get("/unauthorized", errorsHandler.Unauthorized)

		dashboardHandler := dashboardfeature.NewHandler(recStore, userStore, sessionMgr, errLog, logger)
		r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

		profileHandler := profilefeature.NewHandler(userStore, courseStore, imageprobe.New(appCfg.ImageProbeTimeout), appCfg.DialogTTL, errLog, logger)
		onShutdown(profileHandler.Stop)
		r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

		coursesHandler := coursesfeature.NewHandler(courseStore, errLog, logger)
		r.Mount("/courses", coursesfeature.Routes(coursesHandler, sessionMgr))

		groupsHandler := groupsfeature.NewHandler(groupStore, auditLogger, appCfg.DialogTTL, errLog, logger)
		onShutdown(groupsHandler.Stop)
		r.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

		projectsHandler := projectsfeature.NewHandler(projectStore, auditLogger, appCfg.DialogTTL, errLog, logger)
		onShutdown(projectsHandler.Stop)
		r.Mount("/projects", projectsfeature.Routes(projectsHandler, sessionMgr))

		recsHandler := recommendationsfeature.NewHandler(recStore, projectStore, errLog, logger)
		r.Mount("/recommendations", recommendationsfeature.Routes(recsHandler, sessionMgr))

		usersHandler := usersfeature.NewHandler(userStore, auditLogger, appCfg.DialogTTL, errLog, logger)
		onShutdown(usersHandler.Stop)
		r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

		auditHandler := auditlogfeature.NewHandler(auditStore, userStore, errLog, logger)
		r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

		// The socket carries no form posts; the session cookie is enough.
		searchHandler := searchfeature.NewHandler(courseStore, projectStore, groupStore, appCfg.SearchQuietPeriod, logger)
		r.Mount("/search", searchfeature.Routes(searchHandler, sessionMgr))
	})

	return r, nil
}
