package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/folioworks/backoffice/internal/backoffice/service"
	"github.com/folioworks/backoffice/internal/backoffice/store"
	"github.com/folioworks/backoffice/pkg/httpx"
	"github.com/folioworks/backoffice/pkg/jwtx"
	"github.com/folioworks/backoffice/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        *jwtx.Codec
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	SessionService    *service.SessionService
	ResetTokenService *service.ResetTokenService
	AdminService      *service.AdminService
	SkillService      *service.SkillService
	ExperienceService *service.ExperienceService
}

func NewRouter(
	codec *jwtx.Codec,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}
	return r
}

// ApplyRoutes registers every route. Call after the service fields are
// populated.
func (r *Router) ApplyRoutes() {
	// The global chain: request logging first, then identity
	// resolution (with silent renewal) for every route.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		IdentityMiddleware(r.codec, r.SessionService),
	}

	r.registerAuth()
	r.registerSessions()
	r.registerAdmins()
	r.registerSkills()
	r.registerExperiences()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	login := &LoginHandler{Sessions: r.SessionService, Codec: r.codec}
	logout := &LogoutHandler{Sessions: r.SessionService}
	reset := &ResetPasswordHandler{ResetTokens: r.ResetTokenService}

	// Credential endpoints carry the strict per-IP limit against brute
	// forcing.
	r.Mux.Handle("POST /login",
		httpx.Chain(login,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /logout",
		httpx.Chain(logout,
			RequireAuth(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /reset-password",
		httpx.Chain(http.HandlerFunc(reset.HandleRequest),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /set-password/{id}/{token}",
		httpx.Chain(http.HandlerFunc(reset.HandleSetPassword),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSessions() {
	h := &SessionsHandler{Sessions: r.SessionService}

	r.Mux.Handle("GET /me/session",
		httpx.Chain(http.HandlerFunc(h.HandleOwn),
			RequireAuth(),
			httpx.RateLimitByAccount(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /sessions",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			RequireAuth(),
			RequireTopmost(),
			httpx.RateLimitByAccount(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("DELETE /inactive-sessions",
		httpx.Chain(http.HandlerFunc(h.HandlePurge),
			RequireAuth(),
			RequireTopmost(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAdmins() {
	h := &AdminsHandler{Admins: r.AdminService}

	r.Mux.Handle("POST /admins",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			RequireAuth(),
			RequireTopmost(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /admins",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			RequireAuth(),
			httpx.RateLimitByAccount(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /admins/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			RequireAuth(),
			httpx.RateLimitByAccount(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PATCH /me",
		httpx.Chain(http.HandlerFunc(h.HandleUpdateMe),
			RequireAuth(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH /me/email",
		httpx.Chain(http.HandlerFunc(h.HandleChangeEmail),
			RequireAuth(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH /me/password",
		httpx.Chain(http.HandlerFunc(h.HandleChangePassword),
			RequireAuth(),
			httpx.RateLimitByAccount(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("PATCH /admins/{id}/role",
		httpx.Chain(http.HandlerFunc(h.HandleChangeRole),
			RequireAuth(),
			RequireTopmost(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH /admins/{id}/disable",
		httpx.Chain(http.HandlerFunc(h.HandleSetActive),
			RequireAuth(),
			RequireTopmost(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /admins/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			RequireAuth(),
			RequireTopmost(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSkills() {
	h := &SkillsHandler{Skills: r.SkillService}

	// Reads are public; the portfolio frontend fetches them without a
	// session.
	r.Mux.Handle("GET /skills",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /skills/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("POST /skills",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			RequireAuth(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH /skills/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			RequireAuth(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /skills/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			RequireAuth(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerExperiences() {
	h := &ExperiencesHandler{Experiences: r.ExperienceService}

	r.Mux.Handle("GET /experiences",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /experiences/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("POST /experiences",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			RequireAuth(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH /experiences/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			RequireAuth(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /experiences/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			RequireAuth(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
