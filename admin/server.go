// Package admin serves the password protected web panel.
package admin

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"reiatsu/repository"

	log "github.com/sirupsen/logrus"
)

const (
	pageSize     = 50
	queryMaxRows = 200
	queryTimeout = 5 * time.Second
)

//go:embed templates/*.html
var templateFS embed.FS

// Store is the read side of the panel
type Store interface {
	Counts(ctx context.Context) (*repository.DashboardCounts, error)
	Browse(ctx context.Context, table string, page, pageSize int) (*repository.TablePage, error)
	ReadOnlyQuery(ctx context.Context, sql string, maxRows int, timeout time.Duration) (*repository.TablePage, error)
}

// Actions are the operations the panel may trigger
type Actions interface {
	SetPoints(ctx context.Context, guildID, discordID, points int64) error
	ForceSpawn(ctx context.Context, guildID int64) error
	ReloadCatalog() error
}

// Config configures the panel
type Config struct {
	Addr       string
	Password   string
	JWTSecret  string
	SessionTTL time.Duration
}

// Server is the admin HTTP panel
type Server struct {
	store   Store
	actions Actions
	logs    *LogBuffer
	auth    *authenticator
	pages   map[string]*template.Template
	server  *http.Server
}

// NewServer builds the panel. It fails without a password.
func NewServer(cfg Config, store Store, actions Actions, logs *LogBuffer) (*Server, error) {
	auth, err := newAuthenticator(cfg.Password, cfg.JWTSecret, cfg.SessionTTL, time.Now)
	if err != nil {
		return nil, err
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:   store,
		actions: actions,
		logs:    logs,
		auth:    auth,
		pages:   pages,
	}
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return s, nil
}

func parsePages() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"fmtTime": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04:05")
		},
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{"login", "dashboard", "table", "logs"} {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)

	protected := http.NewServeMux()
	protected.HandleFunc("GET /{$}", s.handleDashboard)
	protected.HandleFunc("GET /tables/{name}", s.handleTable)
	protected.HandleFunc("POST /query", s.handleQuery)
	protected.HandleFunc("GET /logs", s.handleLogs)
	protected.HandleFunc("POST /players/{guild}/{user}/points", s.handleSetPoints)
	protected.HandleFunc("POST /spawns/{guild}/force", s.handleForceSpawn)
	protected.HandleFunc("POST /catalog/reload", s.handleReloadCatalog)
	mux.Handle("/", s.auth.requireAuth(protected))

	return requireSameOrigin(mux)
}

// Handler exposes the routes, used by tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infof("Admin panel listening on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("admin server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down admin server: %w", err)
	}
	log.Info("Admin panel stopped")
	return nil
}

type pageData struct {
	Title   string
	Flash   string
	Error   string
	Tables  []string
	Counts  *repository.DashboardCounts
	Page    *repository.TablePage
	Query   string
	Entries []LogEntry
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data pageData) {
	data.Tables = repository.AdminTables
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages[name].ExecuteTemplate(w, "layout.html", data); err != nil {
		log.WithError(err).WithField("page", name).Error("Failed to render admin page")
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "login", pageData{Title: "Login"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.auth.checkPassword(r.PostFormValue("password")) {
		log.WithField("remote", r.RemoteAddr).Warn("Failed admin login")
		s.render(w, http.StatusUnauthorized, "login", pageData{Title: "Login", Error: "Wrong password."})
		return
	}

	token, expires, err := s.auth.issue()
	if err != nil {
		log.WithError(err).Error("Failed to issue admin session")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	setSessionCookie(w, r, token, expires)
	log.WithField("remote", r.RemoteAddr).Info("Admin logged in")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.Counts(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to load dashboard")
		s.render(w, http.StatusInternalServerError, "dashboard", pageData{Title: "Dashboard", Error: "Could not load the dashboard."})
		return
	}
	s.render(w, http.StatusOK, "dashboard", pageData{Title: "Dashboard", Counts: counts, Flash: r.URL.Query().Get("flash")})
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	result, err := s.store.Browse(r.Context(), name, page, pageSize)
	if errors.Is(err, repository.ErrTableNotAllowed) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.WithError(err).WithField("table", name).Error("Failed to browse table")
		s.render(w, http.StatusInternalServerError, "table", pageData{Title: name, Error: "Could not read the table."})
		return
	}
	s.render(w, http.StatusOK, "table", pageData{Title: name, Page: result})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	query := r.PostFormValue("sql")
	log.WithField("sql", query).Info("Admin SQL query")

	result, err := s.store.ReadOnlyQuery(r.Context(), query, queryMaxRows, queryTimeout)
	if err != nil {
		s.render(w, http.StatusBadRequest, "table", pageData{Title: "Query", Query: query, Error: err.Error()})
		return
	}
	s.render(w, http.StatusOK, "table", pageData{Title: "Query", Query: query, Page: result})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "logs", pageData{Title: "Logs", Entries: s.logs.Entries()})
}

func (s *Server) handleSetPoints(w http.ResponseWriter, r *http.Request) {
	guildID, errGuild := strconv.ParseInt(r.PathValue("guild"), 10, 64)
	userID, errUser := strconv.ParseInt(r.PathValue("user"), 10, 64)
	points, errPoints := strconv.ParseInt(r.PostFormValue("points"), 10, 64)
	if err := errors.Join(errGuild, errUser, errPoints); err != nil || points < 0 {
		http.Error(w, "Invalid guild, user or points", http.StatusBadRequest)
		return
	}

	if err := s.actions.SetPoints(r.Context(), guildID, userID, points); err != nil {
		log.WithError(err).WithFields(log.Fields{"guildID": guildID, "userID": userID}).Error("Admin failed to set points")
		http.Error(w, "Failed to set points", http.StatusInternalServerError)
		return
	}
	log.WithFields(log.Fields{"guildID": guildID, "userID": userID, "points": points}).Info("Admin set points")
	redirectFlash(w, r, fmt.Sprintf("Set %d points for %d", points, userID))
}

func (s *Server) handleForceSpawn(w http.ResponseWriter, r *http.Request) {
	guildID, err := strconv.ParseInt(r.PathValue("guild"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid guild", http.StatusBadRequest)
		return
	}

	if err := s.actions.ForceSpawn(r.Context(), guildID); err != nil {
		log.WithError(err).WithField("guildID", guildID).Error("Admin failed to force spawn")
		http.Error(w, "Failed to force spawn: "+err.Error(), http.StatusInternalServerError)
		return
	}
	log.WithField("guildID", guildID).Info("Admin forced a spawn")
	redirectFlash(w, r, fmt.Sprintf("Spawn released in %d", guildID))
}

func (s *Server) handleReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := s.actions.ReloadCatalog(); err != nil {
		log.WithError(err).Error("Admin catalog reload failed")
		http.Error(w, "Reload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	log.Info("Admin reloaded the catalog")
	redirectFlash(w, r, "Catalog reloaded")
}

func redirectFlash(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, "/?flash="+url.QueryEscape(message), http.StatusSeeOther)
}
