package api

import (
	"errors"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/AgroXSat/groundstation-services/api/handlers"
	"github.com/AgroXSat/groundstation-services/api/middleware"
	"github.com/AgroXSat/groundstation-services/api/services"
	docs "github.com/AgroXSat/groundstation-services/docs"
	"github.com/AgroXSat/groundstation-services/models"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Route names, as used by the frontend.
const (
	RouteGround         = "Ground"
	RouteSatLocation    = "satLocation"
	RouteSatTracker     = "satTracker"
	RouteImages         = "images"
	RouteImage          = "image"
	RouteStation        = "station"
	RouteStationDetail  = "station detail"
	RouteStationSetting = "basestation setting"
	RouteCommand        = "command"
	RouteCommandDetail  = "command detail"
	RoutePayload        = "payload"
	RouteTelemetry      = "telemetry"
	RouteCoverage       = "coverage"
	RouteLogin          = "login"
	RouteTokenRefresh   = "token refresh"
	RouteHealth         = "healthz"
	RouteMetrics        = "metrics"
)

// RouterOptions carries the HTTP-only collaborators of the router.
type RouterOptions struct {
	Limiter  *middleware.IPLimiter
	Metrics  *middleware.Metrics
	Gatherer prometheus.Gatherer
}

// byMethod dispatches a single route to a handler per HTTP method.
type byMethod map[string]http.Handler

func (m byMethod) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h, ok := m[r.Method]
	if !ok {
		w.Header().Set("Allow", strings.Join(m.methods(), ", "))
		methodNotAllowed(w, r)
		return
	}
	h.ServeHTTP(w, r)
}

func (m byMethod) methods() []string {
	methods := make([]string, 0, len(m))
	for method := range m {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}

func notFound(w http.ResponseWriter, r *http.Request) {
	services.HandleErrResponse(w, http.StatusNotFound, errors.New("no route matches "+r.URL.Path))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	services.HandleErrResponse(w, http.StatusMethodNotAllowed, errors.New("method "+r.Method+" is not allowed on "+r.URL.Path))
}

// NewRouter builds the ground station route table. Reads are public; writes
// need a bearer token, and issuing commands needs the operator role.
func NewRouter(svc *services.Service, opts RouterOptions) *mux.Router {
	cfg := svc.Config
	if opts.Metrics == nil {
		opts.Metrics = middleware.NewMetrics(prometheus.NewRegistry())
	}
	if opts.Limiter == nil {
		opts.Limiter = middleware.NewIPLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 0)
	}

	// Requests without the trailing slash are redirected to it
	r := mux.NewRouter().StrictSlash(true)
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// Write routes are rate limited and authenticated
	write := func(h http.Handler) http.Handler {
		return opts.Limiter.RateLimitMiddleware(middleware.JWTMiddleware(svc.Tokens)(h))
	}
	operator := func(h http.Handler) http.Handler {
		return write(middleware.RequireRole(models.RoleOperator)(h))
	}

	// No method matcher: inside a subrouter a mismatch would surface as 404, so byMethod answers 405
	register := func(router *mux.Router, tpl, name string, handlers byMethod) {
		router.Handle(tpl, opts.Metrics.Monitor(name, handlers)).Name(name)
	}

	api := r.PathPrefix(cfg.BasePath).Subrouter()
	api.Use(middleware.WithLogger)

	register(api, "/", RouteGround, byMethod{
		http.MethodGet: handlers.GetGroundStation(svc),
	})
	register(api, "/satLocation/", RouteSatLocation, byMethod{
		http.MethodGet: handlers.GetSatelliteLocation(svc),
	})
	register(api, "/sat/", RouteSatTracker, byMethod{
		http.MethodGet:  handlers.GetSatelliteTrack(svc),
		http.MethodPost: write(handlers.TrackSatellite(svc)),
	})
	register(api, "/images/", RouteImages, byMethod{
		http.MethodGet:  handlers.ListImages(svc),
		http.MethodPost: write(handlers.UploadImage(svc)),
	})
	register(api, "/images/{image-id}/", RouteImage, byMethod{
		http.MethodGet: handlers.GetImage(svc),
	})
	register(api, "/baseStation/", RouteStation, byMethod{
		http.MethodGet:  handlers.ListGroundStations(svc),
		http.MethodPost: write(handlers.CreateGroundStation(svc)),
	})
	register(api, "/baseStation/{station-id}/", RouteStationDetail, byMethod{
		http.MethodGet: handlers.GetGroundStationByID(svc),
	})
	register(api, "/setGS/", RouteStationSetting, byMethod{
		http.MethodPost: write(handlers.SetGroundStation(svc)),
		http.MethodPut:  write(handlers.SetGroundStation(svc)),
	})
	register(api, "/command/", RouteCommand, byMethod{
		http.MethodGet:  handlers.ListCommands(svc),
		http.MethodPost: operator(handlers.IssueCommand(svc)),
	})
	register(api, "/command/{command-id}/", RouteCommandDetail, byMethod{
		http.MethodGet: handlers.GetCommand(svc),
	})
	register(api, "/payload/", RoutePayload, byMethod{
		http.MethodGet:  handlers.ListPayloads(svc),
		http.MethodPost: write(handlers.RecordPayload(svc)),
	})
	register(api, "/telemetry/", RouteTelemetry, byMethod{
		http.MethodGet:  handlers.ListTelemetry(svc),
		http.MethodPost: write(handlers.RecordTelemetry(svc)),
	})
	register(api, "/coverage/", RouteCoverage, byMethod{
		http.MethodGet: handlers.GetCoverage(svc),
	})

	// Registered with full paths, since AuthPath is a prefix of BasePath
	auth := func(h http.Handler) http.Handler {
		return middleware.WithLogger(opts.Limiter.RateLimitMiddleware(h))
	}
	register(r, path.Join(cfg.AuthPath, "login")+"/", RouteLogin, byMethod{
		http.MethodPost: auth(handlers.Login(svc)),
	})
	register(r, path.Join(cfg.AuthPath, "token", "refresh")+"/", RouteTokenRefresh, byMethod{
		http.MethodPost: auth(handlers.RefreshToken(svc)),
	})

	r.Handle("/healthz", middleware.WithLogger(handlers.Health(svc))).Methods(http.MethodGet).Name(RouteHealth)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet).Name(RouteMetrics)
	}

	// Docs
	docs.SwaggerInfo.Host = cfg.Host
	docs.SwaggerInfo.BasePath = cfg.BasePath
	r.PathPrefix(cfg.DocsPath).Handler(httpSwagger.Handler(
		httpSwagger.URL(path.Join(cfg.DocsPath, "/doc.json")),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)).Methods(http.MethodGet)

	return r
}
