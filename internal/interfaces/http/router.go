package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/AeroOps/internal/interfaces/http/handlers"
)

// Middleware is a standard net/http decorator.
type Middleware func(http.Handler) http.Handler

// RouterConfig aggregates the handlers and middleware of the route tree.
// Nil handlers leave their routes unregistered; nil middleware is skipped.
type RouterConfig struct {
	QuarantineHandler *handlers.QuarantineHandler
	StatisticsHandler *handlers.StatisticsHandler
	SMSHandler        *handlers.SMSHandler
	AircraftHandler   *handlers.AircraftHandler
	WorkOrderHandler  *handlers.WorkOrderHandler
	InventoryHandler  *handlers.InventoryHandler
	AttachmentHandler *handlers.AttachmentHandler
	HealthHandler     *handlers.HealthHandler

	CORS      Middleware
	Logging   Middleware
	Metrics   Middleware
	RateLimit Middleware
	Tenant    Middleware

	MetricsHandler http.Handler
	MetricsPath    string
}

func use(r chi.Router, mws ...Middleware) {
	for _, mw := range mws {
		if mw != nil {
			r.Use(mw)
		}
	}
}

// NewRouter builds the route tree. Probes and metrics stay outside the
// tenant scope; everything under /api/v1 requires a tenant.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	use(r, cfg.CORS, cfg.Logging, cfg.Metrics, cfg.RateLimit)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}
	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		use(api, cfg.Tenant)

		registerQuarantineRoutes(api, cfg.QuarantineHandler)
		registerStatisticsRoutes(api, cfg.StatisticsHandler)
		registerSMSRoutes(api, cfg.SMSHandler)
		registerAircraftRoutes(api, cfg.AircraftHandler)
		registerWorkOrderRoutes(api, cfg.WorkOrderHandler)
		registerInventoryRoutes(api, cfg.InventoryHandler)
		registerAttachmentRoutes(api, cfg.AttachmentHandler)
	})

	return r
}

func registerQuarantineRoutes(r chi.Router, h *handlers.QuarantineHandler) {
	if h == nil {
		return
	}
	r.Route("/quarantine", func(qr chi.Router) {
		qr.Get("/", h.List)
		qr.Get("/classify", h.Classify)
		qr.Get("/alerts", h.Alerts)
	})
}

func registerStatisticsRoutes(r chi.Router, h *handlers.StatisticsHandler) {
	if h == nil {
		return
	}
	r.Route("/statistics", func(sr chi.Router) {
		sr.Get("/purchase-orders", h.PurchaseOrders)
		sr.Get("/purchase-orders/drilldown", h.Drilldown)
		sr.Get("/purchase-orders/export", h.Export)
		sr.Get("/sms-reports", h.SMSReports)
		sr.Get("/sms-reports/drilldown", h.SMSDrilldown)
	})
}

func registerSMSRoutes(r chi.Router, h *handlers.SMSHandler) {
	if h == nil {
		return
	}
	r.Route("/sms", func(sr chi.Router) {
		sr.Get("/risk-matrix", h.RiskMatrix)
		sr.Route("/reports/{id}", func(rr chi.Router) {
			rr.Get("/", h.GetReport)
			rr.Post("/plan", h.CreatePlan)
			rr.Post("/plan/measures", h.CreateMeasure)
			rr.Post("/analysis", h.SubmitAnalysis)
			rr.Put("/analysis", h.UpdateAnalysis)
			rr.Post("/close", h.Close)
			rr.Post("/reopen", h.Reopen)
		})
	})
}

func registerAircraftRoutes(r chi.Router, h *handlers.AircraftHandler) {
	if h == nil {
		return
	}
	r.Route("/aircraft/{aircraftID}/drafts", func(ar chi.Router) {
		ar.Post("/", h.Open)
		ar.Route("/{draftID}", func(dr chi.Router) {
			dr.Get("/", h.Get)
			dr.Delete("/", h.Discard)
			dr.Post("/parts", h.AddPart)
			dr.Put("/parts", h.ReplaceParts)
			dr.Patch("/parts", h.UpdatePart)
			dr.Post("/subparts", h.AddSubpart)
			dr.Delete("/items", h.RemoveItem)
			dr.Post("/toggle", h.Toggle)
			dr.Post("/submit", h.Submit)
		})
	})
}

func registerWorkOrderRoutes(r chi.Router, h *handlers.WorkOrderHandler) {
	if h == nil {
		return
	}
	r.Get("/work-orders/{order}/prelim-inspection", h.PrelimInspection)
	r.Get("/work-orders/{order}/prelim-inspection/url", h.ArchivedURL)
}

func registerInventoryRoutes(r chi.Router, h *handlers.InventoryHandler) {
	if h == nil {
		return
	}
	r.Post("/articles", h.Create)
	r.Delete("/articles/{articleID}", h.Delete)
}

func registerAttachmentRoutes(r chi.Router, h *handlers.AttachmentHandler) {
	if h == nil {
		return
	}
	r.Post("/attachments", h.Upload)
}

//Personal.AI order the ending
