package http

import (
	"net/http"

	"lead-intake/http/handlers"
	"lead-intake/http/middleware"
	"lead-intake/logger"
)

// Routes bundles what SetupRoutes needs.
type Routes struct {
	Leads      *handlers.LeadService
	Payments   *handlers.PaymentHandlers
	AdminToken string
	// SiteDir holds the static marketing site; empty disables it.
	SiteDir string
}

// SetupRoutes configures all HTTP routes and middleware on mux and returns
// the root handler.
func SetupRoutes(mux *http.ServeMux, rt Routes) http.Handler {
	admin := middleware.RequireAdmin(rt.AdminToken)
	if rt.AdminToken == "" {
		logger.Warn("ADMIN_TOKEN is not set: /admin routes are unauthenticated")
	}

	// Lead intake
	mux.HandleFunc("/api/lead", middleware.EnableCORS(rt.Leads.SubmitLead))

	// Admin
	mux.HandleFunc("/admin/leads", admin(rt.Leads.ListLeads))
	mux.HandleFunc("/admin/leads.xlsx", admin(rt.Leads.ExportLeadsExcel))
	mux.HandleFunc("/admin/leads.pdf", admin(rt.Leads.ExportLeadsPDF))

	// Payments
	mux.HandleFunc("/api/checkout", middleware.EnableCORS(rt.Payments.CreateCheckout))
	mux.HandleFunc("/api/payments/webhook", rt.Payments.PaymentWebhook)

	mux.HandleFunc("/healthz", handlers.Health)

	if rt.SiteDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(rt.SiteDir)))
	}

	return middleware.LogRequests(mux)
}
