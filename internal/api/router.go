package api

import (
	"delivery-pricing-service/internal/api/handlers"
	"delivery-pricing-service/internal/services"
	"net/http"
)

// Deps are the services the HTTP layer is built on.
type Deps struct {
	Settings *services.SettingsService
	Quotes   *services.QuoteService
	Book     *services.QuoteBook
	Orders   *services.OrderService
	Reports  *services.ReportService
	Invoices *services.InvoiceService

	CORSAllowedOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	settingsHandler := &handlers.SettingsHandler{Service: d.Settings}
	quoteHandler := &handlers.QuoteHandler{Quotes: d.Quotes, Book: d.Book}
	orderHandler := &handlers.OrderHandler{Service: d.Orders, Invoices: d.Invoices}
	reportHandler := &handlers.ReportHandler{Reports: d.Reports}

	mux.HandleFunc("/health", handlers.Health)

	mux.HandleFunc("/settings", settingsHandler.Settings)
	mux.HandleFunc("/settings/reset", settingsHandler.Reset)
	mux.HandleFunc("/settings/pricing", settingsHandler.Pricing)

	mux.HandleFunc("/quotes", quoteHandler.Create)
	mux.HandleFunc("/quotes/{id}", quoteHandler.Quote)

	mux.HandleFunc("/orders", orderHandler.Orders)
	mux.HandleFunc("/orders/sync", orderHandler.Sync)
	mux.HandleFunc("/orders/{id}", orderHandler.Get)
	mux.HandleFunc("/orders/{id}/invoice", orderHandler.Invoice)

	mux.HandleFunc("/reports/daily", reportHandler.Daily)

	return requestIDMiddleware(loggingMiddleware(corsMiddleware(d.CORSAllowedOrigins)(mux)))
}
