// Package web serves the browser directory page.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/solace-advocates/advocate-directory-api/internal/search"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type Options struct {
	Title      string
	Debounce   time.Duration
	MinLoading time.Duration
	// ClientFiltering fetches the list once and filters in the browser.
	ClientFiltering bool
	Policy          search.Policy
}

type pageData struct {
	Title        string
	DebounceMS   int64
	MinLoadingMS int64
	Strategy     string
	Fields       []string

	MessageLoading      string
	MessageInitialError string
	MessageSearchError  string
	MessageEmpty        string
}

// Handler renders the page once per request from opts.
type Handler struct {
	data   pageData
	logger *slog.Logger
}

func NewHandler(opts Options, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Title == "" {
		opts.Title = "Solace Advocates"
	}
	strategy := "server"
	if opts.ClientFiltering {
		strategy = "client"
	}
	fields := opts.Policy.Fields()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, string(f))
	}
	return &Handler{
		logger: logger,
		data: pageData{
			Title:               opts.Title,
			DebounceMS:          opts.Debounce.Milliseconds(),
			MinLoadingMS:        opts.MinLoading.Milliseconds(),
			Strategy:            strategy,
			Fields:              names,
			MessageLoading:      "Loading advocates...",
			MessageInitialError: "We couldn't fetch advocates. Please try again by refreshing the page",
			MessageSearchError:  "Error loading advocates",
			MessageEmpty:        "No advocates found",
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, h.data); err != nil {
		h.logger.ErrorContext(r.Context(), "render page failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
