// Package swagger serves a compiled API document with Swagger UI and
// pushes reload events to open pages when the document changes.
package swagger

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/masnyjimmy/rentdocs/catalog"
	"github.com/masnyjimmy/rentdocs/compilation"
	"github.com/prometheus/client_golang/prometheus"
	"pkt.systems/pslog"
)

//go:embed swagger.html
var swaggerUIBase string

func buildSwaggerUI(documentUrl, eventsUrl string) []byte {
	replacer := strings.NewReplacer(
		"%OPENAPI_DOCUMENT_URL%", documentUrl,
		"%EVENTS_URL%", eventsUrl,
	)

	return []byte(replacer.Replace(swaggerUIBase))
}

type Options struct {
	DebounceTime time.Duration
	BaseUrl      string
	Logger       pslog.Logger
	Registerer   prometheus.Registerer
}

func DefaultOptions() Options {
	return Options{
		DebounceTime: DEFAULT_DEBOUNCE_TIME,
		BaseUrl:      "/",
	}
}

type urls struct {
	UI       string
	Document string
	YAML     string
	Events   string
	Routes   string
}

func makeUrls(base string) urls {
	base = path.Clean("/" + base)
	return urls{
		UI:       base,
		Document: path.Join(base, "openapi.json"),
		YAML:     path.Join(base, "openapi.yaml"),
		Events:   path.Join(base, "events"),
		Routes:   path.Join(base, "routes.json"),
	}
}

type snapshot struct {
	json       []byte
	yaml       []byte
	routes     []byte
	operations int
}

func render(doc *compilation.Document) (snapshot, error) {
	jsonBytes, err := compilation.MarshalJSON(doc)
	if err != nil {
		return snapshot{}, err
	}

	yamlBytes, err := compilation.MarshalYAML(doc)
	if err != nil {
		return snapshot{}, err
	}

	routes := catalog.Routes(doc)
	routesBytes, err := json.Marshal(routes)
	if err != nil {
		return snapshot{}, fmt.Errorf("marshal routes: %w", err)
	}

	return snapshot{
		json:       jsonBytes,
		yaml:       yamlBytes,
		routes:     routesBytes,
		operations: len(routes),
	}, nil
}

type Swagger struct {
	options Options
	logger  pslog.Logger

	broadcaster *broadcaster
	metrics     *metrics
	urls        urls

	mu      sync.RWMutex
	current snapshot
}

func New(doc *compilation.Document, opt Options) (*Swagger, error) {
	if opt.Logger == nil {
		opt.Logger = pslog.NoopLogger()
	}
	if opt.DebounceTime <= 0 {
		opt.DebounceTime = DEFAULT_DEBOUNCE_TIME
	}
	if opt.BaseUrl == "" {
		opt.BaseUrl = "/"
	}

	current, err := render(doc)
	if err != nil {
		return nil, err
	}

	m := newMetrics(opt.Registerer)
	m.documentBytes.Set(float64(len(current.json)))
	m.operations.Set(float64(current.operations))

	b := NewBroadcaster()
	b.onChange = func(clients int) {
		m.clients.Set(float64(clients))
	}

	out := &Swagger{
		options:     opt,
		logger:      opt.Logger,
		broadcaster: b,
		metrics:     m,
		urls:        makeUrls(opt.BaseUrl),
		current:     current,
	}

	return out, nil
}

func (s *Swagger) write(w http.ResponseWriter, contentType string, pick func(snapshot) []byte) {
	s.mu.RLock()
	body := pick(s.current)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", contentType)
	w.Write(body)
}

// Handler serves the documentation URLs and passes everything else to h.
func (s *Swagger) Handler(h http.Handler) http.Handler {

	swaggerUI := buildSwaggerUI(s.urls.Document, s.urls.Events)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqPath := r.URL.Path

		switch reqPath {
		case s.urls.UI, s.urls.UI + "/":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(swaggerUI)
		case s.urls.Document:
			s.write(w, "application/json", func(c snapshot) []byte { return c.json })
		case s.urls.YAML:
			s.write(w, "application/yaml", func(c snapshot) []byte { return c.yaml })
		case s.urls.Routes:
			s.write(w, "application/json", func(c snapshot) []byte { return c.routes })
		case s.urls.Events:
			s.broadcaster.ServeHTTP(w, r)
		default:
			if h != nil {
				h.ServeHTTP(w, r)
			} else {
				http.NotFound(w, r)
			}
		}
	})
}

// Document returns the JSON currently served.
func (s *Swagger) Document() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.json
}

// SetDocument replaces the served document and notifies open pages.
func (s *Swagger) SetDocument(doc *compilation.Document) error {
	next, err := render(doc)
	if err != nil {
		s.metrics.reloads.WithLabelValues("failed").Inc()
		return err
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	s.metrics.reloads.WithLabelValues("ok").Inc()
	s.metrics.documentBytes.Set(float64(len(next.json)))
	s.metrics.operations.Set(float64(next.operations))

	s.broadcaster.Broadcast("reload")
	return nil
}

// Follow reloads the document each time w reports a change, until ctx is
// done or the watcher is closed. Failed reloads keep the previous document.
// Watch errors are logged and counted, including those the watcher dropped.
func (s *Swagger) Follow(ctx context.Context, w *Watcher, reload func() (*compilation.Document, error)) {
	var seenDropped uint64

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case err := <-w.Errors:
			dropped := w.Dropped()
			s.metrics.watchErrors.Add(float64(1 + dropped - seenDropped))
			seenDropped = dropped

			s.logger.Warn("watch error", "error", err, "dropped", dropped)
		case <-w.Update:
			doc, err := reload()
			if err != nil {
				s.metrics.reloads.WithLabelValues("failed").Inc()
				s.logger.Error("unable to update api", "error", err)
				continue
			}

			if err := s.SetDocument(doc); err != nil {
				s.logger.Error("unable to render api", "error", err)
				continue
			}
			s.logger.Info("document reloaded", "clients", s.broadcaster.Clients())
		}
	}
}

// WatchFile follows filename with the configured debounce delay.
func (s *Swagger) WatchFile(filename string) (*Watcher, error) {
	return WatchFile(filename, s.options.DebounceTime)
}
