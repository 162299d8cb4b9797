package swagger

import (
	"net/http"
	"strings"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
	"github.com/masnyjimmy/rentdocs/compilation"
	"github.com/masnyjimmy/rentdocs/loader"
	"github.com/prometheus/client_golang/prometheus"
)

const testDocument = `
info:
  title: Rental
  version: "1.0"
paths:
  /dresses:
    get:
      id: listDresses
      security: []
      responses:
        "200":
          description: Dresses
          application/json: object[]
`

func parse(t *testing.T, src string) *compilation.Document {
	doc, err := loader.Parse("test.yaml", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestMakeUrls(t *testing.T) {
	u := makeUrls("docs/")
	biff.AssertEqual(u.UI, "/docs")
	biff.AssertEqual(u.Document, "/docs/openapi.json")
	biff.AssertEqual(u.YAML, "/docs/openapi.yaml")
	biff.AssertEqual(u.Events, "/docs/events")
	biff.AssertEqual(u.Routes, "/docs/routes.json")

	root := makeUrls("/")
	biff.AssertEqual(root.Document, "/openapi.json")
}

func TestHandler(t *testing.T) {

	biff.Alternative("Documentation handler", func(a *biff.A) {

		s, err := New(parse(t, testDocument), Options{BaseUrl: "/docs"})
		biff.AssertNil(err)

		api := apitest.NewWithHandler(s.Handler(nil))

		a.Alternative("Swagger UI", func(a *biff.A) {
			resp := api.Request("GET", "/docs").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			body := resp.BodyString()
			biff.AssertTrue(strings.Contains(body, "/docs/openapi.json"))
			biff.AssertTrue(strings.Contains(body, "/docs/events"))
			biff.AssertFalse(strings.Contains(body, "%OPENAPI_DOCUMENT_URL%"))
		})

		a.Alternative("JSON document", func(a *biff.A) {
			resp := api.Request("GET", "/docs/openapi.json").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.Header.Get("Content-Type"), "application/json")

			body := resp.BodyJson().(map[string]any)
			biff.AssertEqual(body["openapi"], "3.1.0")
		})

		a.Alternative("YAML document", func(a *biff.A) {
			resp := api.Request("GET", "/docs/openapi.yaml").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertTrue(strings.Contains(resp.BodyString(), "title: Rental"))
		})

		a.Alternative("Routes", func(a *biff.A) {
			resp := api.Request("GET", "/docs/routes.json").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []any{
				map[string]any{
					"method":      "GET",
					"path":        "/dresses",
					"operationId": "listDresses",
					"statuses":    []any{"200"},
					"public":      true,
				},
			})
		})

		a.Alternative("Swagger UI with trailing slash", func(a *biff.A) {
			resp := api.Request("GET", "/docs/").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertTrue(strings.Contains(resp.BodyString(), "/docs/openapi.json"))
		})

		a.Alternative("Unknown path", func(a *biff.A) {
			resp := api.Request("GET", "/elsewhere").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})
	})
}

func TestHandlerPassesThrough(t *testing.T) {
	s, err := New(parse(t, testDocument), Options{BaseUrl: "/docs"})
	biff.AssertNil(err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(r.URL.Path))
	})

	api := apitest.NewWithHandler(s.Handler(next))

	resp := api.Request("GET", "/api/dresses").Do()
	biff.AssertEqual(resp.StatusCode, http.StatusTeapot)
	biff.AssertEqual(resp.BodyString(), "/api/dresses")

	resp = api.Request("GET", "/docs/openapi.json").Do()
	biff.AssertEqual(resp.StatusCode, http.StatusOK)
}

func TestSetDocument(t *testing.T) {
	s, err := New(parse(t, testDocument), Options{})
	biff.AssertNil(err)

	ch := make(chan string, 1)
	s.broadcaster.AddClient(ch)

	next := parse(t, strings.Replace(testDocument, "title: Rental", "title: Rental v2", 1))
	biff.AssertNil(s.SetDocument(next))

	biff.AssertTrue(strings.Contains(string(s.Document()), "Rental v2"))
	biff.AssertEqual(<-ch, "reload")
}

func TestRouter(t *testing.T) {

	biff.Alternative("Router", func(a *biff.A) {

		registry := prometheus.NewRegistry()

		s, err := New(parse(t, testDocument), Options{Registerer: registry})
		biff.AssertNil(err)

		api := apitest.NewWithHandler(s.Router(RouterOptions{
			CorsOrigins: []string{"https://admin.example.com"},
			Gatherer:    registry,
		}))

		a.Alternative("Health check", func(a *biff.A) {
			resp := api.Request("GET", "/healthz").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.BodyString(), "ok")
		})

		a.Alternative("Metrics", func(a *biff.A) {
			resp := api.Request("GET", "/metrics").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			body := resp.BodyString()
			biff.AssertTrue(strings.Contains(body, "rentdocs_document_operations 1"))
			biff.AssertTrue(strings.Contains(body, "rentdocs_document_bytes"))
		})

		a.Alternative("Documentation is mounted", func(a *biff.A) {
			resp := api.Request("GET", "/openapi.json").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
		})

		a.Alternative("Allowed origin", func(a *biff.A) {
			resp := api.Request("GET", "/openapi.json").
				WithHeader("Origin", "https://admin.example.com").
				Do()
			biff.AssertEqual(resp.Header.Get("Access-Control-Allow-Origin"), "https://admin.example.com")
		})

		a.Alternative("Foreign origin", func(a *biff.A) {
			resp := api.Request("GET", "/openapi.json").
				WithHeader("Origin", "https://evil.example.com").
				Do()
			biff.AssertEqual(resp.Header.Get("Access-Control-Allow-Origin"), "")
		})
	})
}

func TestBroadcaster(t *testing.T) {
	b := NewBroadcaster()

	changes := []int{}
	b.onChange = func(clients int) { changes = append(changes, clients) }

	first := make(chan string, 1)
	second := make(chan string)
	b.AddClient(first)
	b.AddClient(second)
	biff.AssertEqual(b.Clients(), 2)

	// second is unbuffered and nobody reads it: it must not block
	b.Broadcast("reload")
	biff.AssertEqual(<-first, "reload")

	b.RemoveClient(first)
	b.RemoveClient(first)
	b.RemoveClient(second)

	biff.AssertEqual(b.Clients(), 0)
	biff.AssertEqual(changes, []int{1, 2, 1, 0})

	_, open := <-first
	biff.AssertFalse(open)
}
