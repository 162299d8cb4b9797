package cmd

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
	"github.com/masnyjimmy/rentdocs/catalog"
	"github.com/masnyjimmy/rentdocs/config"
	"github.com/masnyjimmy/rentdocs/loader"
	"github.com/swaggo/swag"
)

const inputDocument = `
info:
  title: Fitting Rooms
  version: "1.0"
schemas:
  Fitting:
    id: integer
    room: string
paths:
  /fittings:
    get:
      responses:
        "200":
          description: Fittings
          application/json: <Fitting>[]
`

func writeInput(t *testing.T, content string) string {
	filename := filepath.Join(t.TempDir(), "api.yaml")
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestReadDocument(t *testing.T) {
	doc, err := readDocument("")
	biff.AssertNil(err)
	embedded, _ := catalog.Document()
	biff.AssertTrue(doc == embedded)
	biff.AssertEqual(sourceName(""), catalog.SourceName)

	filename := writeInput(t, inputDocument)
	doc, err = readDocument(filename)
	biff.AssertNil(err)
	biff.AssertEqual(doc.Info.Title, "Fitting Rooms")
	biff.AssertEqual(sourceName(filename), filename)

	_, err = readDocument(filepath.Join(t.TempDir(), "missing.yaml"))
	biff.AssertTrue(loader.IsKind(err, loader.KindNotFound))
}

func TestNewServer(t *testing.T) {

	biff.Alternative("Server", func(a *biff.A) {

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		a.Alternative("Embedded catalog", func(a *biff.A) {
			srv, err := newServer(ctx, config.Default())
			biff.AssertNil(err)
			defer srv.Close()

			biff.AssertTrue(srv.watcher == nil)

			api := apitest.NewWithHandler(srv.http.Handler)

			resp := api.Request("GET", "/openapi.json").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			expected, _ := catalog.JSON()
			biff.AssertEqual(resp.BodyString(), string(expected))

			resp = api.Request("GET", "/metrics").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusOK)

			registered, err := swag.ReadDoc(catalog.InstanceName)
			biff.AssertNil(err)
			biff.AssertEqual(registered, string(expected))
		})

		a.Alternative("Metrics disabled", func(a *biff.A) {
			cfg := config.Default()
			cfg.Metrics = false
			srv, err := newServer(ctx, cfg)
			biff.AssertNil(err)
			defer srv.Close()

			resp := apitest.NewWithHandler(srv.http.Handler).Request("GET", "/metrics").Do()
			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})

		a.Alternative("Watched input", func(a *biff.A) {
			filename := writeInput(t, inputDocument)

			cfg := config.Default()
			cfg.Input = filename
			cfg.BaseUrl = "/docs"
			cfg.Debounce = 20 * time.Millisecond

			srv, err := newServer(ctx, cfg)
			biff.AssertNil(err)
			defer srv.Close()
			biff.AssertNotNil(srv.watcher)

			api := apitest.NewWithHandler(srv.http.Handler)
			resp := api.Request("GET", "/docs/openapi.yaml").Do()
			biff.AssertTrue(strings.Contains(resp.BodyString(), "Fitting Rooms"))

			updated := strings.Replace(inputDocument, "Fitting Rooms", "Fitting Studio", 1)
			biff.AssertNil(os.WriteFile(filename, []byte(updated), 0o644))

			deadline := time.Now().Add(2 * time.Second)
			for !strings.Contains(string(srv.docs.Document()), "Fitting Studio") {
				if time.Now().After(deadline) {
					t.Fatal("edited input was not reloaded")
				}
				time.Sleep(10 * time.Millisecond)
			}
		})

		a.Alternative("Missing input", func(a *biff.A) {
			cfg := config.Default()
			cfg.Input = filepath.Join(t.TempDir(), "missing.yaml")
			_, err := newServer(ctx, cfg)
			biff.AssertTrue(loader.IsKind(err, loader.KindNotFound))
		})
	})
}

func TestServeShutsDownOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg) }()

	select {
	case err := <-done:
		biff.AssertNil(err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}

func TestServeReportsListenError(t *testing.T) {
	cfg := config.Default()
	cfg.Addr = "127.0.0.1:-1"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := serve(ctx, cfg)
	biff.AssertNotNil(err)
}
