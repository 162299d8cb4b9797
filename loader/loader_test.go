package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fulldump/biff"
	"github.com/masnyjimmy/rentdocs/compilation"
)

const document = `
info:
  title: Rental
  version: "1.0"
schemas:
  Dress:
    id: integer
    name: string
paths:
  /dresses:
    get:
      responses:
        "200":
          description: Dresses
          application/json: <Dress>[]
`

func writeFile(t *testing.T, content string) string {
	filename := filepath.Join(t.TempDir(), "api.yaml")
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestLoad(t *testing.T) {

	biff.Alternative("Load", func(a *biff.A) {

		a.Alternative("Valid document", func(a *biff.A) {
			doc, err := Load(writeFile(t, document))
			biff.AssertNil(err)
			biff.AssertEqual(doc.Openapi, compilation.OpenAPIVersion)
			biff.AssertNotNil(doc.Paths["/dresses"].Get)
		})

		a.Alternative("Missing file", func(a *biff.A) {
			_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			biff.AssertTrue(IsKind(err, KindNotFound))
			biff.AssertTrue(errors.Is(err, os.ErrNotExist))
		})

		a.Alternative("Schema violation", func(a *biff.A) {
			_, err := Load(writeFile(t, "paths: {}\n"))
			biff.AssertTrue(IsKind(err, KindInvalidDocument))

			var opErr *OpError
			biff.AssertTrue(errors.As(err, &opErr))
			biff.AssertEqual(opErr.Op, "loader.validate")
		})

		a.Alternative("Compile failure", func(a *biff.A) {
			_, err := Load(writeFile(t, strings.Replace(document, "<Dress>[]", "<Gown>[]", 1)))
			biff.AssertTrue(IsKind(err, KindCompile))
			biff.AssertTrue(errors.Is(err, compilation.ErrUnresolvedRef))
		})
	})
}

func TestOpError(t *testing.T) {
	err := &OpError{Op: "loader.load", Kind: KindNotFound, Path: "api.yaml", Err: os.ErrNotExist}
	biff.AssertEqual(err.Error(), "loader.load: not_found (path=api.yaml): file does not exist")
	biff.AssertFalse(IsKind(errors.New("plain"), KindNotFound))

	var nilErr *OpError
	biff.AssertEqual(nilErr.Error(), "<nil>")
}
