package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fulldump/biff"
	"github.com/spf13/pflag"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	RegisterFlags(fs)
	return fs
}

func TestLoad(t *testing.T) {

	biff.Alternative("Config", func(a *biff.A) {

		a.Alternative("Defaults", func(a *biff.A) {
			cfg, err := Load(New(), newFlags(), "")
			biff.AssertNil(err)
			biff.AssertEqual(cfg.Addr, ":8080")
			biff.AssertEqual(cfg.BaseUrl, "/")
			biff.AssertEqual(cfg.Debounce, 100*time.Millisecond)
			biff.AssertEqual(cfg.Input, "")
			biff.AssertEqual(cfg.CorsOrigins, []string{})
			biff.AssertTrue(cfg.Metrics)
		})

		a.Alternative("Flags", func(a *biff.A) {
			fs := newFlags()
			biff.AssertNil(fs.Parse([]string{
				"--addr", "127.0.0.1:9000",
				"-i", "api.yaml",
				"--debounce", "250ms",
				"--cors-origins", "https://a.example.com,https://b.example.com",
				"--metrics=false",
			}))

			cfg, err := Load(New(), fs, "")
			biff.AssertNil(err)
			biff.AssertEqual(cfg.Addr, "127.0.0.1:9000")
			biff.AssertEqual(cfg.Input, "api.yaml")
			biff.AssertEqual(cfg.Debounce, 250*time.Millisecond)
			biff.AssertEqual(cfg.CorsOrigins, []string{"https://a.example.com", "https://b.example.com"})
			biff.AssertFalse(cfg.Metrics)
		})

		a.Alternative("Config file", func(a *biff.A) {
			filename := filepath.Join(t.TempDir(), "rentdocs.yaml")
			err := os.WriteFile(filename, []byte("addr: \":7000\"\nbase-url: /docs\ndebounce: 1s\n"), 0o644)
			biff.AssertNil(err)

			cfg, err := Load(New(), newFlags(), filename)
			biff.AssertNil(err)
			biff.AssertEqual(cfg.Addr, ":7000")
			biff.AssertEqual(cfg.BaseUrl, "/docs")
			biff.AssertEqual(cfg.Debounce, time.Second)
		})

		a.Alternative("Missing config file", func(a *biff.A) {
			_, err := Load(New(), newFlags(), filepath.Join(t.TempDir(), "none.yaml"))
			biff.AssertNotNil(err)
		})

		a.Alternative("Invalid values", func(a *biff.A) {
			fs := newFlags()
			biff.AssertNil(fs.Parse([]string{"--base-url", "docs", "--debounce", "0s"}))

			_, err := Load(New(), fs, "")
			biff.AssertNotNil(err)
		})
	})
}

func TestEnvironment(t *testing.T) {
	t.Setenv("RENTDOCS_ADDR", ":6000")
	t.Setenv("RENTDOCS_CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load(New(), newFlags(), "")
	biff.AssertNil(err)
	biff.AssertEqual(cfg.Addr, ":6000")
	biff.AssertEqual(cfg.CorsOrigins, []string{"https://a.example.com", "https://b.example.com"})
}
