package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "bucket: docs\nprefix: in/\nregion: eu-west-1\nmodel: m1\nocr_backend: tesseract\nmax_pages: 5\naddr: :9999\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Bucket != "docs" || cfg.Prefix != "in/" || cfg.Region != "eu-west-1" || cfg.Model != "m1" || cfg.OCRBackend != "tesseract" || cfg.MaxPages != 5 || cfg.Addr != ":9999" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"bucket":"b","prefix":"p/","model":"m2","max_inflight":7,"addr":":7070"}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Bucket != "b" || cfg.Prefix != "p/" || cfg.Model != "m2" || cfg.MaxInflight != 7 || cfg.Addr != ":7070" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "bucket=\"b3\"\nregion=\"us-west-2\"\nrender_dpi=200\nblueprint=\"bank-statement\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Bucket != "b3" || cfg.Region != "us-west-2" || cfg.RenderDPI != 200 || cfg.Blueprint != "bank-statement" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestFromEnvOverlay(t *testing.T) {
	t.Setenv("DOCEX_BUCKET", "env-bucket")
	t.Setenv("DOCEX_MAX_PAGES", "3")
	t.Setenv("DOCEX_MAX_INFLIGHT", "not-a-number")
	cfg := FromEnv(Config{Bucket: "file-bucket", Prefix: "keep/", MaxInflight: 2})
	if cfg.Bucket != "env-bucket" {
		t.Fatalf("env should win: %+v", cfg)
	}
	if cfg.Prefix != "keep/" {
		t.Fatalf("unset env must not clobber: %+v", cfg)
	}
	if cfg.MaxPages != 3 {
		t.Fatalf("int overlay: %+v", cfg)
	}
	if cfg.MaxInflight != 2 {
		t.Fatalf("bad int must be ignored: %+v", cfg)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := ApplyDefaults(Config{})
	if cfg.Region == "" || cfg.Model == "" || cfg.Addr == "" || cfg.MaxInflight == 0 || cfg.MaxPages == 0 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	pinned := ApplyDefaults(Config{Region: "ap-south-1", MaxInflight: 9})
	if pinned.Region != "ap-south-1" || pinned.MaxInflight != 9 {
		t.Fatalf("explicit values must survive defaults: %+v", pinned)
	}
}
