package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Name != "mermaid-image-gen" {
		t.Errorf("Name: got %q, want %q", cfg.Name, "mermaid-image-gen")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.MmdcPath != "mmdc" {
		t.Errorf("MmdcPath: got %q, want %q", cfg.MmdcPath, "mmdc")
	}
	if cfg.RenderTimeout != time.Minute {
		t.Errorf("RenderTimeout: got %v, want %v", cfg.RenderTimeout, time.Minute)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("MERMAID_MCP_LOGLEVEL", "debug")
	t.Setenv("MERMAID_MCP_MMDCPATH", "/opt/mermaid/mmdc")
	t.Setenv("MERMAID_MCP_RENDERTIMEOUT", "90s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.MmdcPath != "/opt/mermaid/mmdc" {
		t.Errorf("MmdcPath: got %q, want %q", cfg.MmdcPath, "/opt/mermaid/mmdc")
	}
	if cfg.RenderTimeout != 90*time.Second {
		t.Errorf("RenderTimeout: got %v, want %v", cfg.RenderTimeout, 90*time.Second)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := strings.Join([]string{
		"name: diagram-renderer",
		"logLevel: warn",
		"renderTimeout: 30s",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Name != "diagram-renderer" {
		t.Errorf("Name: got %q, want %q", cfg.Name, "diagram-renderer")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, "warn")
	}
	if cfg.RenderTimeout != 30*time.Second {
		t.Errorf("RenderTimeout: got %v, want %v", cfg.RenderTimeout, 30*time.Second)
	}
	if cfg.MmdcPath != "mmdc" {
		t.Errorf("MmdcPath should keep default: got %q", cfg.MmdcPath)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("Load should fail for a missing config file")
	}
}
