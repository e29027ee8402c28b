// Copyright 2025 Amaru Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if cfg.Network != DefaultNetwork {
		t.Fatalf("expected default network %q, got %q", DefaultNetwork, cfg.Network)
	}
	if cfg.ShutdownTimeout != DefaultShutdownTimeout {
		t.Fatalf(
			"expected default shutdown timeout %q, got %q",
			DefaultShutdownTimeout,
			cfg.ShutdownTimeout,
		)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(
		"dataDir: /var/lib/amaru\nnetwork: public\nmetricsPort: 9090\n",
	)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if cfg.DataDir != "/var/lib/amaru" {
		t.Fatalf("unexpected data dir: %q", cfg.DataDir)
	}
	if cfg.Network != "public" {
		t.Fatalf("unexpected network: %q", cfg.Network)
	}
	if cfg.MetricsPort != 9090 {
		t.Fatalf("unexpected metrics port: %d", cfg.MetricsPort)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("AMARU_HORIZON_URL", "http://localhost:8000")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if cfg.HorizonURL != "http://localhost:8000" {
		t.Fatalf("unexpected horizon URL: %q", cfg.HorizonURL)
	}
}
