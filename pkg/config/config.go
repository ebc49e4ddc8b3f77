// Package config loads runtime settings for artifact provisioning from the
// environment, following the same envconfig.Process convention used
// elsewhere in the organization's services.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config controls where proving/witness artifacts are fetched from and
// cached, and the default circuit depth used when a caller doesn't pin one.
type Config struct {
	ArtifactBaseURL string `envconfig:"ARTIFACT_BASE_URL" default:"https://snark-artifacts.pse.dev/semaphore/latest"`
	CacheDir        string `envconfig:"CACHE_DIR" default:".semaphore-cache"`
	HTTPTimeoutSec  int    `envconfig:"HTTP_TIMEOUT_SEC" default:"30"`
	DefaultDepth    uint16 `envconfig:"DEPTH" default:"10"`
}

// Load reads environment variables under the given prefix (e.g. "SEMAPHORE")
// into a Config, applying defaults for anything unset.
func Load(prefix string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: process env: %w", err)
	}
	return &cfg, nil
}
