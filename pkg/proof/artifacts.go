package proof

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vex-zk/semaphore-go/pkg/config"
)

// ArtifactResolver supplies the two per-depth artifacts Prove needs: the
// Groth16 proving key (zkey) path and a ready witness calculator built from
// the matching Circom wasm. Verify only needs the zkey path (doubling as the
// verifying key source, per the deployed artifact bundle).
type ArtifactResolver interface {
	ResolveZkey(depth uint16) (string, error)
	ResolveWitness(depth uint16) (WitnessCalculator, error)
}

// HTTPArtifactResolver fetches zkey/wasm artifacts from a base URL on first
// use and caches them on disk, keyed by depth. Matches the deployed
// semaphore-{depth}.{zkey,wasm} naming convention.
type HTTPArtifactResolver struct {
	cfg    *config.Config
	client *http.Client
	log    zerolog.Logger
}

// NewHTTPArtifactResolver builds a resolver from cfg, defaulting its logger
// to the package-level zerolog logger.
func NewHTTPArtifactResolver(cfg *config.Config) *HTTPArtifactResolver {
	return &HTTPArtifactResolver{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSec) * time.Second},
		log:    log.With().Str("component", "artifact_resolver").Logger(),
	}
}

func (r *HTTPArtifactResolver) ResolveZkey(depth uint16) (string, error) {
	return r.resolve(depth, "zkey")
}

func (r *HTTPArtifactResolver) ResolveWitness(depth uint16) (WitnessCalculator, error) {
	wasmPath, err := r.resolve(depth, "wasm")
	if err != nil {
		return nil, err
	}
	wasmBytes, err := os.ReadFile(wasmPath)
	if err != nil {
		return nil, fmt.Errorf("proof: read cached wasm: %w", err)
	}
	return NewWasmWitnessCalculator(wasmBytes)
}

// resolve returns the local cache path for semaphore-{depth}.{ext},
// downloading it from cfg.ArtifactBaseURL on a cache miss.
func (r *HTTPArtifactResolver) resolve(depth uint16, ext string) (string, error) {
	name := fmt.Sprintf("semaphore-%d.%s", depth, ext)
	cachePath := filepath.Join(r.cfg.CacheDir, name)

	if _, err := os.Stat(cachePath); err == nil {
		r.log.Debug().Uint16("depth", depth).Str("ext", ext).Msg("artifact cache hit")
		return cachePath, nil
	}

	if err := os.MkdirAll(r.cfg.CacheDir, 0o755); err != nil {
		return "", fmt.Errorf("proof: create cache dir: %w", err)
	}

	url := fmt.Sprintf("%s/%s", r.cfg.ArtifactBaseURL, name)
	r.log.Info().Str("url", url).Msg("fetching artifact")

	resp, err := r.client.Get(url)
	if err != nil {
		return "", fmt.Errorf("proof: fetch artifact %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("proof: fetch artifact %s: status %d", name, resp.StatusCode)
	}

	tmp := cachePath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("proof: create cache file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("proof: write cache file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("proof: close cache file: %w", err)
	}
	if err := os.Rename(tmp, cachePath); err != nil {
		return "", fmt.Errorf("proof: finalize cache file: %w", err)
	}

	return cachePath, nil
}

// ReadZkey loads zkey bytes from a resolved cache path, satisfying
// RapidsnarkEngine.ReadZkey.
func ReadZkey(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("proof: read zkey %s: %w", path, err)
	}
	return b, nil
}
