// Command provision pre-fetches the Groth16 zkey and witness wasm for one or
// more circuit depths into the on-disk artifact cache, so proof generation
// never blocks on a network fetch at signaling time.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/vex-zk/semaphore-go/pkg/config"
	"github.com/vex-zk/semaphore-go/pkg/proof"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load("SEMAPHORE")
	if err != nil {
		log.Fatal(err)
	}
	resolver := proof.NewHTTPArtifactResolver(cfg)

	switch os.Args[1] {
	case "fetch":
		depth := cfg.DefaultDepth
		if len(os.Args) >= 3 {
			depth = parseDepth(os.Args[2])
		}
		if err := fetchDepth(resolver, depth); err != nil {
			log.Fatal(err)
		}
	case "fetch-range":
		if len(os.Args) < 4 {
			printUsage()
			os.Exit(1)
		}
		lo := parseDepth(os.Args[2])
		hi := parseDepth(os.Args[3])
		for d := lo; d <= hi; d++ {
			if err := fetchDepth(resolver, d); err != nil {
				log.Fatal(err)
			}
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

func fetchDepth(resolver *proof.HTTPArtifactResolver, depth uint16) error {
	zkeyPath, err := resolver.ResolveZkey(depth)
	if err != nil {
		return fmt.Errorf("provision: fetch zkey for depth %d: %w", depth, err)
	}
	if _, err := resolver.ResolveWitness(depth); err != nil {
		return fmt.Errorf("provision: fetch wasm for depth %d: %w", depth, err)
	}
	zerolog.New(os.Stdout).With().Timestamp().Logger().
		Info().Uint16("depth", depth).Str("zkey", zkeyPath).Msg("artifacts ready")
	return nil
}

func parseDepth(s string) uint16 {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		log.Fatalf("provision: invalid depth %q: %v", s, err)
	}
	return uint16(v)
}

func printUsage() {
	fmt.Println(`Usage:
  go run ./cmd/provision fetch [depth]            Fetch zkey+wasm for one depth (default: SEMAPHORE_DEPTH, else 10)
  go run ./cmd/provision fetch-range LO HI        Fetch zkey+wasm for every depth in [LO, HI]

Environment:
  SEMAPHORE_ARTIFACT_BASE_URL   Base URL artifacts are fetched from
  SEMAPHORE_CACHE_DIR           On-disk cache directory
  SEMAPHORE_HTTP_TIMEOUT_SEC    Per-request HTTP timeout
  SEMAPHORE_DEPTH               Depth used by "fetch" when none is given`)
}
