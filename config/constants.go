// Package config holds the fixed protocol constants. The environment-var
// driven runtime configuration for artifact provisioning lives in the
// separate pkg/config package.
package config

const (
	// ElementSize is the byte width of an Element (a little-endian BN254
	// scalar-field element, i.e. BabyJubjub's base field Fq).
	ElementSize = 32

	// MinTreeDepth and MaxTreeDepth bound the LeanIMT depths that have a
	// provisioned Groth16 proving/verifying key.
	MinTreeDepth = 1
	MaxTreeDepth = 32

	// DefaultTreeDepth is the protocol's default circuit depth. pkg/config
	// does not read it: its DEPTH field carries the same value as a
	// struct-tag default, applied when SEMAPHORE_DEPTH is unset.
	DefaultTreeDepth = 10

	// ArtifactURLTemplate is the reference CDN layout for proving keys and
	// witness graphs, keyed by tree depth and file extension.
	ArtifactURLTemplate = "https://snark-artifacts.pse.dev/semaphore/latest/semaphore-%d.%s"
)
