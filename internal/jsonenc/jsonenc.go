// Package jsonenc provides a configurable JSON encoding/decoding layer for
// the qa-spec engine. It defaults to encoding/json but can be swapped for a
// faster implementation such as github.com/bytedance/sonic; a separate
// canonical path is always available for output that must be byte-stable
// across runs (spec property: deterministic serialisation).
package jsonenc

import (
	stdjson "encoding/json"

	"github.com/bytedance/sonic"
)

// Config holds the JSON encoding/decoding functions used by Marshal/Unmarshal.
type Config struct {
	Marshal       func(v any) ([]byte, error)
	MarshalIndent func(v any, prefix, indent string) ([]byte, error)
	Unmarshal     func(data []byte, v any) error
}

// StdConfig uses encoding/json exclusively.
func StdConfig() Config {
	return Config{
		Marshal:       stdjson.Marshal,
		MarshalIndent: stdjson.MarshalIndent,
		Unmarshal:     stdjson.Unmarshal,
	}
}

// SonicConfig uses bytedance/sonic for the hot Marshal/Unmarshal path.
// Sonic does not sort map keys, so callers needing byte-stable output must
// use CanonicalMarshal instead of Marshal.
func SonicConfig() Config {
	return Config{
		Marshal: sonic.Marshal,
		// sonic has no MarshalIndent; pretty-printing is rare enough (CLI
		// output, not the hot path) that falling back to encoding/json here
		// is the right trade.
		MarshalIndent: stdjson.MarshalIndent,
		Unmarshal:     sonic.Unmarshal,
	}
}

var config = StdConfig()

// SetConfig replaces the global JSON configuration used by Marshal/Unmarshal.
func SetConfig(c Config) { config = c }

// GetConfig returns the active configuration.
func GetConfig() Config { return config }

// Marshal returns the JSON encoding of v using the active configuration.
func Marshal(v any) ([]byte, error) { return config.Marshal(v) }

// MarshalIndent is like Marshal but pretty-prints.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return config.MarshalIndent(v, prefix, indent)
}

// Unmarshal parses JSON-encoded data using the active configuration.
func Unmarshal(data []byte, v any) error { return config.Unmarshal(data, v) }

// CanonicalMarshal always uses encoding/json, regardless of the active
// Config. encoding/json sorts map[string]any keys lexicographically by
// construction; swappable fast encoders such as sonic do not make that
// guarantee, so the engine's determinism property (spec property 8: two
// calls with identical inputs produce byte-equal JSON payloads) requires
// every emitted object to go through this path rather than Marshal.
func CanonicalMarshal(v any) ([]byte, error) {
	return stdjson.Marshal(v)
}

// CanonicalMarshalIndent is CanonicalMarshal with indentation.
func CanonicalMarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return stdjson.MarshalIndent(v, prefix, indent)
}
