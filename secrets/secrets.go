// Package secrets implements the allow/deny gate that guards reads and
// writes against the form's secrets namespace.
package secrets

import (
	"github.com/gobwas/glob"
)

// Policy controls whether a form's questions/store ops may touch secrets.
type Policy struct {
	Enabled      bool     `json:"enabled,omitempty"`
	ReadEnabled  bool     `json:"read_enabled,omitempty"`
	WriteEnabled bool     `json:"write_enabled,omitempty"`
	Allow        []string `json:"allow,omitempty"`
	Deny         []string `json:"deny,omitempty"`
}

// Action distinguishes a secret read from a secret write.
type Action int

const (
	ActionRead Action = iota
	ActionWrite
)

// AccessResult is the outcome of evaluating a key against a Policy.
type AccessResult int

const (
	Allowed AccessResult = iota
	Denied
	HostUnavailable
)

// DeniedCode is the stable code attached to every Denied result.
const DeniedCode = "secret_access_denied"

func matchesAny(patterns []string, key string) bool {
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			continue
		}
		if g.Match(key) {
			return true
		}
	}
	return false
}

// Evaluate decides whether action on key is allowed under policy, given
// whether the secrets host (the runtime store backing the secrets
// namespace) is currently reachable.
func Evaluate(policy *Policy, key string, action Action, hostAvailable bool) AccessResult {
	if policy == nil || !policy.Enabled {
		return Denied
	}

	enabled := policy.ReadEnabled
	if action == ActionWrite {
		enabled = policy.WriteEnabled
	}
	if !enabled {
		return Denied
	}

	if matchesAny(policy.Deny, key) {
		return Denied
	}

	if len(policy.Allow) == 0 || !matchesAny(policy.Allow, key) {
		return Denied
	}

	if !hostAvailable {
		return HostUnavailable
	}

	return Allowed
}
