// Package store applies a form's declarative store operations against the
// in-flight execution context (answers/state/config/payload_out/secrets).
package store

import (
	"fmt"
	"strings"

	"github.com/greentic-ai/qa-spec-go/secrets"
)

// Target names the sub-document a StoreOp writes into.
type Target string

const (
	TargetAnswers    Target = "answers"
	TargetState      Target = "state"
	TargetConfig     Target = "config"
	TargetPayloadOut Target = "payload_out"
	TargetSecrets    Target = "secrets"
)

// Op is a single declarative write: set the JSON pointer Path under Target
// to Value.
type Op struct {
	Target Target `json:"target"`
	Path   string `json:"path"`
	Value  any    `json:"value"`
}

// Error is returned by Context.ApplyOps.
type Error struct {
	Kind    string
	Pointer string
	Key     string
	Code    string
}

func (e *Error) Error() string {
	switch e.Kind {
	case "invalid_pointer":
		return fmt.Sprintf("invalid pointer '%s'", e.Pointer)
	case "secret_denied":
		return fmt.Sprintf("secret access denied for '%s' (%s)", e.Key, e.Code)
	case "secret_host_unavailable":
		return "secret host unavailable"
	default:
		return "store: unknown error"
	}
}

func invalidPointer(pointer string) *Error { return &Error{Kind: "invalid_pointer", Pointer: pointer} }

// Context holds the five mutable sub-documents store ops write into.
type Context struct {
	Answers    any
	State      any
	Config     any
	PayloadOut any
	Secrets    any
}

// FromValue extracts a Context from a combined JSON-object-shaped ctx,
// defaulting any missing sub-document to an empty object.
func FromValue(ctx map[string]any) *Context {
	get := func(key string) any {
		if v, ok := ctx[key]; ok {
			return v
		}
		return map[string]any{}
	}
	return &Context{
		Answers:    get("answers"),
		State:      get("state"),
		Config:     get("config"),
		PayloadOut: get("payload_out"),
		Secrets:    get("secrets"),
	}
}

// ToValue collapses the Context back into a single combined map.
func (c *Context) ToValue() map[string]any {
	return map[string]any{
		"answers":     c.Answers,
		"state":       c.State,
		"config":      c.Config,
		"payload_out": c.PayloadOut,
		"secrets":     c.Secrets,
	}
}

// ApplyOps applies ops in order, mutating the relevant sub-documents.
// Secret writes are gated through policy/hostAvailable exactly as secret
// reads are elsewhere in the engine.
func (c *Context) ApplyOps(ops []Op, policy *secrets.Policy, hostAvailable bool) error {
	for _, op := range ops {
		switch op.Target {
		case TargetAnswers:
			if err := setPath(&c.Answers, op.Path, op.Value); err != nil {
				return err
			}
		case TargetState:
			if err := setPath(&c.State, op.Path, op.Value); err != nil {
				return err
			}
		case TargetConfig:
			if err := setPath(&c.Config, op.Path, op.Value); err != nil {
				return err
			}
		case TargetPayloadOut:
			if err := setPath(&c.PayloadOut, op.Path, op.Value); err != nil {
				return err
			}
		case TargetSecrets:
			key, err := secretKey(op.Path)
			if err != nil {
				return err
			}
			switch secrets.Evaluate(policy, key, secrets.ActionWrite, hostAvailable) {
			case secrets.Allowed:
				if err := setPath(&c.Secrets, op.Path, op.Value); err != nil {
					return err
				}
			case secrets.HostUnavailable:
				return &Error{Kind: "secret_host_unavailable"}
			default:
				return &Error{Kind: "secret_denied", Key: key, Code: secrets.DeniedCode}
			}
		}
	}
	return nil
}

func setPath(root *any, pointer string, value any) error {
	if pointer == "" {
		*root = value
		return nil
	}

	segments := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for i := range segments {
		segments[i] = decodeSegment(segments[i])
	}

	current := ensureObject(root)
	for idx, segment := range segments {
		if idx == len(segments)-1 {
			current[segment] = value
			return nil
		}
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[segment] = next
		}
		current = next
	}
	return invalidPointer(pointer)
}

func ensureObject(value *any) map[string]any {
	if m, ok := (*value).(map[string]any); ok {
		return m
	}
	m := map[string]any{}
	*value = m
	return m
}

func decodeSegment(segment string) string {
	segment = strings.ReplaceAll(segment, "~1", "/")
	segment = strings.ReplaceAll(segment, "~0", "~")
	return segment
}

func secretKey(pointer string) (string, error) {
	trimmed := strings.TrimPrefix(pointer, "/")
	if trimmed == "" {
		return "", invalidPointer(pointer)
	}
	return trimmed, nil
}
