// Package template resolves handlebars-style placeholders embedded in a
// form's display strings (titles, descriptions, default values) against a
// runtime context of payload/state/config/answers/secrets values.
package template

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/mbleigh/raymond"

	"github.com/greentic-ai/qa-spec-go/internal/jsonenc"
	"github.com/greentic-ai/qa-spec-go/secrets"
	"github.com/greentic-ai/qa-spec-go/spec"
)

// ResolutionMode controls how a missing or erroring template is handled.
type ResolutionMode int

const (
	// ModeStrict surfaces template errors to the caller.
	ModeStrict ResolutionMode = iota
	// ModeRelaxed leaves the original template text untouched on error.
	ModeRelaxed
)

// SecretsView is the read-only projection of a secrets map a template can
// see: keys the policy allows are exposed in Values, keys it denies are
// recorded (by denial code) in Denied so the "secret" helper can explain why
// access failed.
type SecretsView struct {
	Values        map[string]any
	Denied        map[string]string
	HostAvailable bool
}

func newSecretsView(raw map[string]any, policy *secrets.Policy, hostAvailable bool) *SecretsView {
	values := map[string]any{}
	denied := map[string]string{}
	for key, value := range raw {
		switch secrets.Evaluate(policy, key, secrets.ActionRead, hostAvailable) {
		case secrets.Allowed:
			values[key] = value
		case secrets.Denied:
			denied[key] = secrets.DeniedCode
		case secrets.HostUnavailable:
			denied[key] = "secret_host_unavailable"
		}
	}
	return &SecretsView{Values: values, Denied: denied, HostAvailable: hostAvailable}
}

// Context is the data a template string is rendered against.
type Context struct {
	Payload map[string]any
	State   map[string]any
	Config  map[string]any
	Answers map[string]any
	Secrets *SecretsView
}

// NewContext returns an empty Context with initialized maps.
func NewContext() Context {
	return Context{Payload: map[string]any{}, State: map[string]any{}, Config: map[string]any{}, Answers: map[string]any{}}
}

func (c Context) WithPayload(v map[string]any) Context { c.Payload = v; return c }
func (c Context) WithState(v map[string]any) Context   { c.State = v; return c }
func (c Context) WithConfig(v map[string]any) Context  { c.Config = v; return c }
func (c Context) WithAnswers(v map[string]any) Context { c.Answers = v; return c }

// WithSecrets attaches a secrets view evaluated against policy.
func (c Context) WithSecrets(raw map[string]any, policy *secrets.Policy, hostAvailable bool) Context {
	c.Secrets = newSecretsView(raw, policy, hostAvailable)
	return c
}

func (c Context) toValue() map[string]any {
	m := map[string]any{
		"payload": c.Payload,
		"state":   c.State,
		"config":  c.Config,
		"answers": c.Answers,
	}
	if c.Secrets != nil {
		m["secrets"] = c.Secrets.Values
		denied := make(map[string]any, len(c.Secrets.Denied))
		for k, v := range c.Secrets.Denied {
			denied[k] = v
		}
		m["__secrets_meta"] = map[string]any{
			"host_available": c.Secrets.HostAvailable,
			"denied":         denied,
		}
	}
	return m
}

var registerOnce sync.Once

func registerHelpers() {
	registerOnce.Do(func() {
		raymond.RegisterHelper("get", helperGet)
		raymond.RegisterHelper("default", helperDefault)
		raymond.RegisterHelper("eq", helperEq)
		raymond.RegisterHelper("and", helperAnd)
		raymond.RegisterHelper("or", helperOr)
		raymond.RegisterHelper("not", helperNot)
		raymond.RegisterHelper("len", helperLen)
		raymond.RegisterHelper("json", helperJSON)
		raymond.RegisterHelper("secret", helperSecret)
	})
}

// Engine renders template strings with the engine's fixed helper set.
type Engine struct {
	mode ResolutionMode
}

// NewEngine builds an Engine; the helper set is registered once per process
// (raymond's helper registry is global, not per-instance).
func NewEngine(mode ResolutionMode) *Engine {
	registerHelpers()
	return &Engine{mode: mode}
}

// ResolveString renders template against ctx. On a render error, Strict mode
// returns the error; Relaxed mode returns the original template unchanged.
func (e *Engine) ResolveString(template string, ctx Context) (string, error) {
	if template == "" {
		return "", nil
	}
	result, err := raymond.Render(template, ctx.toValue())
	if err != nil {
		if e.mode == ModeRelaxed {
			return template, nil
		}
		return "", fmt.Errorf("template render error: %w", err)
	}
	return result, nil
}

// ResolveFormSpec resolves every templated display string in s (title,
// description, presentation intro/theme, per-question title/description/
// default value) and returns the resolved copy.
func (e *Engine) ResolveFormSpec(s *spec.FormSpec, ctx Context) (*spec.FormSpec, error) {
	out := s.Clone()

	title, err := e.ResolveString(s.Title, ctx)
	if err != nil {
		return nil, err
	}
	out.Title = title

	if s.Description != "" {
		if out.Description, err = e.ResolveString(s.Description, ctx); err != nil {
			return nil, err
		}
	}

	if s.Presentation != nil {
		p := *s.Presentation
		if p.Intro != "" {
			if p.Intro, err = e.ResolveString(p.Intro, ctx); err != nil {
				return nil, err
			}
		}
		if p.Theme != "" {
			if p.Theme, err = e.ResolveString(p.Theme, ctx); err != nil {
				return nil, err
			}
		}
		out.Presentation = &p
	}

	questions := make([]spec.QuestionSpec, len(s.Questions))
	for i, q := range s.Questions {
		updated := q
		if updated.Title, err = e.ResolveString(q.Title, ctx); err != nil {
			return nil, err
		}
		if q.Description != "" {
			if updated.Description, err = e.ResolveString(q.Description, ctx); err != nil {
				return nil, err
			}
		}
		if q.HasDefaultValue {
			if updated.DefaultValue, err = e.ResolveString(q.DefaultValue, ctx); err != nil {
				return nil, err
			}
		}
		questions[i] = updated
	}
	out.Questions = questions

	return &out, nil
}

func toPointer(path string) string {
	cleaned := strings.ReplaceAll(path, ".", "/")
	if strings.HasPrefix(cleaned, "/") {
		return cleaned
	}
	return "/" + cleaned
}

func lookupPointer(value any, pointer string) (any, bool) {
	if pointer == "" || pointer == "/" {
		return value, true
	}
	current := value
	for _, raw := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		token := strings.ReplaceAll(strings.ReplaceAll(raw, "~1", "/"), "~0", "~")
		next, ok := indexInto(current, token)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func indexInto(value any, token string) (any, bool) {
	switch v := value.(type) {
	case map[string]any:
		val, ok := v[token]
		return val, ok
	case []any:
		idx, err := strconv.Atoi(token)
		if err != nil || idx < 0 || idx >= len(v) {
			return nil, false
		}
		return v[idx], true
	default:
		return nil, false
	}
}

func isTruthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func valuesEqual(a, b any) bool {
	af, aIsNum := asFloat(a)
	bf, bIsNum := asFloat(b)
	if aIsNum && bIsNum {
		return af == bf
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func valueToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		data, err := jsonenc.CanonicalMarshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// helperGet resolves a dotted or pointer path against the root context,
// falling back to a second argument when the path is unresolved.
func helperGet(options *raymond.Options) interface{} {
	path := options.ParamStr(0)
	root := options.Ctx()
	if value, ok := lookupPointer(root, toPointer(path)); ok {
		return valueToString(value)
	}
	if len(options.Params()) > 1 {
		return valueToString(options.Param(1))
	}
	return ""
}

func helperDefault(options *raymond.Options) interface{} {
	first := options.Param(0)
	if first != nil && isTruthy(first) {
		return valueToString(first)
	}
	if len(options.Params()) > 1 {
		return valueToString(options.Param(1))
	}
	return ""
}

func helperEq(options *raymond.Options) interface{} {
	return valuesEqual(options.Param(0), options.Param(1))
}

func helperAnd(options *raymond.Options) interface{} {
	truthy := true
	for _, p := range options.Params() {
		if !isTruthy(p) {
			truthy = false
			break
		}
	}
	return truthy
}

func helperOr(options *raymond.Options) interface{} {
	for _, p := range options.Params() {
		if isTruthy(p) {
			return true
		}
	}
	return false
}

func helperNot(options *raymond.Options) interface{} {
	return !isTruthy(options.Param(0))
}

func helperLen(options *raymond.Options) interface{} {
	switch v := options.Param(0).(type) {
	case string:
		return len(v)
	case []any:
		return len(v)
	case map[string]any:
		return len(v)
	default:
		return 0
	}
}

func helperJSON(options *raymond.Options) interface{} {
	data, err := jsonenc.CanonicalMarshal(options.Param(0))
	if err != nil {
		return ""
	}
	return string(data)
}

// helperSecret surfaces a value exposed through the secrets view, raising a
// render error (captured by raymond.Render as its returned error) when the
// host is unavailable or the key was denied.
func helperSecret(options *raymond.Options) interface{} {
	key := options.ParamStr(0)
	root, _ := options.Ctx().(map[string]any)

	meta, _ := root["__secrets_meta"].(map[string]any)
	hostAvailable, _ := meta["host_available"].(bool)
	if !hostAvailable {
		panic(errors.New("secret_host_unavailable"))
	}

	if secretsMap, ok := root["secrets"].(map[string]any); ok {
		if value, ok := secretsMap[key]; ok {
			return valueToString(value)
		}
	}

	if denied, ok := meta["denied"].(map[string]any); ok {
		if code, ok := denied[key].(string); ok {
			panic(errors.New(code))
		}
	}

	panic(errors.New("secret_access_denied"))
}
