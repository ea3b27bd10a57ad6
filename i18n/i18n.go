// Package i18n resolves the optional locale-keyed text descriptors attached
// to form and question display fields.
package i18n

import (
	"fmt"
	"strings"

	"github.com/greentic-ai/qa-spec-go/internal/jsonenc"
)

// Text is a locale key plus interpolation arguments, attached alongside a
// plain-string fallback on form/question fields.
type Text struct {
	Key  string         `json:"key"`
	Args map[string]any `json:"args,omitempty"`
}

// ResolvedMap is a pre-resolved set of locale-qualified strings, built by the
// caller (e.g. loaded from a translation bundle) and passed in read-only.
type ResolvedMap map[string]string

// Resolve resolves fallback/text against resolved using no locale
// preference.
func Resolve(fallback string, text *Text, resolved ResolvedMap) string {
	return ResolveWithLocale(fallback, text, resolved, "", "")
}

// ResolveWithLocale resolves fallback/text against resolved, preferring
// requestedLocale then defaultLocale, then the bare key. If text is nil or
// resolved is nil, fallback is returned unchanged.
func ResolveWithLocale(fallback string, text *Text, resolved ResolvedMap, requestedLocale, defaultLocale string) string {
	if text == nil || resolved == nil {
		return fallback
	}
	base, ok := resolveByLocale(resolved, text.Key, requestedLocale, defaultLocale)
	if !ok {
		return fallback
	}
	return interpolateArgs(base, text.Args)
}

func resolveByLocale(resolved ResolvedMap, key, requestedLocale, defaultLocale string) (string, bool) {
	for _, locale := range []string{requestedLocale, defaultLocale} {
		if locale == "" {
			continue
		}
		if v, ok := resolved[locale+":"+key]; ok {
			return v, true
		}
		if v, ok := resolved[locale+"/"+key]; ok {
			return v, true
		}
	}
	v, ok := resolved[key]
	return v, ok
}

func interpolateArgs(template string, args map[string]any) string {
	if len(args) == 0 {
		return template
	}
	out := template
	for name, value := range args {
		token := "{" + name + "}"
		out = strings.ReplaceAll(out, token, stringifyArg(value))
	}
	return out
}

func stringifyArg(value any) string {
	switch v := value.(type) {
	case string:
		return v
	default:
		data, err := jsonenc.CanonicalMarshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}
