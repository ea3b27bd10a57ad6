// Package spec defines the declarative form document the rest of the
// engine evaluates: questions, cross-field validations, includes, and the
// form-level policies that configure progress/secrets behavior.
package spec

import (
	"github.com/greentic-ai/qa-spec-go/expr"
	"github.com/greentic-ai/qa-spec-go/i18n"
	"github.com/greentic-ai/qa-spec-go/secrets"
	"github.com/greentic-ai/qa-spec-go/store"
)

// Presentation carries optional display hints for a form.
type Presentation struct {
	Intro         string `json:"intro,omitempty"`
	Theme         string `json:"theme,omitempty"`
	DefaultLocale string `json:"default_locale,omitempty"`
}

// ProgressPolicy controls how Progress decides what's answered and what
// question comes next.
type ProgressPolicy struct {
	SkipAnswered          bool `json:"skip_answered"`
	AutofillDefaults      bool `json:"autofill_defaults"`
	TreatDefaultAsAnswered bool `json:"treat_default_as_answered"`
}

// DefaultProgressPolicy mirrors the form-level default when no explicit
// policy is configured: answered questions are skipped, defaults are not
// auto-filled.
func DefaultProgressPolicy() ProgressPolicy {
	return ProgressPolicy{SkipAnswered: true}
}

// IncludeSpec references another form (by id, resolved through a registry)
// to splice into this one, optionally namespacing its question ids.
type IncludeSpec struct {
	FormRef string `json:"form_ref"`
	Prefix  string `json:"prefix,omitempty"`
}

// QuestionType enumerates the supported answer data types.
type QuestionType string

const (
	TypeString  QuestionType = "string"
	TypeBoolean QuestionType = "boolean"
	TypeInteger QuestionType = "integer"
	TypeNumber  QuestionType = "number"
	TypeEnum    QuestionType = "enum"
	TypeList    QuestionType = "list"
)

// Constraint bounds the values a question will accept.
type Constraint struct {
	Pattern string   `json:"pattern,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	MinLen  *int     `json:"min_len,omitempty"`
	MaxLen  *int     `json:"max_len,omitempty"`
}

// Policy holds per-question overrides for progress behavior.
type Policy struct {
	SkipIfPresentIn       []store.Target `json:"skip_if_present_in,omitempty"`
	EditableIfFromDefault bool           `json:"editable_if_from_default"`
}

// ListSpec describes a repeatable group of fields reused per list entry.
type ListSpec struct {
	MinItems *int            `json:"min_items,omitempty"`
	MaxItems *int            `json:"max_items,omitempty"`
	Fields   []QuestionSpec  `json:"fields,omitempty"`
}

// QuestionSpec is a single question inside a form.
type QuestionSpec struct {
	ID                 string        `json:"id"`
	Kind               QuestionType  `json:"type"`
	Title              string        `json:"title"`
	TitleI18n          *i18n.Text    `json:"title_i18n,omitempty"`
	Description        string        `json:"description,omitempty"`
	DescriptionI18n    *i18n.Text    `json:"description_i18n,omitempty"`
	Required           bool          `json:"required"`
	Choices            []string      `json:"choices,omitempty"`
	DefaultValue       string        `json:"default_value,omitempty"`
	HasDefaultValue    bool          `json:"-"`
	Secret             bool          `json:"secret"`
	VisibleIf          *expr.Expr    `json:"visible_if,omitempty"`
	Constraint         *Constraint   `json:"constraint,omitempty"`
	List               *ListSpec     `json:"list,omitempty"`
	Computed           *expr.Expr    `json:"computed,omitempty"`
	QuestionPolicy     Policy        `json:"policy"`
	ComputedOverridable bool         `json:"computed_overridable"`
}

// CrossFieldValidation is a reusable condition over the whole answer set.
type CrossFieldValidation struct {
	ID        string    `json:"id,omitempty"`
	Message   string    `json:"message"`
	Fields    []string  `json:"fields,omitempty"`
	Condition expr.Expr `json:"condition"`
	Code      string    `json:"code,omitempty"`
}

// SecretsPolicy is re-exported from the secrets package for convenience so
// callers working only with the spec package don't need a second import.
type SecretsPolicy = secrets.Policy

// FormSpec is the top-level QA form definition.
type FormSpec struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Version        string                 `json:"version"`
	Description    string                 `json:"description,omitempty"`
	Presentation   *Presentation          `json:"presentation,omitempty"`
	ProgressPolicy *ProgressPolicy        `json:"progress_policy,omitempty"`
	SecretsPolicy  *SecretsPolicy         `json:"secrets_policy,omitempty"`
	Store          []store.Op             `json:"store,omitempty"`
	Validations    []CrossFieldValidation `json:"validations,omitempty"`
	Includes       []IncludeSpec          `json:"includes,omitempty"`
	Questions      []QuestionSpec         `json:"questions"`
}

// Clone returns a deep-enough copy of spec suitable for in-place mutation
// during include expansion or template resolution (questions/validations/
// includes slices are copied; nested pointers are shared until replaced).
func (f FormSpec) Clone() FormSpec {
	out := f
	out.Questions = append([]QuestionSpec(nil), f.Questions...)
	out.Validations = append([]CrossFieldValidation(nil), f.Validations...)
	out.Includes = append([]IncludeSpec(nil), f.Includes...)
	out.Store = append([]store.Op(nil), f.Store...)
	return out
}
