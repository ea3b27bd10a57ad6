// Package answers defines the persisted answer-set document and the
// validation result/error types the engine reports back to callers.
package answers

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/greentic-ai/qa-spec-go/internal/jsonenc"
)

// Meta is optional bookkeeping paired with an AnswerSet.
type Meta struct {
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Set holds the in-progress answers for one form spec version.
type Set struct {
	FormID      string         `json:"form_id"`
	SpecVersion string         `json:"spec_version"`
	Answers     map[string]any `json:"answers"`
	Meta        *Meta          `json:"meta,omitempty"`
}

// New creates an empty answer set for formID at specVersion.
func New(formID, specVersion string) Set {
	return Set{FormID: formID, SpecVersion: specVersion, Answers: map[string]any{}}
}

var cborEncMode = mustCanonicalEncMode()

func mustCanonicalEncMode() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	mode, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}

// ToCBOR serializes the answer set as canonical (deterministically
// key-ordered) CBOR bytes.
func (s Set) ToCBOR() ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// FromCBOR decodes a canonical-CBOR-encoded answer set.
func FromCBOR(data []byte) (Set, error) {
	var s Set
	if err := cbor.Unmarshal(data, &s); err != nil {
		return Set{}, err
	}
	return s, nil
}

// ToJSONPretty serializes the answer set as indented JSON for debugging.
func (s Set) ToJSONPretty() (string, error) {
	data, err := jsonenc.CanonicalMarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ProgressState tracks where a multi-step flow currently stands.
type ProgressState struct {
	CurrentStep string   `json:"current_step,omitempty"`
	Completed   bool     `json:"completed"`
	History     []string `json:"history,omitempty"`
}

// ValidationError describes a single failed question or cross-field rule.
type ValidationError struct {
	QuestionID string `json:"question_id,omitempty"`
	Path       string `json:"path,omitempty"`
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
}

// ValidationResult is the batched outcome of validating an answer set.
type ValidationResult struct {
	Valid           bool              `json:"valid"`
	Errors          []ValidationError `json:"errors,omitempty"`
	MissingRequired []string          `json:"missing_required,omitempty"`
	UnknownFields   []string          `json:"unknown_fields,omitempty"`
}
