package gemini

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"geomarket/models"
)

// ErrMalformedResponse matches every *ResponseError.
var ErrMalformedResponse = errors.New("the AI returned an unexpected format")

// ErrorKind says why a model response was rejected.
type ErrorKind int

const (
	KindInvalidJSON ErrorKind = iota + 1
	KindMissingField
	KindWrongType
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidJSON:
		return "invalid_json"
	case KindMissingField:
		return "missing_field"
	case KindWrongType:
		return "wrong_type"
	default:
		return "unknown"
	}
}

// ResponseError is a model response that failed schema validation.
type ResponseError struct {
	Kind   ErrorKind
	Field  string
	Detail string
}

func (e *ResponseError) Error() string {
	msg := fmt.Sprintf("%s (%s", ErrMalformedResponse.Error(), e.Kind)
	if e.Field != "" {
		msg += " " + e.Field
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg + ")"
}

func (e *ResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

type fieldKind int

const (
	stringField fieldKind = iota
	stringListField
	numberField
)

type field struct {
	name string
	kind fieldKind
}

var analysisFields = []field{
	{"scientificName", stringField},
	{"commonName", stringField},
	{"specimenType", stringField},
	{"description", stringField},
	{"geologicalContext", stringField},
	{"geologicalPeriod", stringField},
	{"fossilizationType", stringField},
	{"estimatedValue", stringField},
	{"keyCharacteristics", stringListField},
}

var appraisalFields = []field{
	{"estimatedValueRange", stringField},
	{"confidenceScore", numberField},
	{"valuationMethodology", stringField},
	{"positiveValueFactors", stringListField},
	{"negativeValueFactors", stringListField},
}

// checkFields validates text as a JSON object holding every field with the
// declared shape. Nothing is coerced: a number in a string field, a null, or
// a list holding a non-string is rejected.
func checkFields(text string, fields []field) error {
	data := []byte(strings.TrimSpace(text))
	if !json.Valid(data) {
		return &ResponseError{Kind: KindInvalidJSON}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return &ResponseError{Kind: KindWrongType, Detail: "top level is not an object"}
	}

	for _, f := range fields {
		raw, ok := obj[f.name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return &ResponseError{Kind: KindMissingField, Field: f.name}
		}

		switch f.kind {
		case stringField:
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return &ResponseError{Kind: KindWrongType, Field: f.name, Detail: "want string"}
			}
			if strings.TrimSpace(s) == "" {
				return &ResponseError{Kind: KindMissingField, Field: f.name}
			}
		case stringListField:
			var list []json.RawMessage
			if err := json.Unmarshal(raw, &list); err != nil {
				return &ResponseError{Kind: KindWrongType, Field: f.name, Detail: "want list of strings"}
			}
			for _, elem := range list {
				var s string
				if bytes.Equal(bytes.TrimSpace(elem), []byte("null")) || json.Unmarshal(elem, &s) != nil {
					return &ResponseError{Kind: KindWrongType, Field: f.name, Detail: "want list of strings"}
				}
			}
		case numberField:
			var n float64
			if err := json.Unmarshal(raw, &n); err != nil {
				return &ResponseError{Kind: KindWrongType, Field: f.name, Detail: "want number"}
			}
		}
	}
	return nil
}

// DecodeAnalysis validates and decodes a classification response.
func DecodeAnalysis(text string) (*models.AnalysisResult, error) {
	if err := checkFields(text, analysisFields); err != nil {
		return nil, err
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &result); err != nil {
		return nil, &ResponseError{Kind: KindInvalidJSON, Detail: err.Error()}
	}
	if !result.SpecimenType.Valid() {
		return nil, &ResponseError{
			Kind:   KindWrongType,
			Field:  "specimenType",
			Detail: fmt.Sprintf("%q is not a known specimen type", result.SpecimenType),
		}
	}
	return &result, nil
}

// DecodeAppraisal validates and decodes an appraisal response.
func DecodeAppraisal(text string) (*models.AppraisalResult, error) {
	if err := checkFields(text, appraisalFields); err != nil {
		return nil, err
	}

	var result models.AppraisalResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &result); err != nil {
		return nil, &ResponseError{Kind: KindInvalidJSON, Detail: err.Error()}
	}
	if result.ConfidenceScore < 0 || result.ConfidenceScore > 100 {
		return nil, &ResponseError{
			Kind:   KindWrongType,
			Field:  "confidenceScore",
			Detail: fmt.Sprintf("%v is outside 0-100", result.ConfidenceScore),
		}
	}
	return &result, nil
}
