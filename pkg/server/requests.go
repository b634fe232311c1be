package server

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	wmerrors "github.com/matzehuels/wikimap/pkg/errors"
	"github.com/matzehuels/wikimap/pkg/pipeline"
)

var validate = validator.New()

// GenerateRequest is the body of POST /generate. An omitted max_depth
// means pipeline.DefaultMaxDepth; an explicit value must be positive.
type GenerateRequest struct {
	URL      string `json:"url" validate:"required,url"`
	MaxDepth *int   `json:"max_depth" validate:"omitempty,min=1"`
	Refresh  bool   `json:"refresh"`
}

// SaveRequest is the body of POST /save. ModelData may be the TreeModel
// object itself or a string holding its JSON.
type SaveRequest struct {
	ModelData json.RawMessage `json:"modelData" validate:"required"`
	Filename  string          `json:"filename" validate:"required,max=256"`
}

// Model returns the raw JSON of the saved model.
func (r SaveRequest) Model() ([]byte, error) {
	data := []byte(strings.TrimSpace(string(r.ModelData)))
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		data = []byte(s)
	}
	return data, nil
}

func (r GenerateRequest) options() pipeline.Options {
	depth := pipeline.DefaultMaxDepth
	if r.MaxDepth != nil {
		depth = *r.MaxDepth
	}
	return pipeline.Options{URL: r.URL, MaxDepth: depth, Refresh: r.Refresh}
}

// check runs the struct tags and converts the first failure into an
// invalid input error.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return wmerrors.Wrap(wmerrors.ErrCodeInvalidInput, err, "invalid request")
	}
	e := verrs[0]
	field := e.Field()
	var msg string
	switch e.Tag() {
	case "required":
		msg = fmt.Sprintf("%s: field is required", field)
	case "min":
		msg = fmt.Sprintf("%s: must be at least %s", field, e.Param())
	case "max":
		msg = fmt.Sprintf("%s: must not exceed %s", field, e.Param())
	case "url":
		msg = fmt.Sprintf("%s: must be an absolute URL", field)
	default:
		msg = fmt.Sprintf("%s: validation failed (%s)", field, e.Tag())
	}
	return wmerrors.New(wmerrors.ErrCodeInvalidInput, "%s", msg)
}
