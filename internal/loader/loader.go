package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pb33f/libopenapi"
	validator "github.com/pb33f/libopenapi-validator"
	"github.com/pb33f/libopenapi/datamodel"
	v2 "github.com/pb33f/libopenapi/datamodel/high/v2"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

type Options struct {
	// Validate runs document validation and reports findings as warnings.
	Validate bool
}

type Result struct {
	V3       *libopenapi.DocumentModel[v3.Document]
	V2       *libopenapi.DocumentModel[v2.Swagger]
	Version  string
	Warnings []string
	RawData  []byte
}

// ParseError reports a document that could not be read as OpenAPI at all.
// It is the only failure that aborts a generation run.
type ParseError struct {
	Stage string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func LoadFile(path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	config := &datamodel.DocumentConfiguration{
		BasePath: filepath.Dir(absPath),
	}

	return loadWithConfig(data, config, opts)
}

// Load parses an in-memory JSON or YAML document.
func Load(data []byte, opts Options) (*Result, error) {
	return loadWithConfig(data, nil, opts)
}

func loadWithConfig(data []byte, config *datamodel.DocumentConfiguration, opts Options) (*Result, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, &ParseError{Stage: "parsing OpenAPI document", Err: errors.New("document is empty")}
	}

	var doc libopenapi.Document
	var err error

	if config != nil {
		doc, err = libopenapi.NewDocumentWithConfiguration(data, config)
	} else {
		doc, err = libopenapi.NewDocument(data)
	}
	if err != nil {
		return nil, &ParseError{Stage: "parsing OpenAPI document", Err: err}
	}

	result := &Result{
		Version: doc.GetVersion(),
		RawData: data,
	}

	switch {
	case strings.HasPrefix(result.Version, "3."):
		model, err := doc.BuildV3Model()
		if model == nil {
			return nil, &ParseError{Stage: "building OpenAPI model", Err: err}
		}
		result.V3 = model
		result.Warnings = append(result.Warnings, errorMessages(err)...)
		if opts.Validate {
			result.Warnings = append(result.Warnings, validate(doc)...)
		}
	case strings.HasPrefix(result.Version, "2."):
		model, err := doc.BuildV2Model()
		if model == nil {
			return nil, &ParseError{Stage: "building Swagger model", Err: err}
		}
		result.V2 = model
		result.Warnings = append(result.Warnings, errorMessages(err)...)
		if opts.Validate {
			result.Warnings = append(result.Warnings, "validation skipped: only available for OpenAPI 3.x")
		}
	default:
		return nil, &ParseError{
			Stage: "detecting OpenAPI version",
			Err:   fmt.Errorf("unsupported OpenAPI version: %q (only 2.0 and 3.x supported)", result.Version),
		}
	}

	return result, nil
}

func validate(doc libopenapi.Document) []string {
	v, errs := validator.NewValidator(doc)
	if len(errs) > 0 {
		var warnings []string
		for _, err := range errs {
			warnings = append(warnings, "validator: "+err.Error())
		}
		return warnings
	}

	valid, findings := v.ValidateDocument()
	if valid {
		return nil
	}

	warnings := make([]string, 0, len(findings))
	for _, f := range findings {
		msg := f.Message
		if f.Reason != "" {
			msg += ": " + f.Reason
		}
		warnings = append(warnings, "validation: "+msg)
	}
	return warnings
}

// errorMessages flattens errors.Join trees into one message per leaf.
func errorMessages(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, errorMessages(e)...)
		}
		return msgs
	}
	return []string{err.Error()}
}
