package blogapi

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/xeipuuv/gojsonschema"
)

type schemaPath string

const (
	schemaCredential schemaPath = "schemas/credential.schema.json"
	schemaBlog       schemaPath = "schemas/blog.schema.json"
	schemaWishlist   schemaPath = "schemas/wishlist.schema.json"
	schemaComment    schemaPath = "schemas/comment.schema.json"
)

// ValidationError is returned when a request body is not valid JSON or does
// not satisfy its schema.
type ValidationError struct {
	Message string
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

type schemaSet struct {
	credential *gojsonschema.Schema
	blog       *gojsonschema.Schema
	wishlist   *gojsonschema.Schema
	comment    *gojsonschema.Schema
}

func newSchemaSet() (*schemaSet, error) {
	var set schemaSet
	for path, dst := range map[schemaPath]**gojsonschema.Schema{
		schemaCredential: &set.credential,
		schemaBlog:       &set.blog,
		schemaWishlist:   &set.wishlist,
		schemaComment:    &set.comment,
	} {
		s, err := compileSchema(path)
		if err != nil {
			return nil, err
		}
		*dst = s
	}
	return &set, nil
}

func compileSchema(path schemaPath) (*gojsonschema.Schema, error) {
	data, err := schemaFS.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read embedded schema %s: %w", path, err)
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", path, err)
	}
	return s, nil
}

// validateJSON checks data against schema and decodes it into T.
func validateJSON[T any](data []byte, schema *gojsonschema.Schema) (T, error) {
	var zero T

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return zero, &ValidationError{Message: "request body is not valid JSON"}
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, d := range result.Errors() {
			details = append(details, d.String())
		}
		return zero, &ValidationError{Message: "request body failed validation", Details: details}
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, &ValidationError{Message: "request body could not be decoded", Details: []string{err.Error()}}
	}
	return v, nil
}

// bindValid reads the request body and validates it with validateJSON.
func bindValid[T any](c echo.Context, schema *gojsonschema.Schema) (T, error) {
	var zero T
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return zero, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return zero, &ValidationError{Message: "request body is empty"}
	}
	return validateJSON[T](data, schema)
}
