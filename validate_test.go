package blogapi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/blogapi/store"
)

func TestSchemasCompile(t *testing.T) {
	set, err := newSchemaSet()
	require.NoError(t, err)
	assert.NotNil(t, set.credential)
	assert.NotNil(t, set.blog)
	assert.NotNil(t, set.wishlist)
	assert.NotNil(t, set.comment)
}

func TestValidateBlog(t *testing.T) {
	set, err := newSchemaSet()
	require.NoError(t, err)

	post, err := validateJSON[store.BlogPost]([]byte(validBlog), set.blog)
	require.NoError(t, err)
	assert.Equal(t, "Hiking the Alps", post.Title)
	assert.Equal(t, 4.5, post.Rating)

	tests := map[string]string{
		"missing title":    `{"category":"c","shortDescription":"s","longDescription":"l"}`,
		"empty title":      `{"title":"","category":"c","shortDescription":"s","longDescription":"l"}`,
		"rating as string": `{"title":"t","category":"c","shortDescription":"s","longDescription":"l","rating":"5"}`,
		"negative rating":  `{"title":"t","category":"c","shortDescription":"s","longDescription":"l","rating":-1}`,
		"bad created at":   `{"title":"t","category":"c","shortDescription":"s","longDescription":"l","createdAt":"yesterday"}`,
		"bad id":           `{"_id":"xyz","title":"t","category":"c","shortDescription":"s","longDescription":"l"}`,
		"array":            `[]`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := validateJSON[store.BlogPost]([]byte(body), set.blog)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.NotEmpty(t, verr.Details)
		})
	}
}

func TestValidateMalformedJSON(t *testing.T) {
	set, err := newSchemaSet()
	require.NoError(t, err)

	_, err = validateJSON[map[string]any]([]byte(`{"a":`), set.credential)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "request body is not valid JSON", verr.Message)
}

func TestValidateCredentialAcceptsAnyObject(t *testing.T) {
	set, err := newSchemaSet()
	require.NoError(t, err)

	payload, err := validateJSON[map[string]any]([]byte(`{"email":"a@b.com","role":"reader","n":3}`), set.credential)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", payload["email"])
	assert.Len(t, payload, 3)
}

func TestValidationErrorString(t *testing.T) {
	err := &ValidationError{Message: "bad", Details: []string{"x", "y"}}
	assert.Equal(t, "bad: x; y", err.Error())
	assert.Equal(t, "bad", (&ValidationError{Message: "bad"}).Error())
}
