// file: pkg/util/validation/validation_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMimeType(t *testing.T) {
	assert.True(t, ValidateMimeType("text/plain"))
	assert.True(t, ValidateMimeType("application/json; charset=utf-8"))
	assert.False(t, ValidateMimeType("not a mime type"))
}

func TestValidateToolName(t *testing.T) {
	assert.True(t, ValidateToolName("search_tasks"))
	assert.False(t, ValidateToolName("SearchTasks"))
	assert.False(t, ValidateToolName("1search"))
}

func TestValidateRequiredReportsMissingFields(t *testing.T) {
	missing := ValidateRequired(map[string]interface{}{"name": "x"}, []string{"name", "uri"})
	assert.Equal(t, []string{"uri"}, missing)
}

func TestValidateRequiredNoneMissing(t *testing.T) {
	missing := ValidateRequired(map[string]interface{}{"name": "x", "uri": "y"}, []string{"name", "uri"})
	assert.Nil(t, missing)
}
