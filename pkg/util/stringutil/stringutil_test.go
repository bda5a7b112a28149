// file: pkg/util/stringutil/stringutil_test.go
package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesceStringReturnsFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", CoalesceString("", "b", "c"))
	assert.Equal(t, "", CoalesceString("", ""))
}

func TestTruncateStringLeavesShortStringsAlone(t *testing.T) {
	assert.Equal(t, "hello", TruncateString("hello", 10))
}

func TestTruncateStringAddsEllipsis(t *testing.T) {
	assert.Equal(t, "hel...", TruncateString("hello world", 6))
}

func TestTruncateStringHandlesTinyMaxLen(t *testing.T) {
	assert.Equal(t, "he", TruncateString("hello", 2))
}
