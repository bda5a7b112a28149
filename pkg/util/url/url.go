// Package url parses and validates the resource URIs exchanged in
// resources/list and resources/read, of the form "scheme://path" with an
// optional "{param}" template segment.
// file: pkg/util/url/url.go
package url

import (
	"fmt"
	"regexp"
	"strings"
)

// ParseResourceURI splits a resource URI into its scheme and path, per the
// "scheme://path" shape resources/read accepts. For example,
// "tasks://all" returns "tasks", "all".
func ParseResourceURI(uri string) (scheme, path string, err error) {
	parts := strings.SplitN(uri, "://", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("ParseResourceURI: invalid resource URI format: %s", uri)
	}
	return parts[0], parts[1], nil
}

var resourceURIPattern = regexp.MustCompile(`^[a-z]+://[a-zA-Z0-9\-_\./]+(?:/\{[a-zA-Z0-9\-_]+\})?$`)

// ValidateResourceURI reports whether uri has the form "scheme://path" or
// "scheme://path/{param}", the two shapes a resources/list Resource.URI or
// a resources/read template is allowed to take.
func ValidateResourceURI(uri string) bool {
	return resourceURIPattern.MatchString(uri)
}

// ExtractPathParam extracts the value bound to templatePath's single
// "{param}" segment from actualPath. For example, templatePath
// "list/{list_id}" and actualPath "list/123" yields "123".
func ExtractPathParam(templatePath, actualPath string) (string, error) {
	startIndex := strings.Index(templatePath, "{")
	endIndex := strings.Index(templatePath, "}")
	if startIndex == -1 || endIndex == -1 || startIndex >= endIndex {
		return "", fmt.Errorf("ExtractPathParam: template path does not contain a valid parameter: %s", templatePath)
	}

	prefix := templatePath[:startIndex]
	if !strings.HasPrefix(actualPath, prefix) {
		return "", fmt.Errorf("ExtractPathParam: actual path %s does not match template %s", actualPath, templatePath)
	}
	paramValue := actualPath[len(prefix):]

	if endIndex+1 < len(templatePath) {
		suffix := templatePath[endIndex+1:]
		if !strings.HasSuffix(paramValue, suffix) {
			return "", fmt.Errorf("ExtractPathParam: actual path %s does not match template %s", actualPath, templatePath)
		}
		paramValue = paramValue[:len(paramValue)-len(suffix)]
	}

	return paramValue, nil
}
