// Package schema handles loading, compiling, and validating MCP JSON schemas.
// This file validates the names MCP assigns to tools, resources, and
// prompts against the de facto naming convention clients expect, separate
// from JSON-schema structural validation.
// file: internal/schema/name_rules.go
package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// EntityType identifies a kind of MCP-registered entity whose name is
// subject to ValidateName.
type EntityType string

const (
	EntityTypeTool     EntityType = "tool"
	EntityTypeResource EntityType = "resource"
	EntityTypePrompt   EntityType = "prompt"
)

// NameRule describes the accepted shape of an entity name, plus examples
// used when rendering human-facing documentation of the rule.
type NameRule struct {
	Pattern        *regexp.Regexp
	Description    string
	MaxLength      int
	ExampleValid   []string
	ExampleInvalid map[string]string
}

// lowerCamelRule builds a NameRule requiring a lowercase-letter-led,
// alphanumeric-only name — the pattern every current MCP entity type shares.
// maxLength of 64 reflects the limit observed against Claude Desktop, not
// anything the MCP spec itself documents.
func lowerCamelRule(valid []string, invalid map[string]string) NameRule {
	return NameRule{
		Pattern:        regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`),
		Description:    "Must start with lowercase letter, followed by alphanumeric characters only",
		MaxLength:      64,
		ExampleValid:   valid,
		ExampleInvalid: invalid,
	}
}

var nameRules = map[EntityType]NameRule{
	EntityTypeTool: lowerCamelRule(
		[]string{"getTasks", "createTask", "completeTask", "searchByTag"},
		map[string]string{
			"GetTasks":  "Starts with uppercase letter",
			"get-tasks": "Contains hyphen",
			"get_tasks": "Contains underscore",
			"get.tasks": "Contains period",
			"get tasks": "Contains space",
			"1getTasks": "Starts with number",
			"getTasks!": "Contains special character",
			"":          "Empty string",
		},
	),
	EntityTypeResource: lowerCamelRule(
		[]string{"taskList", "userProfile", "tagCollection"},
		map[string]string{
			"Task-List":  "Contains hyphen and starts with uppercase",
			"resource_1": "Contains underscore",
			"*resource":  "Starts with special character",
		},
	),
	EntityTypePrompt: lowerCamelRule(
		[]string{"taskCreation", "welcomeMessage", "helpGuide"},
		map[string]string{
			"Prompt-1":     "Starts with uppercase and contains hyphen",
			"prompt_guide": "Contains underscore",
			"prompt guide": "Contains space",
		},
	),
}

// GetNameRule returns the validation rule registered for entityType.
func GetNameRule(entityType EntityType) (NameRule, bool) {
	rule, ok := nameRules[entityType]
	return rule, ok
}

// ValidateName checks name against the rule registered for entityType,
// returning a descriptive error on the first violation found.
func ValidateName(entityType EntityType, name string) error {
	rule, ok := nameRules[entityType]
	if !ok {
		return errors.Newf("unknown entity type: %s", entityType)
	}
	switch {
	case len(name) == 0:
		return errors.Newf("empty %s name is not allowed", entityType)
	case len(name) > rule.MaxLength:
		return errors.Newf("%s name exceeds maximum length of %d characters", entityType, rule.MaxLength)
	case !rule.Pattern.MatchString(name):
		return errors.Newf("invalid %s name %q: %s", entityType, name, rule.Description)
	default:
		return nil
	}
}

// GetNamePatternDescription renders a human-readable summary of entityType's
// naming rule, suitable for error messages or generated documentation.
func GetNamePatternDescription(entityType EntityType) string {
	rule, ok := nameRules[entityType]
	if !ok {
		return fmt.Sprintf("No pattern defined for %s", entityType)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rules for %s names:\n", entityType)
	fmt.Fprintf(&b, "- %s\n", rule.Description)
	fmt.Fprintf(&b, "- Maximum length: %d characters\n", rule.MaxLength)

	if len(rule.ExampleValid) > 0 {
		fmt.Fprintf(&b, "- Valid examples: %s\n", strings.Join(quoteAll(rule.ExampleValid), ", "))
	}
	if len(rule.ExampleInvalid) > 0 {
		b.WriteString("- Invalid examples:\n")
		for example, reason := range rule.ExampleInvalid {
			fmt.Fprintf(&b, "  - %q: %s\n", example, reason)
		}
	}
	return b.String()
}

func quoteAll(items []string) []string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return quoted
}

// DumpAllRules renders every registered entity type's naming rule, for
// operator-facing documentation and debugging.
func DumpAllRules() string {
	var b strings.Builder
	b.WriteString("MCP Entity Name Validation Rules\n")
	b.WriteString("===============================\n\n")
	for entityType := range nameRules {
		b.WriteString(GetNamePatternDescription(entityType))
		b.WriteString("\n")
	}
	b.WriteString("\nNOTE: these rules reflect observed client behavior, not the MCP specification text.\n")
	return b.String()
}
