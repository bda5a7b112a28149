// Package schema handles loading, compiling, and validating MCP JSON schemas.
// file: internal/schema/version.go
package schema

import (
	"encoding/json"
	"regexp"
	"strings"
)

// unknownSchemaVersion is reported when no detector below recognizes
// anything in the document.
const unknownSchemaVersion = "[unknown]"

// versionDetector inspects a parsed schema document and returns a version
// string, or "" if it found nothing. detectSchemaVersion tries each in
// order and keeps the first non-empty result.
type versionDetector func(doc map[string]interface{}) string

var mcpDateRegexp = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

func versionFromSchemaField(doc map[string]interface{}) string {
	field, ok := doc["$schema"].(string)
	if !ok {
		return ""
	}
	switch {
	case strings.Contains(field, "draft-2020-12"), strings.Contains(field, "draft/2020-12"):
		return "draft-2020-12"
	case strings.Contains(field, "draft-07"):
		return "draft-07"
	default:
		return ""
	}
}

func versionFromTopLevelField(doc map[string]interface{}) string {
	v, _ := doc["version"].(string)
	return v
}

func versionFromInfoBlock(doc map[string]interface{}) string {
	info, ok := doc["info"].(map[string]interface{})
	if !ok {
		return ""
	}
	v, _ := info["version"].(string)
	return v
}

// versionFromMCPHeuristics looks for an MCP-style YYYY-MM-DD revision tag in
// $id or title, the convention the modelcontextprotocol schemas use in
// place of a semver field.
func versionFromMCPHeuristics(doc map[string]interface{}) string {
	if id, ok := doc["$id"].(string); ok && strings.Contains(id, "modelcontextprotocol") {
		if m := mcpDateRegexp.FindString(id); m != "" {
			return m
		}
	}
	if title, ok := doc["title"].(string); ok && strings.Contains(strings.ToLower(title), "mcp") {
		if m := mcpDateRegexp.FindString(title); m != "" {
			return m
		}
	}
	return ""
}

var versionDetectors = []versionDetector{
	versionFromTopLevelField,
	versionFromInfoBlock,
	versionFromMCPHeuristics,
	versionFromSchemaField,
}

// detectSchemaVersion parses data as a JSON document and runs the detector
// chain against it, returning unknownSchemaVersion if every detector comes
// up empty or the document doesn't even parse.
func detectSchemaVersion(data []byte) string {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return unknownSchemaVersion
	}
	for _, detect := range versionDetectors {
		if v := detect(doc); v != "" {
			return v
		}
	}
	return unknownSchemaVersion
}
