// file: internal/schema/name_rules_test.go
package schema

import (
	"strings"
	"testing"
)

type nameCase struct {
	entity  EntityType
	name    string
	wantErr string // substring expected in the error, "" means no error
}

func runNameCases(t *testing.T, cases []nameCase) {
	t.Helper()
	for _, tc := range cases {
		tc := tc
		t.Run(string(tc.entity)+"/"+tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateName(tc.entity, tc.name)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateName(%q, %q) = %v, want nil", tc.entity, tc.name, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateName(%q, %q) = nil, want error containing %q", tc.entity, tc.name, tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("ValidateName(%q, %q) = %q, want substring %q", tc.entity, tc.name, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestValidateNameTool(t *testing.T) {
	runNameCases(t, []nameCase{
		{EntityTypeTool, "gettasks", ""},
		{EntityTypeTool, "getTasksV2", ""},
		{EntityTypeTool, "tool123", ""},
		{EntityTypeTool, "a", ""},
		{EntityTypeTool, "a" + strings.Repeat("B", 63), ""}, // exactly 64 chars
		{EntityTypeTool, "a" + strings.Repeat("B", 64), "exceeds maximum length"},
		{EntityTypeTool, "GetTasks", "Must start with lowercase letter"},
		{EntityTypeTool, "1tool", "Must start with lowercase letter"},
		{EntityTypeTool, "get-tasks", "alphanumeric characters only"},
		{EntityTypeTool, "get_tasks", "alphanumeric characters only"},
		{EntityTypeTool, "xyz/tool", "alphanumeric characters only"},
		{EntityTypeTool, "get tasks", "alphanumeric characters only"},
		{EntityTypeTool, "get.tasks", "alphanumeric characters only"},
		{EntityTypeTool, "tasks!", "alphanumeric characters only"},
		{EntityTypeTool, "", "empty tool name"},
	})
}

func TestValidateNameResourceAndPrompt(t *testing.T) {
	runNameCases(t, []nameCase{
		{EntityTypeResource, "myResource1", ""},
		{EntityTypeResource, "my_resource", "alphanumeric characters only"},
		{EntityTypePrompt, "promptForTask", ""},
		{EntityTypePrompt, "Prompt1", "Must start with lowercase letter"},
	})
}

func TestValidateNameUnknownEntityType(t *testing.T) {
	err := ValidateName(EntityType("unknown"), "someName")
	if err == nil || !strings.Contains(err.Error(), "unknown entity type") {
		t.Fatalf("ValidateName with unknown entity type = %v, want error containing %q", err, "unknown entity type")
	}
}

func TestToolNameRulePattern(t *testing.T) {
	rule, ok := GetNameRule(EntityTypeTool)
	if !ok {
		t.Fatal("GetNameRule(EntityTypeTool) returned ok=false")
	}
	const want = `^[a-z][a-zA-Z0-9]*$`
	if got := rule.Pattern.String(); got != want {
		t.Errorf("tool name pattern = %q, want %q", got, want)
	}
}

func TestDumpAllRulesCoversEveryEntityType(t *testing.T) {
	dump := DumpAllRules()
	for _, entity := range []EntityType{EntityTypeTool, EntityTypeResource, EntityTypePrompt} {
		if !strings.Contains(dump, string(entity)) {
			t.Errorf("DumpAllRules() missing section for %q", entity)
		}
	}
}
