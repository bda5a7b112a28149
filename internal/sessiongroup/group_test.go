// file: internal/sessiongroup/group_test.go
package sessiongroup

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/mcpsdk/internal/mcperror"
	"github.com/dkoosis/mcpsdk/internal/mcptypes"
)

func fakeCaller(t *testing.T, responses map[string]func(params interface{}) (interface{}, error)) CallerFunc {
	t.Helper()
	return func(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
		fn, ok := responses[method]
		if !ok {
			t.Fatalf("unexpected method %q", method)
		}
		result, err := fn(params)
		if err != nil {
			return nil, err
		}
		return json.Marshal(result)
	}
}

func TestAddRejectsDuplicateName(t *testing.T) {
	g := New(Options{})
	require.NoError(t, g.add("alpha", nil, fakeCaller(t, nil)))
	err := g.add("alpha", nil, fakeCaller(t, nil))
	require.Error(t, err)
}

func TestAddRejectsNameContainingSeparator(t *testing.T) {
	g := New(Options{})
	err := g.add("alpha:beta", nil, fakeCaller(t, nil))
	require.Error(t, err)
}

func TestRemoveDropsMember(t *testing.T) {
	g := New(Options{})
	require.NoError(t, g.add("alpha", nil, fakeCaller(t, nil)))
	g.Remove(context.Background(), "alpha")
	assert.Empty(t, g.Names())
}

func TestListToolsAllMergesWithPrefixedNames(t *testing.T) {
	g := New(Options{})
	require.NoError(t, g.add("alpha", nil, fakeCaller(t, map[string]func(interface{}) (interface{}, error){
		"tools/list": func(interface{}) (interface{}, error) {
			return mcptypes.ListToolsResult{Tools: []mcptypes.Tool{{Name: "search"}}}, nil
		},
	})))
	require.NoError(t, g.add("beta", nil, fakeCaller(t, map[string]func(interface{}) (interface{}, error){
		"tools/list": func(interface{}) (interface{}, error) {
			return mcptypes.ListToolsResult{Tools: []mcptypes.Tool{{Name: "search"}}}, nil
		},
	})))

	result, err := g.ListToolsAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Failures)

	names := make(map[string]bool)
	for _, entry := range result.Tools {
		names[entry.PrefixedName] = true
	}
	assert.True(t, names["alpha:search"])
	assert.True(t, names["beta:search"])
}

func TestListToolsAllCollectsPerSessionFailures(t *testing.T) {
	g := New(Options{})
	require.NoError(t, g.add("alpha", nil, fakeCaller(t, map[string]func(interface{}) (interface{}, error){
		"tools/list": func(interface{}) (interface{}, error) {
			return nil, mcperror.NewConnectionClosedError("boom", nil)
		},
	})))
	require.NoError(t, g.add("beta", nil, fakeCaller(t, map[string]func(interface{}) (interface{}, error){
		"tools/list": func(interface{}) (interface{}, error) {
			return mcptypes.ListToolsResult{Tools: []mcptypes.Tool{{Name: "ping"}}}, nil
		},
	})))

	result, err := g.ListToolsAll(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Tools, 1)
	require.Contains(t, result.Failures, "alpha")
}

func TestCallToolRoutesByPrefix(t *testing.T) {
	g := New(Options{})
	require.NoError(t, g.add("alpha", nil, fakeCaller(t, map[string]func(interface{}) (interface{}, error){
		"tools/call": func(params interface{}) (interface{}, error) {
			req, ok := params.(mcptypes.CallToolRequest)
			require.True(t, ok)
			assert.Equal(t, "search", req.Name)
			return mcptypes.CallToolResult{Content: []mcptypes.ContentBlock{mcptypes.NewTextContent("ok")}}, nil
		},
	})))

	result, err := g.CallTool(context.Background(), "alpha:search", map[string]any{"q": "x"})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
}

func TestCallToolUnknownSessionErrors(t *testing.T) {
	g := New(Options{})
	_, err := g.CallTool(context.Background(), "missing:search", nil)
	require.Error(t, err)
}

func TestCallToolMissingSeparatorErrors(t *testing.T) {
	g := New(Options{})
	_, err := g.CallTool(context.Background(), "noseparator", nil)
	require.Error(t, err)
}

func TestListToolsAllRespectsAggregateTimeout(t *testing.T) {
	g := New(Options{AggregateTimeout: 20 * time.Millisecond})
	require.NoError(t, g.add("slow", nil, func(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))

	result, err := g.ListToolsAll(context.Background())
	require.NoError(t, err)
	assert.Contains(t, result.Failures, "slow")
}
