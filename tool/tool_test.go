package tool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/internal/util"
)

// -------------------- Schema & Validation Tests --------------------

type sampleSchema struct {
	A string `json:"a" description:"Field A"`
	B *int   `json:"b" description:"Optional pointer field"`
	C int    `json:"c,omitempty" description:"Omit empty field"`
}

func TestCreateSchema(t *testing.T) {
	schema := util.CreateSchema(sampleSchema{})
	props, ok := schema["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.Contains(t, props, "c")
	// Required only includes non-pointer, non-omitempty exported fields
	req, _ := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"a"}, req)
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		// Use []any to mirror possible JSON decoded schema shape
		"required": []any{"x"},
	}

	// Success
	err := util.ValidateParameters(map[string]any{"x": 5}, schema)
	assert.NoError(t, err)

	// Missing required
	err = util.ValidateParameters(map[string]any{}, schema)
	var vErr *util.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "x", vErr.Field)
	assert.True(t, vErr.Missing)

	// Wrong type
	err = util.ValidateParameters(map[string]any{"x": "not-int"}, schema)
	require.ErrorAs(t, err, &vErr)
	assert.False(t, vErr.Missing)
	assert.Contains(t, vErr.Message, "expected type integer")
}

// -------------------- FunctionTool Tests --------------------

func sumParams() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []string{"a", "b"},
	}
}

func newSumTool(optFns ...FunctionToolOption) *FunctionTool {
	return NewFunctionTool("sum", "Add numbers", sumParams(), func(_ context.Context, args map[string]any) (string, error) {
		a := args["a"].(float64)
		b := args["b"].(float64)
		return fmt.Sprintf("%v", a+b), nil
	}, optFns...)
}

func TestFunctionTool_Success(t *testing.T) {
	result, err := newSumTool().Call(context.Background(), map[string]any{"a": 2.0, "b": 3.0})
	assert.NoError(t, err)
	assert.Equal(t, "5", result)
}

func TestFunctionTool_MissingParameter(t *testing.T) {
	_, err := newSumTool().Call(context.Background(), map[string]any{"a": 2.0})
	var missingErr *MissingParameterError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "sum", missingErr.Tool)
	assert.Equal(t, "b", missingErr.Name)
}

func TestFunctionTool_InvalidArguments(t *testing.T) {
	_, err := newSumTool().Call(context.Background(), map[string]any{"a": "two", "b": 3.0})
	var invalidErr *InvalidArgumentsError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, "sum", invalidErr.Tool)
}

func TestFunctionTool_WrapsPlainErrors(t *testing.T) {
	boom := errors.New("boom")
	ft := NewFunctionTool("explode", "Always fails", map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (string, error) { return "", boom })

	_, err := ft.Call(context.Background(), map[string]any{})
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.ErrorIs(t, err, boom)
}

func TestFunctionTool_ForwardsTaxonomyErrors(t *testing.T) {
	ft := NewFunctionTool("picky", "Rejects its input", map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (string, error) {
			return "", &InvalidArgumentsError{Tool: "picky", Details: "semantic check failed"}
		})

	_, err := ft.Call(context.Background(), map[string]any{})
	var invalidErr *InvalidArgumentsError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, "semantic check failed", invalidErr.Details)
}

func TestFunctionTool_FromStruct(t *testing.T) {
	ft := NewFunctionToolFromStruct("sample", "Derived schema", sampleSchema{},
		func(_ context.Context, _ map[string]any) (string, error) { return "ok", nil })

	_, err := ft.Call(context.Background(), map[string]any{})
	var missingErr *MissingParameterError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "a", missingErr.Name)

	result, err := ft.Call(context.Background(), map[string]any{"a": "value"})
	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
}

// -------------------- Registry Tests --------------------

func TestRegistry_RegisterIdempotent(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.Register(newSumTool()))
	assert.False(t, r.Register(newSumTool()), "duplicate names are ignored")

	_, ok := r.Lookup("sum")
	assert.True(t, ok)
	_, ok = r.Lookup("unknown")
	assert.False(t, ok)
}

func TestRegistry_ListAvailableFiltersDisabled(t *testing.T) {
	r := NewRegistry(
		newSumTool(),
		NewFunctionTool("off", "Disabled tool", map[string]any{"type": "object", "properties": map[string]any{}},
			func(_ context.Context, _ map[string]any) (string, error) { return "", nil },
			WithDisabled()),
		NewFunctionTool("gated", "Unavailable tool", map[string]any{"type": "object", "properties": map[string]any{}},
			func(_ context.Context, _ map[string]any) (string, error) { return "", nil },
			WithPrecondition(func() error { return errors.New("not ready") })),
	)

	available := r.ListAvailable()
	require.Len(t, available, 1)
	assert.Equal(t, "sum", available[0].Name())

	defs := r.Definitions()
	require.Len(t, defs, 1)
	assert.Equal(t, "function", defs[0].Type)
	assert.Equal(t, "sum", defs[0].Function.Name)
}

func TestRegistry_RequiresApproval(t *testing.T) {
	r := NewRegistry(
		newSumTool(),
		NewFunctionTool("danger", "Needs confirmation", map[string]any{"type": "object", "properties": map[string]any{}},
			func(_ context.Context, _ map[string]any) (string, error) { return "", nil },
			WithRequiresApproval()),
	)

	assert.False(t, r.RequiresApproval("sum"))
	assert.True(t, r.RequiresApproval("danger"))
	assert.False(t, r.RequiresApproval("unknown"))
}

func TestRegistry_Rationale(t *testing.T) {
	r := NewRegistry(
		newSumTool(),
		NewFunctionTool("danger", "Needs confirmation", map[string]any{"type": "object", "properties": map[string]any{}},
			func(_ context.Context, _ map[string]any) (string, error) { return "", nil },
			WithRequiresApproval(), WithRationale("modifies remote state")),
	)

	assert.Equal(t, "modifies remote state", r.Rationale("danger"))
	assert.Empty(t, r.Rationale("sum"))
	assert.Empty(t, r.Rationale("unknown"))
}

// -------------------- Executor Tests --------------------

func TestExecutor_Success(t *testing.T) {
	exec := NewExecutor(NewRegistry(newSumTool()))

	p := core.NewToolCallProposal("call-1", "sum", `{"a": 2, "b": 3}`)
	result, err := exec.Execute(context.Background(), p)
	assert.NoError(t, err)
	assert.Equal(t, "5", result)
}

func TestExecutor_ToolNotFound(t *testing.T) {
	exec := NewExecutor(NewRegistry())

	_, err := exec.Execute(context.Background(), core.NewToolCallProposal("call-1", "missing", "{}"))
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestExecutor_ToolDisabled(t *testing.T) {
	exec := NewExecutor(NewRegistry(
		NewFunctionTool("off", "Disabled tool", map[string]any{"type": "object", "properties": map[string]any{}},
			func(_ context.Context, _ map[string]any) (string, error) { return "", nil },
			WithDisabled()),
	))

	_, err := exec.Execute(context.Background(), core.NewToolCallProposal("call-1", "off", "{}"))
	assert.ErrorIs(t, err, ErrToolDisabled)
}

func TestExecutor_MalformedPayload(t *testing.T) {
	exec := NewExecutor(NewRegistry(newSumTool()))

	_, err := exec.Execute(context.Background(), core.NewToolCallProposal("call-1", "sum", `{"a": `))
	var invalidErr *InvalidArgumentsError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, "sum", invalidErr.Tool)
}

func TestExecutor_EmptyPayloadMeansNoArguments(t *testing.T) {
	exec := NewExecutor(NewRegistry(
		NewFunctionTool("noop", "No arguments", map[string]any{"type": "object", "properties": map[string]any{}},
			func(_ context.Context, args map[string]any) (string, error) {
				assert.Empty(t, args)
				return "done", nil
			}),
	))

	result, err := exec.Execute(context.Background(), core.NewToolCallProposal("call-1", "noop", ""))
	assert.NoError(t, err)
	assert.Equal(t, "done", result)
}

func TestExecutor_RecoversPanics(t *testing.T) {
	exec := NewExecutor(NewRegistry(
		NewFunctionTool("panicky", "Panics on call", map[string]any{"type": "object", "properties": map[string]any{}},
			func(_ context.Context, _ map[string]any) (string, error) { panic("kaboom") }),
	))

	_, err := exec.Execute(context.Background(), core.NewToolCallProposal("call-1", "panicky", "{}"))
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Contains(t, execErr.Err.Error(), "kaboom")
}
