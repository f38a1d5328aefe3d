// Package tools is the fixed catalog of server-side operations a language
// model may call. Each tool declares a validator and a call function behind
// a uniform result envelope. The registry is a flat name → spec map: adding
// a tool means adding one entry, nothing is discovered dynamically.
package tools

import (
	"context"
	"fmt"
)

// Meta carries provenance and timing for one tool invocation.
type Meta struct {
	Source   string `json:"source"`
	RowCount int    `json:"rowCount"`
	TookMs   int64  `json:"tookMs"`
	Status   int    `json:"status,omitempty"`
}

// CallError describes a failed invocation.
type CallError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the uniform envelope returned by every tool, regardless of
// which external system served it. Data is kept even on failure so
// disambiguation candidates and error detail survive.
type Result struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
	Error   *CallError `json:"error,omitempty"`
}

// Spec is one callable tool.
type Spec struct {
	Name        string
	Description string

	// Validate turns the model-supplied raw arguments into typed args or a
	// human-readable rejection. A rejected call never reaches Call.
	Validate func(raw map[string]any) (any, error)

	// Call executes the tool with args previously produced by Validate.
	Call func(ctx context.Context, args any) Result
}

// Registry maps tool names to specs.
type Registry map[string]Spec

// Lookup finds a tool by name.
func (r Registry) Lookup(name string) (Spec, bool) {
	spec, ok := r[name]
	return spec, ok
}

// Invoke validates and calls a tool in one step.
func (r Registry) Invoke(ctx context.Context, name string, raw map[string]any) (Result, error) {
	spec, ok := r.Lookup(name)
	if !ok {
		return Result{}, fmt.Errorf("tool not found: %s", name)
	}
	args, err := spec.Validate(raw)
	if err != nil {
		return Result{}, fmt.Errorf("invalid arguments for %s: %w", name, err)
	}
	return spec.Call(ctx, args), nil
}
