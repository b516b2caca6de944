package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	apperrors "github.com/spec-kit/school-auth-service/pkg/util/errorutil"
)

// Input is the single object handed to an operation: request fields merged
// with session-injected values.
type Input map[string]any

// Operation declares how a module function may be reached.
type Operation struct {
	Module   string
	Function string
	// Exposed marks operations reachable from the HTTP transport.
	Exposed bool
	// Requires lists session values the transport must inject before the call.
	Requires []string
	// Roles restricts callers by the role claim of the injected token.
	Roles []string
}

// Name returns the "module.function" identifier.
func (o Operation) Name() string {
	return o.Module + "." + o.Function
}

type handlerFunc func(ctx context.Context, in Input) (any, error)

type entry struct {
	op      Operation
	handler handlerFunc
}

// Registry maps operation names to typed handlers. It is built once at
// startup and only read afterwards.
type Registry struct {
	entries map[string]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a handler whose input is decoded from the dispatch Input.
// It panics on duplicate names since registration happens at startup.
func Register[In, Out any](r *Registry, op Operation, fn func(ctx context.Context, in In) (Out, error)) {
	name := op.Name()
	if _, exists := r.entries[name]; exists {
		panic(fmt.Sprintf("dispatch: operation %s registered twice", name))
	}

	r.entries[name] = entry{
		op: op,
		handler: func(ctx context.Context, in Input) (any, error) {
			var decoded In
			if err := decode(in, &decoded); err != nil {
				return nil, apperrors.NewValidationError("invalid input", map[string]any{"operation": name})
			}
			return fn(ctx, decoded)
		},
	}
}

// Lookup resolves an operation by module and function name.
func (r *Registry) Lookup(module, function string) (Operation, bool) {
	e, ok := r.entries[module+"."+function]
	return e.op, ok
}

// Call runs the named operation with the given input.
func (r *Registry) Call(ctx context.Context, module, function string, in Input) (any, error) {
	e, ok := r.entries[module+"."+function]
	if !ok {
		return nil, apperrors.NewNotFound("operation", map[string]any{"operation": module + "." + function})
	}
	if in == nil {
		in = Input{}
	}
	return e.handler(ctx, in)
}

// Operations lists registered operations sorted by name.
func (r *Registry) Operations() []Operation {
	ops := make([]Operation, 0, len(r.entries))
	for _, e := range r.entries {
		ops = append(ops, e.op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name() < ops[j].Name() })
	return ops
}

func decode(in Input, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
