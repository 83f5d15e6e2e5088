package builtins

import (
	"context"

	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/scope"
	"github.com/rs/zerolog"
)

type contextKey string

// Scope is what a built-in can see of the script that called it.
type Scope struct {
	Self    scope.Instance
	Other   scope.Instance
	Globals *scope.Table

	// Stack returns the script call stack, innermost first. May be nil.
	Stack func() []errz.StackFrame
}

////////////////////////////////////////////////////////////////////////////////

const scopeKey = contextKey("gmvm:scope")

// WithScope attaches the caller's scope to the context passed to built-ins.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey, s)
}

// GetScope returns the caller's scope, if one was attached.
func GetScope(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(scopeKey).(Scope)
	return s, ok
}

// LoggerFrom returns the logger attached to ctx with zerolog's WithContext,
// or a disabled logger.
func LoggerFrom(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
