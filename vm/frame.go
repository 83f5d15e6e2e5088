package vm

import (
	"strconv"

	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/object"
	"github.com/opengm-go/gmvm/scope"
)

const (
	// DefaultMaxFrameDepth is the default call depth limit.
	DefaultMaxFrameDepth = 1024

	// MaxStackDepth bounds the evaluation stack of a single frame.
	MaxStackDepth = 1024
)

// FrameState is the lifecycle state of a call frame.
type FrameState uint8

const (
	FrameReady FrameState = iota
	FrameRunning
	FrameSuspended // waiting for a callee to return
	FrameReturned
	FrameFaulted
)

func (s FrameState) String() string {
	switch s {
	case FrameReady:
		return "ready"
	case FrameRunning:
		return "running"
	case FrameSuspended:
		return "suspended"
	case FrameReturned:
		return "returned"
	case FrameFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// env is a saved self/other pair, restored by POP_ENV.
type env struct {
	self  scope.Instance
	other scope.Instance
}

// handler is an active PUSH_EXCEPT region.
type handler struct {
	target     int
	stackDepth int
	envDepth   int
	env        env
}

// Frame is the activation record of one script invocation.
type Frame struct {
	code     *code
	ip       int
	opIP     int // ip of the instruction being executed
	stack    []object.Object
	locals   *scope.Table
	self     scope.Instance
	other    scope.Instance
	envs     []env
	handlers []handler
	state    FrameState
}

// newFrame creates a frame for code. Parameters are bound by name in
// order; missing arguments read as undefined. Every argument is also
// visible as argumentN, with argument_count holding the number passed.
func newFrame(c *code, self, other scope.Instance, args []object.Object) *Frame {
	locals := scope.NewTable()
	for i := 0; i < c.ParamCount(); i++ {
		value := object.Object(object.Undefined)
		if i < len(args) {
			value = args[i]
		}
		locals.Set(c.ParamAt(i), value)
	}
	for i, arg := range args {
		locals.Set("argument"+strconv.Itoa(i), arg)
	}
	locals.Set("argument_count", object.NewInt(int64(len(args))))
	return &Frame{
		code:   c,
		locals: locals,
		self:   self,
		other:  other,
		state:  FrameReady,
	}
}

// Script returns the name of the script the frame runs.
func (f *Frame) Script() string {
	return f.code.Name()
}

// IP returns the instruction pointer.
func (f *Frame) IP() int {
	return f.ip
}

func (f *Frame) State() FrameState {
	return f.state
}

func (f *Frame) Locals() *scope.Table {
	return f.locals
}

func (f *Frame) Self() scope.Instance {
	return f.self
}

func (f *Frame) Other() scope.Instance {
	return f.other
}

// StackDepth returns the number of values on the evaluation stack.
func (f *Frame) StackDepth() int {
	return len(f.stack)
}

func (f *Frame) push(obj object.Object) error {
	if len(f.stack) >= MaxStackDepth {
		return errz.InternalErrorf("evaluation stack overflow (limit %d)", MaxStackDepth)
	}
	f.stack = append(f.stack, obj)
	return nil
}

func (f *Frame) pop(opName string) (object.Object, error) {
	n := len(f.stack)
	if n == 0 {
		return nil, errz.StackUnderflow(opName)
	}
	obj := f.stack[n-1]
	f.stack[n-1] = nil
	f.stack = f.stack[:n-1]
	return obj, nil
}

func (f *Frame) peek(opName string) (object.Object, error) {
	n := len(f.stack)
	if n == 0 {
		return nil, errz.StackUnderflow(opName)
	}
	return f.stack[n-1], nil
}

// popN pops count values and returns them in push order.
func (f *Frame) popN(opName string, count int) ([]object.Object, error) {
	n := len(f.stack)
	if count > n {
		return nil, errz.StackUnderflow(opName)
	}
	values := make([]object.Object, count)
	copy(values, f.stack[n-count:])
	for i := n - count; i < n; i++ {
		f.stack[i] = nil
	}
	f.stack = f.stack[:n-count]
	return values, nil
}

func (f *Frame) scopeContext(globals *scope.Table) scope.Context {
	return scope.Context{Locals: f.locals, Self: f.self, Globals: globals}
}

// FrameStack is the bounded stack of active call frames.
type FrameStack struct {
	frames   []*Frame
	maxDepth int
}

// NewFrameStack returns an empty stack that holds at most maxDepth frames.
func NewFrameStack(maxDepth int) *FrameStack {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxFrameDepth
	}
	return &FrameStack{maxDepth: maxDepth}
}

// Push adds a frame. A full stack yields a recursion limit error and is
// left unchanged.
func (s *FrameStack) Push(f *Frame) error {
	if len(s.frames) >= s.maxDepth {
		return errz.RecursionLimit(s.maxDepth)
	}
	s.frames = append(s.frames, f)
	return nil
}

// Pop removes and returns the top frame.
func (s *FrameStack) Pop() (*Frame, error) {
	n := len(s.frames)
	if n == 0 {
		return nil, errz.InternalErrorf("pop from empty frame stack")
	}
	f := s.frames[n-1]
	s.frames[n-1] = nil
	s.frames = s.frames[:n-1]
	return f, nil
}

// Current returns the top frame, or nil when the stack is empty.
func (s *FrameStack) Current() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *FrameStack) Depth() int {
	return len(s.frames)
}

func (s *FrameStack) MaxDepth() int {
	return s.maxDepth
}

// Reset pops frames until depth frames remain. Popped frames are marked
// faulted.
func (s *FrameStack) Reset(depth int) {
	if depth < 0 {
		depth = 0
	}
	for len(s.frames) > depth {
		f, _ := s.Pop()
		if f.state != FrameReturned {
			f.state = FrameFaulted
		}
	}
}

// trace returns the stack from the innermost frame outwards.
func (s *FrameStack) trace() []errz.StackFrame {
	frames := make([]errz.StackFrame, 0, len(s.frames))
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		frames = append(frames, errz.StackFrame{Script: f.Script(), Offset: f.opIP})
	}
	return frames
}
