// Package vm provides the Interpreter that executes gmvm bytecode programs.
//
// Script calls never recurse on the Go stack: the interpreter runs a single
// loop over an explicit, bounded frame stack. Built-ins run synchronously
// without a frame.
package vm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gofrs/uuid"
	"github.com/opengm-go/gmvm/builtins"
	"github.com/opengm-go/gmvm/bytecode"
	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/input"
	"github.com/opengm-go/gmvm/instance"
	"github.com/opengm-go/gmvm/object"
	"github.com/opengm-go/gmvm/op"
	"github.com/opengm-go/gmvm/scene"
	"github.com/opengm-go/gmvm/scope"
	"github.com/rs/zerolog"
)

const (
	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

var _ input.DebugSurface = (*Interpreter)(nil)

type Interpreter struct {
	program     *bytecode.Program
	scripts     map[string]*code
	registry    *builtins.Registry
	builtinOpts []builtins.Option
	resolver    scope.Resolver

	globals      *scope.Table
	inputGlobals map[string]any
	instances    *instance.Directory
	input        *input.Snapshot
	scene        *scene.Directory

	frames        *FrameStack
	maxFrameDepth int
	budget        int64

	logger  zerolog.Logger
	runID   uuid.UUID
	verbose atomic.Bool
	halt    atomic.Bool

	// contextCheckInterval is the number of instructions between checks of
	// ctx.Done(). Zero disables the check.
	contextCheckInterval int

	observer    Observer
	observerCfg ObserverConfig
	steps       stepFilter

	running  bool
	runMutex sync.Mutex

	faulted   bool
	lastFault *Fault
	tick      int64
}

// New creates an Interpreter for the given program. Program globals that
// are not already present in the global table are added, and the
// program's initial instances are created.
func New(program *bytecode.Program, options ...Option) (*Interpreter, error) {
	if program == nil {
		return nil, errors.New("no program provided")
	}
	if err := program.Validate(); err != nil {
		return nil, fmt.Errorf("invalid program: %w", err)
	}
	vm := &Interpreter{
		program:              program,
		scripts:              map[string]*code{},
		inputGlobals:         map[string]any{},
		logger:               zerolog.Nop(),
		maxFrameDepth:        DefaultMaxFrameDepth,
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to create run id: %w", err)
	}
	vm.runID = id
	vm.logger = vm.logger.With().Str("run_id", id.String()).Logger()

	if vm.globals == nil {
		vm.globals = scope.NewTable()
	}
	if vm.instances == nil {
		vm.instances = instance.NewDirectory()
	}
	if vm.input == nil {
		vm.input = input.NewSnapshot(vm.logger)
	}
	if vm.scene == nil {
		vm.scene = scene.NewDirectory()
	}
	if vm.registry == nil {
		vm.registry = builtins.Default(builtins.Env{
			Instances: vm.instances,
			Input:     vm.input,
			Scene:     vm.scene,
		}, vm.builtinOpts...)
	}
	vm.frames = NewFrameStack(vm.maxFrameDepth)
	if vm.observer != nil {
		vm.observerCfg = vm.observer.Config().normalized()
		vm.steps = stepFilter{cfg: vm.observerCfg}
	}

	programGlobals, err := object.AsObjects(program.Globals())
	if err != nil {
		return nil, fmt.Errorf("invalid program global: %w", err)
	}
	for name, value := range programGlobals {
		if !vm.globals.Has(name) {
			vm.globals.Set(name, value)
		}
	}
	inputGlobals, err := object.AsObjects(vm.inputGlobals)
	if err != nil {
		return nil, fmt.Errorf("invalid global provided: %w", err)
	}
	for name, value := range inputGlobals {
		vm.globals.Set(name, value)
	}

	for _, spec := range program.Instances() {
		vars, err := object.AsObjects(spec.Vars)
		if err != nil {
			return nil, fmt.Errorf("invalid variable for instance of %s: %w", spec.Object, err)
		}
		vm.instances.Create(spec.Object, vars)
	}

	for _, name := range program.ScriptNames() {
		bc, _ := program.Script(name)
		c, err := wrapCode(bc)
		if err != nil {
			return nil, err
		}
		vm.scripts[name] = c
	}
	return vm, nil
}

// RunID returns the identifier attached to every log line of this
// interpreter.
func (vm *Interpreter) RunID() string {
	return vm.runID.String()
}

func (vm *Interpreter) Program() *bytecode.Program {
	return vm.program
}

func (vm *Interpreter) Registry() *builtins.Registry {
	return vm.registry
}

func (vm *Interpreter) Instances() *instance.Directory {
	return vm.instances
}

func (vm *Interpreter) Input() *input.Snapshot {
	return vm.input
}

func (vm *Interpreter) Scene() *scene.Directory {
	return vm.scene
}

// Globals returns the global variable table.
func (vm *Interpreter) Globals() *scope.Table {
	return vm.globals
}

// GetGlobal returns the value of a global variable, or undefined.
func (vm *Interpreter) GetGlobal(name string) object.Object {
	return vm.resolver.LoadGlobal(name, scope.Context{Globals: vm.globals})
}

// SetGlobal writes a global variable. The change is visible to the next
// instruction that reads it.
func (vm *Interpreter) SetGlobal(name string, value object.Object) {
	vm.globals.Set(name, value)
}

// SetVerbose turns the per-instruction trace on or off.
func (vm *Interpreter) SetVerbose(verbose bool) {
	vm.verbose.Store(verbose)
}

func (vm *Interpreter) Verbose() bool {
	return vm.verbose.Load()
}

// Halt stops the running invocation at the next instruction. It is safe to
// call from any goroutine.
func (vm *Interpreter) Halt() {
	vm.halt.Store(true)
}

// IsFaulted reports whether the last external call ended with a fault.
func (vm *Interpreter) IsFaulted() bool {
	return vm.faulted
}

// LastFault returns the most recent unhandled fault, if any.
func (vm *Interpreter) LastFault() *Fault {
	return vm.lastFault
}

// Tick returns the number of completed Step calls.
func (vm *Interpreter) Tick() int64 {
	return vm.tick
}

// Depth returns the current depth of the frame stack.
func (vm *Interpreter) Depth() int {
	return vm.frames.Depth()
}

func (vm *Interpreter) start() error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return fmt.Errorf("interpreter is already running")
	}
	vm.running = true
	vm.halt.Store(false)
	vm.faulted = false
	vm.lastFault = nil
	return nil
}

func (vm *Interpreter) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	vm.running = false
}

// recoverFault turns a panic into an internal fault of the current
// invocation. Frames above base are discarded.
func (vm *Interpreter) recoverFault(name string, base int, err *error) {
	r := recover()
	if r == nil {
		return
	}
	script, offset := name, 0
	var stack []errz.StackFrame
	if vm.frames.Depth() > base {
		f := vm.frames.Current()
		script, offset, stack = f.Script(), f.opIP, vm.frames.trace()
	}
	vm.frames.Reset(base)
	se := errz.InternalErrorf("panic: %v", r).WithLocation(script, offset, stack)
	*err = vm.recordFault(se)
}

// InvokeEntryPoint runs the named script with no self instance and returns
// its result.
func (vm *Interpreter) InvokeEntryPoint(ctx context.Context, name string, args ...object.Object) (object.Object, error) {
	return vm.Invoke(ctx, name, nil, nil, args...)
}

// Invoke runs the named script, or built-in, with the given self and other
// instances. An unhandled fault is returned as a *Fault.
func (vm *Interpreter) Invoke(
	ctx context.Context,
	name string,
	self, other scope.Instance,
	args ...object.Object,
) (object.Object, error) {
	if err := vm.start(); err != nil {
		return nil, err
	}
	defer vm.stop()
	return vm.invoke(ctx, name, self, other, args)
}

func (vm *Interpreter) invoke(
	ctx context.Context,
	name string,
	self, other scope.Instance,
	args []object.Object,
) (result object.Object, err error) {
	base := vm.frames.Depth()
	defer vm.recoverFault(name, base, &err)

	if err := ctx.Err(); err != nil {
		se := errz.Newf(errz.ErrHalted, "execution cancelled").WithCause(err)
		return nil, vm.recordFault(se.WithLocation(name, 0, nil))
	}
	c, ok := vm.scripts[name]
	if !ok {
		if _, isBuiltin := vm.registry.Lookup(name); isBuiltin {
			result, err := vm.registry.Invoke(vm.builtinContext(ctx, self, other), name, args)
			if err != nil {
				return nil, vm.recordFault(asStructured(err).WithLocation(name, 0, nil))
			}
			return result, nil
		}
		return nil, vm.recordFault(errz.UnknownFunction(name).WithLocation(name, 0, nil))
	}
	if err := vm.frames.Push(newFrame(c, self, other, args)); err != nil {
		return nil, vm.recordFault(asStructured(err).WithLocation(name, 0, vm.frames.trace()))
	}
	result, err = vm.eval(ctx, base)
	if err != nil {
		vm.frames.Reset(base)
		return nil, vm.recordFault(asStructured(err))
	}
	return result, nil
}

// recordFault logs an unhandled error and remembers it as the last fault.
// Halts are recorded but do not mark the interpreter as faulted.
func (vm *Interpreter) recordFault(se *errz.StructuredError) *Fault {
	fault := &Fault{
		Script: se.Script,
		Offset: se.Offset,
		Kind:   se.Kind,
		Depth:  len(se.Stack),
		Err:    se,
	}
	vm.lastFault = fault
	if se.Kind == errz.ErrHalted {
		vm.logger.Info().
			Str("script", fault.Script).
			Int("offset", fault.Offset).
			Msg(se.Message)
		return fault
	}
	vm.faulted = true
	vm.logger.Error().
		Str("script", fault.Script).
		Int("offset", fault.Offset).
		Str("kind", se.Kind.String()).
		Int("depth", fault.Depth).
		Msg(se.Message)
	return fault
}

func (vm *Interpreter) builtinContext(ctx context.Context, self, other scope.Instance) context.Context {
	ctx = builtins.WithScope(ctx, builtins.Scope{
		Self:    self,
		Other:   other,
		Globals: vm.globals,
		Stack:   vm.frames.trace,
	})
	return vm.logger.WithContext(ctx)
}

// located records where an error was raised.
func (vm *Interpreter) located(f *Frame, se *errz.StructuredError) *errz.StructuredError {
	return se.WithLocation(f.Script(), f.opIP, vm.frames.trace())
}

// eval runs the frame stack until the frame at depth base+1 returns.
func (vm *Interpreter) eval(ctx context.Context, base int) (object.Object, error) {
	var executed int64
	var sinceCheck int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()

	for {
		frame := vm.frames.Current()
		frame.state = FrameRunning
		frame.opIP = frame.ip

		if vm.halt.Load() {
			return nil, vm.located(frame, errz.New(errz.ErrHalted, "execution halted"))
		}

		// Deterministic check of ctx.Done() every N instructions.
		if checkInterval > 0 && doneChan != nil {
			sinceCheck++
			if sinceCheck >= checkInterval {
				sinceCheck = 0
				select {
				case <-doneChan:
					vm.halt.Store(true)
					se := errz.New(errz.ErrHalted, "execution cancelled").WithCause(ctx.Err())
					return nil, vm.located(frame, se)
				default:
				}
			}
		}

		executed++
		if vm.budget > 0 && executed > vm.budget {
			se := errz.Newf(errz.ErrBudget, "iteration budget of %d instructions exhausted", vm.budget)
			return nil, vm.located(frame, se)
		}

		// Running off the end of a script returns undefined.
		opcode := op.Exit
		if frame.ip < len(frame.code.Instructions) {
			opcode = frame.code.Instructions[frame.ip]
			if vm.verbose.Load() {
				vm.traceStep(frame)
			}
			if vm.observer != nil && vm.observerCfg.StepMode != StepNone && vm.steps.want(frame.code, frame.ip) {
				event := StepEvent{
					Script:     frame.Script(),
					IP:         frame.ip,
					Opcode:     opcode,
					OpcodeName: op.GetInfo(opcode).Name,
					Location:   frame.code.LocationAt(frame.ip),
					StackDepth: len(frame.stack),
					FrameDepth: vm.frames.Depth(),
				}
				if !vm.observer.OnStep(event) {
					return nil, vm.located(frame, errz.New(errz.ErrHalted, "execution halted by observer"))
				}
			}
		}

		// Advance the instruction pointer before executing, so jumps simply
		// overwrite it.
		frame.ip++

		result, done, err := vm.exec(ctx, frame, opcode, base)
		if err != nil {
			if err := vm.unwind(err, base); err != nil {
				return nil, err
			}
			continue
		}
		if done {
			return result, nil
		}
	}
}

func (vm *Interpreter) traceStep(frame *Frame) {
	logger := vm.logger.Level(zerolog.TraceLevel)
	logger.Trace().
		Str("script", frame.Script()).
		Int("ip", frame.ip).
		Str("op", frame.code.traceText(frame.ip)).
		Int("stack", len(frame.stack)).
		Int("depth", vm.frames.Depth()).
		Msg("exec")
}

// unwind looks for an active exception handler, starting at the faulting
// frame and popping frames until one is found. Fatal errors and halts are
// never caught.
func (vm *Interpreter) unwind(err error, base int) error {
	se := vm.located(vm.frames.Current(), asStructured(err))
	if !se.Kind.IsCatchable() {
		return se
	}
	for vm.frames.Depth() > base {
		f := vm.frames.Current()
		n := len(f.handlers)
		if n == 0 {
			f.state = FrameFaulted
			vm.frames.Pop()
			continue
		}
		h := f.handlers[n-1]
		f.handlers = f.handlers[:n-1]
		for i := h.stackDepth; i < len(f.stack); i++ {
			f.stack[i] = nil
		}
		f.stack = f.stack[:h.stackDepth]
		f.envs = f.envs[:h.envDepth]
		f.self, f.other = h.env.self, h.env.other
		f.ip = h.target
		f.state = FrameRunning

		var value object.Object = object.NewString(se.Message)
		var t *thrown
		if errors.As(se, &t) {
			value = t.value
		}
		if err := f.push(value); err != nil {
			return vm.located(f, asStructured(err))
		}
		vm.logger.Debug().
			Str("script", f.Script()).
			Int("handler", h.target).
			Str("kind", se.Kind.String()).
			Msg("fault caught")
		return nil
	}
	return se
}

// exec executes one instruction of frame. done is true when the frame at
// depth base+1 returned, in which case result is its return value.
func (vm *Interpreter) exec(
	ctx context.Context,
	frame *Frame,
	opcode op.Code,
	base int,
) (result object.Object, done bool, err error) {
	name := op.GetInfo(opcode).Name
	switch opcode {
	case op.Nop:
	case op.Halt:
		for vm.frames.Depth() > base {
			f, _ := vm.frames.Pop()
			f.state = FrameReturned
		}
		return object.Undefined, true, nil
	case op.LoadConst:
		err = frame.push(frame.code.Constants[vm.fetch(frame)])
	case op.Undefined:
		err = frame.push(object.Undefined)
	case op.True:
		err = frame.push(object.True)
	case op.False:
		err = frame.push(object.False)
	case op.PopTop:
		_, err = frame.pop(name)
	case op.Dup:
		var top object.Object
		if top, err = frame.peek(name); err == nil {
			err = frame.push(top)
		}
	case op.Swap:
		var values []object.Object
		if values, err = frame.popN(name, 2); err == nil {
			frame.stack = append(frame.stack, values[1], values[0])
		}
	case op.LoadVar:
		err = frame.push(vm.resolver.Load(vm.name(frame), frame.scopeContext(vm.globals)))
	case op.StoreVar:
		key := vm.name(frame)
		var value object.Object
		if value, err = frame.pop(name); err == nil {
			_, err = vm.resolver.Store(key, value, frame.scopeContext(vm.globals))
		}
	case op.LoadLocal:
		err = frame.push(vm.resolver.LoadLocal(vm.name(frame), frame.scopeContext(vm.globals)))
	case op.StoreLocal:
		key := vm.name(frame)
		var value object.Object
		if value, err = frame.pop(name); err == nil {
			err = vm.resolver.StoreLocal(key, value, frame.scopeContext(vm.globals))
		}
	case op.DeclareLocal:
		err = vm.resolver.DeclareLocal(vm.name(frame), frame.scopeContext(vm.globals))
	case op.LoadSelf:
		err = frame.push(vm.resolver.LoadInstance(frame.self, vm.name(frame)))
	case op.StoreSelf:
		key := vm.name(frame)
		var value object.Object
		if value, err = frame.pop(name); err == nil {
			err = vm.resolver.StoreInstance(frame.self, key, value)
		}
	case op.LoadGlobal:
		err = frame.push(vm.resolver.LoadGlobal(vm.name(frame), frame.scopeContext(vm.globals)))
	case op.StoreGlobal:
		key := vm.name(frame)
		var value object.Object
		if value, err = frame.pop(name); err == nil {
			err = vm.resolver.StoreGlobal(key, value, frame.scopeContext(vm.globals))
		}
	case op.LoadField:
		key := vm.name(frame)
		var ref object.Object
		if ref, err = frame.pop(name); err != nil {
			break
		}
		var inst scope.Instance
		if inst, err = vm.resolveInstance(frame, ref); err == nil {
			err = frame.push(vm.resolver.LoadInstance(inst, key))
		}
	case op.StoreField:
		key := vm.name(frame)
		var values []object.Object
		if values, err = frame.popN(name, 2); err != nil {
			break
		}
		var inst scope.Instance
		if inst, err = vm.resolveInstance(frame, values[1]); err == nil {
			err = vm.resolver.StoreInstance(inst, key, values[0])
		}
	case op.BinaryOp:
		opType := op.BinaryOpType(vm.fetch(frame))
		var values []object.Object
		if values, err = frame.popN(name, 2); err != nil {
			break
		}
		var value object.Object
		if value, err = object.BinaryOp(opType, values[0], values[1]); err == nil {
			err = frame.push(value)
		}
	case op.CompareOp:
		opType := op.CompareOpType(vm.fetch(frame))
		var values []object.Object
		if values, err = frame.popN(name, 2); err != nil {
			break
		}
		var value object.Object
		if value, err = object.Compare(opType, values[0], values[1]); err == nil {
			err = frame.push(value)
		}
	case op.UnaryNegative:
		var value object.Object
		if value, err = frame.pop(name); err != nil {
			break
		}
		if value, err = object.Negate(value); err == nil {
			err = frame.push(value)
		}
	case op.UnaryNot:
		var value object.Object
		if value, err = frame.pop(name); err == nil {
			err = frame.push(object.NewBool(!object.AsBool(value)))
		}
	case op.BitNot:
		var value object.Object
		if value, err = frame.pop(name); err != nil {
			break
		}
		if value, err = object.BitNot(value); err == nil {
			err = frame.push(value)
		}
	case op.BuildArray:
		count := int(vm.fetch(frame))
		var items []object.Object
		if items, err = frame.popN(name, count); err == nil {
			err = frame.push(object.NewArray(items))
		}
	case op.ArrayGet:
		var values []object.Object
		if values, err = frame.popN(name, 2); err != nil {
			break
		}
		var arr *object.Array
		var index int64
		if arr, index, err = arrayIndex(values[0], values[1]); err != nil {
			break
		}
		var value object.Object
		if value, err = arr.Get(index); err == nil {
			err = frame.push(value)
		}
	case op.ArraySet:
		var values []object.Object
		if values, err = frame.popN(name, 3); err != nil {
			break
		}
		var arr *object.Array
		var index int64
		if arr, index, err = arrayIndex(values[0], values[1]); err == nil {
			err = arr.Set(index, values[2])
		}
	case op.PushSelf:
		err = frame.push(instanceRef(frame.self))
	case op.PushOther:
		err = frame.push(instanceRef(frame.other))
	case op.PushEnv:
		var ref object.Object
		if ref, err = frame.pop(name); err != nil {
			break
		}
		var inst scope.Instance
		if inst, err = vm.resolveInstance(frame, ref); err == nil {
			frame.envs = append(frame.envs, env{self: frame.self, other: frame.other})
			frame.other = frame.self
			frame.self = inst
		}
	case op.PopEnv:
		n := len(frame.envs)
		if n == 0 {
			return nil, false, errz.InternalErrorf("POP_ENV without a matching PUSH_ENV")
		}
		frame.self, frame.other = frame.envs[n-1].self, frame.envs[n-1].other
		frame.envs = frame.envs[:n-1]
	case op.Jump:
		frame.ip = int(vm.fetch(frame))
	case op.PopJumpIfFalse, op.PopJumpIfTrue:
		target := int(vm.fetch(frame))
		var value object.Object
		if value, err = frame.pop(name); err != nil {
			break
		}
		if object.AsBool(value) == (opcode == op.PopJumpIfTrue) {
			frame.ip = target
		}
	case op.PushExcept:
		target := int(vm.fetch(frame))
		frame.handlers = append(frame.handlers, handler{
			target:     target,
			stackDepth: len(frame.stack),
			envDepth:   len(frame.envs),
			env:        env{self: frame.self, other: frame.other},
		})
	case op.PopExcept:
		n := len(frame.handlers)
		if n == 0 {
			return nil, false, errz.InternalErrorf("POP_EXCEPT without an active handler")
		}
		frame.handlers = frame.handlers[:n-1]
	case op.Throw:
		var value object.Object
		if value, err = frame.pop(name); err == nil {
			err = errz.New(errz.ErrThrown, object.AsString(value)).WithCause(&thrown{value: value})
		}
	case op.Call:
		key := vm.name(frame)
		argc := int(vm.fetch(frame))
		var args []object.Object
		if args, err = frame.popN(name, argc); err == nil {
			err = vm.call(ctx, frame, key, args)
		}
	case op.ReturnValue:
		var value object.Object
		if value, err = frame.pop(name); err == nil {
			return vm.returnFrom(frame, value, base)
		}
	case op.Exit:
		return vm.returnFrom(frame, object.Undefined, base)
	default:
		return nil, false, errz.InternalErrorf("unknown opcode %d", opcode)
	}
	return nil, false, err
}

func (vm *Interpreter) fetch(frame *Frame) uint16 {
	value := frame.code.Instructions[frame.ip]
	frame.ip++
	return uint16(value)
}

func (vm *Interpreter) name(frame *Frame) string {
	return frame.code.Names[vm.fetch(frame)]
}

// call resolves name to a script, then a built-in. Calls to unknown names
// log a warning and yield undefined.
func (vm *Interpreter) call(ctx context.Context, frame *Frame, name string, args []object.Object) error {
	location := frame.code.LocationAt(frame.opIP)
	if c, ok := vm.scripts[name]; ok {
		if err := vm.frames.Push(newFrame(c, frame.self, frame.other, args)); err != nil {
			return err
		}
		frame.state = FrameSuspended
		if vm.observer != nil && vm.observerCfg.ObserveCalls {
			event := CallEvent{
				Name:       name,
				ArgCount:   len(args),
				Location:   location,
				FrameDepth: vm.frames.Depth(),
			}
			if !vm.observer.OnCall(event) {
				return errz.New(errz.ErrHalted, "execution halted by observer")
			}
		}
		return nil
	}
	if _, ok := vm.registry.Lookup(name); ok {
		if vm.observer != nil && vm.observerCfg.ObserveCalls {
			event := CallEvent{
				Name:       name,
				Builtin:    true,
				ArgCount:   len(args),
				Location:   location,
				FrameDepth: vm.frames.Depth(),
			}
			if !vm.observer.OnCall(event) {
				return errz.New(errz.ErrHalted, "execution halted by observer")
			}
		}
		result, err := vm.registry.Invoke(vm.builtinContext(ctx, frame.self, frame.other), name, args)
		if err != nil {
			return err
		}
		return frame.push(result)
	}
	vm.logger.Warn().
		Str("function", name).
		Str("script", frame.Script()).
		Int("offset", frame.opIP).
		Msg("call to unknown function")
	return frame.push(object.Undefined)
}

// returnFrom pops frame and hands value to its caller. done is true when
// frame was the entry frame of the current invocation.
func (vm *Interpreter) returnFrom(frame *Frame, value object.Object, base int) (object.Object, bool, error) {
	if vm.observer != nil && vm.observerCfg.ObserveReturns {
		event := ReturnEvent{
			Name:       frame.Script(),
			Location:   frame.code.LocationAt(frame.opIP),
			FrameDepth: vm.frames.Depth() - 1,
		}
		if !vm.observer.OnReturn(event) {
			return nil, false, errz.New(errz.ErrHalted, "execution halted by observer")
		}
	}
	if _, err := vm.frames.Pop(); err != nil {
		return nil, false, err
	}
	frame.state = FrameReturned
	if vm.frames.Depth() <= base {
		return value, true, nil
	}
	caller := vm.frames.Current()
	caller.state = FrameRunning
	if err := caller.push(value); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

// resolveInstance maps an instance reference, or a numeric id, to an
// instance. The reserved ids for self and other resolve against frame.
func (vm *Interpreter) resolveInstance(frame *Frame, ref object.Object) (scope.Instance, error) {
	var id int64
	switch ref := ref.(type) {
	case *object.InstanceRef:
		id = ref.ID()
	case *object.Int, *object.Real:
		n, err := object.AsInt(ref)
		if err != nil {
			return nil, err
		}
		id = n
	default:
		return nil, errz.TypeErrorf("expected an instance reference (got %s)", ref.Type())
	}
	var inst scope.Instance
	switch id {
	case object.SelfID:
		inst = frame.self
	case object.OtherID:
		inst = frame.other
	default:
		if found, ok := vm.instances.Lookup(id); ok {
			inst = found
		}
	}
	if inst == nil {
		return nil, errz.RuntimeErrorf("instance %d does not exist", id)
	}
	return inst, nil
}
