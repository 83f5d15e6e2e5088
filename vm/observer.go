package vm

import (
	"github.com/opengm-go/gmvm/bytecode"
	"github.com/opengm-go/gmvm/op"
)

// StepMode selects which executed instructions produce an OnStep event.
type StepMode uint8

const (
	// StepAll reports every instruction of every script frame.
	StepAll StepMode = iota

	// StepNone reports no instructions; script and built-in calls are
	// still reported according to the config.
	StepNone

	// StepSampled reports one instruction out of every SampleInterval,
	// counted across all frames of the interpreter.
	StepSampled

	// StepOnLine reports the first instruction of each assembly line,
	// and again whenever control moves to another script.
	StepOnLine
)

// ObserverConfig is read once, when the interpreter is created.
type ObserverConfig struct {
	StepMode StepMode

	// SampleInterval applies to StepSampled. Values <= 0 mean 1.
	SampleInterval int

	// ObserveCalls enables OnCall for script calls and built-in calls.
	ObserveCalls bool

	// ObserveReturns enables OnReturn when a script frame returns.
	ObserveReturns bool
}

// NewObserverConfig returns a config for mode with call and return events
// enabled and a sample interval of 1000 instructions.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{
		StepMode:       mode,
		SampleInterval: 1000,
		ObserveCalls:   true,
		ObserveReturns: true,
	}
}

func (c ObserverConfig) normalized() ObserverConfig {
	if c.StepMode == StepSampled && c.SampleInterval <= 0 {
		c.SampleInterval = 1
	}
	return c
}

// Observer receives execution events from an Interpreter, on the goroutine
// running the script. Every callback returns false to halt the current
// invocation; the halt unwinds to the entry frame like Interpreter.Halt.
//
// Embed NoOpObserver to implement only some of the callbacks.
type Observer interface {
	Config() ObserverConfig

	// OnStep runs before the instruction executes.
	OnStep(event StepEvent) bool

	// OnCall runs when CALL resolves to a script, after its frame is
	// pushed, or to a built-in, before the built-in runs. Calls to
	// unknown names are not reported.
	OnCall(event CallEvent) bool

	// OnReturn runs when RETURN_VALUE or EXIT leaves a script frame,
	// just before the frame is popped.
	OnReturn(event ReturnEvent) bool
}

// StepEvent describes the instruction about to execute.
type StepEvent struct {
	Script     string
	IP         int
	Opcode     op.Code
	OpcodeName string
	Location   bytecode.SourceLocation
	// StackDepth is the size of the frame's evaluation stack.
	StackDepth int
	// FrameDepth counts script frames, the entry frame included.
	FrameDepth int
}

// CallEvent describes a CALL instruction.
type CallEvent struct {
	// Name is the script or built-in name as written in the CALL operand.
	Name     string
	Builtin  bool
	ArgCount int
	// Location is the call site in the calling script.
	Location bytecode.SourceLocation
	// FrameDepth is the depth after the call. Built-in calls push no
	// frame, so it equals the caller's depth.
	FrameDepth int
}

// ReturnEvent describes a script frame returning to its caller.
type ReturnEvent struct {
	Name string
	// Location is the returning instruction.
	Location bytecode.SourceLocation
	// FrameDepth is the depth once the frame is popped.
	FrameDepth int
}

// NoOpObserver accepts every event. Its config is StepAll with call and
// return events enabled.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig(StepAll)
}

func (NoOpObserver) OnStep(StepEvent) bool     { return true }
func (NoOpObserver) OnCall(CallEvent) bool     { return true }
func (NoOpObserver) OnReturn(ReturnEvent) bool { return true }

var _ Observer = NoOpObserver{}

// stepFilter applies the step mode to the instruction stream.
type stepFilter struct {
	cfg      ObserverConfig
	count    int
	lastLine int
	lastCode *code
}

func (s *stepFilter) want(c *code, ip int) bool {
	switch s.cfg.StepMode {
	case StepAll:
		return true
	case StepSampled:
		s.count++
		if s.count < s.cfg.SampleInterval {
			return false
		}
		s.count = 0
		return true
	case StepOnLine:
		line := c.LocationAt(ip).Line
		if c == s.lastCode && line == s.lastLine {
			return false
		}
		s.lastCode, s.lastLine = c, line
		return true
	}
	return false
}
