package input

import (
	"github.com/opengm-go/gmvm/object"
	"github.com/rs/zerolog"
)

// DebugSurface is the part of the interpreter the debug hotkeys write to.
type DebugSurface interface {
	SetVerbose(verbose bool)
	GetGlobal(name string) object.Object
	SetGlobal(name string, value object.Object)
}

// Hotkeys applies the runtime's debug key bindings after each keyboard
// update:
//
//	F1 (held)      verbose instruction trace
//	F5             toggle debug mode, mirrored in the "debug" global
//	Numpad 0       instance dump
//	Numpad 1       layer dump
type Hotkeys struct {
	// ForceVerbose keeps verbose tracing on regardless of F1.
	ForceVerbose bool

	OnInstanceDump func()
	OnLayerDump    func()

	debugMode bool
	logger    zerolog.Logger
}

func NewHotkeys(logger zerolog.Logger) *Hotkeys {
	return &Hotkeys{logger: logger}
}

// DebugMode reports whether debug mode is toggled on.
func (h *Hotkeys) DebugMode() bool {
	return h.debugMode
}

// Apply reads the key edges of snap and updates surface.
func (h *Hotkeys) Apply(snap *Snapshot, surface DebugSurface) {
	surface.SetVerbose(h.ForceVerbose || snap.KeyDown(VKF1))

	if snap.KeyPressed(VKF5) {
		h.debugMode = !surface.GetGlobal("debug").IsTruthy()
		surface.SetGlobal("debug", object.NewBool(h.debugMode))
		h.logger.Info().Bool("debug", h.debugMode).Msg("debug mode toggled")
	}
	if snap.KeyPressed(VKNumpad0) && h.OnInstanceDump != nil {
		h.OnInstanceDump()
	}
	if snap.KeyPressed(VKNumpad1) && h.OnLayerDump != nil {
		h.OnLayerDump()
	}
}
