package builtins

import (
	"context"

	"github.com/opengm-go/gmvm/input"
	"github.com/opengm-go/gmvm/object"
)

// Mouse button constants as scripts see them.
const (
	mbAny  = -1
	mbNone = 0
)

type inputFuncs struct {
	snap *input.Snapshot
}

func (f *inputFuncs) keyCheck(check func(vk int) bool) object.BuiltinFunction {
	return func(ctx context.Context, args ...object.Object) (object.Object, error) {
		vk, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		return object.NewBool(check(vk)), nil
	}
}

func (f *inputFuncs) keyboardString(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.NewString(f.snap.KeyboardString()), nil
}

func (f *inputFuncs) keyboardClear(ctx context.Context, args ...object.Object) (object.Object, error) {
	vk, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}
	f.snap.SuppressKey(vk)
	return object.Undefined, nil
}

func (f *inputFuncs) ioClear(ctx context.Context, args ...object.Object) (object.Object, error) {
	f.snap.ClearKeys()
	return object.Undefined, nil
}

// mouseCheck maps mb_left..mb_side2 (1..5) to device buttons. mb_any and
// mb_none test all buttons.
func (f *inputFuncs) mouseCheck(check func(button int) bool) object.BuiltinFunction {
	return func(ctx context.Context, args ...object.Object) (object.Object, error) {
		button, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		switch button {
		case mbAny, mbNone:
			found := false
			for i := 0; i < input.NumMouseButtons; i++ {
				if check(i) {
					found = true
					break
				}
			}
			return object.NewBool(found == (button == mbAny)), nil
		}
		return object.NewBool(check(button - 1)), nil
	}
}

func (f *inputFuncs) mouseX(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.NewReal(f.snap.MouseX()), nil
}

func (f *inputFuncs) mouseY(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.NewReal(f.snap.MouseY()), nil
}

func (f *inputFuncs) device(fn func(device int) object.Object) object.BuiltinFunction {
	return func(ctx context.Context, args ...object.Object) (object.Object, error) {
		device, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		return fn(device), nil
	}
}

func (f *inputFuncs) deviceIndex(fn func(device, index int) object.Object) object.BuiltinFunction {
	return func(ctx context.Context, args ...object.Object) (object.Object, error) {
		device, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		index, err := intArg(args, 1)
		if err != nil {
			return nil, err
		}
		return fn(device, index), nil
	}
}

func (f *inputFuncs) setAxisDeadzone(ctx context.Context, args ...object.Object) (object.Object, error) {
	device, err := intArg(args, 0)
	if err != nil {
		return nil, err
	}
	deadzone, err := realArg(args, 1)
	if err != nil {
		return nil, err
	}
	f.snap.SetGamepadDeadzone(device, deadzone)
	return object.Undefined, nil
}

func constant(value object.Object) object.BuiltinFunction {
	return func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return value, nil
	}
}

func registerInput(r *Registry, snap *input.Snapshot) {
	f := &inputFuncs{snap: snap}
	s := snap

	r.MustRegister("keyboard_check", f.keyCheck(s.KeyDown), Arity(1, 1), Doc("True while the key is held", "key"))
	r.MustRegister("keyboard_check_pressed", f.keyCheck(s.KeyPressed), Arity(1, 1), Doc("True on the tick the key went down", "key"))
	r.MustRegister("keyboard_check_released", f.keyCheck(s.KeyReleased), Arity(1, 1), Doc("True on the tick the key went up", "key"))
	r.MustRegister("keyboard_check_direct", f.keyCheck(s.KeyDown), Arity(1, 1), Doc("True while the key is held", "key"))
	r.MustRegister("keyboard_string", f.keyboardString, Arity(0, 0), Doc("Text typed so far"))
	r.MustRegister("keyboard_clear", f.keyboardClear, Arity(1, 1), Doc("Treat the key as up until released", "key"))
	r.MustRegister("io_clear", f.ioClear, Arity(0, 0), Doc("Clear every held key"))

	r.MustRegister("mouse_check_button", f.mouseCheck(s.MouseDown), Arity(1, 1), Doc("True while the button is held", "button"))
	r.MustRegister("mouse_check_button_pressed", f.mouseCheck(s.MousePressed), Arity(1, 1), Doc("True on the tick the button went down", "button"))
	r.MustRegister("mouse_check_button_released", f.mouseCheck(s.MouseReleased), Arity(1, 1), Doc("True on the tick the button went up", "button"))
	r.MustRegister("mouse_x", f.mouseX, Arity(0, 0), Doc("Mouse x position"))
	r.MustRegister("mouse_y", f.mouseY, Arity(0, 0), Doc("Mouse y position"))

	r.MustRegister("gamepad_is_supported", constant(object.True), Arity(0, 0), Doc("Always true"))
	r.MustRegister("gamepad_get_device_count", constant(object.NewInt(input.MaxGamepads)), Arity(0, 0), Doc("Number of device slots"))
	r.MustRegister("gamepad_is_connected", f.device(func(d int) object.Object {
		return object.NewBool(s.GamepadConnected(d))
	}), Arity(1, 1), Doc("True if a device is in the slot", "device"))
	r.MustRegister("gamepad_get_description", f.device(func(d int) object.Object {
		return object.NewString(s.GamepadDescription(d))
	}), Arity(1, 1), Doc("Device name", "device"))
	r.MustRegister("gamepad_get_axis_deadzone", f.device(func(d int) object.Object {
		return object.NewReal(s.GamepadDeadzone(d))
	}), Arity(1, 1), Doc("Axis deadzone of the device", "device"))
	r.MustRegister("gamepad_set_axis_deadzone", f.setAxisDeadzone, Arity(2, 2), Doc("Set the axis deadzone of the device", "device", "deadzone"))
	r.MustRegister("gamepad_button_count", f.device(func(d int) object.Object {
		return object.NewInt(int64(s.GamepadButtonCount(d)))
	}), Arity(1, 1), Doc("Number of buttons on the device", "device"))
	r.MustRegister("gamepad_button_check", f.deviceIndex(func(d, b int) object.Object {
		return object.NewBool(s.GamepadButtonDown(d, b))
	}), Arity(2, 2), Doc("True while the button is held", "device", "button"))
	r.MustRegister("gamepad_button_check_pressed", f.deviceIndex(func(d, b int) object.Object {
		return object.NewBool(s.GamepadButtonPressed(d, b))
	}), Arity(2, 2), Doc("True on the tick the button went down", "device", "button"))
	r.MustRegister("gamepad_button_check_released", f.deviceIndex(func(d, b int) object.Object {
		return object.NewBool(s.GamepadButtonReleased(d, b))
	}), Arity(2, 2), Doc("True on the tick the button went up", "device", "button"))
	r.MustRegister("gamepad_button_value", f.deviceIndex(func(d, b int) object.Object {
		return object.NewReal(s.GamepadButtonValue(d, b))
	}), Arity(2, 2), Doc("1 while the button is held, else 0", "device", "button"))
	r.MustRegister("gamepad_axis_count", f.device(func(d int) object.Object {
		return object.NewInt(int64(s.GamepadAxisCount(d)))
	}), Arity(1, 1), Doc("Number of axes on the device", "device"))
	r.MustRegister("gamepad_axis_value", f.deviceIndex(func(d, a int) object.Object {
		return object.NewReal(s.GamepadAxisValue(d, a))
	}), Arity(2, 2), Doc("Axis position after the deadzone", "device", "axis"))
	r.MustRegister("gamepad_hat_value", f.deviceIndex(func(d, h int) object.Object {
		return object.NewInt(int64(s.GamepadHatValue(d, h)))
	}), Arity(2, 2), Doc("Hat switch state", "device", "hat"))
	r.MustRegister("gamepad_set_vibration", nil, Stub(object.Undefined), Arity(3, 3), Doc("Not supported", "device", "left", "right"))
}
