package vm

import (
	"context"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/opengm-go/gmvm/bytecode"
	"github.com/opengm-go/gmvm/errz"
	"github.com/opengm-go/gmvm/object"
	"github.com/opengm-go/gmvm/scope"
)

// Step runs one tick: every entry of the program's tick list is invoked in
// order, once per live instance of its object, or once with no self when the
// entry names no object. delta is the elapsed time since the previous tick
// and is published as the delta_time global in microseconds.
//
// A fault in one entry is logged and recorded and the remaining entries
// still run. The returned error aggregates every fault of the tick. A halt
// stops the tick immediately.
func (vm *Interpreter) Step(ctx context.Context, delta time.Duration) error {
	if err := vm.start(); err != nil {
		return err
	}
	defer vm.stop()

	vm.tick++
	vm.globals.Set("delta_time", object.NewInt(delta.Microseconds()))

	var faults *multierror.Error
	for _, entry := range vm.program.Tick() {
		for _, self := range vm.tickTargets(entry) {
			if self != nil && !vm.instances.Exists(self.ID()) {
				continue
			}
			if _, err := vm.invoke(ctx, entry.Script, self, nil, nil); err != nil {
				faults = multierror.Append(faults, err)
				if errz.IsKind(err, errz.ErrHalted) {
					return faults.ErrorOrNil()
				}
			}
		}
	}
	return faults.ErrorOrNil()
}

// tickTargets lists the instances a tick entry runs as. The list is taken
// before the entry runs; instances destroyed during the entry are skipped.
func (vm *Interpreter) tickTargets(entry bytecode.TickEntry) []scope.Instance {
	if entry.Object == "" {
		return []scope.Instance{nil}
	}
	type named interface {
		Object() string
	}
	var targets []scope.Instance
	for _, inst := range vm.instances.All() {
		if n, ok := inst.(named); ok && n.Object() == entry.Object {
			targets = append(targets, inst)
		}
	}
	return targets
}
