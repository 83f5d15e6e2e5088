package builtins

import (
	"context"
	"fmt"

	"github.com/opengm-go/gmvm/object"
	"github.com/opengm-go/gmvm/scene"
	"github.com/rs/zerolog"
)

// DumpLayers logs every layer of dir and its elements, and returns the
// number of elements logged.
func DumpLayers(logger *zerolog.Logger, dir *scene.Directory) int {
	if dir == nil {
		return 0
	}
	count := 0
	logger.Info().Msg("LAYERS :")
	for _, layer := range dir.Layers() {
		logger.Info().Msgf(" - Layer: %s (%d)", layer.Name, layer.ID)
		for _, element := range layer.Elements {
			line := fmt.Sprintf("     - %s (%d)", element.Kind, element.InstanceID)
			switch element.Kind {
			case scene.ElementSprite:
				line += fmt.Sprintf(" [%s, %s]", object.FormatReal(element.X), object.FormatReal(element.Y))
			case scene.ElementBackground:
				line += fmt.Sprintf(" Index:%d Frame:%d", element.Index, element.Frame)
			}
			logger.Info().Msg(line)
			count++
		}
	}
	return count
}

// DumpInstances logs every live instance with its variables, and returns
// the number of instances logged.
func DumpInstances(logger *zerolog.Logger, dir InstanceDirectory) int {
	all := dir.All()
	for _, inst := range all {
		event := logger.Info().Int64("id", inst.ID())
		vars := inst.Variables()
		for _, name := range vars.Names() {
			event = event.Str(name, vars.Get(name).Inspect())
		}
		event.Msg("instance")
	}
	return len(all)
}

type debugFuncs struct {
	scene     *scene.Directory
	instances InstanceDirectory
}

func (f *debugFuncs) dumpLayers(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.NewInt(int64(DumpLayers(LoggerFrom(ctx), f.scene))), nil
}

func (f *debugFuncs) dumpInstances(ctx context.Context, args ...object.Object) (object.Object, error) {
	return object.NewInt(int64(DumpInstances(LoggerFrom(ctx), f.instances))), nil
}

func registerDebug(r *Registry, sceneDir *scene.Directory, instances InstanceDirectory) {
	f := &debugFuncs{scene: sceneDir, instances: instances}
	r.MustRegister("debug_dump_layers", f.dumpLayers, Arity(0, 0), Doc("Log the room's layers, returning the element count"))
	r.MustRegister("debug_dump_instances", f.dumpInstances, Arity(0, 0), Doc("Log live instances, returning the count"))
}
