package main

import (
	"context"
	"errors"
	"time"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/opengm-go/gmvm/builtins"
	"github.com/opengm-go/gmvm/input"
	"github.com/spf13/cobra"
)

func (a *app) playCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <program>",
		Short: "Run a program's tick loop with terminal keyboard input",
		Long: `Play steps the program at a fixed rate, feeding terminal key presses to
the input built-ins. Press Esc or Ctrl+C to stop.

Debug keys: F1 verbose trace, F5 toggle the "debug" global,
F9 dump instances, F10 dump layers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminalIO() {
				return errors.New("play requires an interactive terminal")
			}
			machine, err := a.newInterpreter(args[0])
			if err != nil {
				return err
			}

			hotkeys := input.NewHotkeys(a.logger)
			hotkeys.ForceVerbose = a.v.GetBool("verbose")
			hotkeys.OnInstanceDump = func() {
				builtins.DumpInstances(&a.logger, machine.Instances())
			}
			hotkeys.OnLayerDump = func() {
				builtins.DumpLayers(&a.logger, machine.Scene())
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			latch := newKeyLatch(a.v.GetInt("key-hold"))
			go func() {
				defer cancel()
				err := keyboard.Listen(func(key keys.Key) (bool, error) {
					if key.Code == keys.CtrlC || key.Code == keys.Escape {
						return true, nil
					}
					if ctx.Err() != nil {
						return true, nil
					}
					latch.press(virtualKeys(key)...)
					return false, nil
				})
				if err != nil {
					a.logger.Error().Err(err).Msg("keyboard listener failed")
				}
			}()

			fps := max(a.v.GetInt("fps"), 1)
			limit := a.v.GetInt("ticks")
			ticker := time.NewTicker(time.Second / time.Duration(fps))
			defer ticker.Stop()
			last := time.Now()
			for limit <= 0 || int(machine.Tick()) < limit {
				select {
				case <-ctx.Done():
					return nil
				case now := <-ticker.C:
					machine.Input().UpdateKeyboard(latch.next())
					hotkeys.Apply(machine.Input(), machine)
					err := machine.Step(ctx, now.Sub(last))
					last = now
					if err != nil {
						a.logger.Warn().Err(err).Int64("tick", machine.Tick()).Msg("tick faulted")
						if fault := machine.LastFault(); fault != nil && fault.IsFatal() {
							return err
						}
					}
				}
			}
			// Release the terminal held by the listener.
			if ctx.Err() == nil {
				return keyboard.SimulateKeyPress(keys.Escape)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.Int("fps", 60, "ticks per second")
	flags.Int("ticks", 0, "stop after this many ticks (0 runs until Esc)")
	flags.Int("key-hold", 6, "ticks a terminal key press reads as held")
	return cmd
}
