package main

import (
	"fmt"
	"time"

	"github.com/opengm-go/gmvm/object"
	"github.com/spf13/cobra"
)

func (a *app) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <program>",
		Short: "Run a program's entry script, or a number of ticks",
		Long: `Run loads a program (YAML or CBOR) and either invokes one entry script
or, with --ticks, runs that many steps of the program's tick list.

Script arguments follow a "--" separator and are passed as strings.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			machine, err := a.newInterpreter(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if ticks := a.v.GetInt("ticks"); ticks > 0 {
				delta := time.Second / time.Duration(max(a.v.GetInt("fps"), 1))
				var lastErr error
				for i := 0; i < ticks; i++ {
					if err := machine.Step(cmd.Context(), delta); err != nil {
						lastErr = err
						if fault := machine.LastFault(); fault != nil && fault.IsFatal() {
							break
						}
					}
				}
				if a.v.GetBool("dump-globals") {
					data, err := a.globalsJSON(machine.Globals())
					if err != nil {
						return err
					}
					fmt.Fprintln(out, string(data))
				}
				return lastErr
			}

			var scriptArgs []object.Object
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				for _, arg := range args[dash:] {
					scriptArgs = append(scriptArgs, object.NewString(arg))
				}
			}
			start := time.Now()
			result, err := machine.InvokeEntryPoint(cmd.Context(), a.v.GetString("entry"), scriptArgs...)
			if err != nil {
				return err
			}
			output, err := a.getOutput(result, a.v.GetString("output"))
			if err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintln(out, output)
			}
			if a.v.GetBool("dump-globals") {
				data, err := a.globalsJSON(machine.Globals())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			}
			if a.v.GetBool("timing") {
				fmt.Fprintf(out, "%v\n", time.Since(start))
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.String("entry", "main", "entry script to invoke")
	flags.Int("ticks", 0, "run this many ticks instead of an entry script")
	flags.Int("fps", 60, "tick rate used to compute delta_time")
	flags.StringP("output", "o", "", "output format (json, text)")
	flags.Bool("dump-globals", false, "print the global table when done")
	flags.Bool("timing", false, "show execution time")
	cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
