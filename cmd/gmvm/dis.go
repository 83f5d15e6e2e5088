package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/opengm-go/gmvm"
	"github.com/opengm-go/gmvm/dis"
	"github.com/spf13/cobra"
)

func (a *app) disCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis <program>",
		Short: "Disassemble a program's scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := gmvm.Load(args[0])
			if err != nil {
				return err
			}
			names := program.ScriptNames()
			if name := a.v.GetString("script"); name != "" {
				if _, ok := program.Script(name); !ok {
					return fmt.Errorf("script %q not found", name)
				}
				names = []string{name}
			}
			bold := color.New(color.Bold).SprintFunc()
			out := cmd.OutOrStdout()
			for i, name := range names {
				code, _ := program.Script(name)
				instructions, err := dis.Disassemble(code)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s (%d params, %d instructions)\n",
					bold(name), code.ParamCount(), len(instructions))
				dis.Print(instructions, out)
			}
			return nil
		},
	}
	cmd.Flags().String("script", "", "disassemble only this script")
	return cmd
}
