package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/opengm-go/gmvm/builtins"
	"github.com/spf13/cobra"
)

func (a *app) builtinsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "builtins [prefix]",
		Short: "List the built-in functions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []builtins.Option
			for _, name := range a.v.GetStringSlice("stub") {
				opts = append(opts, builtins.WithStub(name))
			}
			registry := builtins.Default(builtins.Env{}, opts...)
			name := color.New(color.FgCyan).SprintFunc()
			dim := color.New(color.Faint).SprintFunc()
			out := cmd.OutOrStdout()
			for _, fn := range registry.Names() {
				if len(args) > 0 && !strings.HasPrefix(fn, args[0]) {
					continue
				}
				entry, _ := registry.Lookup(fn)
				signature := fmt.Sprintf("%s(%s)", name(fn), strings.Join(entry.Args, ", "))
				if entry.IsStub() {
					signature += " " + dim("[stub]")
				}
				if entry.Doc != "" {
					fmt.Fprintf(out, "%s  %s\n", signature, dim(entry.Doc))
				} else {
					fmt.Fprintln(out, signature)
				}
			}
			return nil
		},
	}
	return cmd
}
