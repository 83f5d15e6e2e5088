package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opengm-go/gmvm/bytecode"
	"github.com/spf13/cobra"
)

func (a *app) compileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <program.yaml>",
		Short: "Assemble a YAML program into the binary CBOR format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := bytecode.LoadYAML(args[0])
			if err != nil {
				return err
			}
			data, err := bytecode.MarshalCBOR(program)
			if err != nil {
				return err
			}
			path := a.v.GetString("out")
			if path == "" {
				path = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".cbor"
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			a.logger.Info().
				Str("program", program.Name()).
				Int("scripts", program.ScriptCount()).
				Int("bytes", len(data)).
				Str("path", path).
				Msg("program compiled")
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().String("out", "", "output path (default replaces the extension with .cbor)")
	return cmd
}
