package cmd

import (
	"github.com/spf13/cobra"
)

var assembleIO ioFlags

func init() {
	assembleCmd := &cobra.Command{
		Use:     "assemble [docs...]",
		Aliases: []string{"unglue"},
		Short:   "Replay the placements of each document onto its first field",
		Long: `Apply every page's operation to the first page's field, in order, and
write the result as a single-page document. Completed rows are removed
unless --keep-cleared is given.

Examples:
  setupdb assemble -i setups.txt
  setupdb unglue --keep-cleared v115@vhAAgH`,
		RunE: runAssemble,
	}

	assembleCmd.Flags().Bool("keep-cleared", false, "Leave completed rows in the field")
	assembleCmd.Flags().Bool("keep-invalid", true, "Emit an empty document for each malformed input")
	assembleIO.register(assembleCmd)

	rootCmd.AddCommand(assembleCmd)
}

func runAssemble(cmd *cobra.Command, args []string) error {
	docs, err := assembleIO.documents(args)
	if err != nil {
		return err
	}

	r := newRunner()
	if err := overrideBool(cmd, "keep-cleared", &r.KeepClearedRows); err != nil {
		return err
	}
	if err := overrideBool(cmd, "keep-invalid", &r.KeepInvalid); err != nil {
		return err
	}

	items, err := r.Assemble(cmd.Context(), docs)
	if err != nil {
		return err
	}
	return assembleIO.finish("assemble", items)
}
