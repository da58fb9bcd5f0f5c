package cmd

import (
	"github.com/spf13/cobra"
)

var disassembleIO ioFlags

func init() {
	disassembleCmd := &cobra.Command{
		Use:     "disassemble [docs...]",
		Aliases: []string{"glue"},
		Short:   "Turn fields into documents of piece placements",
		Long: `Find the grounded piece drops that build each page's field. Every
decomposition becomes a document whose first page holds the field with its
pieces removed, followed by one page per drop.

Examples:
  setupdb disassemble --preset o-on-i
  setupdb glue --multiple -i fields.txt -o setups.txt.zst
  setupdb disassemble --preset garbage-tlj`,
		RunE: runDisassemble,
	}

	disassembleCmd.Flags().Bool("multiple", false, "Emit every distinct decomposition instead of the first")
	disassembleCmd.Flags().Bool("keep-invalid", true, "Emit an empty document for each malformed input")
	disassembleCmd.Flags().Duration("timeout", 0, "Search time limit per page (0 = no limit)")
	disassembleIO.register(disassembleCmd)

	rootCmd.AddCommand(disassembleCmd)
}

func runDisassemble(cmd *cobra.Command, args []string) error {
	docs, err := disassembleIO.documents(args)
	if err != nil {
		return err
	}

	r := newRunner()
	if err := overrideBool(cmd, "multiple", &r.Multiple); err != nil {
		return err
	}
	if err := overrideBool(cmd, "keep-invalid", &r.KeepInvalid); err != nil {
		return err
	}
	if cmd.Flags().Changed("timeout") {
		if r.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return err
		}
	}

	items, err := r.Disassemble(cmd.Context(), docs)
	if err != nil {
		return err
	}
	return disassembleIO.finish("disassemble", items)
}
