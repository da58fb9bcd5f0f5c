package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rybkr/setupdb/internal/board"
	"github.com/rybkr/setupdb/internal/fumen"
)

var (
	showInput  string
	showLocked bool
)

func init() {
	showCmd := &cobra.Command{
		Use:   "show [docs...]",
		Short: "Print every page of a document as a text field",
		Long: `Print each page's field, its garbage row, its operation and its comment.

Examples:
  setupdb show v115@vhAAgH
  setupdb show --locked -i setups.txt`,
		RunE: runShow,
	}

	showCmd.Flags().StringVarP(&showInput, "input", "i", "", "Read documents from a file (- for stdin)")
	showCmd.Flags().BoolVar(&showLocked, "locked", false, "Show each field after its operation locks")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	f := ioFlags{input: showInput}
	docs, err := f.documents(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, doc := range docs {
		pages, err := fumen.Decode(doc)
		if err != nil {
			return fmt.Errorf("document %d: %w", i+1, err)
		}
		fmt.Fprintf(out, "Document #%d (%d pages)\n", i+1, len(pages))
		for j, page := range pages {
			if err := writePage(out, j, page, showLocked); err != nil {
				return fmt.Errorf("document %d: %w", i+1, err)
			}
		}
	}
	return nil
}

func writePage(w io.Writer, index int, page fumen.Page, locked bool) error {
	field := page.Field
	if locked {
		var err error
		if field, err = page.LockedField(); err != nil {
			return fmt.Errorf("page %d: %w", index, err)
		}
	}

	fmt.Fprintf(w, "Page %d\n", index)
	fmt.Fprint(w, field.Format())
	if garbage := garbageRow(page.Garbage); garbage != "" {
		fmt.Fprintf(w, " %s  rise\n", garbage)
	}
	if page.Operation != nil {
		fmt.Fprintf(w, "op: %s\n", page.Operation)
	}
	if page.Comment != "" {
		fmt.Fprintf(w, "comment: %s\n", page.Comment)
	}
	fmt.Fprintln(w)
	return nil
}

// garbageRow draws the row below the floor, or "" when it is empty.
func garbageRow(row [board.Width]board.Cell) string {
	var sb strings.Builder
	filled := false
	for _, c := range row {
		if c == board.Empty {
			sb.WriteByte('.')
			continue
		}
		filled = true
		sb.WriteString(c.String())
	}
	if !filled {
		return ""
	}
	return sb.String()
}
