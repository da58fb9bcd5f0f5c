package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rybkr/setupdb/internal/batch"
	"github.com/rybkr/setupdb/internal/board"
	"github.com/rybkr/setupdb/internal/fumen"
)

var errNoDocuments = errors.New("no documents: pass them as arguments, with --input or with --preset")

// ioFlags are the input and output switches shared by the batch commands.
type ioFlags struct {
	input  string
	output string
	preset string
}

func (f *ioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Read whitespace-separated documents from a file (- for stdin, .zst is decompressed)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "-", "Write one document per line to a file (.zst is compressed)")
	cmd.Flags().StringVar(&f.preset, "preset", "", "Add a built-in field as an input document")
}

// documents gathers the inputs in order: arguments, then the input file,
// then the preset.
func (f *ioFlags) documents(args []string) ([]string, error) {
	docs := append([]string(nil), args...)

	if f.input != "" {
		read, err := batch.ReadDocuments(f.input)
		if err != nil {
			return nil, err
		}
		docs = append(docs, read...)
	}

	if f.preset != "" {
		b, err := board.Preset(f.preset)
		if err != nil {
			return nil, fmt.Errorf("%w (known: %v)", err, board.PresetNames())
		}
		doc, err := fumen.Encode([]fumen.Page{{Field: b}})
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, errNoDocuments
	}
	return docs, nil
}

// finish writes the outputs of items and logs a summary of the run.
func (f *ioFlags) finish(op string, items []batch.Item) error {
	outputs := batch.Outputs(items)
	if err := batch.WriteDocuments(f.output, outputs); err != nil {
		return fmt.Errorf("write %s: %w", f.output, err)
	}

	warnings := 0
	for _, it := range items {
		warnings += len(it.Warnings)
	}
	logger.Info(op+" finished",
		"inputs", len(items),
		"outputs", len(outputs),
		"failed", batch.Failed(items),
		"warnings", warnings)
	return nil
}

func newRunner() *batch.Runner {
	return &batch.Runner{
		Workers:         cfg.Workers,
		Multiple:        cfg.Multiple,
		KeepInvalid:     cfg.KeepInvalid,
		KeepClearedRows: cfg.KeepClearedRows,
		Timeout:         cfg.Timeout,
		Logger:          logger,
	}
}
