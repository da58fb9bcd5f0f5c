package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rybkr/setupdb/internal/board"
	"github.com/rybkr/setupdb/internal/fumen"
	"github.com/rybkr/setupdb/internal/generator"
)

var (
	numStacks  int
	pieceCount string
	allowClear bool
	genSeed    int64
	outputFile string
	timeout    time.Duration
)

func init() {
	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate random stacks of dropped pieces",
		Long: `Generate one or more random stacks by hard-dropping pieces onto an empty
field. Each stack is printed with the document that builds it.

Examples:
  setupdb gen --pieces 6
  setupdb gen -n 5 --pieces 4:8 --clears
  setupdb gen -n 20 --seed 7 -o stacks.html`,
		RunE: runGen,
	}

	genCmd.Flags().IntVarP(&numStacks, "number", "n", 1, "Number of stacks to generate")
	genCmd.Flags().StringVarP(&pieceCount, "pieces", "p", strconv.Itoa(generator.DefaultPieces), "Pieces per stack 1-40 or range like 4:8")
	genCmd.Flags().BoolVar(&allowClear, "clears", false, "Allow drops that complete a row")
	genCmd.Flags().Int64Var(&genSeed, "seed", 0, "Seed for reproducible stacks (0 = random)")
	genCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (e.g., stacks.html)")
	genCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Generation timeout per stack")

	rootCmd.AddCommand(genCmd)
}

// parseRange parses a count which can be a single number like "6" or an
// inclusive range like "4:8".
func parseRange(s string) (lo, hi int, err error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		val, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid piece count: %w", err)
		}
		return val, val, nil
	case 2:
		minVal, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid piece count min: %w", err)
		}
		maxVal, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid piece count max: %w", err)
		}
		if minVal > maxVal {
			return 0, 0, fmt.Errorf("piece count min (%d) cannot be greater than max (%d)", minVal, maxVal)
		}
		return minVal, maxVal, nil
	}
	return 0, 0, fmt.Errorf("invalid piece count format: %s (use format like '6' or '4:8')", s)
}

// stackDocument encodes the drops of s as a document that starts from an
// empty field.
func stackDocument(s *generator.Stack) (string, error) {
	pages := make([]fumen.Page, len(s.Placements))
	for i := range s.Placements {
		pages[i].Operation = &s.Placements[i]
	}
	return fumen.Encode(pages)
}

var cellColors = map[board.Cell]string{
	board.I:       "#31c7ef",
	board.L:       "#ef7921",
	board.O:       "#f7d308",
	board.Z:       "#ef2029",
	board.T:       "#ad4d9c",
	board.J:       "#5a65ad",
	board.S:       "#42b642",
	board.Garbage: "#999999",
}

// generateHTML writes one page per stack, each showing the field and the
// document that builds it.
func generateHTML(filename string, stacks []*generator.Stack, docs []string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}
	defer file.Close()

	_, err = fmt.Fprintf(file, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Stacks</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            max-width: 800px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .page {
            page-break-after: always;
            background-color: white;
            padding: 40px;
            margin-bottom: 20px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            text-align: center;
        }
        .page:last-child {
            page-break-after: auto;
        }
        h1 {
            color: #333;
            margin-bottom: 30px;
        }
        .field {
            display: inline-block;
            border: 3px solid #000;
            border-top: none;
            margin: 20px auto;
        }
        .field table {
            border-collapse: collapse;
        }
        .field td {
            width: 24px;
            height: 24px;
            padding: 0;
            border: 1px solid #eee;
        }
        .doc {
            font-family: 'Courier New', monospace;
            word-break: break-all;
        }
        @media print {
            body {
                background-color: white;
            }
            .page {
                margin-bottom: 0;
                box-shadow: none;
            }
        }
    </style>
</head>
<body>
`)
	if err != nil {
		return err
	}

	for i, s := range stacks {
		_, err = fmt.Fprintf(file, `    <div class="page">
        <h1>Stack #%d (%d pieces)</h1>
        %s
        <p class="doc">%s</p>
    </div>
`, i+1, len(s.Placements), boardToHTML(s.Board), docs[i])
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(file, `</body>
</html>
`)
	return err
}

// boardToHTML draws the field as a table, top row first.
func boardToHTML(b *board.Board) string {
	var sb strings.Builder
	sb.WriteString("<div class=\"field\"><table>")

	for y := b.Height() - 1; y >= 0; y-- {
		sb.WriteString("<tr>")
		for x := 0; x < board.Width; x++ {
			if color, ok := cellColors[b.At(x, y)]; ok {
				fmt.Fprintf(&sb, "<td style=\"background-color:%s\"></td>", color)
			} else {
				sb.WriteString("<td></td>")
			}
		}
		sb.WriteString("</tr>")
	}

	sb.WriteString("</table></div>")
	return sb.String()
}

func runGen(cmd *cobra.Command, args []string) error {
	minPieces, maxPieces, err := parseRange(pieceCount)
	if err != nil {
		return err
	}
	if minPieces < generator.MinPieces || maxPieces > generator.MaxPieces {
		return fmt.Errorf("piece count must be between %d and %d, got %s", generator.MinPieces, generator.MaxPieces, pieceCount)
	}

	var stacks []*generator.Stack
	var docs []string
	outputHTML := outputFile != ""
	out := cmd.OutOrStdout()

	seed := genSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	for i := 0; i < numStacks; i++ {
		selected := minPieces
		if maxPieces > minPieces {
			selected = minPieces + rng.Intn(maxPieces-minPieces+1)
		}

		opts := generator.DefaultOptions(selected)
		opts.Clears = allowClear
		opts.Timeout = timeout
		opts.Seed = rng.Int63() | 1

		stack, err := generator.New(opts).Generate()
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}
		doc, err := stackDocument(stack)
		if err != nil {
			return err
		}
		logger.Debug("generated stack", "index", i, "pieces", selected, "seed", opts.Seed)

		if outputHTML {
			stacks = append(stacks, stack)
			docs = append(docs, doc)
			continue
		}
		fmt.Fprintf(out, "Stack #%d (Pieces: %d):\n", i+1, selected)
		fmt.Fprint(out, stack.Board.Format())
		fmt.Fprintln(out, doc)
		fmt.Fprintln(out)
	}

	if outputHTML {
		filename := outputFile
		if filepath.Ext(filename) != ".html" {
			filename = filename + ".html"
		}
		if err := generateHTML(filename, stacks, docs); err != nil {
			return fmt.Errorf("failed to write HTML file: %w", err)
		}
		fmt.Fprintf(out, "Generated %d stack(s) in %s\n", numStacks, filename)
	}

	return nil
}
