// Package batch runs disassembly and assembly over many documents,
// isolating failures to the document that caused them.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rybkr/setupdb/internal/assembler"
	"github.com/rybkr/setupdb/internal/board"
	"github.com/rybkr/setupdb/internal/fumen"
	"github.com/rybkr/setupdb/internal/solver"
)

// Placeholder stands in for the output of a document that failed.
var Placeholder = mustEncode([]fumen.Page{{}})

// Item is the outcome for one input document.
type Item struct {
	Input    string
	Outputs  []string
	Warnings []string
	// Err is set when the document could not be processed at all.
	Err error
}

// Runner holds the settings of a batch run. The zero value is usable.
type Runner struct {
	Workers         int // 0 means one per CPU
	Multiple        bool
	KeepInvalid     bool
	KeepClearedRows bool
	Timeout         time.Duration // per page search limit, 0 for none
	Logger          *slog.Logger
}

// Disassemble turns each page of each document into one document per
// decomposition: the page's field emptied of pieces, then one page per
// placement.
func (r *Runner) Disassemble(ctx context.Context, docs []string) ([]Item, error) {
	return r.run(ctx, docs, r.disassemble)
}

// Assemble applies every operation of each document to its first field
// and returns one single-page document per input.
func (r *Runner) Assemble(ctx context.Context, docs []string) ([]Item, error) {
	return r.run(ctx, docs, r.assemble)
}

// Outputs flattens the outputs of items in input order.
func Outputs(items []Item) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Outputs...)
	}
	return out
}

// Failed counts the items that carry an error.
func Failed(items []Item) int {
	n := 0
	for _, it := range items {
		if it.Err != nil {
			n++
		}
	}
	return n
}

func (r *Runner) run(ctx context.Context, docs []string, process func(context.Context, *Item)) ([]Item, error) {
	items := make([]Item, len(docs))

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, doc := range docs {
		items[i].Input = doc
		g.Go(func() error {
			process(gCtx, &items[i])
			return nil
		})
	}
	// Items never fail the group.
	_ = g.Wait()

	return items, ctx.Err()
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Runner) warn(it *Item, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	it.Warnings = append(it.Warnings, msg)
	r.logger().Warn(msg, "doc", it.Input)
}

// fail records err on the item and, when asked to, the placeholder in
// place of its outputs.
func (r *Runner) fail(it *Item, err error) {
	it.Err = err
	it.Outputs = nil
	if r.KeepInvalid {
		it.Outputs = []string{Placeholder}
	}
	r.logger().Error("document failed", "doc", it.Input, "err", err)
}

func (r *Runner) disassemble(ctx context.Context, it *Item) {
	pages, err := fumen.Decode(it.Input)
	if err != nil {
		r.fail(it, err)
		return
	}

	for i, page := range pages {
		s := solver.New(page.Field, &solver.Options{
			Multiple: r.Multiple,
			Timeout:  r.Timeout,
			Logger:   r.logger(),
		})
		results, err := s.DecomposeContext(ctx)
		switch {
		case errors.Is(err, solver.ErrNoDecomposition):
			r.warn(it, "page %d could not be disassembled", i)
			continue
		case errors.Is(err, solver.ErrTimeout):
			r.warn(it, "page %d: search stopped early with %d results", i, len(results))
		case err != nil:
			r.fail(it, fmt.Errorf("page %d: %w", i, err))
			return
		}

		var outputs []string
		for _, d := range results {
			doc, err := fumen.Encode(setupPages(page, d.Operations()))
			if err != nil {
				r.fail(it, fmt.Errorf("page %d: %w", i, err))
				return
			}
			outputs = append(outputs, doc)
		}
		if len(outputs) > 1 {
			r.warn(it, "page %d led to %d outputs", i, len(outputs))
		}
		it.Outputs = append(it.Outputs, outputs...)
	}
}

// setupPages lays out ops as a document starting from page's field with
// its pieces removed. Later pages inherit the locked field.
func setupPages(page fumen.Page, ops []board.Placement) []fumen.Page {
	first := fumen.Page{Field: page.Field.EmptyField(), Garbage: page.Garbage}
	if len(ops) == 0 {
		return []fumen.Page{first}
	}

	pages := make([]fumen.Page, len(ops))
	for i := range ops {
		pages[i].Operation = &ops[i]
	}
	pages[0].Field, pages[0].Garbage = first.Field, first.Garbage
	return pages
}

func (r *Runner) assemble(_ context.Context, it *Item) {
	pages, err := fumen.Decode(it.Input)
	if err != nil {
		r.fail(it, err)
		return
	}

	var ops []board.Placement
	for i, page := range pages {
		if page.Operation == nil {
			r.warn(it, "skipped page %d with no operation", i)
			continue
		}
		ops = append(ops, *page.Operation)
	}

	a := assembler.New(&assembler.Options{
		KeepClearedRows: r.KeepClearedRows,
		Logger:          r.logger(),
	})
	res, err := a.Assemble(pages[0].Field, ops)
	if err != nil {
		r.fail(it, err)
		return
	}
	for _, o := range res.Overlaps {
		it.Warnings = append(it.Warnings, o.String())
	}

	doc, err := fumen.Encode([]fumen.Page{{Field: res.Board, Garbage: pages[0].Garbage}})
	if err != nil {
		r.fail(it, err)
		return
	}
	it.Outputs = []string{doc}
}

func mustEncode(pages []fumen.Page) string {
	doc, err := fumen.Encode(pages)
	if err != nil {
		panic("batch: " + err.Error())
	}
	return doc
}
