package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fwconv/internal/config"
	"fwconv/internal/fixedwidth"
	"fwconv/internal/journal"
	"fwconv/internal/layout"
	"fwconv/internal/records"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var layoutPath string
	var inputPath string
	var outputPath string
	var terminator string
	var resetEach bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render JSON Lines records into a fixed-width file",
		Long: `Render every record of a JSON Lines file as one fixed-width line.

Records are merged into a single buffer, so a field missing from a record
keeps the value of the previous record. Pass --reset-each to start every
record from an empty buffer instead. Use "-" as --input to read stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			l, err := layout.Load(layoutPath)
			if err != nil {
				return err
			}

			if l, err = applyTerminator(cmd, l, cfg, terminator); err != nil {
				return err
			}

			in, closeIn, err := openInput(cmd, inputPath)
			if err != nil {
				return err
			}
			defer closeIn()

			rec, err := ctx.beginRun(cmd, journal.Run{
				Command:    "generate",
				LayoutPath: layoutPath,
				SourcePath: inputPath,
				TargetPath: outputPath,
			})
			if err != nil {
				return err
			}

			lines, err := generate(in, outputPath, l, resetEach,
				fixedwidth.WithLock(cfg.Output.Lock),
				fixedwidth.WithLogger(rec.logger),
			)
			if err := rec.finish(lines, err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d line(s) to %s\n", lines, outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&layoutPath, "layout", "l", "", "Layout file (JSON)")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "JSON Lines records to render")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Fixed-width file to create")
	cmd.Flags().StringVar(&terminator, "terminator", "", `Line terminator, escapes such as "\r\n" allowed (default from config)`)
	cmd.Flags().BoolVar(&resetEach, "reset-each", false, "Clear the record buffer before every record")
	_ = cmd.MarkFlagRequired("layout")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// generate streams records from in into a fixed-width file at outputPath and
// returns the number of data lines written.
func generate(in io.Reader, outputPath string, l *layout.Layout, resetEach bool, opts ...fixedwidth.WriterOption) (lines int, err error) {
	w, err := fixedwidth.Create(outputPath, l, opts...)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = errors.Join(err, w.Close())
	}()

	err = records.Each(in, func(line int, record fixedwidth.Record) error {
		if resetEach {
			w.Reset()
		}
		w.Update(record)
		if err := w.WriteLine(); err != nil {
			return fmt.Errorf("record %d: %w", line, err)
		}
		lines++
		return nil
	})
	return lines, err
}

// applyTerminator sets the line terminator from --terminator when given,
// otherwise from output.line_terminator.
func applyTerminator(cmd *cobra.Command, l *layout.Layout, cfg *config.Config, flagValue string) (*layout.Layout, error) {
	term := cfg.Output.LineTerminator
	if cmd.Flags().Changed("terminator") {
		var err error
		if term, err = config.DecodeTerminator(flagValue); err != nil {
			return nil, fmt.Errorf("--terminator: %w", err)
		}
	}
	return l.WithTerminator(term)
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &fixedwidth.IOError{Op: "open source", Path: path, Err: err}
	}
	return f, func() { _ = f.Close() }, nil
}
