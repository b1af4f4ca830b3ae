package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fwconv/internal/fixedwidth"
	"fwconv/internal/journal"
	"fwconv/internal/layout"
	"fwconv/internal/logging"
	"fwconv/internal/sheet"
)

const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	var layoutPath string
	var format string
	var sheetName string
	var terminator string

	cmd := &cobra.Command{
		Use:   "parse SOURCE TARGET",
		Short: "Convert a fixed-width file into delimited rows",
		Long: `Slice every line of SOURCE on the layout's column widths and write the
trimmed fields to TARGET.

Lines end at "\n", "\r\n", "\r" or the configured line terminator
(--terminator, else output.line_terminator). The default csv format joins fields with commas without quoting, using the
layout's delimited encoding. The xlsx format writes one spreadsheet row per
line with every cell stored as text.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != formatCSV && format != formatXLSX {
				return fmt.Errorf("--format: unsupported value %q (expected csv or xlsx)", format)
			}
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
			source, target := args[0], args[1]

			rec, err := ctx.beginRun(cmd, journal.Run{
				Command:    "parse",
				LayoutPath: layoutPath,
				SourcePath: source,
				TargetPath: target,
			})
			if err != nil {
				return err
			}

			parser := fixedwidth.NewParser(l, rec.logger)
			var stats fixedwidth.ParseStats
			if format == formatXLSX {
				stats, err = parseToWorkbook(rec.ctx, parser, source, target, sheetName, rec.logger)
			} else {
				stats, err = parser.ParseFile(rec.ctx, source, target)
			}
			if err := rec.finish(stats.Lines, err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Parsed %d line(s) into %s\n", stats.Lines, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&layoutPath, "layout", "l", "", "Layout file (JSON)")
	cmd.Flags().StringVarP(&format, "format", "f", formatCSV, "Output format: csv or xlsx")
	cmd.Flags().StringVar(&sheetName, "sheet", sheet.DefaultSheetName, "Worksheet name for xlsx output")
	cmd.Flags().StringVar(&terminator, "terminator", "", `Extra line terminator to split on, escapes such as "\r\n" allowed (default from config)`)
	_ = cmd.MarkFlagRequired("layout")
	return cmd
}

func parseToWorkbook(ctx context.Context, parser *fixedwidth.Parser, source, target, sheetName string, logger *slog.Logger) (stats fixedwidth.ParseStats, err error) {
	in, err := os.Open(source)
	if err != nil {
		return stats, &fixedwidth.IOError{Op: "open source", Path: source, Err: err}
	}
	defer in.Close()

	sink, err := sheet.NewWorkbookSink(target, sheetName)
	if err != nil {
		return stats, err
	}
	stats, err = parser.ParseTo(ctx, in, sink)
	var ioErr *fixedwidth.IOError
	if errors.As(err, &ioErr) && ioErr.Path == "" {
		ioErr.Path = source
	}
	if closeErr := sink.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		logger.Debug("workbook saved", logging.String("target", target), logging.Int("rows", sink.Rows()))
	}
	return stats, err
}
