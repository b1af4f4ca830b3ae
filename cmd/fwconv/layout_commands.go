package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fwconv/internal/layout"
	"fwconv/internal/textenc"
)

func newLayoutCommand() *cobra.Command {
	layoutCmd := &cobra.Command{
		Use:         "layout",
		Short:       "Inspect layout files",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}

	layoutCmd.AddCommand(newLayoutValidateCommand())
	layoutCmd.AddCommand(newLayoutShowCommand())

	return layoutCmd
}

func newLayoutValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate LAYOUT",
		Short: "Check a layout file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := layout.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Layout valid: %d column(s), %d characters per line\n",
				len(l.Columns()), l.LineWidth())
			return nil
		},
	}
}

type layoutView struct {
	Columns            []layout.Span `json:"columns"`
	LineWidth          int           `json:"line_width"`
	IncludeHeader      bool          `json:"include_header"`
	HeaderFlag         string        `json:"header_flag"`
	FixedWidthEncoding string        `json:"fixed_width_encoding"`
	DelimitedEncoding  string        `json:"delimited_encoding"`
}

func newLayoutShowCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show LAYOUT",
		Short: "Print the columns and settings of a layout file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := layout.Load(args[0])
			if err != nil {
				return err
			}
			settings := l.Settings()
			view := layoutView{
				Columns:            l.Spans(),
				LineWidth:          l.LineWidth(),
				IncludeHeader:      settings.IncludeHeader,
				HeaderFlag:         settings.HeaderFlag,
				FixedWidthEncoding: textenc.Canonical(settings.FixedWidthEncoding),
				DelimitedEncoding:  textenc.Canonical(settings.DelimitedEncoding),
			}
			if jsonOutput {
				return writeJSON(cmd, view)
			}

			rows := make([][]string, 0, len(view.Columns))
			for i, span := range view.Columns {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					span.Name,
					strconv.Itoa(span.Width),
					strconv.Itoa(span.Start),
					strconv.Itoa(span.End),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Column", "Width", "Start", "End"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight},
			))
			fmt.Fprintf(out, "Line width: %d\n", view.LineWidth)
			fmt.Fprintf(out, "Header: %s (%q)\n", yesNo(view.IncludeHeader), view.HeaderFlag)
			fmt.Fprintf(out, "Fixed-width encoding: %s\n", view.FixedWidthEncoding)
			fmt.Fprintf(out, "Delimited encoding: %s\n", view.DelimitedEncoding)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
