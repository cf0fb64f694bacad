package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", outputTable, "output format: table, json or yaml")
}

// printer writes either a table or the raw value as json/yaml
type printer struct {
	format string
	out    io.Writer
}

func newPrinter(cmd *cobra.Command) (*printer, error) {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case outputTable, outputJSON, outputYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	return &printer{format: format, out: os.Stdout}, nil
}

// Print encodes v unless the table format is used, then table is called instead
func (p *printer) Print(v interface{}, table func(w io.Writer)) error {
	switch p.format {
	case outputJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	w := tabwriter.NewWriter(p.out, 0, 0, 3, ' ', 0)
	table(w)
	return w.Flush()
}
