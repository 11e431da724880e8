package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/astmove/pkg/diff"
	"github.com/Sumatoshi-tech/astmove/pkg/tree"
)

const (
	formatTable = "table"
	formatYAML  = "yaml"
	formatJSON  = "json"
	yamlIndent  = 2
)

// ErrUnknownFormat is returned for an output format other than table, yaml or json.
var ErrUnknownFormat = errors.New("unknown output format")

// Endpoint is one side of a mapping.
type Endpoint struct {
	Type  string `json:"type"            yaml:"type"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Start int    `json:"start"           yaml:"start"`
	End   int    `json:"end"             yaml:"end"`
}

// MappingRow is one mapping of a file pair.
type MappingRow struct {
	Src Endpoint `json:"src" yaml:"src"`
	Dst Endpoint `json:"dst" yaml:"dst"`
}

// FileReport lists the mappings of one file pair.
type FileReport struct {
	Pair     diff.FilePair `json:"pair"               yaml:"pair"`
	Moved    bool          `json:"moved,omitempty"    yaml:"moved,omitempty"`
	MovedOut int           `json:"moved_out,omitempty" yaml:"moved_out,omitempty"`
	MovedIn  int           `json:"moved_in,omitempty"  yaml:"moved_in,omitempty"`
	Mappings []MappingRow  `json:"mappings"           yaml:"mappings"`
}

// Report is the output of the match command.
type Report struct {
	Files []FileReport `json:"files" yaml:"files"`
}

func newReport(project *diff.ProjectDiff) Report {
	report := Report{Files: make([]FileReport, 0, len(project.Diffs)+len(project.MoveDiffs))}

	for _, existing := range project.Diffs {
		report.Files = append(report.Files, newFileReport(existing, false))
	}

	for _, synthesized := range project.MoveDiffs {
		report.Files = append(report.Files, newFileReport(synthesized, true))
	}

	return report
}

func newFileReport(d *diff.ASTDiff, moved bool) FileReport {
	mappings := d.Store.Mappings()
	file := FileReport{Pair: d.FilePair(), Moved: moved, Mappings: make([]MappingRow, 0, len(mappings))}

	if d.Classification != nil {
		file.MovedOut = len(d.Classification.MovedOut)
		file.MovedIn = len(d.Classification.MovedIn)
	}

	for _, m := range mappings {
		file.Mappings = append(file.Mappings, MappingRow{Src: endpoint(m.Src), Dst: endpoint(m.Dst)})
	}

	return file
}

func endpoint(n *tree.Node) Endpoint {
	return Endpoint{Type: string(n.Type), Label: n.Label, Start: n.Pos.Start, End: n.Pos.End}
}

// Total returns the number of mappings over all files.
func (report Report) Total() int {
	total := 0

	for _, file := range report.Files {
		total += len(file.Mappings)
	}

	return total
}

func render(out io.Writer, format string, report Report) error {
	switch format {
	case formatTable, "":
		renderTable(out, report)

		return nil
	case formatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(yamlIndent)

		err := enc.Encode(report)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		err := enc.Encode(report)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderTable(out io.Writer, report Report) {
	for _, file := range report.Files {
		tbl := table.NewWriter()
		tbl.SetOutputMirror(out)
		tbl.SetStyle(table.StyleLight)
		tbl.SetTitle(title(file))
		tbl.AppendHeader(table.Row{"Src type", "Src label", "Src range", "Dst type", "Dst label", "Dst range"})

		for _, row := range file.Mappings {
			tbl.AppendRow(table.Row{
				row.Src.Type, row.Src.Label, span(row.Src),
				row.Dst.Type, row.Dst.Label, span(row.Dst),
			})
		}

		tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %s mappings", humanize.Comma(int64(len(file.Mappings))))})
		tbl.Render()
	}

	summary := color.New(color.FgGreen)
	if report.Total() == 0 {
		summary = color.New(color.FgYellow)
	}

	summary.Fprintf(out, "%s mappings across %s file pairs\n", //nolint:errcheck // terminal output
		humanize.Comma(int64(report.Total())), humanize.Comma(int64(len(report.Files))))
}

func title(file FileReport) string {
	text := file.Pair.Src + " -> " + file.Pair.Dst
	if file.Moved {
		text += " (moved)"
	}

	if file.MovedOut > 0 || file.MovedIn > 0 {
		text += fmt.Sprintf(" [out %d, in %d]", file.MovedOut, file.MovedIn)
	}

	return text
}

func span(e Endpoint) string {
	return fmt.Sprintf("%d-%d", e.Start, e.End)
}
