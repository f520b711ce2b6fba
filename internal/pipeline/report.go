package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/forPelevin/reelcut/internal/types"
	"github.com/forPelevin/reelcut/internal/usecase"
)

// renderSummary draws one row per attempted clip.
func renderSummary(res usecase.BatchResult) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Title", "Start", "End", "Subs", "Status", "Output"})
	for _, o := range res.Outcomes {
		status, output := "ok", filepath.Base(o.OutputPath)
		if !o.Succeeded() {
			status, output = "failed", o.Err.Error()
		}
		subs := "no"
		if o.SubtitlesBurned {
			subs = "yes"
		}
		tw.AppendRow(table.Row{
			o.Clip.Index,
			o.Clip.Title,
			fmt.Sprintf("%.2f", o.Clip.Start.Seconds()),
			fmt.Sprintf("%.2f", o.Clip.End.Seconds()),
			subs,
			status,
			output,
		})
	}
	if len(res.Rejected) > 0 {
		tw.AppendFooter(table.Row{"", fmt.Sprintf("%d cut-list entries rejected", len(res.Rejected))})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 7, WidthMax: 60},
	})
	return tw.Render()
}

func writeManifest(path string, m types.Manifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
