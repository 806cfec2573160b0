package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/omnibridge/omnibridge/internal/archive"
	"github.com/omnibridge/omnibridge/internal/export"
)

func newReportCmd() *cobra.Command {
	var (
		contextText string
		format      string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run a cycle and export a full system report",
		Long: `Run an ingestion cycle, ask the configured advisor for a strategy, and
render the combined system report.

Examples:
  omnibridge report
  omnibridge report --context "Custody hearing preparation"
  omnibridge report --format json --output reports/latest.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := findRoot()
			if err != nil {
				return err
			}
			dbPath, err := ensureInitialized(root)
			if err != nil {
				return err
			}

			if format != "" {
				if _, ok := export.Get(format); !ok {
					return fmt.Errorf("unknown format %q; valid: %s", format, strings.Join(export.ValidFormats(), ", "))
				}
			}

			core, gcfg, err := buildCore(root)
			if err != nil {
				return err
			}

			formats := exportFormats(format, gcfg)
			if output != "" && len(formats) > 1 {
				return fmt.Errorf("--output takes a single file; pick one with --format (configured: %s)", strings.Join(formats, ", "))
			}

			report, err := core.BuildSystemReport(context.Background(), contextText)
			if err != nil {
				return err
			}

			database, err := archive.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()
			if err := archive.NewStore(database).SaveReport(report.AuditReport); err != nil {
				return err
			}

			stamp := time.Now().Format("20060102-150405")
			for _, f := range formats {
				renderer, ok := export.Get(f)
				if !ok {
					return fmt.Errorf("unknown format %q in export config; valid: %s", f, strings.Join(export.ValidFormats(), ", "))
				}

				path := output
				if path == "" {
					name := fmt.Sprintf("report-%s%s", stamp, export.Extension(f))
					path = filepath.Join(root, gcfg.Export.Dir, name)
				} else if !filepath.IsAbs(path) {
					path = filepath.Join(root, path)
				}

				if err := core.ExportReport(path, renderer); err != nil {
					return err
				}
				fmt.Printf("Report %s written to %s\n", report.ID, path)
			}
			fmt.Printf("Strategy (%s): %s\n", report.Strategy.Model, report.Strategy.Summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&contextText, "context", "", "operator context handed to the advisor")
	cmd.Flags().StringVar(&format, "format", "", "output format: markdown or json (default: configured export formats)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (defaults to the configured export dir)")

	return cmd
}
