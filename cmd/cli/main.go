package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"cardiodash/adapters/excel"
	"cardiodash/adapters/source"
	"cardiodash/domain/core"
	"cardiodash/domain/dataset"
	"cardiodash/internal"
	"cardiodash/internal/ingest"
	"cardiodash/internal/report"
	"cardiodash/internal/testkit"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cardiodash-cli",
		Short: "Heart disease dataset tools: ingest, summarize and serve source files",
	}

	rootCmd.AddCommand(
		newIngestCmd(),
		newSourcesCmd(),
		newSummaryCmd(),
		newGenerateCmd(),
		newServeDataCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newIngestCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "ingest [file]",
		Short: "Ingest a CSV or XLSX file and print the ingest report",
		Long: `Ingest a file with the remote (>= 14 columns) or upload (exactly 14 columns) rule.

Example: cardiodash-cli ingest data/processed.cleveland.csv --mode remote`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ingest.ParseMode(mode)
			if err != nil {
				return err
			}
			ds, err := ingestFile(args[0], m)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]interface{}{
				"origin":      ds.Origin(),
				"fingerprint": ds.Fingerprint(),
				"report":      ds.Report(),
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "remote", "Row width rule: remote or upload")
	return cmd
}

func newSourcesCmd() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the named data sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, e := range source.DefaultCatalog().Entries() {
				status := "missing"
				if _, err := os.Stat(filepath.Join(dataDir, e.File)); err == nil {
					status = "available"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-28s %s\n", e.Name, e.File, status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Directory holding the source files")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var (
		dataDir string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "summary [file|source]",
		Short: "Print a dataset report for a file or a named source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadTarget(cmd.Context(), args[0], dataDir)
			if err != nil {
				return err
			}
			switch format {
			case "markdown", "md":
				fmt.Fprint(cmd.OutOrStdout(), report.Markdown(ds))
				return nil
			case "json":
				return printJSON(cmd, ds)
			default:
				return fmt.Errorf("unknown format %q (use json or markdown)", format)
			}
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Directory holding the source files")
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: json or markdown")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		dataDir  string
		seed     int64
		workbook bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic catalog source files",
		Long: `Generate processed.*.csv files shaped like the three catalog sources.

Example: cardiodash-cli generate --data-dir ./data --seed 42 --xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kit, err := testkit.NewTestKit(dataDir)
			if err != nil {
				return err
			}
			files := testkit.DefaultCatalogFiles()
			for i := range files {
				files[i].Config.Seed += seed
			}
			written, err := kit.WriteCatalog(files)
			if err != nil {
				return err
			}
			for _, f := range files {
				data := written[f.File]
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows (%d valid, %d missing, %d malformed)\n",
					f.File, len(data.Rows), data.Valid, data.Missing, data.Malformed)
				if !workbook {
					continue
				}
				raw, err := testkit.Workbook(data)
				if err != nil {
					return err
				}
				name := f.File[:len(f.File)-len(filepath.Ext(f.File))] + ".xlsx"
				if err := os.WriteFile(filepath.Join(kit.Dir(), name), raw, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", name, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Output directory")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Offset added to each source's generator seed")
	cmd.Flags().BoolVar(&workbook, "xlsx", false, "Also write an .xlsx copy of each file")
	return cmd
}

func newServeDataCmd() *cobra.Command {
	var (
		dataDir string
		port    string
	)

	cmd := &cobra.Command{
		Use:   "serve-data",
		Short: "Serve the catalog files over HTTP for DATA_BASE_URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           source.NewCatalogServer(dataDir, source.DefaultCatalog()),
				ReadHeaderTimeout: 10 * time.Second,
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on :%s\n", dataDir, port)
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Directory holding the source files")
	cmd.Flags().StringVar(&port, "port", "8090", "Listen port")
	return cmd
}

// loadTarget treats a catalog name as a source under dataDir and anything else as a file path
func loadTarget(ctx context.Context, target, dataDir string) (*dataset.Dataset, error) {
	catalog := source.DefaultCatalog()
	name, err := core.ParseSourceName(target)
	if err != nil {
		return nil, err
	}
	if canonical, err := catalog.Resolve(name); err == nil {
		if ctx == nil {
			ctx = context.Background()
		}
		raw, err := source.NewDirFetcher(dataDir, catalog, nil).Fetch(ctx, canonical)
		if err != nil {
			return nil, err
		}
		return ingest.NewProcessor(internal.NewNopLogger()).Ingest(raw, ingest.Options{
			Mode:   ingest.ModeRemote,
			Origin: dataset.SourceOrigin(canonical),
		})
	}
	return ingestFile(target, ingest.ModeRemote)
}

func ingestFile(path string, mode ingest.Mode) (*dataset.Dataset, error) {
	reader := excel.NewDataReader(path)
	raw, err := reader.ReadBytes()
	if err != nil {
		return nil, err
	}
	return ingest.NewProcessor(internal.NewNopLogger()).IngestFormat(raw, reader.Format(), ingest.Options{
		Mode:   mode,
		Origin: dataset.UploadOrigin(filepath.Base(path), string(reader.Format())),
	})
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
