package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"AguaPos/app/services"

	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var format, out, keyword string
	cmd := &cobra.Command{
		Use:       "report <sales|expenses>",
		Short:     "Render a report as CSV, Excel or PDF",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{services.ReportSales, services.ReportExpenses},
	}
	reportRange := rangeFlags(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", services.FormatCSV, "csv, xlsx or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, defaults to <report>.<format>")
	cmd.Flags().StringVarP(&keyword, "query", "q", "", "expense filter")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		switch format {
		case services.FormatCSV, services.FormatXLSX, services.FormatPDF:
		default:
			return fmt.Errorf("unsupported format: %s", format)
		}
		r, err := reportRange()
		if err != nil {
			return err
		}
		table, err := app.ReportsService.Table(args[0], r, keyword)
		if err != nil {
			return err
		}
		if out == "" {
			out = args[0] + "." + format
		}
		err = services.WriteOutputFile(out, func(w io.Writer) error {
			return app.ReportsService.Write(table, format, w)
		})
		if err != nil {
			return err
		}
		app.printf("Wrote %s (%d rows)\n", out, len(table.Rows))
		return nil
	}
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole state as a timestamped JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.DataService.ExportToDir(dir)
			if err != nil {
				return err
			}
			app.printf("Exported %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "destination directory")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the state with an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.DataService.ImportFile(args[0])
			if err != nil {
				return err
			}
			for _, w := range result.Warnings {
				app.printf("warning: %s\n", w)
			}
			app.printf("Imported %d products, %d presentations, %d sales, %d expenses\n",
				result.Products, result.Presentations, result.Sales, result.Expenses)
			return nil
		},
	}
}

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "backup", Short: "Scheduled backups"}

	now := &cobra.Command{
		Use:   "now",
		Short: "Write a backup and prune old ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.BackupSchedulerService.RunNow()
			if err != nil {
				return err
			}
			app.printf("Backup written to %s\n", path)
			return nil
		},
	}

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Run backups on the configured schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.BackupSchedulerService.Start(); err != nil {
				return err
			}
			status := app.BackupSchedulerService.GetStatus()
			if !status.Running {
				return fmt.Errorf("backups are disabled; set backup.enabled in %s", filepath.Join(app.cfg.DataDir(), "config.json"))
			}
			app.printf("Backing up to %s on %q, keeping %d files\n", status.Dir, status.Schedule, status.Keep)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			app.BackupSchedulerService.Stop()
			return nil
		},
	}

	cmd.AddCommand(now, watch)
	return cmd
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where data and logs live and whether a day is open",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := app.db.Keys()
			if err != nil {
				return fmt.Errorf("failed to list stored keys: %w", err)
			}
			storage := app.db.Driver()
			if path := app.db.Path(); path != "" {
				storage += " " + path
			}
			logPath := app.LoggerService.GetLogPath()
			if logPath == "" {
				logPath = "disabled"
			}
			backups := "disabled"
			if app.cfg.Backup.Enabled {
				backups = fmt.Sprintf("%q into %s, keeping %d", app.cfg.Backup.Schedule, app.cfg.Backup.Dir, app.cfg.Backup.Keep)
			}
			day := "closed"
			if app.POSService.IsActive() {
				day = fmt.Sprintf("open, %d products, total %s", len(app.POSService.Entries()), app.money(app.POSService.ComputeTotal()))
			}

			w := app.table()
			fmt.Fprintf(w, "Business\t%s\n", app.cfg.Business.Name)
			fmt.Fprintf(w, "Data directory\t%s\n", app.cfg.DataDir())
			fmt.Fprintf(w, "Storage\t%s\n", storage)
			fmt.Fprintf(w, "Stored keys\t%s\n", strings.Join(keys, ", "))
			fmt.Fprintf(w, "Log file\t%s\n", logPath)
			fmt.Fprintf(w, "Backups\t%s\n", backups)
			fmt.Fprintf(w, "Day\t%s\n", day)
			return w.Flush()
		},
	}
}
