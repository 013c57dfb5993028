package main

import (
	"errors"
	"fmt"

	"AguaPos/app/services"

	"github.com/spf13/cobra"
)

func (a *App) printSession() error {
	if !a.POSService.IsActive() {
		a.printf("No day in progress\n")
		return nil
	}
	w := a.table()
	fmt.Fprintln(w, "PRODUCT\tPRESENTATION\tPRICE\tCOUNT\tSUBTOTAL")
	for _, e := range a.POSService.Entries() {
		for _, it := range e.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", e.Name, e.PresentationName(it.PresentationID),
				a.money(it.Price), it.Count, a.money(services.LineTotal(it.Price, it.Count)))
		}
		if len(e.Items) > 1 {
			fmt.Fprintf(w, "\t\t\t\t%s\n", a.money(a.POSService.EntryTotal(e.ProductID)))
		}
	}
	fmt.Fprintf(w, "TOTAL\t\t\t\t%s\n", a.money(a.POSService.ComputeTotal()))
	if err := w.Flush(); err != nil {
		return err
	}
	a.printf("Undo steps available: %d\n", a.POSService.UndoDepth())
	return nil
}

// counterCmd builds inc/dec, which share their arguments
func counterCmd(app *App, use, short string, sign int) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <product> <presentation> [n]",
		Short: short,
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, presID, err := app.resolveSessionItem(args[0], args[1])
			if err != nil {
				return err
			}
			n := 1
			if len(args) == 3 {
				if n, err = parseCount(args[2]); err != nil || n <= 0 {
					return fmt.Errorf("invalid amount %q", args[2])
				}
			}
			count, err := app.POSService.UpdateItemCount(entry.ProductID, presID, sign*n)
			if err != nil {
				return err
			}
			app.printf("%s %s: %d  (total %s)\n", entry.Name, entry.PresentationName(presID), count, app.money(app.POSService.ComputeTotal()))
			return nil
		},
	}
}

func newDayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "day", Short: "Run the daily sales session"}

	start := &cobra.Command{
		Use:   "start <product>...",
		Short: "Open a day with the selected products",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]string, 0, len(args))
			for _, arg := range args {
				p, err := app.resolveProduct(arg)
				if err != nil {
					app.LoggerService.LogWarning("Skipping unknown product", arg)
					continue
				}
				ids = append(ids, p.ID)
			}
			if _, err := app.POSService.StartSession(ids); err != nil {
				return err
			}
			return app.printSession()
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the open day and its running total",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.printSession()
		},
	}

	reset := &cobra.Command{
		Use:   "reset <product> [presentation]",
		Short: "Zero the counters of a product or one of its presentations",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			presArg := ""
			if len(args) == 2 {
				presArg = args[1]
			}
			entry, presID, err := app.resolveSessionItem(args[0], presArg)
			if err != nil {
				return err
			}
			var changed bool
			if presArg != "" {
				changed, err = app.POSService.ResetPresentationCount(entry.ProductID, presID)
			} else {
				changed, err = app.POSService.ResetProductCounts(entry.ProductID)
			}
			if err != nil {
				return err
			}
			if !changed {
				app.printf("Nothing to reset\n")
				return nil
			}
			return app.printSession()
		},
	}

	undo := &cobra.Command{
		Use:   "undo",
		Short: "Revert the last counter change",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.POSService.Undo(); err != nil {
				return err
			}
			return app.printSession()
		},
	}

	total := &cobra.Command{
		Use:   "total",
		Short: "Print the running total",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.printf("%s\n", app.money(app.POSService.ComputeTotal()))
			return nil
		},
	}

	var confirmEmpty bool
	closeCmd := &cobra.Command{
		Use:   "close",
		Short: "Close the day into a sale record",
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := app.POSService.CloseDay(services.CloseOptions{ConfirmEmpty: confirmEmpty})
			if errors.Is(err, services.ErrEmptyCloseConfirm) {
				return fmt.Errorf("%w (pass --confirm-empty)", err)
			}
			if err != nil {
				return err
			}
			if record == nil {
				app.printf("Day cleared, nothing was sold\n")
				return nil
			}
			app.printf("Day closed: %d lines, total %s (sale %s)\n", len(record.Items), app.money(record.Total), record.ID)
			return nil
		},
	}
	closeCmd.Flags().BoolVar(&confirmEmpty, "confirm-empty", false, "allow closing a day with no sales")

	cmd.AddCommand(
		start,
		show,
		counterCmd(app, "inc", "Add units to a presentation counter", 1),
		counterCmd(app, "dec", "Remove units from a presentation counter", -1),
		reset,
		undo,
		total,
		closeCmd,
	)
	return cmd
}
