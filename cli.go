package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"AguaPos/app/models"
	"AguaPos/app/services"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"
)

func newRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "aguapos",
		Short:         "Offline point of sale for water delivery",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.startup()
		},
	}

	root.AddCommand(
		newProductsCmd(app),
		newPresentationsCmd(app),
		newDayCmd(app),
		newSalesCmd(app),
		newExpensesCmd(app),
		newCategoriesCmd(app),
		newReportCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newBackupCmd(app),
		newStatusCmd(app),
	)
	return root
}

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
}

func (a *App) money(v float64) string {
	return fmt.Sprintf("%s%.2f", a.cfg.Business.CurrencySymbol, v)
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// resolveProduct accepts a product id or name
func (a *App) resolveProduct(arg string) (*models.Product, error) {
	if p, err := a.ProductService.GetProduct(arg); err == nil {
		return p, nil
	}
	return a.ProductService.FindProductByName(arg)
}

// parseCount reads a decimal CLI number; leading zeros are not octal
func parseCount(arg string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(arg))
}

// resolvePresentation accepts a presentation id or name
func (a *App) resolvePresentation(arg string) (*models.Presentation, error) {
	if id, err := parseCount(arg); err == nil {
		return a.PresentationService.GetPresentation(id)
	}
	key := strings.ToLower(strings.TrimSpace(arg))
	for _, p := range a.PresentationService.GetAllPresentations() {
		if strings.ToLower(p.Name) == key {
			found := p
			return &found, nil
		}
	}
	return nil, services.ErrPresentationNotFound
}

// resolveSessionItem finds the counter a day command targets. The catalog
// is tried first; products or presentations deleted since the day started
// are still found through the copies the open day holds.
func (a *App) resolveSessionItem(productArg, presentationArg string) (models.POSEntry, int, error) {
	entries := a.POSService.Entries()
	var entry models.POSEntry
	var ok bool
	if p, err := a.resolveProduct(productArg); err == nil {
		entry, ok = sessionEntry(entries, p.ID)
	}
	if !ok {
		entry, ok = sessionEntry(entries, productArg)
	}
	if !ok {
		return entry, 0, services.ErrItemNotFound
	}
	if presentationArg == "" {
		return entry, 0, nil
	}

	if pres, perr := a.resolvePresentation(presentationArg); perr == nil && entry.Item(pres.ID) != nil {
		return entry, pres.ID, nil
	}
	id, nerr := parseCount(presentationArg)
	key := strings.ToLower(strings.TrimSpace(presentationArg))
	for _, it := range entry.Items {
		if (nerr == nil && it.PresentationID == id) || strings.ToLower(entry.PresentationName(it.PresentationID)) == key {
			return entry, it.PresentationID, nil
		}
	}
	return entry, 0, services.ErrItemNotFound
}

func sessionEntry(entries []models.POSEntry, arg string) (models.POSEntry, bool) {
	key := strings.ToLower(strings.TrimSpace(arg))
	for _, e := range entries {
		if e.ProductID == arg || strings.ToLower(e.Name) == key {
			return e, true
		}
	}
	return models.POSEntry{}, false
}

// parseDay reads a --from/--to flag in any common date layout
func parseDay(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := dateparse.ParseLocal(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}

// rangeFlags registers --from and --to and returns a reader for them
func rangeFlags(cmd *cobra.Command) func() (services.DateRange, error) {
	var from, to string
	cmd.Flags().StringVar(&from, "from", "", "first day (inclusive)")
	cmd.Flags().StringVar(&to, "to", "", "last day (inclusive)")
	return func() (services.DateRange, error) {
		var r services.DateRange
		var err error
		if r.From, err = parseDay(from); err != nil {
			return r, err
		}
		if r.To, err = parseDay(to); err != nil {
			return r, err
		}
		if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
			return r, errors.New("--to is before --from")
		}
		return r, nil
	}
}
