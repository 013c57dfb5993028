package main

import (
	"fmt"
	"io"

	"AguaPos/app/services"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

func newSalesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "sales", Short: "Browse closed days"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List sale records, newest first",
	}
	listRange := rangeFlags(list)
	list.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := listRange()
		if err != nil {
			return err
		}
		w := app.table()
		fmt.Fprintln(w, "ID\tDATE\tLINES\tTOTAL")
		for _, s := range app.SalesService.GetSales(r) {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.ID, s.Date.Local().Format("2006-01-02 15:04"), len(s.Items), app.money(s.Total))
		}
		return w.Flush()
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the lines of a sale record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sale, err := app.SalesService.GetSale(args[0])
			if err != nil {
				return err
			}
			w := app.table()
			fmt.Fprintln(w, "PRODUCT\tPRESENTATION\tPRICE\tCOUNT\tTOTAL")
			for _, l := range sale.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", l.ProductName, l.PresentationName, app.money(l.Price), l.Count, app.money(l.Total))
			}
			fmt.Fprintf(w, "TOTAL\t\t\t\t%s\n", app.money(sale.Total))
			return w.Flush()
		},
	}

	var topN int
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Sales for today, this week and this month",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := app.DashboardService.GetDashboardStats(topN)
			w := app.table()
			fmt.Fprintf(w, "Today\t%s\n", app.money(stats.TodaySales))
			fmt.Fprintf(w, "This week\t%s\n", app.money(stats.WeekSales))
			fmt.Fprintf(w, "This month\t%s\n", app.money(stats.MonthSales))
			fmt.Fprintf(w, "All time\t%s\t(%d days)\n", app.money(stats.AllTimeSales), stats.SalesCount)
			fmt.Fprintf(w, "Expenses today\t%s\n", app.money(stats.TodayExpenses))
			fmt.Fprintf(w, "Expenses this month\t%s\n", app.money(stats.MonthExpenses))
			for i, item := range stats.TopSellingItems {
				fmt.Fprintf(w, "#%d\t%s\t%d units\t%s\n", i+1, item.ProductName, item.Quantity, app.money(item.TotalSales))
			}
			return w.Flush()
		},
	}
	summary.Flags().IntVar(&topN, "top", 5, "number of top products")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a sale record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.SalesService.DeleteSale(args[0])
		},
	}

	var csvOut string
	csvCmd := &cobra.Command{
		Use:   "csv",
		Short: "Export sale lines as CSV",
	}
	csvRange := rangeFlags(csvCmd)
	csvCmd.Flags().StringVarP(&csvOut, "out", "o", "", "output file, stdout when empty")
	csvCmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := csvRange()
		if err != nil {
			return err
		}
		if csvOut == "" {
			return app.SalesService.ExportCSV(r, app.out)
		}
		return services.WriteOutputFile(csvOut, func(w io.Writer) error {
			return app.SalesService.ExportCSV(r, w)
		})
	}

	cmd.AddCommand(list, show, summary, remove, csvCmd)
	return cmd
}

func newExpensesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "expenses", Short: "Track expenses"}

	var keyword string
	list := &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
	}
	listRange := rangeFlags(list)
	list.Flags().StringVarP(&keyword, "query", "q", "", "match description or category")
	list.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := listRange()
		if err != nil {
			return err
		}
		w := app.table()
		fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
		for _, e := range app.ExpenseService.GetExpenses(services.ExpenseFilter{Range: r, Keyword: keyword}) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Date.Local().Format("2006-01-02"), app.ExpenseService.CategoryName(e), app.money(e.Amount), e.Description)
		}
		return w.Flush()
	}

	var category, description, date string
	add := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := cast.ToFloat64E(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			cat, err := app.ExpenseService.FindCategory(category)
			if err != nil {
				return fmt.Errorf("%s: %w", category, err)
			}
			when, err := parseDay(date)
			if err != nil {
				return err
			}
			e, err := app.ExpenseService.AddExpense(services.ExpenseInput{
				CategoryID:  cat.ID,
				Amount:      amount,
				Description: description,
				Date:        when,
			})
			if err != nil {
				return err
			}
			app.printf("Recorded %s in %s (%s)\n", app.money(e.Amount), cat.Name, e.ID)
			return nil
		},
	}
	add.Flags().StringVarP(&category, "category", "c", "Otros", "category id or name")
	add.Flags().StringVarP(&description, "description", "d", "", "what it was for")
	add.Flags().StringVar(&date, "date", "", "date of the expense, now when empty")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ExpenseService.DeleteExpense(args[0])
		},
	}

	totals := &cobra.Command{
		Use:   "totals",
		Short: "Expense totals per category",
	}
	totalsRange := rangeFlags(totals)
	totals.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := totalsRange()
		if err != nil {
			return err
		}
		w := app.table()
		fmt.Fprintln(w, "CATEGORY\tCOUNT\tTOTAL")
		for _, t := range app.ExpenseService.TotalsByCategory(services.ExpenseFilter{Range: r}) {
			fmt.Fprintf(w, "%s\t%d\t%s\n", t.CategoryName, t.Count, app.money(t.Total))
		}
		return w.Flush()
	}

	cmd.AddCommand(list, add, remove, totals)
	return cmd
}

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "categories", Short: "Manage expense categories"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := app.table()
			fmt.Fprintln(w, "ID\tNAME")
			for _, c := range app.ExpenseService.GetAllCategories() {
				fmt.Fprintf(w, "%s\t%s\n", c.ID, c.Name)
			}
			return w.Flush()
		},
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.ExpenseService.CreateCategory(args[0])
			if err != nil {
				return err
			}
			app.printf("Created %s (%s)\n", c.Name, c.ID)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <id|name> <new name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.ExpenseService.FindCategory(args[0])
			if err != nil {
				return err
			}
			_, err = app.ExpenseService.RenameCategory(c.ID, args[1])
			return err
		},
	}

	remove := &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a category; its expenses keep the name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.ExpenseService.FindCategory(args[0])
			if err != nil {
				return err
			}
			return app.ExpenseService.DeleteCategory(c.ID)
		},
	}

	cmd.AddCommand(list, add, rename, remove)
	return cmd
}
