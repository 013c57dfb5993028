package main

import (
	"fmt"
	"strings"

	"AguaPos/app/services"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

// parseChoices reads --presentation values of the form "id", "name",
// "id=price" or "name=price"
func (a *App) parseChoices(values []string) ([]services.PresentationChoice, error) {
	choices := make([]services.PresentationChoice, 0, len(values))
	for _, v := range values {
		ref, priceStr, hasPrice := strings.Cut(v, "=")
		p, err := a.resolvePresentation(ref)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
		choice := services.PresentationChoice{PresentationID: p.ID}
		if hasPrice {
			price, err := cast.ToFloat64E(strings.TrimSpace(priceStr))
			if err != nil {
				return nil, fmt.Errorf("invalid price %q: %w", priceStr, err)
			}
			choice.Price = &price
		}
		choices = append(choices, choice)
	}
	return choices, nil
}

func newProductsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Manage the product catalog"}

	list := &cobra.Command{
		Use:   "list [query]",
		Short: "List products with their current prices",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			products := app.ProductService.GetAllProducts()
			if len(args) == 1 {
				products = app.ProductService.SearchProducts(args[0])
			}
			w := app.table()
			fmt.Fprintln(w, "ID\tNAME\tPRICE/L\tPRESENTATIONS")
			for _, p := range products {
				prices := app.ProductService.DisplayPrices(p)
				var parts []string
				for _, pp := range p.Presentations {
					part := fmt.Sprintf("%s %s", pp.Name, app.money(prices[pp.PresentationID]))
					if pp.Price != nil {
						part += "*"
					}
					parts = append(parts, part)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, app.money(p.PricePerLiter), strings.Join(parts, ", "))
			}
			return w.Flush()
		},
	}

	var input services.ProductInput
	var presentations []string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			choices, err := app.parseChoices(presentations)
			if err != nil {
				return err
			}
			input.Name = args[0]
			input.Presentations = choices
			p, err := app.ProductService.CreateProduct(input)
			if err != nil {
				return err
			}
			app.printf("Created %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
	add.Flags().Float64Var(&input.PricePerLiter, "price-per-liter", 0, "price per liter")
	add.Flags().StringVar(&input.Color, "color", "", "display color, derived from the name when empty")
	add.Flags().StringSliceVarP(&presentations, "presentation", "p", []string{"1", "2"}, "presentation id or name, optionally =price")

	var updName, updColor string
	var updPrice float64
	var updPresentations []string
	update := &cobra.Command{
		Use:   "update <id|name>",
		Short: "Edit a product; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.resolveProduct(args[0])
			if err != nil {
				return err
			}
			in := services.ProductInput{Name: p.Name, PricePerLiter: p.PricePerLiter, Color: p.Color}
			for _, pp := range p.Presentations {
				in.Presentations = append(in.Presentations, services.PresentationChoice{PresentationID: pp.PresentationID, Price: pp.Price})
			}
			if cmd.Flags().Changed("name") {
				in.Name = updName
			}
			if cmd.Flags().Changed("price-per-liter") {
				in.PricePerLiter = updPrice
			}
			if cmd.Flags().Changed("color") {
				in.Color = updColor
			}
			if cmd.Flags().Changed("presentation") {
				if in.Presentations, err = app.parseChoices(updPresentations); err != nil {
					return err
				}
			}
			if _, err := app.ProductService.UpdateProduct(p.ID, in); err != nil {
				return err
			}
			app.printf("Updated %s\n", in.Name)
			return nil
		},
	}
	update.Flags().StringVar(&updName, "name", "", "new name")
	update.Flags().Float64Var(&updPrice, "price-per-liter", 0, "price per liter")
	update.Flags().StringVar(&updColor, "color", "", "display color")
	update.Flags().StringSliceVarP(&updPresentations, "presentation", "p", nil, "presentation id or name, optionally =price")

	remove := &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.resolveProduct(args[0])
			if err != nil {
				return err
			}
			if err := app.ProductService.DeleteProduct(p.ID); err != nil {
				return err
			}
			app.printf("Deleted %s\n", p.Name)
			return nil
		},
	}

	cmd.AddCommand(list, add, update, remove)
	return cmd
}

func newPresentationsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "presentations", Short: "Manage package sizes"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List presentations",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := app.table()
			fmt.Fprintln(w, "ID\tNAME\tLITERS\tPRODUCTS\tPROTECTED")
			for _, p := range app.PresentationService.GetAllPresentations() {
				fmt.Fprintf(w, "%d\t%s\t%g\t%d\t%t\n", p.ID, p.Name, p.Volume, app.PresentationService.CountProductsUsing(p.ID), p.IsProtected)
			}
			return w.Flush()
		},
	}

	add := &cobra.Command{
		Use:   "add <name> <liters>",
		Short: "Add a presentation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			volume, err := cast.ToFloat64E(args[1])
			if err != nil {
				return fmt.Errorf("invalid volume %q", args[1])
			}
			p, err := app.PresentationService.CreatePresentation(args[0], volume)
			if err != nil {
				return err
			}
			app.printf("Created %s (id %d)\n", p.Name, p.ID)
			return nil
		},
	}

	update := &cobra.Command{
		Use:   "update <id|name> <new name> <liters>",
		Short: "Rename or resize a presentation in every product using it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.resolvePresentation(args[0])
			if err != nil {
				return err
			}
			volume, err := cast.ToFloat64E(args[2])
			if err != nil {
				return fmt.Errorf("invalid volume %q", args[2])
			}
			if _, err := app.PresentationService.UpdatePresentation(p.ID, args[1], volume); err != nil {
				return err
			}
			app.printf("Updated %s in %d products\n", args[1], app.PresentationService.CountProductsUsing(p.ID))
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a presentation and drop it from every product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.resolvePresentation(args[0])
			if err != nil {
				return err
			}
			used := app.PresentationService.CountProductsUsing(p.ID)
			if err := app.PresentationService.DeletePresentation(p.ID); err != nil {
				return err
			}
			app.printf("Deleted %s, removed from %d products\n", p.Name, used)
			return nil
		},
	}

	cmd.AddCommand(list, add, update, remove)
	return cmd
}
