package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ecowallet/internal/core"
	"ecowallet/internal/shoplist"
)

func newShopCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "shop",
		Aliases: []string{"shopping"},
		Short:   "Work with the shared shopping list",
	}
	cmd.AddCommand(
		newShopListCommand(app),
		newShopAddCommand(app),
		newShopToggleCommand(app),
		newShopQuantityCommand(app),
		newShopRemoveCommand(app),
		newShopClearCommand(app),
		newShopCheckoutCommand(app),
	)
	return cmd
}

func (a *App) shoppingList(ctx context.Context) *shoplist.List {
	l := shoplist.New(a.Client, a.Session.UserName)
	l.Reload(ctx)
	return l
}

func newShopListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the shopping list",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			l := app.shoppingList(cmd.Context())
			printShopping(cmd.OutOrStdout(), l.Items())
			toBuy, bought := l.Counts()
			fmt.Fprintf(cmd.OutOrStdout(), "%d to buy, %d in the cart\n", toBuy, bought)
		},
	}
}

func newShopAddCommand(app *App) *cobra.Command {
	var quantity int
	var category string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add an item to the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := app.shoppingList(cmd.Context())
			item, err := l.Add(cmd.Context(), args[0], quantity, category)
			if err != nil {
				if item.ID != "" {
					offlineNotice(cmd.ErrOrStderr(), err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s x%d\n", item.Name, item.Quantity)
			return nil
		},
	}

	cmd.Flags().IntVarP(&quantity, "qty", "q", core.DefaultShoppingQuantity, "quantity")
	cmd.Flags().StringVarP(&category, "category", "c", core.DefaultShoppingCategory, "category")
	return cmd
}

func newShopToggleCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ITEM",
		Short: "Mark an item bought or not bought (by position or id)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := app.shoppingList(cmd.Context())
			id, err := resolveItem(l.Items(), args[0])
			if err != nil {
				return err
			}
			item, err := l.Toggle(cmd.Context(), id)
			if err != nil {
				offlineNotice(cmd.ErrOrStderr(), err)
				return err
			}
			state := "not bought"
			if item.IsPurchased {
				state = "bought by " + item.BoughtBy
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", item.Name, state)
			return nil
		},
	}
}

func newShopQuantityCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "qty ITEM N",
		Short: "Set the quantity of an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity %q: not a number", args[1])
			}
			l := app.shoppingList(cmd.Context())
			id, err := resolveItem(l.Items(), args[0])
			if err != nil {
				return err
			}
			item, err := l.SetQuantity(cmd.Context(), id, n)
			if err != nil {
				if item.ID != "" {
					offlineNotice(cmd.ErrOrStderr(), err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s x%d\n", item.Name, item.Quantity)
			return nil
		},
	}
}

func newShopRemoveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ITEM",
		Aliases: []string{"delete"},
		Short:   "Remove an item from the list",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := app.shoppingList(cmd.Context())
			id, err := resolveItem(l.Items(), args[0])
			if err != nil {
				return err
			}
			if err := l.Remove(cmd.Context(), id); err != nil {
				offlineNotice(cmd.ErrOrStderr(), err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed")
			return nil
		},
	}
}

func newShopClearCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every bought item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.shoppingList(cmd.Context()).ClearPurchased(cmd.Context())
			if err != nil {
				offlineNotice(cmd.ErrOrStderr(), err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d items\n", n)
			return nil
		},
	}
}

func newShopCheckoutCommand(app *App) *cobra.Command {
	var total string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Record the bought items as one expense and clear them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := core.ParseAmount(total)
			if err != nil {
				return fmt.Errorf("total %q: %w", total, err)
			}
			tx, err := app.shoppingList(cmd.Context()).CompleteTrip(cmd.Context(), amt)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s\n", tx.Title, signed(tx))
			return nil
		},
	}

	cmd.Flags().StringVar(&total, "total", "", "amount paid (required)")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}
