package console

import (
	"context"
	"fmt"
	"os"
)

func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout, "Password: ")
	if err != nil {
		return err
	}

	result, err := a.auth.Login(ctx, username, password, false)
	if err != nil {
		printlnFn("Login failed:", err)
		return err
	}
	if !result.Success {
		printlnFn(result.Error)
		return nil
	}
	printlnFn("Logged in as", result.User.Identifier)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err)
		return err
	}
	printlnFn("Logged out")
	return nil
}

func (a *App) Orders(ctx context.Context) error {
	list, err := a.orders.PublicOrders(ctx)
	if err != nil {
		printlnFn("Failed to read orders:", err)
		return err
	}
	if len(list) == 0 {
		printlnFn("No orders")
		return nil
	}
	for _, o := range list {
		printlnFn(fmt.Sprintf("%-24s %-18s %-12s %-10s %s",
			o.ID, o.OrderNumber, o.Status, o.TotalFormatted, o.Customer.Email))
	}
	return nil
}

// orderID resolves the order id from args or an interactive prompt.
func (a *App) orderID(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return GetSimpleText(a.reader, "Order ID", os.Stdout)
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.orderID(args)
	if err != nil {
		return err
	}

	full, err := a.orders.FullOrder(ctx, id, a.session(ctx))
	if err != nil {
		printlnFn("Failed to read order:", err)
		return err
	}
	if full == nil {
		printlnFn("No such order (or not logged in as admin)")
		return nil
	}

	printlnFn("Order:   ", full.OrderNumber, "("+full.ID+")")
	printlnFn("Status:  ", full.Status, "/", full.PaymentStatus)
	printlnFn("Customer:", full.Customer.Name, "<"+full.Customer.Email+">", full.Customer.Phone)
	if full.DeliveryAddress != nil {
		printlnFn("Ship to: ", full.DeliveryAddress.Street+",",
			full.DeliveryAddress.City+",", full.DeliveryAddress.State, full.DeliveryAddress.Zip)
	}
	for _, it := range full.Items {
		printlnFn(fmt.Sprintf("  %dx %s  %s", it.Quantity, it.Name, it.SubtotalFormatted))
	}
	printlnFn("Total:   ", full.TotalFormatted)
	if full.PaymentData != nil {
		printlnFn("Card:     **** **** ****", full.PaymentData.LastFour)
	}
	if full.Notes != "" {
		printlnFn("Notes:   ", full.Notes)
	}
	return nil
}

func (a *App) Reveal(ctx context.Context, args []string) error {
	id, err := a.orderID(args)
	if err != nil {
		return err
	}
	field := "card"
	if len(args) > 1 {
		field = args[1]
	}

	value := a.orders.DecryptPaymentField(ctx, id, field, a.session(ctx))
	printlnFn(field+":", value)
	return nil
}

func (a *App) Clear(ctx context.Context, args []string) error {
	id, err := a.orderID(args)
	if err != nil {
		return err
	}
	if err := a.orders.ClearPaymentData(ctx, id, a.session(ctx)); err != nil {
		printlnFn("Failed to clear payment data:", err)
		return err
	}
	printlnFn("Payment data cleared for", id)
	return nil
}

func (a *App) Status(ctx context.Context, args []string) error {
	id, err := a.orderID(args)
	if err != nil {
		return err
	}
	var status string
	if len(args) > 1 {
		status = args[1]
	} else {
		if status, err = GetSimpleText(a.reader, "New status", os.Stdout); err != nil {
			return err
		}
	}

	updated, err := a.orders.UpdateOrderStatus(ctx, id, status, nil)
	if err != nil {
		printlnFn("Failed to update status:", err)
		return err
	}
	printlnFn("Order", updated.OrderNumber, "is now", updated.Status)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.orderID(args)
	if err != nil {
		return err
	}
	if err := a.orders.DeleteOrder(ctx, id, a.session(ctx)); err != nil {
		printlnFn("Failed to delete order:", err)
		return err
	}
	printlnFn("Deleted", id)
	return nil
}

func (a *App) Passwd(ctx context.Context) error {
	current, err := GetPassword(os.Stdout, "Current password: ")
	if err != nil {
		return err
	}
	next, err := GetPassword(os.Stdout, "New password: ")
	if err != nil {
		return err
	}

	if err := a.auth.UpdatePassword(ctx, current, next); err != nil {
		printlnFn("Failed to update password:", err)
		return err
	}
	printlnFn("Password updated")
	return nil
}
