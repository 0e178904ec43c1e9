package cli

import (
	"context"
	"fmt"
)

// Stats prints the aggregated invoice figures for the current user.
func (a *App) Stats(ctx context.Context) error {
	stats, err := a.manager.UserStats(ctx)
	if err != nil {
		fmt.Printf("Could not load statistics: %s\n", err.Error())
		return err
	}

	fmt.Printf("Invoices: %d (pending %d, paid %d)\n",
		stats.TotalInvoices, stats.PendingInvoices, stats.PaidInvoices)
	fmt.Printf("Revenue:  %.2f\n", stats.TotalRevenue)
	return nil
}
