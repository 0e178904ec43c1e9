package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/shutterpro/internal/client/client"
	"github.com/dmitrijs2005/shutterpro/internal/client/models"
	"github.com/dmitrijs2005/shutterpro/internal/common"
	"github.com/google/uuid"
)

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

// List prints the invoices belonging to the current user.
func (a *App) List(ctx context.Context) error {
	cur := a.manager.CurrentUser()
	if cur == nil {
		fmt.Println("Not logged in")
		return nil
	}

	all, err := a.invoices.GetAll(ctx)
	if err != nil {
		fmt.Printf("Could not load invoices: %s\n", err.Error())
		return err
	}

	n := 0
	for _, inv := range all {
		if inv.UserID != cur.UserID {
			continue
		}
		fmt.Printf("%s  %-20s %10s  %s\n", inv.ID, inv.Client, inv.Total, inv.Status)
		n++
	}
	if n == 0 {
		fmt.Println("No invoices yet")
	}
	return nil
}

// AddInvoice records a new invoice locally.
func (a *App) AddInvoice(ctx context.Context) error {
	cur := a.manager.CurrentUser()
	if cur == nil {
		fmt.Println("Not logged in")
		return nil
	}

	clientName, err := getSimpleText(a.reader, "Client name", os.Stdout)
	if err != nil {
		return err
	}
	total, err := getSimpleText(a.reader, "Total amount", os.Stdout)
	if err != nil {
		return err
	}

	inv := &models.Invoice{
		ID:        uuid.NewString(),
		UserID:    cur.UserID,
		Client:    clientName,
		Total:     total,
		Status:    models.InvoiceStatusPending,
		CreatedAt: time.Now(),
	}
	if err := a.invoices.Add(ctx, inv); err != nil {
		fmt.Printf("Could not save invoice: %s\n", err.Error())
		return err
	}

	fmt.Printf("Invoice %s created\n", inv.ID)
	return nil
}

// SendInvoice emails an invoice to a client through the server, optionally
// attaching a PDF from disk.
func (a *App) SendInvoice(ctx context.Context) error {
	cur := a.manager.CurrentUser()
	if cur == nil {
		fmt.Println("Not logged in")
		return nil
	}

	to, err := getSimpleText(a.reader, "Recipient email", os.Stdout)
	if err != nil {
		return err
	}
	number, err := getSimpleText(a.reader, "Invoice number", os.Stdout)
	if err != nil {
		return err
	}
	message, err := getSimpleText(a.reader, "Message", os.Stdout)
	if err != nil {
		return err
	}
	pdfPath, err := getSimpleText(a.reader, "PDF path (empty to skip)", os.Stdout)
	if err != nil {
		return err
	}

	req := client.SendInvoiceRequest{
		To:            to,
		Subject:       fmt.Sprintf("Invoice %s from %s", number, cur.Company),
		Message:       message,
		InvoiceNumber: number,
	}
	if pdfPath != "" {
		pdf, err := readFile(pdfPath)
		if err != nil {
			fmt.Printf("Could not read PDF: %s\n", err.Error())
			return err
		}
		req.PDFBase64 = base64.StdEncoding.EncodeToString(pdf)
	}

	if err := a.api.SendInvoice(ctx, req); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			fmt.Println("Session with the server expired, please log in again")
			return err
		}
		fmt.Printf("Sending failed: %s\n", err.Error())
		return err
	}

	fmt.Println("Invoice sent")
	return nil
}
