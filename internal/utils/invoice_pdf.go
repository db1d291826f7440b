package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"

	"boutique_back_end/internal/config"
	"boutique_back_end/internal/models"
)

// GenerateSepaQR génère un QR SEPA (EPC) en base64 prêt à mettre dans <img src="...">
func GenerateSepaQR(iban, bic, name, ref string, amount float64) (string, error) {
	// format EPC basique
	sepa := fmt.Sprintf(`BCD
001
1
SCT
%s
%s
%s
EUR%.2f
%s`, bic, name, iban, amount, ref)

	png, err := qrcode.Encode(sepa, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// RenderInvoicePDF charge la page facture du front côté serveur et l'imprime en PDF
func RenderInvoicePDF(frontendURL, orderID, qrBase64 string) ([]byte, error) {
	q := url.Values{}
	q.Set("id", orderID)
	q.Set("qr", qrBase64)
	fullURL := fmt.Sprintf("%s?%s", frontendURL, q.Encode())

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	// timeout pour éviter de bloquer
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate(fullURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}

// GenerateInvoicePDF assemble QR de virement + rendu de la page facture
func GenerateInvoicePDF(order models.Order) ([]byte, error) {
	iban := config.Getenv("COMPANY_IBAN", "BE12345678901234")
	bic := config.Getenv("COMPANY_BIC", "KREDBEBB")
	companyName := config.Getenv("COMPANY_NAME", "La Boutique SRL")
	ref := fmt.Sprintf("FACT-%d", order.ID)

	qrBase64, err := GenerateSepaQR(iban, bic, companyName, ref, order.Price)
	if err != nil {
		return nil, fmt.Errorf("erreur génération QR: %v", err)
	}

	frontURL := frontendInvoiceBaseURL()
	return RenderInvoicePDF(frontURL, strconv.Itoa(order.ID), qrBase64)
}

// frontendInvoiceBaseURL récupère l'URL de la page facture du front
func frontendInvoiceBaseURL() string {
	u := os.Getenv("FRONTEND_INVOICE_URL")
	if u == "" {
		// fallback local dev
		return "http://localhost:3000/invoice"
	}
	return u
}
