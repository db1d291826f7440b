package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"

	"boutique_back_end/internal/config"
	"boutique_back_end/internal/models"
)

func newMailClient() (*mail.Client, error) {
	port, err := strconv.Atoi(config.Getenv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("SMTP_PORT invalide: %v", err)
	}
	return mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
}

func sender() string {
	return config.Getenv("SMTP_FROM", "noreply@boutique.example")
}

// SendMail envoie un mail HTML, avec pièce jointe PDF optionnelle
func SendMail(to, subject, htmlBody string, pdfAttachment []byte, attachmentName string) error {
	msg := mail.NewMsg()

	if err := msg.From(sender()); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader(attachmentName, bytes.NewReader(pdfAttachment))
	}

	client, err := newMailClient()
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

// SendContactEmail relaie le formulaire de contact vers la boîte de la boutique
func SendContactEmail(name, fromEmail, message string) error {
	recipient := config.Getenv("CONTACT_RECIPIENT", sender())
	subject := "📬 Nouveau message de contact de " + name

	msg := mail.NewMsg()
	if err := msg.From(sender()); err != nil {
		return err
	}
	if err := msg.To(recipient); err != nil {
		return err
	}
	if err := msg.ReplyTo(fromEmail); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, GenerateContactHTML(name, fromEmail, message))

	client, err := newMailClient()
	if err != nil {
		return err
	}

	log.Println("📤 Relais du message de contact de", fromEmail)
	return client.DialAndSend(msg)
}

// SendWelcomeEmail envoie un mail de bienvenue ; échec non bloquant côté appelant
func SendWelcomeEmail(userEmail, firstName string) error {
	return SendMail(userEmail, "🎉 Bienvenue sur la boutique !", GenerateWelcomeHTML(firstName), nil, "")
}

// SendOrderConfirmationEmail envoie la confirmation de commande avec la
// facture PDF en pièce jointe quand la génération réussit.
func SendOrderConfirmationEmail(order models.Order) error {
	lines := models.ParseArticle(order.Article)
	html := GenerateOrderConfirmationHTML(order, lines)

	pdf, err := GenerateInvoicePDF(order)
	if err != nil {
		// La facture est un bonus : la confirmation part quand même
		log.Printf("⚠️ Génération facture PDF échouée pour la commande %d : %v", order.ID, err)
		pdf = nil
	}

	subject := fmt.Sprintf("Confirmation de votre commande n°%d", order.ID)
	return SendMail(order.Email, subject, html, pdf, fmt.Sprintf("facture_%d.pdf", order.ID))
}
