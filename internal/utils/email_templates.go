package utils

import (
	"fmt"
	"html"

	"boutique_back_end/internal/models"
)

// GenerateOrderConfirmationHTML génère le HTML de confirmation de commande
func GenerateOrderConfirmationHTML(order models.Order, lines []models.OrderLine) string {
	itemsHTML := ""
	for _, line := range lines {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td style="padding: 10px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%d</td>
			</tr>`, html.EscapeString(line.Name), html.EscapeString(line.Size), line.Quantity)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmation de votre commande n°%d</h2>
		<p>Bonjour %s,</p>
		<p>Votre commande a été enregistrée avec succès.</p>

		<h3>Détails de la commande</h3>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Produit</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Taille</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Quantité</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
			<tfoot>
				<tr>
					<td colspan="2" style="padding: 10px; text-align: right; font-weight: bold;">Total:</td>
					<td style="padding: 10px; font-weight: bold;">%.2f€</td>
				</tr>
			</tfoot>
		</table>

		<p>Adresse de livraison : %s</p>

		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe de la boutique</strong>
		</p>
	</div>
</body>
</html>`, order.ID, html.EscapeString(order.Prenom), itemsHTML, order.Price, html.EscapeString(order.Address))
}

// GenerateWelcomeHTML génère le mail de bienvenue envoyé à l'inscription
func GenerateWelcomeHTML(firstName string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 30px; border-radius: 10px;">
		<h2 style="color: #333;">🎉 Bienvenue, %s !</h2>
		<p>Merci de vous être inscrit sur notre boutique en ligne. 🛍️</p>
		<p>Découvrez dès maintenant notre sélection de produits.</p>
		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe de la boutique</strong>
		</p>
	</div>
</body>
</html>`, html.EscapeString(firstName))
}

// GenerateContactHTML met en forme un message du formulaire de contact
func GenerateContactHTML(name, email, message string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<h3>Nouveau message de contact</h3>
	<p><strong>Nom :</strong> %s</p>
	<p><strong>Email :</strong> %s</p>
	<p><strong>Message :</strong></p>
	<blockquote style="border-left: 3px solid #ccc; padding-left: 10px; color: #333;">%s</blockquote>
</body>
</html>`, html.EscapeString(name), html.EscapeString(email), html.EscapeString(message))
}
