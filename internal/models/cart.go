package models

// UnknownProductName est affiché quand le produit référencé n'existe plus
const UnknownProductName = "Produit inconnu"

// CartItem est la ligne persistée : une seule par couple (user, produit)
type CartItem struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	ProductID int    `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

// CartLine est la vue renvoyée au client : la ligne jointe au catalogue courant
type CartLine struct {
	ID        int     `json:"id"`
	ProductID int     `json:"productId"`
	Quantity  int     `json:"quantity"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Size      string  `json:"size"`
}

// CartTotal additionne prix × quantité sur les lignes
func CartTotal(lines []CartLine) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}
	return total
}
