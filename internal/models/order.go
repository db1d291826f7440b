package models

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Order est un instantané immuable : aucune opération de mise à jour n'existe
type Order struct {
	ID           int       `json:"id"`
	IDUser       *int      `json:"id_user,omitempty"`
	Nom          string    `json:"nom"`
	Prenom       string    `json:"prenom"`
	Email        string    `json:"email"`
	Address      string    `json:"address"`
	Article      string    `json:"article"`
	Price        float64   `json:"price"`
	DateCommande time.Time `json:"date_commande"`
}

// Status est un libellé d'affichage dérivé du temps écoulé, jamais persisté
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
)

// DeriveStatus est une fonction pure de (date_commande, now).
// Seuils : 1 jour, 3 jours, 5 jours.
func DeriveStatus(dateCommande, now time.Time) Status {
	elapsed := now.Sub(dateCommande)
	switch {
	case elapsed < 24*time.Hour:
		return StatusPending
	case elapsed < 72*time.Hour:
		return StatusPreparing
	case elapsed < 120*time.Hour:
		return StatusShipped
	default:
		return StatusDelivered
	}
}

// Status dérive le statut d'affichage à l'instant donné
func (o Order) Status(now time.Time) Status {
	return DeriveStatus(o.DateCommande, now)
}

// OrderLine est une ligne décodée de la chaîne article
type OrderLine struct {
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
	Size     string `json:"size"`
	Image    string `json:"image,omitempty"`
}

// ParseArticle décode "qté,nom,taille;qté,nom,taille;...".
// Les segments illisibles sont ignorés sans erreur : la chaîne stockée
// n'est jamais validée à l'écriture.
func ParseArticle(article string) []OrderLine {
	var lines []OrderLine
	for _, seg := range strings.Split(article, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		parts := strings.SplitN(seg, ",", 3)
		if len(parts) < 3 {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || qty <= 0 {
			continue
		}
		lines = append(lines, OrderLine{
			Quantity: qty,
			Name:     strings.TrimSpace(parts[1]),
			Size:     strings.TrimSpace(parts[2]),
		})
	}
	return lines
}

// BuildArticle encode des lignes dans le format de la chaîne article
func BuildArticle(lines []OrderLine) string {
	segs := make([]string, 0, len(lines))
	for _, l := range lines {
		segs = append(segs, strconv.Itoa(l.Quantity)+","+l.Name+","+l.Size)
	}
	return strings.Join(segs, ";")
}

// OrderInput est la charge utile de création de commande
type OrderInput struct {
	Nom     string  `json:"nom"`
	Prenom  string  `json:"prenom"`
	Email   string  `json:"email"`
	Address string  `json:"address"`
	Article string  `json:"article"`
	Price   float64 `json:"price"`
	IDUser  *int    `json:"id_user"`
}

// Validate vérifie la présence des champs obligatoires. La structure interne
// de la chaîne article n'est pas contrôlée.
func (in OrderInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Nom) == "":
		return errors.New("le champ 'nom' est obligatoire")
	case strings.TrimSpace(in.Prenom) == "":
		return errors.New("le champ 'prenom' est obligatoire")
	case strings.TrimSpace(in.Email) == "":
		return errors.New("le champ 'email' est obligatoire")
	case strings.TrimSpace(in.Address) == "":
		return errors.New("le champ 'address' est obligatoire")
	case strings.TrimSpace(in.Article) == "":
		return errors.New("le champ 'article' est obligatoire")
	case in.Price <= 0:
		return errors.New("le champ 'price' est obligatoire")
	}
	return nil
}
