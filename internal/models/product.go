package models

type Product struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	Stock           int      `json:"stock"`
	Sizes           []string `json:"sizes"`
	Image           string   `json:"image"`
	Image2          string   `json:"image2"`
	Image3          string   `json:"image3"`
	Category        string   `json:"category"`
	EcoScore        string   `json:"ecoScore"`
	LabelEcologique string   `json:"labelEcologique"`
}
