package database

import (
	"context"
	"log"
)

// Le schéma est créé au démarrage s'il n'existe pas. Les migrations lourdes
// restent à faire à la main (scripts/).
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         SERIAL PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		password   TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name  TEXT NOT NULL DEFAULT '',
		roles      TEXT[] NOT NULL DEFAULT '{ROLE_USER}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS product (
		id               SERIAL PRIMARY KEY,
		name             TEXT NOT NULL UNIQUE,
		description      TEXT NOT NULL DEFAULT '',
		price            NUMERIC(10,2) NOT NULL,
		stock            INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
		sizes            TEXT[] NOT NULL DEFAULT '{}',
		image            TEXT NOT NULL DEFAULT '',
		image2           TEXT NOT NULL DEFAULT '',
		image3           TEXT NOT NULL DEFAULT '',
		category         TEXT NOT NULL DEFAULT '',
		eco_score        TEXT NOT NULL DEFAULT '',
		label_ecologique TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		id         SERIAL PRIMARY KEY,
		user_id    INT NOT NULL,
		product_id INT NOT NULL,
		quantity   INT NOT NULL CHECK (quantity > 0),
		size       TEXT NOT NULL DEFAULT '',
		UNIQUE (user_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id            SERIAL PRIMARY KEY,
		id_user       INT,
		nom           TEXT NOT NULL,
		prenom        TEXT NOT NULL,
		email         TEXT NOT NULL,
		address       TEXT NOT NULL,
		article       TEXT NOT NULL,
		price         NUMERIC(10,2) NOT NULL,
		date_commande TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cart_items_user ON cart_items (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_date ON orders (date_commande DESC)`,
}

// EnsureSchema crée les tables manquantes
func EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := Pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	log.Println("✅ Schéma PostgreSQL vérifié")
	return nil
}
