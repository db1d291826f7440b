package models

import "testing"

func TestCartTotal(t *testing.T) {
	lines := []CartLine{
		{ProductID: 1, Quantity: 2, Price: 19.99},
		{ProductID: 2, Quantity: 1, Price: 45.00},
	}
	if got, want := CartTotal(lines), 2*19.99+45.00; got != want {
		t.Errorf("total %.2f, attendu %.2f", got, want)
	}
}

func TestCartTotalIgnoresUnknownProducts(t *testing.T) {
	// un produit supprimé du catalogue retombe à prix zéro
	lines := []CartLine{
		{ProductID: 1, Quantity: 3, Price: 0, Name: UnknownProductName},
		{ProductID: 2, Quantity: 1, Price: 10},
	}
	if got := CartTotal(lines); got != 10 {
		t.Errorf("total %.2f, attendu 10.00", got)
	}
}

func TestCartTotalEmpty(t *testing.T) {
	if got := CartTotal(nil); got != 0 {
		t.Errorf("total %.2f, attendu 0", got)
	}
}

func TestHasRole(t *testing.T) {
	u := User{Roles: []string{RoleUser, RoleAdmin}}
	if !u.IsAdmin() {
		t.Error("admin non reconnu")
	}
	if (User{Roles: []string{RoleUser}}).IsAdmin() {
		t.Error("simple utilisateur reconnu admin")
	}
	if HasRole(nil, RoleUser) {
		t.Error("rôle trouvé dans une liste vide")
	}
}
