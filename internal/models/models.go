package models

// All lists every persisted model in foreign key dependency order.
func All() []any {
	return []any{
		&Section{},
		&Category{},
		&Product{},
		&Review{},
		&Article{},
		&User{},
		&Customer{},
		&Order{},
		&OrderLine{},
	}
}
