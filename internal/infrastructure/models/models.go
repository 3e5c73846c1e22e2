package models

// All lists every table for migrations, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Farmer{},
		&Product{},
		&Verification{},
		&PasswordResetToken{},
	}
}
