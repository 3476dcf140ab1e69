package domain

import "time"

// Company — поставщик каталога. Хранение полей без бизнес-инвариантов.
type Company struct {
	ID           string
	Name         string
	ContactEmail string
	ContactPhone string
	Address      string
	Website      string
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
