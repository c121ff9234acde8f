package entity

import "time"

// ClientProvider cliente o proveedor identificado por CUIT.
type ClientProvider struct {
	ID        string
	OwnerID   string
	Name      string
	CUIT      string // XX-XXXXXXXX-X
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
