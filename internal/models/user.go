package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User is an administrator account for the admin panel.
type User struct {
	ID           uuid.UUID `gorm:"column:id;primaryKey" json:"id"`
	LastName     string    `gorm:"column:nume" json:"nume"`
	FirstName    string    `gorm:"column:prenume" json:"prenume"`
	Email        string    `gorm:"column:email;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
}

// TableName overrides the gorm table name.
func (User) TableName() string {
	return "users"
}

// ShopConfig is the singleton store configuration: the Shopify credentials
// the platform client needs plus the SKUs excluded from returns.
type ShopConfig struct {
	ID                 uint                         `gorm:"column:id;primaryKey" json:"-"`
	ShopifyDomain      string                       `gorm:"column:shopify_domain" json:"domain"`
	ShopifyAccessToken string                       `gorm:"column:shopify_access_token" json:"accessToken"`
	ShopTitle          string                       `gorm:"column:shop_title" json:"shopTitle"`
	ExcludedSKUs       datatypes.JSONType[[]string] `gorm:"column:excluded_skus" json:"excludedSKUs"`
	UpdatedAt          time.Time                    `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName overrides the gorm table name.
func (ShopConfig) TableName() string {
	return "app_config"
}
