package services

import (
	"github.com/globatech/sirest/internal/entity"
	"github.com/globatech/sirest/internal/kvstore"
	"github.com/globatech/sirest/internal/models"
)

// Entity kinds as persisted in the store key scheme (<kind>:<identifier>).
const (
	KindOrder       = "order"
	KindPayment     = "payment"
	KindCashClosing = "cash_closing"
	KindAlert       = "alert"
	KindTable       = "table"
	KindProduct     = "product"
	KindUserProfile = "user_profile"
	KindCredential  = "credential"
	KindUserByEmail = "user_by_email"
)

// ConfigurationKey is the fixed key of the singleton settings record.
const ConfigurationKey = "system_configuration"

// Repos bundles the typed repositories the services share.
type Repos struct {
	Orders      *entity.Repo[models.Order]
	Payments    *entity.Repo[models.Payment]
	Closings    *entity.Repo[models.CashClosing]
	Alerts      *entity.Repo[models.Alert]
	Tables      *entity.Repo[models.Table]
	Products    *entity.Repo[models.Product]
	Users       *entity.Repo[models.UserProfile]
	Credentials *entity.Repo[models.Credential]
}

func NewRepos(kv *kvstore.Store) *Repos {
	return &Repos{
		Orders:      entity.NewRepo[models.Order](kv, KindOrder),
		Payments:    entity.NewRepo[models.Payment](kv, KindPayment),
		Closings:    entity.NewRepo[models.CashClosing](kv, KindCashClosing),
		Alerts:      entity.NewRepo[models.Alert](kv, KindAlert),
		Tables:      entity.NewRepo[models.Table](kv, KindTable),
		Products:    entity.NewRepo[models.Product](kv, KindProduct),
		Users:       entity.NewRepo[models.UserProfile](kv, KindUserProfile),
		Credentials: entity.NewRepo[models.Credential](kv, KindCredential),
	}
}
