package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Setting is one runtime-mutable configuration entry. Settings edited from
// the admin panel live here rather than in the environment.
type Setting struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key   string             `bson:"key" json:"key"`
	Value string             `bson:"value" json:"value"`
}

// Known setting keys.
const (
	SettingExchangeRate      = "exchange_rate_bsd_per_usd"
	SettingAdminNotifyEmail  = "admin_notify_email"
	SettingCommissionPercent = "commission_percent"

	SettingPMBank       = "pm_bank"
	SettingPMName       = "pm_name"
	SettingPMPhone      = "pm_phone"
	SettingPMID         = "pm_id"
	SettingBinanceEmail = "binance_email"
	SettingBinancePhone = "binance_phone"
)
