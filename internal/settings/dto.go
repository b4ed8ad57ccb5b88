package settings

import (
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/types"
)

// Known setting keys. Values under other keys are stored as-is; these are
// the ones the admin screens read back.
const (
	KeySite    = "site_settings"
	KeyEmail   = "email_settings"
	KeyPayment = "payment_settings"
)

// MergedKeys is the read order for the combined settings view. Later keys
// overwrite earlier ones on field collisions.
var MergedKeys = []string{KeySite, KeyEmail, KeyPayment}

// UpsertInput writes one keyed document for a user.
type UpsertInput struct {
	Key   string        `json:"key" validate:"required"`
	Value types.JSONMap `json:"value" validate:"required"`
}

// EmailSettings is the typed shape of the email_settings document.
type EmailSettings struct {
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUsername string `json:"smtp_username"`
	SMTPPassword string `json:"smtp_password"`
	SMTPUseTLS   bool   `json:"smtp_use_tls"`
}
