package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SettingsRowID is the fixed key of the single settings row.
const SettingsRowID = 1

// SettingsLegacyKey is the key older clients stored the JSON blob under.
const SettingsLegacyKey = "payment"

// Settings is the payment configuration shown to members.
type Settings struct {
	PaymentNumber string          `json:"payment_number"`
	PaymentName   string          `json:"payment_name"`
	Price         decimal.Decimal `json:"price"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// SettingsRow is the stored settings record. Rows written by older clients
// carry the fields as a JSON string in Value instead of discrete columns.
type SettingsRow struct {
	ID            int64           `json:"id"`
	Key           string          `json:"key"`
	Value         string          `json:"value"`
	PaymentNumber string          `json:"payment_number"`
	PaymentName   string          `json:"payment_name"`
	Price         decimal.Decimal `json:"price"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Settings resolves the row into settings, preferring discrete columns and
// filling blanks from the JSON blob when one is present.
func (r SettingsRow) Settings() (Settings, error) {
	settings := Settings{
		PaymentNumber: r.PaymentNumber,
		PaymentName:   r.PaymentName,
		Price:         r.Price,
		UpdatedAt:     r.UpdatedAt,
	}
	blob := strings.TrimSpace(r.Value)
	if blob == "" {
		return settings, nil
	}
	var legacy struct {
		PaymentNumber string              `json:"payment_number"`
		PaymentName   string              `json:"payment_name"`
		Price         decimal.NullDecimal `json:"price"`
		UpdatedAt     *time.Time          `json:"updated_at"`
	}
	if err := json.Unmarshal([]byte(blob), &legacy); err != nil {
		return settings, err
	}
	if settings.PaymentNumber == "" {
		settings.PaymentNumber = legacy.PaymentNumber
	}
	if settings.PaymentName == "" {
		settings.PaymentName = legacy.PaymentName
	}
	if settings.Price.IsZero() && legacy.Price.Valid {
		settings.Price = legacy.Price.Decimal
	}
	if settings.UpdatedAt.IsZero() && legacy.UpdatedAt != nil {
		settings.UpdatedAt = *legacy.UpdatedAt
	}
	return settings, nil
}
