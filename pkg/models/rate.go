package models

import "github.com/shopspring/decimal"

// UncategorizedCategory is the bucket for procedure codes outside the taxonomy.
const UncategorizedCategory = "Uncategorized"

// ProviderRate is a negotiated PPO rate for one procedure code.
type ProviderRate struct {
	RenderingState string          `json:"rendering_state" db:"rendering_state"`
	TIN            string          `json:"tin" db:"tin"`
	ProviderName   string          `json:"provider_name" db:"provider_name"`
	ProcedureCode  string          `json:"proc_cd" db:"proc_cd"`
	Modifier       string          `json:"modifier" db:"modifier"`
	Category       string          `json:"proc_category" db:"proc_category"`
	Rate           decimal.Decimal `json:"rate" db:"rate"`
}

// ReconcileResult reports the outcome of a rate change. StatusCode is the
// HTTP status the outcome maps to.
type ReconcileResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

// CPTValidation reports whether a procedure code exists in the reference table.
type CPTValidation struct {
	Valid       bool             `json:"valid"`
	CPT         string           `json:"cpt,omitempty"`
	Description string           `json:"description,omitempty"`
	DefaultFee  *decimal.Decimal `json:"default_fee,omitempty"`
	Message     string           `json:"message,omitempty"`
}
