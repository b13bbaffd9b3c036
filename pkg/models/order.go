package models

// Order is one billing order with its line items flattened into distinct
// value lists.
type Order struct {
	OrderID          string   `json:"order_id" db:"order_id"`
	RecordNumber     string   `json:"filemaker_record_number" db:"filemaker_record_number"`
	PatientLastName  string   `json:"patient_last_name" db:"patient_last_name"`
	PatientFirstName string   `json:"patient_first_name" db:"patient_first_name"`
	PatientName      string   `json:"patient_name" db:"patient_name"`
	DatesOfService   []string `json:"dos_list"`
	ProcedureCodes   []string `json:"cpt_list"`
	Descriptions     []string `json:"description_list"`
}

// LineItem is a single billed procedure on an order.
type LineItem struct {
	OrderID     string `json:"order_id" db:"order_id"`
	DOS         string `json:"dos" db:"dos"`
	CPT         string `json:"cpt" db:"cpt"`
	Description string `json:"description" db:"description"`
}
