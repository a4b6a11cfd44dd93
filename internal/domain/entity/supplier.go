package entity

// Supplier proveedor.
type Supplier struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Audit
}

func (s Supplier) RecordID() int64 { return s.ID }
