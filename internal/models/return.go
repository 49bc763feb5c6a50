// Package models defines the persisted records of the returns service.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// ReturnStatus is the lifecycle state of a return request. The Romanian
// labels are part of the stored data contract and the admin API.
type ReturnStatus string

const (
	StatusInitiated       ReturnStatus = "INITIAT"
	StatusAwaitingPackage ReturnStatus = "IN_ASTEPTARE_COLET"
	StatusPackageReceived ReturnStatus = "COLET_PRIMIT"
	StatusProcessed       ReturnStatus = "PROCESAT"
	StatusCompleted       ReturnStatus = "FINALIZAT"
	StatusCancelled       ReturnStatus = "ANULAT"
)

// statusRank orders the forward progression of a return. ANULAT sits outside
// the progression and is handled separately.
var statusRank = map[ReturnStatus]int{
	StatusInitiated:       0,
	StatusAwaitingPackage: 1,
	StatusPackageReceived: 2,
	StatusProcessed:       3,
	StatusCompleted:       4,
}

// Valid reports whether s is a known status value.
func (s ReturnStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// IsFinal reports whether s is a terminal state.
func (s ReturnStatus) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the status may move from s to next.
// Transitions only move forward through the progression; ANULAT is reachable
// from any non-final state and nothing leaves a final state.
func (s ReturnStatus) CanTransitionTo(next ReturnStatus) bool {
	if !s.Valid() || !next.Valid() || s.IsFinal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return statusRank[next] > statusRank[s]
}

// OrderSummary is the order data kept on a return record. Email and phone are
// deliberately stripped before storage.
type OrderSummary struct {
	CustomerName string `json:"nume"`
	OrderNumber  string `json:"numarComanda"`
}

// ReturnProduct is one returned line of an order.
type ReturnProduct struct {
	ID               string  `json:"id"`
	Name             string  `json:"nume"`
	Quantity         int     `json:"cantitate"`
	ReturnedQuantity int     `json:"cantitateReturnata"`
	UnitPrice        float64 `json:"pret"`
	OriginalPrice    float64 `json:"pretInitial,omitempty"`
	Discount         float64 `json:"discount,omitempty"`
	Reason           string  `json:"motivRetur"`
	OtherReasons     string  `json:"alteMotive,omitempty"`
	Selected         bool    `json:"selected,omitempty"`
	VariantID        string  `json:"variant_id,omitempty"`
	SKU              string  `json:"sku,omitempty"`
	Image            string  `json:"imagine,omitempty"`
}

// ReturnedQty is the quantity effectively going back: the explicit returned
// quantity, or the full ordered quantity when the row was merely selected.
func (p ReturnProduct) ReturnedQty() int {
	if p.ReturnedQuantity > 0 {
		return p.ReturnedQuantity
	}
	if p.Selected {
		return p.Quantity
	}
	return 0
}

// RefundDetails carries only the IBAN and account-holder name.
type RefundDetails struct {
	IBAN          string `json:"iban,omitempty"`
	AccountHolder string `json:"numeTitular,omitempty"`
}

// Return is a persisted return request.
type Return struct {
	ReturnID             string                               `gorm:"column:id_retur;primaryKey" json:"idRetur"`
	OrderNumber          string                               `gorm:"column:numar_comanda;index" json:"numarComanda"`
	OrderData            datatypes.JSONType[OrderSummary]     `gorm:"column:order_data" json:"orderData"`
	Products             datatypes.JSONType[[]ReturnProduct]  `gorm:"column:products" json:"products"`
	RefundData           datatypes.JSONType[RefundDetails]    `gorm:"column:refund_data" json:"refundData"`
	Signature            string                               `gorm:"column:signature;type:text" json:"signature"`
	TotalRefund          float64                              `gorm:"column:total_refund" json:"totalRefund"`
	Status               ReturnStatus                         `gorm:"column:status" json:"status"`
	PDFPath              string                               `gorm:"column:pdf_path" json:"pdfPath"`
	QRCodeData           string                               `gorm:"column:qr_code_data;type:text" json:"qrCodeData"`
	AWBNumber            string                               `gorm:"column:awb_number" json:"awbNumber,omitempty"`
	ShippingReceiptPhoto string                               `gorm:"column:shipping_receipt_photo;type:text" json:"shippingReceiptPhoto,omitempty"`
	PackageLabelPhoto    string                               `gorm:"column:package_label_photo;type:text" json:"packageLabelPhoto,omitempty"`
	CreatedAt            time.Time                            `gorm:"column:created_at" json:"createdAt"`
}

// TableName overrides the gorm table name.
func (Return) TableName() string {
	return "returns"
}
