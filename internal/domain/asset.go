package domain

import (
	"time"
)

type AssetStatus string

const (
	AssetStatusAvailable   AssetStatus = "Available"
	AssetStatusAssigned    AssetStatus = "Assigned"
	AssetStatusUnderRepair AssetStatus = "Under Repair"
	AssetStatusRetired     AssetStatus = "Retired"
)

// AssetStatuses lists every legal status, in display order.
var AssetStatuses = []AssetStatus{
	AssetStatusAvailable,
	AssetStatusAssigned,
	AssetStatusUnderRepair,
	AssetStatusRetired,
}

func (s AssetStatus) IsValid() bool {
	for _, status := range AssetStatuses {
		if s == status {
			return true
		}
	}
	return false
}

const DefaultAssetCondition = "Good"

type Asset struct {
	ID                 int64       `json:"id"`
	AssetName          string      `json:"assetName" validate:"required,min=3,max=100"`
	AssetType          string      `json:"assetType" validate:"required,max=50"`
	MakeModel          *string     `json:"makeModel" validate:"omitempty,max=100"`
	SerialNumber       string      `json:"serialNumber" validate:"required,min=3,max=100,serialnumber"`
	PurchaseDate       time.Time   `json:"purchaseDate" validate:"required"`
	WarrantyExpiryDate *time.Time  `json:"warrantyExpiryDate"`
	Condition          string      `json:"condition" validate:"required,max=50"`
	Status             AssetStatus `json:"status"`
	IsSpare            bool        `json:"isSpare"`
	Specifications     *string     `json:"specifications" validate:"omitempty,max=500"`
}

// AssetFilter narrows asset listings. Zero values match everything.
type AssetFilter struct {
	Status AssetStatus
	Type   string
	Search string
}
