package domain

import "time"

// DateLayout is used wherever a date leaves the system as text.
const DateLayout = "2006-01-02"

type DashboardStats struct {
	TotalAssets       int `json:"totalAssets"`
	AvailableAssets   int `json:"availableAssets"`
	AssignedAssets    int `json:"assignedAssets"`
	UnderRepairAssets int `json:"underRepairAssets"`
	RetiredAssets     int `json:"retiredAssets"`
	SpareAssets       int `json:"spareAssets"`
	TotalEmployees    int `json:"totalEmployees"`
	ActiveEmployees   int `json:"activeEmployees"`
	ActiveAssignments int `json:"activeAssignments"`
	TotalAssignments  int `json:"totalAssignments"`
}

type AssetTypeCount struct {
	AssetType string `json:"assetType"`
	Count     int    `json:"count"`
}

type WarrantyAlert struct {
	AssetID            int64     `json:"assetID"`
	AssetName          string    `json:"assetName"`
	SerialNumber       string    `json:"serialNumber"`
	WarrantyExpiryDate time.Time `json:"warrantyExpiryDate"`
	DaysUntilExpiry    int       `json:"daysUntilExpiry"`
}

// DateOf drops the clock part of t, keeping its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
