package domain

const (
	MailTypeAssetAssigned = "asset_assigned"
	MailTypeAssetReturned = "asset_returned"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type AssetAssignedMailData struct {
	FullName     string `json:"fullName"`
	AssetName    string `json:"assetName"`
	SerialNumber string `json:"serialNumber"`
	AssignedDate string `json:"assignedDate"`
	Notes        string `json:"notes"`
}

type AssetReturnedMailData struct {
	FullName     string `json:"fullName"`
	AssetName    string `json:"assetName"`
	SerialNumber string `json:"serialNumber"`
	ReturnedDate string `json:"returnedDate"`
}
