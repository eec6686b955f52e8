package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

type assetRequest struct {
	AssetName          string  `json:"assetName"`
	AssetType          string  `json:"assetType"`
	MakeModel          *string `json:"makeModel"`
	SerialNumber       string  `json:"serialNumber"`
	PurchaseDate       string  `json:"purchaseDate"`
	WarrantyExpiryDate *string `json:"warrantyExpiryDate"`
	Condition          string  `json:"condition"`
	IsSpare            bool    `json:"isSpare"`
	Specifications     *string `json:"specifications"`
}

func (req *assetRequest) toAsset() (*domain.Asset, error) {
	asset := &domain.Asset{
		AssetName:      req.AssetName,
		AssetType:      req.AssetType,
		MakeModel:      req.MakeModel,
		SerialNumber:   req.SerialNumber,
		Condition:      req.Condition,
		IsSpare:        req.IsSpare,
		Specifications: req.Specifications,
	}

	// an empty purchase date is left zero for the required check to report
	if req.PurchaseDate != "" {
		purchaseDate, err := parseDate("purchaseDate", req.PurchaseDate)
		if err != nil {
			return nil, err
		}
		asset.PurchaseDate = purchaseDate
	}

	warrantyExpiryDate, err := parseOptionalDate("warrantyExpiryDate", req.WarrantyExpiryDate)
	if err != nil {
		return nil, err
	}
	asset.WarrantyExpiryDate = warrantyExpiryDate

	return asset, nil
}

func (h *Handler) GetAllAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.AssetFilter{
		Status: domain.AssetStatus(q.Get("status")),
		Type:   q.Get("type"),
		Search: q.Get("q"),
	}

	assets, err := h.inventory.ListAssets(r.Context(), filter)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "Assets retrieved.", assets)
}

func (h *Handler) GetAssetTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.inventory.ListAssetTypes(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Asset types retrieved.", types)
}

func (h *Handler) GetAvailableAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.inventory.ListAvailableAssets(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Available assets retrieved.", assets)
}

func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := h.readJSON(r, &req); err != nil {
		h.invalidBody(w, r)
		return
	}

	asset, err := req.toAsset()
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.inventory.AddAsset(r.Context(), asset); err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.afterMutation(r, nil)

	h.createdResponse(w, r, "Asset created.", asset)
}

func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	asset := r.Context().Value(AssetCtx).(*domain.Asset)
	h.successResponse(w, r, "Asset retrieved.", asset)
}

func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	current := r.Context().Value(AssetCtx).(*domain.Asset)

	var req assetRequest
	if err := h.readJSON(r, &req); err != nil {
		h.invalidBody(w, r)
		return
	}

	asset, err := req.toAsset()
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	asset.ID = current.ID

	if err := h.inventory.UpdateAsset(r.Context(), asset); err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.afterMutation(r, nil)

	h.successResponse(w, r, "Asset updated.", asset)
}

func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	asset := r.Context().Value(AssetCtx).(*domain.Asset)

	if err := h.inventory.DeleteAsset(r.Context(), asset.ID); err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.afterMutation(r, nil)

	h.successResponse(w, r, "Asset deleted.", nil)
}

func (h *Handler) ChangeAssetStatus(w http.ResponseWriter, r *http.Request) {
	asset := r.Context().Value(AssetCtx).(*domain.Asset)

	var req struct {
		Status string `json:"status"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.invalidBody(w, r)
		return
	}

	status := domain.AssetStatus(req.Status)
	if err := h.inventory.ChangeStatus(r.Context(), asset.ID, status); err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.afterMutation(r, nil)

	asset.Status = status
	h.successResponse(w, r, "Asset status updated.", asset)
}

func (h *Handler) GetAssetAssignments(w http.ResponseWriter, r *http.Request) {
	asset := r.Context().Value(AssetCtx).(*domain.Asset)

	assignments, err := h.inventory.ListAssignmentsByAsset(r.Context(), asset.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Asset assignment history retrieved.", assignments)
}
