package inventory

import "github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"

// checkManualTransition decides whether a status change requested outside the
// assignment lifecycle is allowed. Assigned is entered only by Assign and left
// only by Return; every other move between the remaining statuses is permitted,
// including Retired back to Available.
func checkManualTransition(from, to domain.AssetStatus) error {
	if !to.IsValid() {
		return &domain.InvalidStatusError{Status: to}
	}
	if to == domain.AssetStatusAssigned || from == domain.AssetStatusAssigned {
		return &domain.IllegalTransitionError{From: from, To: to}
	}
	return nil
}
