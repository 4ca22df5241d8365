package domain

// CompatibleStatuses returns the request statuses that the ledger can
// explain. Activities must be in creation order. The result is never empty.
func CompatibleStatuses(activities []Activity) []RequestStatus {
	if len(activities) == 0 {
		return []RequestStatus{StatusWaitingForDropoff, StatusRejected}
	}

	var openRepair, openApproval bool
	for _, a := range activities {
		if !a.IsOpen() {
			continue
		}
		switch a.Type {
		case ActivityRepair:
			openRepair = true
		case ActivityApproval:
			openApproval = true
		}
	}

	switch {
	case openRepair && openApproval:
		// Only reachable through drift; no operation leaves both open.
		return []RequestStatus{}
	case openApproval:
		return []RequestStatus{StatusPendingForApproval}
	case openRepair:
		return []RequestStatus{StatusInProcess}
	default:
		return []RequestStatus{StatusReadyForPickup, StatusComplete, StatusRejected}
	}
}

// ConsistencyReport compares a stored status with what the ledger explains.
type ConsistencyReport struct {
	Stored     RequestStatus
	Compatible []RequestStatus
	Consistent bool
}

// CheckConsistency builds a ConsistencyReport for req.
func CheckConsistency(req ServiceRequest, activities []Activity) ConsistencyReport {
	compatible := CompatibleStatuses(activities)
	report := ConsistencyReport{Stored: req.Status, Compatible: compatible}
	for _, s := range compatible {
		if s == req.Status {
			report.Consistent = true
			break
		}
	}
	return report
}
