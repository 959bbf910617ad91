package domain

// forwardEdges lists the only non-rejection moves a report can make.
var forwardEdges = map[ReportStatus]ReportStatus{
	ReportStatusPending:    ReportStatusVerified,
	ReportStatusVerified:   ReportStatusInProgress,
	ReportStatusInProgress: ReportStatusResolved,
}

// Reachable reports whether to is a legal next status from `from`, ignoring
// who asks for it.
func Reachable(from, to ReportStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == ReportStatusRejected {
		return true
	}
	next, ok := forwardEdges[from]
	return ok && next == to
}

// CanTransition is the single authorization policy for report status changes.
// It returns nil when actor may move report to target, otherwise an error
// wrapping ErrAuthorization or ErrInvalidTransition.
//
//   - admins may take any legal edge, including rejection
//   - environmental orgs may take any forward edge
//   - the owner may only start cleanup (verified -> in-progress)
func CanTransition(actor *User, report *Report, target ReportStatus) error {
	if actor == nil || !actor.IsActive {
		return Authorizationf("an active account is required to change report status")
	}
	owner := report.ReportedBy == actor.ID
	if !owner && !actor.Role.Privileged() {
		return Authorizationf("not authorized to update this report")
	}
	if !target.Valid() {
		return Validationf("invalid status %q", target)
	}
	if !Reachable(report.Status, target) {
		return InvalidTransitionf("cannot move report from %s to %s", report.Status, target)
	}

	switch {
	case actor.Role == RoleAdmin:
		return nil
	case target == ReportStatusRejected:
		return Authorizationf("only admins can reject reports")
	case actor.Role == RoleEnvironmentalOrg:
		return nil
	case owner && target == ReportStatusInProgress:
		return nil
	default:
		return Authorizationf("only admins or environmental organizations can mark a report %s", target)
	}
}

// TransitionAward returns the points the owner earns when a report enters
// status, if any.
func TransitionAward(status ReportStatus) (int32, ActivityType, bool) {
	switch status {
	case ReportStatusVerified:
		return PointsReportVerified, ActivityReportVerified, true
	case ReportStatusResolved:
		return PointsReportResolved, ActivityReportResolved, true
	}
	return 0, "", false
}
