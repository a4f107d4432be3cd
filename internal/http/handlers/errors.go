package handlers

// Messages for non-fault failures.
const (
	MsgRouteNotFound    = "route not found"
	MsgIncidentNotFound = "incident not found"
	MsgUnknownProbe     = "unknown fault kind"
)
