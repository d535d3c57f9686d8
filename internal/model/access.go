package model

// AccessLevel classifies what a guest may do on a route
type AccessLevel string

const (
	AccessFull     AccessLevel = "full"
	AccessViewOnly AccessLevel = "view-only"
	AccessBlocked  AccessLevel = "blocked"
)
