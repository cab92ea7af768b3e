package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin  RoleType = "ADMIN"
	RoleViewer RoleType = "VIEWER"
)
