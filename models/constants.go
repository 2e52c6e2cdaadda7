package models

// User presence statuses
const (
	UserStatusOnline  = "online"
	UserStatusOffline = "offline"
)

// Invitation statuses
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"
)

// Session statuses
const (
	SessionStatusActive = "active"
	SessionStatusEnded  = "ended"
)

// Invitation types
const (
	InvitationTypeChat = "chat"
)

// Pet defaults and limits
const (
	DefaultPetName      = "Pet"
	DefaultPetSelection = 0
	MaxPetNameLength    = 20
)
