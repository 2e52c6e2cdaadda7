package models

import (
	"sort"
	"strings"
)

// Session represents a paired, time-bounded interaction context between
// exactly two users
type Session struct {
	SessionID    string   `dynamodbav:"sessionId" json:"sessionId"`       // ✅ Partition Key (generated UUID)
	InvitationID string   `dynamodbav:"invitationId" json:"invitationId"` // Invitation that spawned this session
	Participants []string `dynamodbav:"participants" json:"participants"` // Exactly 2 user IDs
	PairKey      string   `dynamodbav:"pairKey" json:"pairKey"`           // Sorted participant IDs (GSI hash key)
	Type         string   `dynamodbav:"type" json:"type"`                 // Carried over from the invitation
	Status       string   `dynamodbav:"status" json:"status"`             // "active" or "ended"
	StartedAt    string   `dynamodbav:"startedAt" json:"startedAt"`
	EndedAt      string   `dynamodbav:"endedAt,omitempty" json:"endedAt,omitempty"`
	EndedBy      string   `dynamodbav:"endedBy,omitempty" json:"endedBy,omitempty"`
}

// SessionsTable is the DynamoDB table name for sessions
const SessionsTable = "Sessions"

// SessionKeyField is the partition key attribute for the Sessions table
const SessionKeyField = "sessionId"

// GSI for finding the active session between a participant pair
const SessionPairIndex = "pairKey-startedAt-index"

// PairKey derives a deterministic key from a participant pair, independent
// of order, so the same two users always map to the same key.
func PairKey(userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join(pair, "#")
}
