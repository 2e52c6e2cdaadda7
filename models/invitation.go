package models

// Invitation represents a one-directional request from one user to another
// to start a paired session
type Invitation struct {
	InvitationID string `dynamodbav:"invitationId" json:"invitationId"` // ✅ Partition Key (generated UUID)
	FromUserID   string `dynamodbav:"fromUserId" json:"fromUserId"`     // Sender
	ToUserID     string `dynamodbav:"toUserId" json:"toUserId"`         // Recipient (GSI hash key)
	Message      string `dynamodbav:"message,omitempty" json:"message,omitempty"`
	Type         string `dynamodbav:"type" json:"type"`     // e.g. "chat"
	Status       string `dynamodbav:"status" json:"status"` // "pending", "accepted", "declined"
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt    string `dynamodbav:"updatedAt" json:"updatedAt"`
}

// InvitationsTable is the DynamoDB table name for invitations
const InvitationsTable = "Invitations"

// InvitationKeyField is the partition key attribute for the Invitations table
const InvitationKeyField = "invitationId"

// GSI for querying invitations where the user is the recipient (range key: createdAt)
const InvitationReceiverIndex = "toUserId-createdAt-index"

// GSI for querying invitations the user has sent (range key: createdAt)
const InvitationSenderIndex = "fromUserId-createdAt-index"
