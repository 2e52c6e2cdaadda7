package models

// User defines the structure for user documents
type User struct {
	UserID       string `dynamodbav:"userId" json:"userId"` // ✅ Partition Key (identity provider ID)
	DisplayName  string `dynamodbav:"displayName,omitempty" json:"displayName,omitempty"`
	Email        string `dynamodbav:"email,omitempty" json:"email,omitempty"`
	PhotoURL     string `dynamodbav:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Status       string `dynamodbav:"status" json:"status"`         // "online" or "offline"
	LastActive   string `dynamodbav:"lastActive" json:"lastActive"` // Refreshed on every status change
	PetSelection int    `dynamodbav:"petSelection" json:"petSelection"`
	PetName      string `dynamodbav:"petName,omitempty" json:"petName,omitempty"`
	Tokens       int    `dynamodbav:"tokens" json:"tokens"` // Initialized once, never reset
	CreatedAt    string `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt    string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// UsersTable is the DynamoDB table name for user documents
const UsersTable = "Users"

// UserKeyField is the partition key attribute for the Users table
const UserKeyField = "userId"

// Identity carries the fields the identity provider exposes for the
// signed-in user. The mobile client posts it on every sign-in/foreground.
type Identity struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Username     string `json:"username,omitempty"`
	PrimaryEmail string `json:"primaryEmail,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

// PetData is the client-side pet snapshot merged into the user document
type PetData struct {
	SelectedPet int    `json:"selectedPet"`
	PetName     string `json:"petName"`
}
