package models

// User is an identity record created or updated on every login call.
type User struct {
	UserID          string `dynamodbav:"user_id" json:"user_id"`
	ProfileNickname string `dynamodbav:"profile_nickname,omitempty" json:"profile_nickname"`
	ImageURL        string `dynamodbav:"image_url,omitempty" json:"image_url"`
	Memo            string `dynamodbav:"memo,omitempty" json:"memo"`
	Level           int    `dynamodbav:"level,omitempty" json:"level"`
	Team            string `dynamodbav:"team,omitempty" json:"team"`
	IsFirstLogin    bool   `dynamodbav:"isFirstLogin" json:"isFirstLogin"`
}

// UsersTable is the DynamoDB table name for users
const UsersTable = "Users"
