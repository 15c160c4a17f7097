package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"matchup_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserService handles the user directory: login upserts and profile CRUD.
type UserService struct {
	Dynamo *DynamoService
}

// LoginInput is the payload forwarded from the external identity provider.
// The access token is trusted verbatim; no signature validation happens here.
type LoginInput struct {
	AccessToken     string `json:"access_token"`
	UserID          string `json:"user_id"`
	ProfileNickname string `json:"profile_nickname"`
	ImageURL        string `json:"image_url"`
}

func userKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"user_id": &types.AttributeValueMemberS{Value: userID},
	}
}

// Login upserts the identity record keyed by user_id. A new user is created
// with isFirstLogin=true; an existing user gets nickname and image refreshed
// and the flag cleared. Returns whether this was the user's first login.
func (us *UserService) Login(ctx context.Context, in LoginInput) (bool, error) {
	user, err := us.GetUser(ctx, in.UserID)
	if err != nil {
		return false, err
	}

	if user == nil {
		newUser := models.User{
			UserID:          in.UserID,
			ProfileNickname: in.ProfileNickname,
			ImageURL:        in.ImageURL,
			IsFirstLogin:    true,
		}
		if err := us.Dynamo.PutItem(ctx, models.UsersTable, newUser); err != nil {
			return false, err
		}
		return true, nil
	}

	user.IsFirstLogin = false
	user.ProfileNickname = in.ProfileNickname
	user.ImageURL = in.ImageURL
	if err := us.Dynamo.PutItem(ctx, models.UsersTable, *user); err != nil {
		return false, err
	}
	return false, nil
}

// IsFirstLogin reports whether no identity record exists yet for userID.
func (us *UserService) IsFirstLogin(ctx context.Context, userID string) (bool, error) {
	user, err := us.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return user == nil, nil
}

// SaveUserInfo stores the skill info a user submits after their first login.
// Fails with ErrUserNotFound when no record exists for userID.
func (us *UserService) SaveUserInfo(ctx context.Context, userID string, level int, team, memo string) (*models.User, error) {
	updateExpression := "SET #level = :level, team = :team, memo = :memo"
	expressionAttributeValues := map[string]types.AttributeValue{
		":level": &types.AttributeValueMemberN{Value: strconv.Itoa(level)},
		":team":  &types.AttributeValueMemberS{Value: team},
		":memo":  &types.AttributeValueMemberS{Value: memo},
	}
	expressionAttributeNames := map[string]string{"#level": "level"}

	updatedItem, err := us.Dynamo.UpdateItem(ctx, models.UsersTable, updateExpression,
		"attribute_exists(user_id)", userKey(userID), expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		var cfe *ConditionFailedError
		if errors.As(err, &cfe) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var updated models.User
	if err := attributevalue.UnmarshalMap(updatedItem, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &updated, nil
}

// GetUser retrieves a user by ID. Returns (nil, nil) when no user exists.
func (us *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	item, err := us.Dynamo.GetItem(ctx, models.UsersTable, userKey(userID))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// ListUsers returns every identity record in store order.
func (us *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := us.Dynamo.ScanWithFilter(ctx, models.UsersTable, "", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser updates the profile fields of an existing user. Fails with
// ErrUserNotFound when no record exists for userID.
func (us *UserService) UpdateUser(ctx context.Context, userID string, user models.User) (*models.User, error) {
	updateExpression := "SET profile_nickname = :profile_nickname, memo = :memo, #level = :level, team = :team"
	expressionAttributeValues := map[string]types.AttributeValue{
		":profile_nickname": &types.AttributeValueMemberS{Value: user.ProfileNickname},
		":memo":             &types.AttributeValueMemberS{Value: user.Memo},
		":level":            &types.AttributeValueMemberN{Value: strconv.Itoa(user.Level)},
		":team":             &types.AttributeValueMemberS{Value: user.Team},
	}
	expressionAttributeNames := map[string]string{"#level": "level"}

	updatedItem, err := us.Dynamo.UpdateItem(ctx, models.UsersTable, updateExpression,
		"attribute_exists(user_id)", userKey(userID), expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		var cfe *ConditionFailedError
		if errors.As(err, &cfe) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var updated models.User
	if err := attributevalue.UnmarshalMap(updatedItem, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &updated, nil
}

// DeleteUser removes a user. Fails with ErrUserNotFound when no record
// exists for userID.
func (us *UserService) DeleteUser(ctx context.Context, userID string) error {
	existing, err := us.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrUserNotFound
	}
	return us.Dynamo.DeleteItem(ctx, models.UsersTable, userKey(userID))
}
