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

// MatchService handles match catalog CRUD and the membership store
// primitives consumed by the reservation service.
type MatchService struct {
	Dynamo *DynamoService
}

func matchKey(matchID int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberN{Value: strconv.FormatInt(matchID, 10)},
	}
}

// CreateMatch stores a new match posting. The member list and the member
// count are initialized empty regardless of the request body, and a matchId
// that is already taken is rejected.
func (ms *MatchService) CreateMatch(ctx context.Context, match models.Match) (*models.Match, error) {
	existing, err := ms.GetMatch(ctx, match.MatchID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("match %d already exists", match.MatchID)
	}

	match.MatchMembers = []string{}
	match.CurMember = 0

	if err := ms.Dynamo.PutItem(ctx, models.MatchesTable, match); err != nil {
		return nil, err
	}
	return &match, nil
}

// GetMatch retrieves a match by its business key. Returns (nil, nil) when no
// match exists for the key.
func (ms *MatchService) GetMatch(ctx context.Context, matchID int64) (*models.Match, error) {
	item, err := ms.Dynamo.GetItem(ctx, models.MatchesTable, matchKey(matchID))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

// ListMatches returns every match posting in store order.
func (ms *MatchService) ListMatches(ctx context.Context) ([]models.Match, error) {
	var matches []models.Match
	if err := ms.Dynamo.ScanWithFilter(ctx, models.MatchesTable, "", nil, nil, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// UpdateMatch updates the posting fields of an existing match. The member
// list and cur_member are owned by the reservation service and are never
// touched here. Fails with ErrMatchNotFound when the match does not exist.
func (ms *MatchService) UpdateMatch(ctx context.Context, matchID int64, match models.Match) (*models.Match, error) {
	updateExpression := "SET #date = :date, #time = :time, place = :place, matchTitle = :matchTitle, " +
		"content = :content, max_member = :max_member, image = :image, #level = :level"
	expressionAttributeValues := map[string]types.AttributeValue{
		":date":       &types.AttributeValueMemberS{Value: match.Date},
		":time":       &types.AttributeValueMemberS{Value: match.Time},
		":place":      &types.AttributeValueMemberS{Value: match.Place},
		":matchTitle": &types.AttributeValueMemberS{Value: match.MatchTitle},
		":content":    &types.AttributeValueMemberS{Value: match.Content},
		":max_member": &types.AttributeValueMemberN{Value: strconv.Itoa(match.MaxMember)},
		":image":      &types.AttributeValueMemberS{Value: match.Image},
		":level":      &types.AttributeValueMemberN{Value: strconv.Itoa(match.Level)},
	}
	expressionAttributeNames := map[string]string{
		"#date":  "date",
		"#time":  "time",
		"#level": "level",
	}

	updatedItem, err := ms.Dynamo.UpdateItem(ctx, models.MatchesTable, updateExpression,
		"attribute_exists(matchId)", matchKey(matchID), expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		var cfe *ConditionFailedError
		if errors.As(err, &cfe) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	var updated models.Match
	if err := attributevalue.UnmarshalMap(updatedItem, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &updated, nil
}

// DeleteMatch removes a match. Fails with ErrMatchNotFound when the match
// does not exist.
func (ms *MatchService) DeleteMatch(ctx context.Context, matchID int64) error {
	existing, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrMatchNotFound
	}
	return ms.Dynamo.DeleteItem(ctx, models.MatchesTable, matchKey(matchID))
}

// AppendMember appends userID to the match's member list and increments
// cur_member in a single conditional update. The duplicate and capacity
// guards are evaluated by the store against the committed state, so two
// concurrent joins can never both win with a stale snapshot. Fails with
// ErrAlreadyReserved, ErrMatchFull or ErrMatchNotFound.
func (ms *MatchService) AppendMember(ctx context.Context, matchID int64, userID string) (*models.Match, error) {
	updateExpression := "SET match_members = list_append(if_not_exists(match_members, :empty), :member), cur_member = cur_member + :one"
	conditionExpression := "attribute_exists(matchId) AND NOT contains(match_members, :uid) AND cur_member < max_member"
	expressionAttributeValues := map[string]types.AttributeValue{
		":member": &types.AttributeValueMemberL{Value: []types.AttributeValue{&types.AttributeValueMemberS{Value: userID}}},
		":empty":  &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
		":uid":    &types.AttributeValueMemberS{Value: userID},
		":one":    &types.AttributeValueMemberN{Value: "1"},
	}

	updatedItem, err := ms.Dynamo.UpdateItem(ctx, models.MatchesTable, updateExpression,
		conditionExpression, matchKey(matchID), expressionAttributeValues, nil)
	if err != nil {
		var cfe *ConditionFailedError
		if errors.As(err, &cfe) {
			return nil, classifyJoinRejection(cfe, userID)
		}
		return nil, err
	}

	var updated models.Match
	if err := attributevalue.UnmarshalMap(updatedItem, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &updated, nil
}

// classifyJoinRejection maps a lost join condition to the reservation error
// taxonomy using the old item returned by the store.
func classifyJoinRejection(cfe *ConditionFailedError, userID string) error {
	if cfe.Item == nil {
		return ErrMatchNotFound
	}
	var match models.Match
	if err := attributevalue.UnmarshalMap(cfe.Item, &match); err != nil {
		return fmt.Errorf("failed to unmarshal rejected match state: %w", err)
	}
	if match.HasMember(userID) {
		return ErrAlreadyReserved
	}
	if match.IsFull() {
		return ErrMatchFull
	}
	return ErrMatchNotFound
}

// SetMembers replaces the member list and recomputes cur_member, guarded by
// equality with the previously read list. A concurrent mutation surfaces as a
// *ConditionFailedError so the caller can re-read and retry.
func (ms *MatchService) SetMembers(ctx context.Context, matchID int64, prev, next []string) (*models.Match, error) {
	prevAttr, err := attributevalue.MarshalList(prev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal member list: %w", err)
	}
	nextAttr, err := attributevalue.MarshalList(next)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal member list: %w", err)
	}

	updateExpression := "SET match_members = :next, cur_member = :count"
	conditionExpression := "attribute_exists(matchId) AND match_members = :prev"
	expressionAttributeValues := map[string]types.AttributeValue{
		":next":  &types.AttributeValueMemberL{Value: nextAttr},
		":prev":  &types.AttributeValueMemberL{Value: prevAttr},
		":count": &types.AttributeValueMemberN{Value: strconv.Itoa(len(next))},
	}

	updatedItem, err := ms.Dynamo.UpdateItem(ctx, models.MatchesTable, updateExpression,
		conditionExpression, matchKey(matchID), expressionAttributeValues, nil)
	if err != nil {
		return nil, err
	}

	var updated models.Match
	if err := attributevalue.UnmarshalMap(updatedItem, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &updated, nil
}

// MatchesWithMember returns every match whose member list contains userID.
func (ms *MatchService) MatchesWithMember(ctx context.Context, userID string) ([]models.Match, error) {
	filterExpression := "contains(match_members, :uid)"
	expressionAttributeValues := map[string]types.AttributeValue{
		":uid": &types.AttributeValueMemberS{Value: userID},
	}

	var matches []models.Match
	if err := ms.Dynamo.ScanWithFilter(ctx, models.MatchesTable, filterExpression,
		expressionAttributeValues, nil, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}
