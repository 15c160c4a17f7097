package models

// Match is a posted event with a capacity, a required skill level and an
// ordered, duplicate-free member list. CurMember always equals
// len(MatchMembers); both are maintained together by the reservation service.
type Match struct {
	MatchID      int64    `dynamodbav:"matchId" json:"matchId"`
	Date         string   `dynamodbav:"date,omitempty" json:"date"`
	Time         string   `dynamodbav:"time,omitempty" json:"time"`
	Place        string   `dynamodbav:"place,omitempty" json:"place"`
	MatchTitle   string   `dynamodbav:"matchTitle,omitempty" json:"matchTitle"`
	Content      string   `dynamodbav:"content,omitempty" json:"content"`
	MaxMember    int      `dynamodbav:"max_member" json:"max_member"`
	Image        string   `dynamodbav:"image,omitempty" json:"image"`
	Level        int      `dynamodbav:"level,omitempty" json:"level"`
	CurMember    int      `dynamodbav:"cur_member" json:"cur_member"`
	MatchMembers []string `dynamodbav:"match_members" json:"match_members"`
	UserID       string   `dynamodbav:"user_id,omitempty" json:"user_id"` // creator
}

// HasMember reports whether userID is present in the member list.
func (m *Match) HasMember(userID string) bool {
	for _, id := range m.MatchMembers {
		if id == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the match has reached its capacity.
func (m *Match) IsFull() bool {
	return m.CurMember >= m.MaxMember
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"
