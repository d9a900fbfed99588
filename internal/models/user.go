package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account in the system
type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"` // Hidden from JSON responses
	Name           string    `json:"name" db:"name"`
	DisplayName    string    `json:"display_name" db:"display_name"`
	Bio            string    `json:"bio" db:"bio"`
	AvatarURL      string    `json:"avatar_url" db:"avatar_url"`
	CoverPhotoURL  string    `json:"cover_photo_url" db:"cover_photo_url"`
	Interests      []string  `json:"interests" db:"interests"`
	Score          int       `json:"score" db:"score"`
	Streak         int       `json:"streak" db:"streak"`
	IsOnline       bool      `json:"is_online" db:"is_online"`
	Location       string    `json:"location" db:"location"`
	Occupation     string    `json:"occupation" db:"occupation"`
	FinancialGoals []string  `json:"financial_goals" db:"financial_goals"`
	JoinedDate     time.Time `json:"-" db:"joined_date"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ScoreLevel is one row of the financial-score breakpoint table.
type ScoreLevel struct {
	Min   int
	Max   int
	Level int
	Name  string
}

// ScoreLevels maps financial scores to gamification levels. Level and level
// name are always derived from the score through this table, never stored.
var ScoreLevels = []ScoreLevel{
	{Min: 51, Max: 65, Level: 1, Name: "Getting Started"},
	{Min: 65, Max: 78, Level: 2, Name: "Building Momentum"},
	{Min: 78, Max: 87, Level: 3, Name: "Strong Foundation"},
	{Min: 87, Max: 95, Level: 4, Name: "Financial Pro"},
	{Min: 95, Max: 100, Level: 5, Name: "Master"},
}

// LevelForScore returns the level and level name for a score. Scores outside
// every bracket fall back to level 1.
func LevelForScore(score int) (int, string) {
	for _, l := range ScoreLevels {
		if score >= l.Min && score <= l.Max {
			return l.Level, l.Name
		}
	}
	return ScoreLevels[0].Level, ScoreLevels[0].Name
}

// Level returns the user's derived level.
func (u *User) Level() int {
	level, _ := LevelForScore(u.Score)
	return level
}

// LevelName returns the user's derived level name.
func (u *User) LevelName() string {
	_, name := LevelForScore(u.Score)
	return name
}

// Sanitize strips the password hash so the record is safe to return to any
// caller.
func (u *User) Sanitize() {
	u.PasswordHash = ""
}
