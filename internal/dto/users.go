package dto

import (
	"time"

	"opto-backend/internal/models"
)

// UserResponse represents user data in API responses. It is the User entity
// minus the password hash, with level and level name derived from the score.
type UserResponse struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	DisplayName    string   `json:"display_name"`
	Bio            string   `json:"bio"`
	AvatarURL      string   `json:"avatar_url"`
	CoverPhotoURL  string   `json:"cover_photo_url"`
	Interests      []string `json:"interests"`
	Level          int      `json:"level"`
	LevelName      string   `json:"level_name"`
	Score          int      `json:"score"`
	Streak         int      `json:"streak"`
	IsOnline       bool     `json:"is_online"`
	Location       string   `json:"location"`
	Occupation     string   `json:"occupation"`
	FinancialGoals []string `json:"financial_goals"`
	JoinedDate     string   `json:"joined_date"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// NewUserResponse converts a user model to its API representation
func NewUserResponse(u *models.User) UserResponse {
	interests := u.Interests
	if interests == nil {
		interests = []string{}
	}
	goals := u.FinancialGoals
	if goals == nil {
		goals = []string{}
	}

	return UserResponse{
		ID:             u.ID.String(),
		Email:          u.Email,
		Name:           u.Name,
		DisplayName:    u.DisplayName,
		Bio:            u.Bio,
		AvatarURL:      u.AvatarURL,
		CoverPhotoURL:  u.CoverPhotoURL,
		Interests:      interests,
		Level:          u.Level(),
		LevelName:      u.LevelName(),
		Score:          u.Score,
		Streak:         u.Streak,
		IsOnline:       u.IsOnline,
		Location:       u.Location,
		Occupation:     u.Occupation,
		FinancialGoals: goals,
		JoinedDate:     u.JoinedDate.Format("2006-01-02"),
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      u.UpdatedAt.Format(time.RFC3339),
	}
}

// NewUserResponseList converts a slice of user models
func NewUserResponseList(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// ProfileUpdateRequest is the patch payload for PUT /api/profiles/me. Only
// fields present in the JSON body are applied; nil pointers keep the stored
// value.
type ProfileUpdateRequest struct {
	Name           *string   `json:"name,omitempty"`
	DisplayName    *string   `json:"display_name,omitempty"`
	Bio            *string   `json:"bio,omitempty"`
	Interests      *[]string `json:"interests,omitempty"`
	Location       *string   `json:"location,omitempty"`
	Occupation     *string   `json:"occupation,omitempty"`
	FinancialGoals *[]string `json:"financial_goals,omitempty"`
}
