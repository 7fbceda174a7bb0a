package dto

import "github.com/devicehub/devicehub/internal/model"

// PutUserRequest represents the request body for creating a user.
type PutUserRequest struct {
	Login     string   `json:"login"`
	Name      string   `json:"name"`
	Surname   string   `json:"surname"`
	BirthDate string   `json:"birth_date"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Roles     []string `json:"roles,omitempty"`
}

// PatchUserRequest represents the request body for updating a user.
type PatchUserRequest struct {
	Name      *string `json:"name,omitempty"`
	Surname   *string `json:"surname,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// PutPasswordRequest represents the request body for changing a password.
type PutPasswordRequest struct {
	Password string `json:"password"`
}

// VerifyRequest represents a login and password pair to check.
type VerifyRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses. The credential is never
// included.
type UserResponse struct {
	ID        string   `json:"id"`
	Login     string   `json:"login"`
	Name      string   `json:"name"`
	Surname   string   `json:"surname"`
	BirthDate string   `json:"birth_date,omitempty"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
}

// UserListResponse represents a list of users.
type UserListResponse struct {
	Data []UserResponse `json:"data"`
}

// UserSummary is the short user form embedded in device responses.
type UserSummary struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(u model.User) UserResponse {
	roles := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = string(r)
	}
	return UserResponse{
		ID:        u.ID.String(),
		Login:     u.Login,
		Name:      u.Name,
		Surname:   u.Surname,
		BirthDate: FormatDate(u.BirthDate),
		Email:     u.Email,
		Roles:     roles,
	}
}

// ToUserListResponse converts users to UserListResponse DTO.
func ToUserListResponse(users []model.User) UserListResponse {
	data := make([]UserResponse, len(users))
	for i, u := range users {
		data[i] = ToUserResponse(u)
	}
	return UserListResponse{Data: data}
}
