package users

import "github.com/lyceumd/lyceumd/internal/directory"

// UpdateUserRequest carries the profile fields an account may change.
type UpdateUserRequest struct {
	DisplayName    *string  `json:"displayName,omitempty" validate:"omitempty,max=200"`
	ProxyAddresses []string `json:"proxyAddresses,omitempty" validate:"omitempty,dive,email"`
}

// SetFirstPasswordRequest sets the readable default password. When
// set_current is true the current password is overwritten too.
type SetFirstPasswordRequest struct {
	Password   string `json:"password" validate:"required,min=7,max=128"`
	SetCurrent bool   `json:"set_current"`
}

// SetCurrentPasswordRequest sets the current password. When set_first is
// true the default password is overwritten too.
type SetCurrentPasswordRequest struct {
	Password string `json:"password" validate:"required,min=7,max=128"`
	SetFirst bool   `json:"set_first"`
}

// UserListRequest names the accounts a batch operation targets.
type UserListRequest struct {
	Users []string `json:"users"`
}

// UserResponse is the JSON shape of a directory account.
type UserResponse struct {
	User             string   `json:"user"`
	Surname          string   `json:"sn"`
	GivenName        string   `json:"givenName"`
	DisplayName      string   `json:"displayName"`
	Role             string   `json:"role"`
	School           string   `json:"school"`
	AdminClass       string   `json:"adminClass,omitempty"`
	ProxyAddresses   []string `json:"proxyAddresses,omitempty"`
	FirstPasswordSet *bool    `json:"firstPasswordSet,omitempty"`
}

func toResponse(record *directory.Record, withFirstPw bool) UserResponse {
	resp := UserResponse{
		User:           record.User,
		Surname:        record.Surname,
		GivenName:      record.GivenName,
		DisplayName:    record.DisplayName,
		Role:           string(record.Role),
		School:         record.School,
		AdminClass:     record.AdminClass,
		ProxyAddresses: record.ProxyAddresses,
	}
	if withFirstPw {
		set := record.FirstPasswordSet
		resp.FirstPasswordSet = &set
	}
	return resp
}
