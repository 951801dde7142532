// File: internal/model/user.go
package model

import "fmt"

// User is the canonical user record. Password is write-only: it is accepted on
// create/update and persisted, but never serialized back to a client.
type User struct {
	ID        int    `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
	Password  string `db:"password" json:"-"`
}

// UserInfo is the outbound projection of User without the password field.
type UserInfo struct {
	ID        int    `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
}

// Info returns the password-stripped projection of u.
func (u *User) Info() UserInfo {
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// DecodeError reports the first field of an inbound user payload that is
// missing or not a string.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("field %q %s", e.Field, e.Reason)
}

// requiredFields lists the user payload fields in validation order. Each field
// is checked for presence and string type together; the first failure wins.
var requiredFields = []string{"username", "first_name", "last_name", "email", "password"}

// DecodeUser builds a User from a decoded JSON object. All five required
// fields must be present and string-typed; there is no partial decode.
func DecodeUser(body map[string]any) (*User, error) {
	values := make(map[string]string, len(requiredFields))
	for _, field := range requiredFields {
		raw, ok := body[field]
		if !ok {
			return nil, &DecodeError{Field: field, Reason: "is required"}
		}
		s, ok := raw.(string)
		if !ok {
			return nil, &DecodeError{Field: field, Reason: "must be a string"}
		}
		values[field] = s
	}
	return &User{
		Username:  values["username"],
		FirstName: values["first_name"],
		LastName:  values["last_name"],
		Email:     values["email"],
		Password:  values["password"],
	}, nil
}
