// Package models defines server-side data models persisted in the store.
package models

import (
	"maps"
	"time"
)

// User is a stored account. Profile carries the free-form fields of the
// request body that have no column of their own.
type User struct {
	ID       string
	Email    string
	Password []byte // salted digest, never plaintext
	Salt     []byte
	Active   bool

	Session           *string
	SessionCreateTime *time.Time

	Profile   map[string]any
	CreatedAt time.Time
}

// LoggedIn reports whether the user currently holds a session.
func (u *User) LoggedIn() bool {
	return u.Session != nil
}

// View is the client-visible document of the user: profile fields plus id,
// email, active and created_at. Password, salt and session never leave the
// server.
func (u *User) View() map[string]any {
	v := make(map[string]any, len(u.Profile)+4)
	maps.Copy(v, u.Profile)
	v["id"] = u.ID
	v["email"] = u.Email
	v["active"] = u.Active
	if !u.CreatedAt.IsZero() {
		v["created_at"] = u.CreatedAt.UTC().Format(time.RFC3339)
	}
	return v
}

// Clone returns a deep copy for stores that hand out records.
func (u *User) Clone() *User {
	c := *u
	c.Password = append([]byte(nil), u.Password...)
	c.Salt = append([]byte(nil), u.Salt...)
	if u.Session != nil {
		s := *u.Session
		c.Session = &s
	}
	if u.SessionCreateTime != nil {
		ts := *u.SessionCreateTime
		c.SessionCreateTime = &ts
	}
	if u.Profile != nil {
		c.Profile = cloneValue(u.Profile).(map[string]any)
	}
	return &c
}

// cloneValue copies the nested maps and slices of a decoded JSON value.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}
