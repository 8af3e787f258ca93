package domain

import (
	"strings"
	"unicode/utf8"
)

// User is a person who creates issues and writes comments.
// The name doubles as the lookup key.
type User struct {
	Name  string
	Email string
}

// NewUser creates a user value.
func NewUser(name, email string) User {
	return User{Name: name, Email: email}
}

// Is reports whether u and other are the same user. Users compare by name.
func (u User) Is(other User) bool {
	return u.Name == other.Name
}

// validate rejects names and emails that would not survive a JSON snapshot.
func (u User) validate() error {
	return validateText(u.Name, u.Email)
}

// validateText returns ErrInvalidText if any of ss is not valid UTF-8.
func validateText(ss ...string) error {
	for _, s := range ss {
		if !utf8.ValidString(s) {
			return ErrInvalidText
		}
	}
	return nil
}

// String returns "name <email>", or just the name when email is empty.
func (u User) String() string {
	if u.Email == "" {
		return u.Name
	}
	return u.Name + " <" + u.Email + ">"
}

// Users is the ordered, append-only user directory.
// Names are unique so that lookups by name are unambiguous.
type Users struct {
	items []User
}

// NewUsers creates a directory holding the given users in order.
// Duplicate names after the first occurrence are rejected.
func NewUsers(users ...User) (*Users, error) {
	d := &Users{items: make([]User, 0, len(users))}
	for _, u := range users {
		if err := d.Add(u); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Add appends a user. The name must be non-empty and not already present.
func (d *Users) Add(u User) error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyUserName
	}
	if err := u.validate(); err != nil {
		return err
	}
	if _, ok := d.Find(u.Name); ok {
		return ErrUserExists
	}
	d.items = append(d.items, u)
	return nil
}

// Find looks a user up by name.
func (d *Users) Find(name string) (User, bool) {
	for _, u := range d.items {
		if u.Name == name {
			return u, true
		}
	}
	return User{}, false
}

// List returns the users in insertion order.
func (d *Users) List() []User {
	return append(make([]User, 0, len(d.items)), d.items...)
}

// Len returns the number of users.
func (d *Users) Len() int {
	return len(d.items)
}

func (d *Users) clone() *Users {
	return &Users{items: d.List()}
}
