package model

import (
	"strings"
	"time"
)

// Option is one selectable value of a provider (offices, classifications, statuses, ...).
// Value is unique within its provider.
type Option struct {
	Value string `json:"value" toml:"value"`
	Label string `json:"label" toml:"label"`
}

// StatusDef is one member of a status enumeration. Order is the provider's order.
type StatusDef struct {
	ID    string `json:"id" toml:"value"`
	Label string `json:"label" toml:"label"`
}

type Document struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Summary        string     `json:"summary,omitempty"`
	Status         string     `json:"status"`
	Office         string     `json:"office"`
	Classification string     `json:"classification"`
	Type           string     `json:"type"`
	Date           time.Time  `json:"date"`
	ReleasedAt     *time.Time `json:"releasedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Field returns the value of a facet column.
func (d Document) Field(name string) string {
	switch name {
	case "id":
		return d.ID
	case "title":
		return d.Title
	case "status":
		return d.Status
	case "office":
		return d.Office
	case "classification":
		return d.Classification
	case "type":
		return d.Type
	default:
		return ""
	}
}

func (d Document) SearchText() string {
	return d.ID + " " + d.Title
}

// RowDate is the document date used by date-range filters.
func (d Document) RowDate() (time.Time, bool) {
	return d.Date, !d.Date.IsZero()
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile is the "name <email>" line the users table shows and searches.
func (u User) Profile() string {
	name := strings.TrimSpace(u.Name)
	email := strings.TrimSpace(u.Email)
	switch {
	case name == "":
		return email
	case email == "":
		return name
	default:
		return name + " <" + email + ">"
	}
}

func (u User) Field(name string) string {
	switch name {
	case "id":
		return u.ID
	case "profile":
		return u.Profile()
	case "role":
		return u.Role
	case "status":
		return u.Status
	default:
		return ""
	}
}

func (u User) SearchText() string { return u.Profile() }

func (u User) RowDate() (time.Time, bool) {
	return u.CreatedAt, !u.CreatedAt.IsZero()
}
