package policy

import (
	"sort"
	"strings"
	"time"
)

// AdminSource names where an admin allow-list entry comes from
type AdminSource string

const (
	AdminSourceEnv      AdminSource = "env"
	AdminSourceDatabase AdminSource = "database"
)

// AdminEntry is one email in the merged admin allow-list
type AdminEntry struct {
	Email       string        `json:"email"`
	Sources     []AdminSource `json:"sources"`
	ID          string        `json:"id,omitempty"`
	AddedByName string        `json:"added_by_name,omitempty"`
	CreatedAt   *time.Time    `json:"created_at,omitempty"`
}

// HasSource reports whether the entry is backed by source
func (e AdminEntry) HasSource(source AdminSource) bool {
	for _, s := range e.Sources {
		if s == source {
			return true
		}
	}
	return false
}

// Removable reports whether deleting the database row revokes admin access.
// The env list is a floor the database list cannot undercut.
func (e AdminEntry) Removable() bool {
	return e.HasSource(AdminSourceDatabase) && !e.HasSource(AdminSourceEnv)
}

// DatabaseAdmin is the subset of an AdminEmail row the merge needs
type DatabaseAdmin struct {
	ID          string
	Email       string
	AddedByName string
	CreatedAt   time.Time
}

// NormalizeEmail trims and lowercases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ParseAdminEmails splits a comma-separated list, normalizing each entry and
// dropping empties and duplicates.
func ParseAdminEmails(raw string) []string {
	var emails []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		email := NormalizeEmail(part)
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}
	return emails
}

// MergeAdminSources produces the deduplicated allow-list view, sorted by email
func MergeAdminSources(env []string, db []DatabaseAdmin) []AdminEntry {
	byEmail := make(map[string]*AdminEntry)
	for _, raw := range env {
		email := NormalizeEmail(raw)
		if email == "" {
			continue
		}
		entry, ok := byEmail[email]
		if !ok {
			entry = &AdminEntry{Email: email}
			byEmail[email] = entry
		}
		if !entry.HasSource(AdminSourceEnv) {
			entry.Sources = append(entry.Sources, AdminSourceEnv)
		}
	}
	for _, row := range db {
		email := NormalizeEmail(row.Email)
		entry, ok := byEmail[email]
		if !ok {
			entry = &AdminEntry{Email: email}
			byEmail[email] = entry
		}
		if !entry.HasSource(AdminSourceDatabase) {
			entry.Sources = append(entry.Sources, AdminSourceDatabase)
		}
		createdAt := row.CreatedAt
		entry.ID = row.ID
		entry.AddedByName = row.AddedByName
		entry.CreatedAt = &createdAt
	}

	entries := make([]AdminEntry, 0, len(byEmail))
	for _, entry := range byEmail {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Email < entries[j].Email })
	return entries
}

// InEnvList reports whether email is part of the static allow-list
func InEnvList(env []string, email string) bool {
	email = NormalizeEmail(email)
	for _, e := range env {
		if NormalizeEmail(e) == email {
			return true
		}
	}
	return false
}
