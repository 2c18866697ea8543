// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the entities exchanged with the hosted data platform.
// All of them are owned and persisted by the platform; the application only
// holds transient in-memory copies. JSON tags match the platform table
// columns exactly.
package model

import (
	"strings"
	"time"
)

// Roles recognized by the admin console.
const (
	RoleAdmin = "admin"
)

// Profile extends an authenticated identity with role and name fields.
// One row per identity, stored in the "profiles" table.
type Profile struct {
	ID        string `json:"id"`
	Role      string `json:"role,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
}

// Complete reports whether the profile has both name parts filled in.
// Whitespace-only values do not count.
func (p Profile) Complete() bool {
	return strings.TrimSpace(p.FirstName) != "" && strings.TrimSpace(p.LastName) != ""
}

// IsAdmin reports whether the profile carries the admin role.
func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// TimelineEvent is an admin-authored milestone shown on the public timeline.
// Stored in the "timeline" table. Date is a calendar date in YYYY-MM-DD form.
type TimelineEvent struct {
	ID          int64  `json:"id,omitempty"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// MonthlyStat holds one month of collection figures, keyed by the calendar
// month in YYYY-MM form. The "stats_monthly" table enforces month uniqueness;
// writes go through an upsert with month as the conflict key.
type MonthlyStat struct {
	ID               *int64  `json:"id,omitempty"`
	Month            string  `json:"month"`
	PlasticCollected float64 `json:"plastic_collected"`
	PlasticRecycled  float64 `json:"plastic_recycled"`
	Volunteers       int     `json:"volunteers"`
}

// StatsTotals is the response schema of the get_stats_totals RPC.
// The platform function returns exactly these column names.
type StatsTotals struct {
	PlasticCollected float64 `json:"plastic_collected"`
	PlasticRecycled  float64 `json:"plastic_recycled"`
	Volunteers       int     `json:"volunteers"`
}

// GalleryItem is one photo in the public gallery, grouped by year.
// Stored in the "gallery" table.
type GalleryItem struct {
	ID       int64  `json:"id,omitempty"`
	Year     int    `json:"year"`
	ImageURL string `json:"image_url"`
}

// Research entry types.
const (
	ResearchTypeNews   = "News"
	ResearchTypePaper  = "Paper"
	ResearchTypeReport = "Report"
)

// ResearchTypes lists the valid research entry types in display order.
var ResearchTypes = []string{ResearchTypeNews, ResearchTypePaper, ResearchTypeReport}

// ValidResearchType reports whether t is one of the known research types.
func ValidResearchType(t string) bool {
	for _, rt := range ResearchTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// ResearchItem is a published news/paper/report entry in the "research" table.
type ResearchItem struct {
	ID          int64  `json:"id,omitempty"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Date        string `json:"date"`
	Link        string `json:"link"`
}

// VolunteerApplication is a submission from the public apply form, stored in
// the "volunteer_applications" table. Append-only from the form; admins may
// delete rows.
type VolunteerApplication struct {
	ID            int64     `json:"id,omitempty"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	School        string    `json:"school"`
	Location      string    `json:"location"`
	Motivation    string    `json:"motivation"`
	InterviewTime string    `json:"interview_time"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// DonationNotifyEntry records an email address to be notified once donations
// go live. Stored in the "donation_notify" table.
type DonationNotifyEntry struct {
	ID        int64     `json:"id,omitempty"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Member is one entry on the public members page, stored in the "members"
// table and grouped by team for display.
type Member struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Team     string `json:"team"`
	ImageURL string `json:"image_url"`
}
