// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	monthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	dateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidEmail reports whether s looks like an email address. Same shape check
// the public forms use; deliverability is the mail system's problem.
func ValidEmail(s string) bool {
	return emailRegex.MatchString(strings.TrimSpace(s))
}

// ValidMonth reports whether s is a calendar month in YYYY-MM form.
func ValidMonth(s string) bool {
	return monthRegex.MatchString(s)
}

// ValidDate reports whether s is a calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	return dateRegex.MatchString(s)
}

// Validate checks all required application fields and returns a map of
// field name to error message. An empty map means the application may be
// submitted; nothing is inserted while any field error remains.
func (a VolunteerApplication) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(a.Name) == "" {
		errs["name"] = "Name is required."
	}
	if strings.TrimSpace(a.Email) == "" {
		errs["email"] = "Email is required."
	} else if !ValidEmail(a.Email) {
		errs["email"] = "Enter a valid email address."
	}
	if strings.TrimSpace(a.Phone) == "" {
		errs["phone"] = "Phone is required."
	}
	if strings.TrimSpace(a.School) == "" {
		errs["school"] = "School is required."
	}
	if strings.TrimSpace(a.Location) == "" {
		errs["location"] = "Location is required."
	}
	if strings.TrimSpace(a.Motivation) == "" {
		errs["motivation"] = "Motivation is required."
	}
	if a.InterviewTime == "" {
		errs["interview_time"] = "Interview time is required."
	}

	return errs
}

// Validate checks a monthly stat row before it is upserted.
func (s MonthlyStat) Validate() map[string]string {
	errs := make(map[string]string)

	if s.Month == "" {
		errs["month"] = "Month is required."
	} else if !ValidMonth(s.Month) {
		errs["month"] = "Month must be in YYYY-MM format."
	}
	if s.PlasticCollected < 0 {
		errs["plastic_collected"] = "Collected amount cannot be negative."
	}
	if s.PlasticRecycled < 0 {
		errs["plastic_recycled"] = "Recycled amount cannot be negative."
	}
	if s.Volunteers < 0 {
		errs["volunteers"] = "Volunteer count cannot be negative."
	}

	return errs
}

// Validate checks a research entry before it is saved.
func (r ResearchItem) Validate() map[string]string {
	errs := make(map[string]string)

	if !ValidResearchType(r.Type) {
		errs["type"] = "Type must be News, Paper or Report."
	}
	if strings.TrimSpace(r.Title) == "" {
		errs["title"] = "Title is required."
	}
	if r.Date != "" && !ValidDate(r.Date) {
		errs["date"] = "Date must be in YYYY-MM-DD format."
	}

	return errs
}

// Validate checks a timeline event before it is saved.
func (e TimelineEvent) Validate() map[string]string {
	errs := make(map[string]string)

	if e.Date == "" {
		errs["date"] = "Date is required."
	} else if !ValidDate(e.Date) {
		errs["date"] = "Date must be in YYYY-MM-DD format."
	}
	if strings.TrimSpace(e.Title) == "" {
		errs["title"] = "Title is required."
	}

	return errs
}
