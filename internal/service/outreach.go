// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"

	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/platform"
)

// OutreachService handles the two public intake forms: volunteer
// applications and donation launch notifications.
type OutreachService struct {
	// Public form inserts go through the anon client, same as any visitor.
	public *platform.Data
	// Admin list/delete operations use the service client.
	admin     *platform.Data
	functions *platform.Functions
}

// NewOutreachService creates an outreach service.
func NewOutreachService(client *platform.Client) *OutreachService {
	return &OutreachService{
		public:    client.Data(),
		admin:     client.DataAsService(),
		functions: client.Functions(),
	}
}

// SubmitApplication validates and stores a volunteer application. On
// validation failure the field errors are returned and nothing is written.
func (s *OutreachService) SubmitApplication(ctx context.Context, app model.VolunteerApplication) (map[string]string, error) {
	if errs := app.Validate(); len(errs) > 0 {
		return errs, nil
	}

	// created_at is platform-assigned; send only the form fields.
	return nil, s.public.Insert(ctx, tableApplications, map[string]string{
		"name":           app.Name,
		"email":          app.Email,
		"phone":          app.Phone,
		"school":         app.School,
		"location":       app.Location,
		"motivation":     app.Motivation,
		"interview_time": app.InterviewTime,
	}, nil)
}

// ListApplications returns all applications, newest first.
func (s *OutreachService) ListApplications(ctx context.Context) ([]model.VolunteerApplication, error) {
	var apps []model.VolunteerApplication
	err := s.admin.From(tableApplications).Order("created_at", true).Get(ctx, &apps)
	return apps, err
}

// DeleteApplication removes an application by id.
func (s *OutreachService) DeleteApplication(ctx context.Context, id int64) error {
	return s.admin.Delete(tableApplications).Eq("id", id).Exec(ctx)
}

// SubscribeDonationNotify registers an email for the donations launch
// announcement via the notify-donation function, which stores the row and
// sends the confirmation email in one step.
func (s *OutreachService) SubscribeDonationNotify(ctx context.Context, email string) error {
	return s.functions.NotifyDonation(ctx, email)
}

// ListDonationNotify returns all notification sign-ups, newest first.
func (s *OutreachService) ListDonationNotify(ctx context.Context) ([]model.DonationNotifyEntry, error) {
	var entries []model.DonationNotifyEntry
	err := s.admin.From(tableDonateNotify).Order("created_at", true).Get(ctx, &entries)
	return entries, err
}

// DeleteDonationNotify removes a notification sign-up by id.
func (s *OutreachService) DeleteDonationNotify(ctx context.Context, id int64) error {
	return s.admin.Delete(tableDonateNotify).Eq("id", id).Exec(ctx)
}
