// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the business logic between handlers and the
// data platform: content queries, impact statistics, outreach forms, and
// image uploads.
package service

import (
	"context"
	"sort"

	"github.com/sarangxanh/site/internal/model"
	"github.com/sarangxanh/site/internal/platform"
)

// Platform table names.
const (
	tableTimeline     = "timeline"
	tableGallery      = "gallery"
	tableResearch     = "research"
	tableMembers      = "members"
	tableStatsMonthly = "stats_monthly"
	tableApplications = "volunteer_applications"
	tableDonateNotify = "donation_notify"
)

// ContentService reads and writes the public-site content tables. Reads go
// through the anon-key client; writes use the service client since only
// the admin console reaches them.
type ContentService struct {
	read  *platform.Data
	write *platform.Data
}

// NewContentService creates a content service over the platform client.
func NewContentService(client *platform.Client) *ContentService {
	return &ContentService{
		read:  client.Data(),
		write: client.DataAsService(),
	}
}

// ListTimeline returns all timeline events, oldest first.
func (s *ContentService) ListTimeline(ctx context.Context) ([]model.TimelineEvent, error) {
	var events []model.TimelineEvent
	err := s.read.From(tableTimeline).Order("date", false).Get(ctx, &events)
	return events, err
}

// GetTimelineEvent returns one timeline event by id.
func (s *ContentService) GetTimelineEvent(ctx context.Context, id int64) (model.TimelineEvent, error) {
	var event model.TimelineEvent
	err := s.read.From(tableTimeline).Eq("id", id).Single(ctx, &event)
	return event, err
}

// CreateTimelineEvent inserts a timeline event and returns the stored row.
func (s *ContentService) CreateTimelineEvent(ctx context.Context, event model.TimelineEvent) (model.TimelineEvent, error) {
	var inserted []model.TimelineEvent
	if err := s.write.Insert(ctx, tableTimeline, event, &inserted); err != nil {
		return model.TimelineEvent{}, err
	}
	if len(inserted) == 0 {
		return event, nil
	}
	return inserted[0], nil
}

// UpdateTimelineEvent patches a timeline event by id.
func (s *ContentService) UpdateTimelineEvent(ctx context.Context, id int64, event model.TimelineEvent) error {
	patch := map[string]string{
		"date":        event.Date,
		"title":       event.Title,
		"description": event.Description,
	}
	if event.ImageURL != "" {
		patch["image_url"] = event.ImageURL
	}
	return s.write.Update(tableTimeline, patch).Eq("id", id).Exec(ctx)
}

// DeleteTimelineEvent removes a timeline event by id.
func (s *ContentService) DeleteTimelineEvent(ctx context.Context, id int64) error {
	return s.write.Delete(tableTimeline).Eq("id", id).Exec(ctx)
}

// ListGallery returns all gallery items, newest year first.
func (s *ContentService) ListGallery(ctx context.Context) ([]model.GalleryItem, error) {
	var items []model.GalleryItem
	err := s.read.From(tableGallery).Order("year", true).Get(ctx, &items)
	return items, err
}

// GalleryYear is one year's worth of gallery photos.
type GalleryYear struct {
	Year  int
	Items []model.GalleryItem
}

// GalleryByYear groups gallery items by year, newest year first.
func GalleryByYear(items []model.GalleryItem) []GalleryYear {
	byYear := make(map[int][]model.GalleryItem)
	for _, item := range items {
		byYear[item.Year] = append(byYear[item.Year], item)
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	grouped := make([]GalleryYear, 0, len(years))
	for _, year := range years {
		grouped = append(grouped, GalleryYear{Year: year, Items: byYear[year]})
	}
	return grouped
}

// CreateGalleryItem inserts a gallery item.
func (s *ContentService) CreateGalleryItem(ctx context.Context, item model.GalleryItem) error {
	return s.write.Insert(ctx, tableGallery, item, nil)
}

// GetGalleryItem returns one gallery item by id.
func (s *ContentService) GetGalleryItem(ctx context.Context, id int64) (model.GalleryItem, error) {
	var item model.GalleryItem
	err := s.read.From(tableGallery).Eq("id", id).Single(ctx, &item)
	return item, err
}

// DeleteGalleryItem removes a gallery item by id.
func (s *ContentService) DeleteGalleryItem(ctx context.Context, id int64) error {
	return s.write.Delete(tableGallery).Eq("id", id).Exec(ctx)
}

// ListResearch returns all research entries, newest first.
func (s *ContentService) ListResearch(ctx context.Context) ([]model.ResearchItem, error) {
	var items []model.ResearchItem
	err := s.read.From(tableResearch).Order("date", true).Get(ctx, &items)
	return items, err
}

// GetResearchItem returns one research entry by id.
func (s *ContentService) GetResearchItem(ctx context.Context, id int64) (model.ResearchItem, error) {
	var item model.ResearchItem
	err := s.read.From(tableResearch).Eq("id", id).Single(ctx, &item)
	return item, err
}

// CreateResearchItem inserts a research entry.
func (s *ContentService) CreateResearchItem(ctx context.Context, item model.ResearchItem) error {
	return s.write.Insert(ctx, tableResearch, item, nil)
}

// UpdateResearchItem patches a research entry by id.
func (s *ContentService) UpdateResearchItem(ctx context.Context, id int64, item model.ResearchItem) error {
	patch := map[string]string{
		"type":        item.Type,
		"title":       item.Title,
		"description": item.Description,
		"source":      item.Source,
		"date":        item.Date,
		"link":        item.Link,
	}
	return s.write.Update(tableResearch, patch).Eq("id", id).Exec(ctx)
}

// DeleteResearchItem removes a research entry by id.
func (s *ContentService) DeleteResearchItem(ctx context.Context, id int64) error {
	return s.write.Delete(tableResearch).Eq("id", id).Exec(ctx)
}

// ListMembers returns all members in insertion order.
func (s *ContentService) ListMembers(ctx context.Context) ([]model.Member, error) {
	var members []model.Member
	err := s.read.From(tableMembers).Order("id", false).Get(ctx, &members)
	return members, err
}

// MemberTeam is one team's members, for the grouped members page.
type MemberTeam struct {
	Team    string
	Members []model.Member
}

// MembersByTeam groups members by team, preserving the order teams first
// appear in.
func MembersByTeam(members []model.Member) []MemberTeam {
	index := make(map[string]int)
	var grouped []MemberTeam

	for _, m := range members {
		i, ok := index[m.Team]
		if !ok {
			i = len(grouped)
			index[m.Team] = i
			grouped = append(grouped, MemberTeam{Team: m.Team})
		}
		grouped[i].Members = append(grouped[i].Members, m)
	}
	return grouped
}

// GetMember returns one member by id.
func (s *ContentService) GetMember(ctx context.Context, id int64) (model.Member, error) {
	var member model.Member
	err := s.read.From(tableMembers).Eq("id", id).Single(ctx, &member)
	return member, err
}

// CreateMember inserts a member.
func (s *ContentService) CreateMember(ctx context.Context, member model.Member) error {
	return s.write.Insert(ctx, tableMembers, member, nil)
}

// UpdateMember patches a member by id.
func (s *ContentService) UpdateMember(ctx context.Context, id int64, member model.Member) error {
	patch := map[string]string{
		"name": member.Name,
		"role": member.Role,
		"team": member.Team,
	}
	if member.ImageURL != "" {
		patch["image_url"] = member.ImageURL
	}
	return s.write.Update(tableMembers, patch).Eq("id", id).Exec(ctx)
}

// DeleteMember removes a member by id.
func (s *ContentService) DeleteMember(ctx context.Context, id int64) error {
	return s.write.Delete(tableMembers).Eq("id", id).Exec(ctx)
}
