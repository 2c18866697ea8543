// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route constants used across handlers.
const (
	RouteRoot            = "/"
	RouteLogin           = "/login"
	RouteRegister        = "/register"
	RouteCompleteProfile = "/complete-profile"
	RouteApply           = "/apply"
	RouteDonate          = "/donate"

	RouteAdmin             = "/admin"
	RouteAdminTimeline     = "/admin/timeline"
	RouteAdminStats        = "/admin/stats"
	RouteAdminGallery      = "/admin/gallery"
	RouteAdminResearch     = "/admin/research"
	RouteAdminApplications = "/admin/applications"
	RouteAdminDonations    = "/admin/donations"
	RouteAdminMembers      = "/admin/members"
)
