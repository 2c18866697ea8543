// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

import (
	"context"
)

// Functions exposes the serverless function invocation contract.
type Functions struct {
	client *Client
}

// Functions returns the functions client.
func (c *Client) Functions() *Functions {
	return &Functions{client: c}
}

// Invoke calls a named function with a JSON body. The response, if any, is
// unmarshaled into dest.
func (f *Functions) Invoke(ctx context.Context, name string, payload, dest any) error {
	return f.client.doJSON(ctx, "POST", "/functions/v1/"+name, payload, dest,
		requestOptions{service: ServiceFunctions})
}

// NotifyDonation records an email address to be notified once donations go
// live. The function also sends the confirmation email.
func (f *Functions) NotifyDonation(ctx context.Context, email string) error {
	return f.Invoke(ctx, "notify-donation", map[string]string{"email": email}, nil)
}
