// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

import (
	"context"
	"io"
)

// Storage exposes the hosted object storage contract for one bucket.
type Storage struct {
	client *Client
	bucket string
}

// Storage returns a storage client scoped to the given bucket.
func (c *Client) Storage(bucket string) *Storage {
	return &Storage{client: c, bucket: bucket}
}

// Upload stores an object at the given path inside the bucket. Paths are
// namespaced by feature (gallery/..., timeline/...) and must already be
// collision-free; see util.ObjectName.
func (s *Storage) Upload(ctx context.Context, path, contentType string, r io.Reader) error {
	_, err := s.client.do(ctx, "POST", "/storage/v1/object/"+s.bucket+"/"+path, r,
		requestOptions{
			service:     ServiceStorage,
			token:       s.client.serviceToken(),
			contentType: contentType,
		})
	return err
}

// Delete removes an object from the bucket. Used when an admin deletes the
// row referencing it; a failure here is logged, not fatal.
func (s *Storage) Delete(ctx context.Context, path string) error {
	_, err := s.client.do(ctx, "DELETE", "/storage/v1/object/"+s.bucket+"/"+path, nil,
		requestOptions{service: ServiceStorage, token: s.client.serviceToken()})
	return err
}

// PublicURL returns the public URL for an object in the bucket.
func (s *Storage) PublicURL(path string) string {
	return s.client.baseURL + "/storage/v1/object/public/" + s.bucket + "/" + path
}
