// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package platform

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Data exposes the table data API contract: filtered reads, inserts,
// updates, deletes, upserts and named RPCs. Every row the site shows or
// edits goes through here; the tables themselves live on the platform.
type Data struct {
	client *Client
	token  string
}

// Data returns a data client authorized with the public anon key, subject
// to the platform's row security policies.
func (c *Client) Data() *Data {
	return &Data{client: c}
}

// DataAsService returns a data client authorized with the service-role key
// (falling back to the anon key when none is configured). Admin-side writes
// use this.
func (c *Client) DataAsService() *Data {
	return &Data{client: c, token: c.serviceToken()}
}

// DataWithToken returns a data client acting as the given user token.
func (c *Client) DataWithToken(token string) *Data {
	return &Data{client: c, token: token}
}

// From starts a read query against a table.
func (d *Data) From(table string) *Query {
	return &Query{data: d, table: table, columns: "*"}
}

// Query is a fluent builder for a single-table read.
type Query struct {
	data    *Data
	table   string
	columns string
	filters []filter
	order   string
	limit   int
}

type filter struct {
	column string
	op     string
	value  string
}

// Select sets the column list (defaults to "*").
func (q *Query) Select(columns string) *Query {
	if columns != "" {
		q.columns = columns
	}
	return q
}

// Eq adds an equality filter.
func (q *Query) Eq(column string, value any) *Query {
	q.filters = append(q.filters, filter{column: column, op: "eq", value: fmt.Sprint(value)})
	return q
}

// Order sets the result ordering.
func (q *Query) Order(column string, descending bool) *Query {
	dir := "asc"
	if descending {
		dir = "desc"
	}
	q.order = column + "." + dir
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// path renders the query as a request path with encoded parameters.
func (q *Query) path() string {
	params := url.Values{}
	params.Set("select", q.columns)
	for _, f := range q.filters {
		params.Add(f.column, f.op+"."+f.value)
	}
	if q.order != "" {
		params.Set("order", q.order)
	}
	if q.limit > 0 {
		params.Set("limit", strconv.Itoa(q.limit))
	}
	return "/rest/v1/" + q.table + "?" + params.Encode()
}

// Get executes the query and unmarshals the row array into dest.
func (q *Query) Get(ctx context.Context, dest any) error {
	return q.data.client.doJSON(ctx, "GET", q.path(), nil, dest,
		requestOptions{service: ServiceData, token: q.data.token})
}

// Single executes the query expecting exactly one row. A query matching no
// rows fails with an error for which IsNoRows returns true.
func (q *Query) Single(ctx context.Context, dest any) error {
	return q.data.client.doJSON(ctx, "GET", q.path(), nil, dest,
		requestOptions{
			service: ServiceData,
			token:   q.data.token,
			headers: map[string]string{"Accept": "application/vnd.pgrst.object+json"},
		})
}

// Insert writes rows (a struct, or slice of structs) to a table. When dest
// is non-nil the inserted rows are returned into it.
func (d *Data) Insert(ctx context.Context, table string, rows, dest any) error {
	opts := requestOptions{service: ServiceData, token: d.token}
	if dest != nil {
		opts.headers = map[string]string{"Prefer": "return=representation"}
	}
	return d.client.doJSON(ctx, "POST", "/rest/v1/"+table, rows, dest, opts)
}

// Upsert writes a row, overwriting any existing row with the same value in
// the conflict key column.
func (d *Data) Upsert(ctx context.Context, table string, row any, conflictKey string) error {
	path := "/rest/v1/" + table + "?on_conflict=" + url.QueryEscape(conflictKey)
	return d.client.doJSON(ctx, "POST", path, row, nil, requestOptions{
		service: ServiceData,
		token:   d.token,
		headers: map[string]string{"Prefer": "resolution=merge-duplicates"},
	})
}

// Update starts a patch mutation against a table. At least one filter must
// be added before Exec.
func (d *Data) Update(table string, patch any) *Mutation {
	return &Mutation{data: d, table: table, method: "PATCH", payload: patch}
}

// Delete starts a delete mutation against a table. At least one filter must
// be added before Exec.
func (d *Data) Delete(table string) *Mutation {
	return &Mutation{data: d, table: table, method: "DELETE"}
}

// Mutation is a fluent builder for an update or delete.
type Mutation struct {
	data    *Data
	table   string
	method  string
	payload any
	filters []filter
}

// Eq adds an equality filter.
func (m *Mutation) Eq(column string, value any) *Mutation {
	m.filters = append(m.filters, filter{column: column, op: "eq", value: fmt.Sprint(value)})
	return m
}

// Exec runs the mutation. Unfiltered mutations are rejected so a missing
// Eq can never wipe a whole table.
func (m *Mutation) Exec(ctx context.Context) error {
	if len(m.filters) == 0 {
		return fmt.Errorf("platform: refusing unfiltered %s on %s", m.method, m.table)
	}
	params := url.Values{}
	for _, f := range m.filters {
		params.Add(f.column, f.op+"."+f.value)
	}
	path := "/rest/v1/" + m.table + "?" + params.Encode()
	return m.data.client.doJSON(ctx, m.method, path, m.payload, nil,
		requestOptions{service: ServiceData, token: m.data.token})
}

// RPC calls a named procedure on the data API. The response is either a
// single object or an array, depending on the procedure; dest must match.
func (d *Data) RPC(ctx context.Context, name string, args, dest any) error {
	if args == nil {
		args = map[string]any{}
	}
	return d.client.doJSON(ctx, "POST", "/rest/v1/rpc/"+name, args, dest,
		requestOptions{service: ServiceData, token: d.token})
}
