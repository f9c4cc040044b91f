// Package client is the typed layer screens use to talk to the REST backend.
//
// # Overview
//
//  1. HTTPClient issues JSON requests through a Doer, in production the
//     interceptor pipeline, so base URL, bearer token, loading tracking and
//     error classification apply to every call. Paths are relative.
//  2. Client is the contract of the auth endpoints (login, forgot and reset
//     password) implemented by HTTPClient.
//  3. Resource is a generic CRUD accessor for one backend collection;
//     Catalogs bundles the collections the console browses.
//  4. InitDatabase and RunMigrations bootstrap the local SQLite store.
//
// # Error Handling
//
// Errors coming from the Doer are returned unchanged, so callers can match
// them with errors.Is against the sentinels in package common. Bodies that
// fail to decode are reported as ErrDecode.
package client
