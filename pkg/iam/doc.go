// Package iam (Identity and Access Management) provides authentication,
// session management, and role/permission authorization for a single
// service boundary.
//
// # Overview
//
// The iam package is organized into sub-packages that compose together
// through iamcontainer:
//
//   - iam/store      — Session Store domain types and the repository port
//   - iam/storeinfra — Postgres implementation of the Session Store
//   - iam/auth       — token claims, collaborator ports, and the Auth Manager
//   - iam/auth/authinfra — JWT codec, Redis refresh cache, bcrypt hasher,
//     audit logging, background session reconciliation
//   - iam/auth/authapi   — fiber HTTP handlers and the Authenticate middleware
//   - iam/oauth      — OAuthClient port plus Google and Yandex implementations
//   - iam/oauth/oauthinfra — Redis-backed OAuth state challenge store
//   - iam/notify     — outbound client to the notifications service
//   - iam/rbac       — role and permission name enumeration, default seeding
//
// # Authentication
//
// Users authenticate with local email/password credentials or by completing
// an OAuth2 authorization-code flow against Google or Yandex. Both paths
// converge on the same session and token issuance path in auth.Manager.
//
// # Authorization
//
// Authorization is permission-based. Permission names follow the pattern
// "action_resource" (e.g. "create_content"); a role's permission set is a
// static map seeded by rbac.DefaultRolePermissions, with the superuser role
// holding the "all_of_all" wildcard.
//
// # Sessions
//
// Each successful login creates one Session row, scoped by (user, useragent,
// ip). Liveness is decided by the Redis-backed Refresh Cache, not by the
// persisted is_active column — the column is a secondary index kept
// approximately in sync by a background reconciler.
package iam
