// Package catalog holds the catalog operations used by the HTTP layer:
// book validation, the home and list views, and the admin mutations.
//
// Mutations assume the caller already passed the capability check. The
// package reports three kinds of failures:
//
//   - *ValidationError for field-level problems (400)
//   - ErrNotFound for missing records or pages (404)
//   - auth.ErrPermissionDenied is raised by the auth layer and never here
package catalog
