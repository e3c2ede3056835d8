// The [adminkit] package implements the client-side core shared by the admin
// screens of the TalentBase HR/training platform.
//
// # Remote Collection Client
//
// [Client] talks to the platform's REST API. Every entity collection lives
// under /api/{scope}/{entity}, where the scope is either the super-admin
// namespace ([ScopeSuperAdmin]) or a per-company namespace ([CompanyScope]).
//
// [Resource] is a typed handle for one collection and exposes the five
// operations every screen needs: List, Get, Create, Update, Patch and Delete.
// All of them take a [context.Context] and return either a decoded entity or
// a single [*Error] carrying a human-readable message — a failed call never
// panics and never returns a half-decoded value.
//
// # Entity List Controller
//
// The [github.com/talentbase/adminkit.go/pkg/controller] package holds the
// list/filter/mutation state machine every admin screen shares: it owns the
// in-memory collection, reconciles duplicate rows on fetch, derives the
// filtered view, and applies successful mutations locally instead of
// refetching.
//
// Destructive deletes go through the staged dialog in
// [github.com/talentbase/adminkit.go/pkg/confirm], which always offers
// deactivation as the softer alternative at the final step.
//
// # Configuration
//
// Use [New] with options for explicit wiring, or [FromEnv] to read the
// ADMINKIT_* environment (optionally via a .env file, see
// [github.com/talentbase/adminkit.go/pkg/config]).
package adminkit
