// Package feed keeps a client-side view of one section's construction updates
// and their review threads consistent with the server.
//
// Nothing is applied locally before the server confirms it. Confirmed review
// mutations are patched into the in-memory feed (append, replace, remove);
// posting a new update always triggers a full refetch because the server picks
// the entry id and ordering. A Session is the screen-scoped owner of that state.
package feed
