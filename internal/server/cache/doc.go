// Package cache persists assembled catalogs on disk with TTL expiration.
//
// Building the catalog from PokeAPI costs one upstream request per record, so the
// server saves each successful build under $XDG_CACHE_HOME/pokedeck and reuses it
// across restarts until it expires. Snapshots are keyed by a SHA256 of the source
// description, so changing --total or --upstream never serves a stale catalog.
package cache
