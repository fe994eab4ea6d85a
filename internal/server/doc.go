// Package server implements the catalog backend consumed by the gallery client.
//
// Routes:
//
//	GET /api/pokemons?page={n}&size={m}  one page of records (empty array past the end)
//	GET /api/pokemons/{id}               a single record, 404 when absent
//	GET /health                          liveness plus catalog size
//
// The record set is produced by a source.Source, kept in memory, persisted through the
// on-disk cache and rebuilt on a fixed refresh interval.
package server
