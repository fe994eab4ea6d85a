// Package catalog provides the record model and HTTP client for the creature catalog API.
//
// The catalog backend exposes a single paginated listing endpoint:
//
//	GET {base}/api/pokemons?page={n}&size={m}
//
// which returns a JSON array of records (an empty array signals end-of-data). Key features:
//   - Record decoding that tolerates both bare-string and {"type":{"name":...}} type tags
//   - Numeric or string record identifiers normalised to a single ID type
//   - A classified error taxonomy (connection, bad status, malformed body) so callers can
//     distinguish a dead backend from ordinary end-of-data
package catalog
