// Package query exposes the read API over a built store: ranked search with
// category and tag filtering, single-chunk lookup, vocabulary listings,
// paginated document listing, and tag-overlap relatedness. Search responses
// are memoized in a bounded LRU cache that is purged on rebuild.
package query
