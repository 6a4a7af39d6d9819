// Package indexer rebuilds the store from a document corpus.
//
// A build discards the prior store content, splits every document into
// chunks concurrently, and then populates docs, the tag vocabulary,
// doc-tag memberships, and the chunk full-text index inside a single
// transaction. A failed build leaves the recreated, unpopulated store;
// partial state is never visible.
package indexer
