// Package storage enumerates and tags objects in S3 buckets.
//
// Listings are paginated transparently and returned in service order.
// Placeholder keys ending in "/" (the console's folder markers) are skipped.
// Tagging replaces an object's whole tag set; tags come either from explicit
// key=value pairs or from a JSON tag map keyed by bucket and key prefix.
package storage
