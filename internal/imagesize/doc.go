// Package imagesize looks up the pixel dimensions of images referenced by
// rendered documents, so pages can announce image:width and image:height in
// their social metadata.
//
// Dimensions are decoded from local files or fetched over HTTP and cached in
// a SQLite database keyed by the path or URL as written. A cached entry is
// never refreshed; delete the database to force a new lookup.
package imagesize
