// Package doclocate locates documents of interest (PDFs, office files,
// spreadsheets, images) reachable from a web page, a document center portal
// or a recorded list of URLs, and downloads them to deterministic paths.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, bloom/).
package doclocate
