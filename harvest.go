// Package harvest provides a resumable harvester for paginated publication
// archives. It walks the archive's listing pages to discover item URLs,
// records them in a tabular dataset, and later enriches each record with
// the publication's title and body text.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, csv/, sqlite/).
package harvest
