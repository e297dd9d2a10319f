package ids

import "github.com/oklog/ulid/v2"

// New returns a lexicographically sortable identifier used for request
// tracing. Order and user documents use store-assigned ObjectIDs instead.
func New() string {
	return ulid.Make().String()
}
