package models

// ResourceDiff is the outcome of comparing the set of locally known remote
// ids with a full remote collection.
type ResourceDiff struct {
	Added   []Payload
	Changed []Payload
	Removed []RemoteID
}

// Empty reports whether the diff requires no work.
func (d ResourceDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Changed) == 0 && len(d.Removed) == 0
}

// ResourceVersionDiff is the outcome of comparing two {id: version} maps.
// Ids present in both maps with equal versions appear in none of the lists.
type ResourceVersionDiff struct {
	Added   []RemoteID
	Changed []RemoteID
	Removed []RemoteID
}

// Empty reports whether the diff requires no work.
func (d ResourceVersionDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Changed) == 0 && len(d.Removed) == 0
}

// ResourceVersion is one element returned by a synchronization endpoint.
type ResourceVersion struct {
	ID      RemoteID `json:"id"`
	Version int64    `json:"version"`
}
