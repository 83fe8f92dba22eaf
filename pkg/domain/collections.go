package domain

// CollectionName identifies a collection in the document store and a node in
// the tree store. Values come from the closed set below.
type CollectionName string

// Known collections.
const (
	Users CollectionName = "users"
)

// Collections lists every known collection name.
var Collections = []CollectionName{
	Users,
}

// LookupCollection resolves an untrusted name against the registry.
func LookupCollection(name string) (CollectionName, bool) {
	for _, c := range Collections {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

func (c CollectionName) String() string {
	return string(c)
}
