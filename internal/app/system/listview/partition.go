package listview

// Rule names a bucket and the predicate that puts an item in it.
type Rule[T any] struct {
	Name  string
	Match func(T) bool
}

// Bucket is one named slice of a partitioned collection.
type Bucket[T any] struct {
	Name  string
	Items []T
}

// Buckets is the ordered result of Partition.
type Buckets[T any] []Bucket[T]

// Get returns the items of the named bucket.
func (bs Buckets[T]) Get(name string) []T {
	for _, b := range bs {
		if b.Name == name {
			return b.Items
		}
	}
	return nil
}

// Partition splits items into disjoint buckets. Rules are tried in order
// and the first match wins, so earlier rules take precedence. Items that
// match no rule land in the fallback bucket. Every rule's bucket is present
// in the result, followed by the fallback, even when empty.
func Partition[T any](items []T, rules []Rule[T], fallback string) Buckets[T] {
	out := make(Buckets[T], len(rules)+1)
	for i, r := range rules {
		out[i].Name = r.Name
	}
	out[len(rules)].Name = fallback

	for _, it := range items {
		placed := false
		for i, r := range rules {
			if r.Match(it) {
				out[i].Items = append(out[i].Items, it)
				placed = true
				break
			}
		}
		if !placed {
			out[len(rules)].Items = append(out[len(rules)].Items, it)
		}
	}
	return out
}

// IDSet is a set of entity ids, used to cross-reference auxiliary
// collections (invites, requests) against the primary one.
type IDSet map[string]struct{}

// NewIDSet collects the ids of items.
func NewIDSet[T any](items []T, id func(T) string) IDSet {
	s := make(IDSet, len(items))
	for _, it := range items {
		s[id(it)] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}
