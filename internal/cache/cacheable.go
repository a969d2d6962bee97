package cache

// CacheableSet is the immutable set of URLs eligible for caching,
// populated once at startup from a plain []string. spec.md §9 flags the
// source's variadic `cacheable.add` as worth replacing with exactly this
// shape.
type CacheableSet struct {
	paths map[string]struct{}
}

// NewCacheableSet builds a CacheableSet from paths. The set is read-only
// after construction.
func NewCacheableSet(paths []string) CacheableSet {
	m := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		m[p] = struct{}{}
	}
	return CacheableSet{paths: m}
}

// Contains reports whether path is in the set.
func (s CacheableSet) Contains(path string) bool {
	_, ok := s.paths[path]
	return ok
}
