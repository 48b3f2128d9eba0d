package querycache

import "sort"

// tagIndex maps each tag to the set of cache keys currently carrying it.
// It is the inverse of the entries' tag lists and is only touched with the
// cache mutex held.
type tagIndex struct {
	byTag map[string]map[string]struct{}
}

func newTagIndex() *tagIndex {
	return &tagIndex{byTag: make(map[string]map[string]struct{})}
}

func (ix *tagIndex) add(key string, tags []string) {
	for _, t := range tags {
		bucket := ix.byTag[t]
		if bucket == nil {
			bucket = make(map[string]struct{})
			ix.byTag[t] = bucket
		}
		bucket[key] = struct{}{}
	}
}

func (ix *tagIndex) remove(key string, tags []string) {
	for _, t := range tags {
		bucket := ix.byTag[t]
		if bucket == nil {
			continue
		}
		delete(bucket, key)
		if len(bucket) == 0 {
			delete(ix.byTag, t)
		}
	}
}

// replace moves key from the old tag set to the new one.
func (ix *tagIndex) replace(key string, old, next []string) {
	ix.remove(key, old)
	ix.add(key, next)
}

// keys returns the sorted, de-duplicated keys carrying any of tags.
func (ix *tagIndex) keys(tags []string) []string {
	seen := make(map[string]struct{})
	for _, t := range tags {
		for k := range ix.byTag[t] {
			seen[k] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (ix *tagIndex) len() int {
	return len(ix.byTag)
}

func (ix *tagIndex) reset() {
	ix.byTag = make(map[string]map[string]struct{})
}

// normalizeTags drops empty and duplicate tags and sorts the rest so that
// entries can be compared and indexed deterministically.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
