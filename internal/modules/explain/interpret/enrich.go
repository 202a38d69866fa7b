package interpret

// Links resolves a concept name to a verified documentation URL.
type Links interface {
	Lookup(concept string) (string, bool)
}

// Enrich overwrites learn_more_url on every concepts entry that is an
// object with a "concept" key. The model's own URL is always discarded.
// Other entries pass through untouched.
func Enrich(doc map[string]any, links Links) {
	items, ok := doc["concepts"].([]any)
	if !ok {
		return
	}
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, has := entry["concept"]
		if !has {
			continue
		}
		entry["learn_more_url"] = nil
		if s, ok := name.(string); ok && links != nil {
			if u, found := links.Lookup(s); found {
				entry["learn_more_url"] = u
			}
		}
	}
}
