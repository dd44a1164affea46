package feed

// Page is one response of the feed endpoint.
type Page struct {
	Number  int
	Items   []*Item
	HasMore bool
	// Size is the number of records the backend returned, including ones that
	// were dropped while decoding. Zero means len(Items).
	Size int
}

// Len is the length of the page as served, before decoding dropped anything.
func (p *Page) Len() int {
	return max(p.Size, len(p.Items))
}

// Merge appends incoming items to existing, skipping identifiers already present.
// When an identifier repeats, the incoming copy replaces the existing one at its
// original position. It returns the merged list and the number of items added.
func Merge(existing, incoming []*Item) ([]*Item, int) {
	index := make(map[string]int, len(existing)+len(incoming))
	merged := make([]*Item, 0, len(existing)+len(incoming))

	for _, it := range existing {
		if it == nil {
			continue
		}
		if at, ok := index[it.ID]; ok {
			merged[at] = it
			continue
		}
		index[it.ID] = len(merged)
		merged = append(merged, it)
	}

	var added int
	for _, it := range incoming {
		if it == nil || it.ID == "" {
			continue
		}
		if at, ok := index[it.ID]; ok {
			merged[at] = it
			continue
		}
		index[it.ID] = len(merged)
		merged = append(merged, it)
		added++
	}

	return merged, added
}

// IndexOf returns the position of the item with the given id, or -1.
func IndexOf(items []*Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
