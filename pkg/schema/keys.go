package schema

import "strings"

// StoreKey converts a field identifier to the key used by the value store:
// hyphens become underscores so keys stay identifier-safe in payloads.
func StoreKey(fieldID string) string {
	return strings.ReplaceAll(fieldID, "-", "_")
}

// FieldIDForKey resolves a store key back to the field id it was derived
// from. The reverse mapping is looked up against the loaded fields rather
// than reversed textually, so ids that contain literal underscores survive
// the round trip.
func (f Form) FieldIDForKey(key string) (string, bool) {
	if f.keyIndex != nil {
		id, ok := f.keyIndex[key]
		return id, ok
	}
	for _, fd := range f.Fields {
		if StoreKey(fd.ID) == key {
			return fd.ID, true
		}
	}
	return "", false
}

func (f *Form) buildKeyIndex() {
	idx := make(map[string]string, len(f.Fields))
	for _, fd := range f.Fields {
		idx[StoreKey(fd.ID)] = fd.ID
	}
	f.keyIndex = idx
}
