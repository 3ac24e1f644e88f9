package session

import (
	"github.com/goliatone/go-formflow/pkg/format"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// store holds the session's form values, error map, and preview handles.
// Methods are not synchronized; the owning Session serializes access, which
// keeps the single-mutator model intact while timers and submitters run on
// their own goroutines.
type store struct {
	values   schema.FormValues
	errors   schema.ErrorMap
	previews map[string]*format.Preview
}

func newStore() *store {
	return &store{
		values:   make(schema.FormValues),
		errors:   make(schema.ErrorMap),
		previews: make(map[string]*format.Preview),
	}
}

func (st *store) value(fieldID string) string {
	return st.values[schema.StoreKey(fieldID)]
}

func (st *store) setValue(fieldID, formatted string) {
	st.values[schema.StoreKey(fieldID)] = formatted
}

func (st *store) snapshotValues() schema.FormValues {
	return st.values.Clone()
}

func (st *store) snapshotErrors() schema.ErrorMap {
	return st.errors.Clone()
}

func (st *store) setError(fieldID, msg string) {
	st.errors[fieldID] = msg
}

func (st *store) clearError(fieldID string) {
	delete(st.errors, fieldID)
}

func (st *store) replaceErrors(errs schema.ErrorMap) {
	st.errors = errs.Clone()
}

func (st *store) clearErrors() {
	st.errors = make(schema.ErrorMap)
}

// adoptPreview releases any preview the field already owns before taking
// ownership of the new one. Passing nil just releases the old handle.
func (st *store) adoptPreview(fieldID string, p *format.Preview) {
	if prev := st.previews[fieldID]; prev != nil {
		prev.Release()
	}
	if p != nil {
		st.previews[fieldID] = p
	} else {
		delete(st.previews, fieldID)
	}
}

func (st *store) previewURL(fieldID string) string {
	return st.previews[fieldID].URL()
}

func (st *store) releasePreviews() {
	for id, p := range st.previews {
		p.Release()
		delete(st.previews, id)
	}
}

// reset empties values and errors together and releases every preview, so an
// outside observer never sees one cleared without the other.
func (st *store) reset() {
	st.values = make(schema.FormValues)
	st.errors = make(schema.ErrorMap)
	st.releasePreviews()
}
