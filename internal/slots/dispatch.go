package slots

// Reader exposes the registered entries of a slot registry.
//
// Entries returns the entries for slot in registration order, or nothing
// when the slot is unknown. Callers must not modify the returned slice.
type Reader interface {
	Entries(slot string) []Entry
}

// ReaderFunc adapts a lookup function into a Reader.
type ReaderFunc func(slot string) []Entry

// Entries calls f(slot).
func (f ReaderFunc) Entries(slot string) []Entry {
	return f(slot)
}

// MapReader is a fixed Reader backed by a plain map.
type MapReader map[string][]Entry

// Entries returns m[slot].
func (m MapReader) Entries(slot string) []Entry {
	return m[slot]
}

// Dispatcher computes the mounts for a slot at a path.
type Dispatcher interface {
	Dispatch(slot string, currentPath string) []Mount
}

// Dispatch returns the mounts for slot at currentPath, in registration
// order. Unknown slots, a nil reader, and entries without a component all
// contribute nothing.
func Dispatch(reader Reader, slot string, currentPath string) []Mount {
	if reader == nil {
		return nil
	}
	entries := reader.Entries(slot)
	if len(entries) == 0 {
		return nil
	}

	mounts := make([]Mount, 0, len(entries))
	for _, entry := range entries {
		if entry.Component == nil || !Matches(currentPath, entry) {
			continue
		}
		mounts = append(mounts, Mount{Component: entry.Component, Props: entry.Props})
	}
	return mounts
}

// Direct returns a Dispatcher that recomputes every call from reader.
func Direct(reader Reader) Dispatcher {
	return directDispatcher{reader: reader}
}

type directDispatcher struct {
	reader Reader
}

func (d directDispatcher) Dispatch(slot string, currentPath string) []Mount {
	return Dispatch(d.reader, slot, currentPath)
}
