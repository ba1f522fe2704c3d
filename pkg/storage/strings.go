package storage

// StringID identifies an interned string. IDs are stable for the lifetime of
// one TraceStorage, equal byte sequences yield equal ids.
type StringID uint32

// NullStringID is returned for lookups of ids that were never interned.
const NullStringID StringID = 0

// stringPool interns byte strings into stable ids. Id 0 is reserved for the
// empty string so that zero-valued rows read as "".
type stringPool struct {
	strings []string
	index   map[string]StringID
}

func newStringPool() *stringPool {
	p := &stringPool{index: make(map[string]StringID)}
	p.Intern(nil)
	return p
}

func (p *stringPool) Intern(s []byte) StringID {
	if id, ok := p.index[string(s)]; ok {
		return id
	}
	id := StringID(len(p.strings))
	p.strings = append(p.strings, string(s))
	p.index[p.strings[id]] = id
	return id
}

func (p *stringPool) Get(id StringID) string {
	if int(id) >= len(p.strings) {
		return ""
	}
	return p.strings[id]
}
