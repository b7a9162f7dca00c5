package wasm

import (
	"github.com/wippyai/wasm-tools/errors"
	"github.com/wippyai/wasm-tools/wasm/internal/binary"
)

// Section is a lazy section descriptor: the id, the payload as a
// sub-view of the input, and locations for diagnostics. No payload is
// parsed until the caller asks for entries.
type Section struct {
	ID         SectionID
	Name       string // custom section name, "" otherwise
	Payload    []byte // for custom sections, the bytes after the name
	Loc        Location
	PayloadLoc Location
}

// SectionIterator produces sections one at a time. Construction is
// cheap; each iterator is independent and deterministic from the input.
type SectionIterator struct {
	r    *binary.Reader
	sink *errors.Sink
	done bool
}

// Sections returns an iterator over the sections of a module binary.
// The header is checked up front: a bad magic or version is recorded as
// a diagnostic but section scanning is still attempted.
func Sections(data []byte, sink *errors.Sink) *SectionIterator {
	r := binary.NewReader(data)
	readHeader(r, sink)
	return &SectionIterator{r: r, sink: sink}
}

func readHeader(r *binary.Reader, sink *errors.Sink) {
	sink.PushContext("header")
	defer sink.PopContext()

	magic, err := r.ReadU32LE()
	if err != nil {
		sink.Errorf(errors.KindTruncatedInput, 0, "input shorter than module preamble")
		return
	}
	if magic != Magic {
		sink.Errorf(errors.KindBadMagic, 0, "bad magic number 0x%08x", magic)
	}
	version, err := r.ReadU32LE()
	if err != nil {
		sink.Errorf(errors.KindTruncatedInput, 4, "input shorter than module preamble")
		return
	}
	if version != Version {
		sink.Errorf(errors.KindBadVersion, 4, "unsupported version %d", version)
	}
}

// Next reads one section header and returns its descriptor. A bad
// section frame stops the iteration; entity-level problems inside a
// payload do not affect it.
func (it *SectionIterator) Next() (Section, bool) {
	if it.done || it.r.Len() == 0 {
		return Section{}, false
	}

	it.sink.PushContext("section")
	defer it.sink.PopContext()

	headerStart := it.r.Position()
	id, err := it.r.ReadU32()
	if err != nil {
		it.sink.AppendErr(err, headerStart)
		it.done = true
		return Section{}, false
	}
	if id > uint32(SectionEvent) {
		it.sink.Errorf(errors.KindUnknownSection, headerStart, "unknown section id %d", id)
	}

	size, err := it.r.ReadU32()
	if err != nil {
		it.sink.AppendErr(err, headerStart)
		it.done = true
		return Section{}, false
	}
	if int(size) > it.r.Len() {
		it.sink.Errorf(errors.KindLengthMismatch, headerStart,
			"section length %d exceeds remaining %d bytes", size, it.r.Len())
		it.done = true
		return Section{}, false
	}

	sr, _ := it.r.Sub(int(size))
	sec := Section{
		ID:         SectionID(id),
		Loc:        Location{Begin: headerStart, End: it.r.Position()},
		PayloadLoc: Location{Begin: sr.Position(), End: sr.End()},
	}

	if sec.ID == SectionCustom {
		name, err := sr.ReadName()
		if err != nil {
			// Surface the section with an empty name so callers still
			// see its payload.
			it.sink.AppendErr(err, sec.PayloadLoc.Begin)
		} else {
			sec.Name = name
		}
	}
	sec.Payload = sr.ReadRemaining()

	if id > uint32(SectionEvent) {
		// Unknown id: the frame was consumed, skip to the next section.
		return it.Next()
	}
	return sec, true
}

// Entry is one decoded entity of a section's lazy entry sequence.
type Entry struct {
	Value any
	Index uint32
	Loc   Location
}

// EntryIterator lazily decodes the entities of one section. An error in
// one entity records a diagnostic, stops this sequence, and leaves the
// enclosing section iterator untouched.
type EntryIterator struct {
	r        *binary.Reader
	sink     *errors.Sink
	features Features
	id       SectionID
	count    uint32
	next     uint32
	done     bool
}

// Entries returns a lazy iterator over the section's entities. Sections
// without a leading count (start, datacount) yield a single entry;
// custom sections yield none.
func (s Section) Entries(features Features, sink *errors.Sink) *EntryIterator {
	r := binary.NewReaderAt(s.Payload, s.PayloadLoc.Begin)
	it := &EntryIterator{r: r, sink: sink, features: features, id: s.ID}

	switch s.ID {
	case SectionCustom:
		it.done = true
	case SectionStart, SectionDataCount:
		it.count = 1
	default:
		count, err := r.ReadU32()
		if err != nil {
			sink.AppendErr(err, s.PayloadLoc.Begin)
			it.done = true
			return it
		}
		// Every entity is at least one byte wide.
		if int(count) > r.Len() {
			sink.Errorf(errors.KindLengthMismatch, s.PayloadLoc.Begin,
				"entity count %d exceeds section size", count)
			it.done = true
			return it
		}
		it.count = count
	}
	return it
}

// Count returns the declared number of entities.
func (it *EntryIterator) Count() uint32 {
	return it.count
}

// Next decodes one entity. The concrete type of Entry.Value depends on
// the section id: *FuncType, *Import, *Func, *TableType, *MemoryType,
// *Global, *Export, *uint32 (start and datacount), *Element, *FuncBody,
// *DataSegment, or *EventType.
func (it *EntryIterator) Next() (Entry, bool) {
	if it.done || it.next >= it.count {
		return Entry{}, false
	}

	it.sink.PushContext(it.id.String())
	defer it.sink.PopContext()

	start := it.r.Position()
	value, err := readEntity(it.r, it.id, it.features, it.sink)
	if err != nil {
		it.sink.AppendErr(err, start)
		it.done = true
		return Entry{}, false
	}

	entry := Entry{
		Value: value,
		Index: it.next,
		Loc:   Location{Begin: start, End: it.r.Position()},
	}
	it.next++
	return entry, true
}

func readEntity(r *binary.Reader, id SectionID, features Features, sink *errors.Sink) (any, error) {
	switch id {
	case SectionType:
		ft, err := readFuncType(r)
		if err != nil {
			return nil, err
		}
		return &ft, nil
	case SectionImport:
		imp, err := readImport(r, features)
		if err != nil {
			return nil, err
		}
		return &imp, nil
	case SectionFunction:
		idx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return &Func{TypeIdx: idx}, nil
	case SectionTable:
		tt, err := readTableType(r, features)
		if err != nil {
			return nil, err
		}
		return &tt, nil
	case SectionMemory:
		mt, err := readMemoryType(r)
		if err != nil {
			return nil, err
		}
		return &mt, nil
	case SectionGlobal:
		g, err := readGlobal(r, features, sink)
		if err != nil {
			return nil, err
		}
		return &g, nil
	case SectionExport:
		exp, err := readExport(r)
		if err != nil {
			return nil, err
		}
		return &exp, nil
	case SectionStart, SectionDataCount:
		idx, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return &idx, nil
	case SectionElement:
		elem, err := readElement(r, features, sink)
		if err != nil {
			return nil, err
		}
		return &elem, nil
	case SectionCode:
		body, err := readFuncBody(r, sink)
		if err != nil {
			return nil, err
		}
		return &body, nil
	case SectionData:
		seg, err := readDataSegment(r, features, sink)
		if err != nil {
			return nil, err
		}
		return &seg, nil
	case SectionEvent:
		ev, err := readEventType(r)
		if err != nil {
			return nil, err
		}
		return &ev, nil
	}
	return nil, errors.New(errors.KindUnknownSection, r.Position(), "section %d has no entities", id)
}
