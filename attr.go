package gatt

import "fmt"

// An Attribute is one ATT-addressable record.
// Value is borrowed from whoever built the table;
// the store never allocates for read-only values.
type Attribute struct {
	Handle uint16
	Type   UUID
	Value  []byte
}

func (a Attribute) String() string {
	return fmt.Sprintf("0x%04X %s [% X]", a.Handle, a.Type, a.Value)
}

// AccessRight describes what the ATT engine may do with an attribute.
type AccessRight int

const (
	ReadOnly AccessRight = iota
	ReadWrite
	WriteOnly // never returned by Store
)

func (r AccessRight) String() string {
	switch r {
	case ReadOnly:
		return "ReadOnly"
	case ReadWrite:
		return "ReadWrite"
	case WriteOnly:
		return "WriteOnly"
	}
	return fmt.Sprintf("AccessRight(%d)", int(r))
}

// Readable reports whether attributes with access r may be read.
func (r AccessRight) Readable() bool { return r == ReadOnly || r == ReadWrite }

// Writable reports whether attributes with access r may be written.
func (r AccessRight) Writable() bool { return r == ReadWrite || r == WriteOnly }

// A HandleRange is an inclusive range of handles, [Start, End].
// A range with Start > End is empty.
type HandleRange struct {
	Start uint16
	End   uint16
}

// Empty reports whether r contains no handles.
func (r HandleRange) Empty() bool { return r.Start > r.End }

// Contains reports whether h lies within r.
func (r HandleRange) Contains(h uint16) bool {
	return r.Start <= h && h <= r.End
}

// A VisitFunc is called by ForEachInRange for each attribute in range.
// Returning a non-nil error stops the walk; the error is handed
// back to the caller of ForEachInRange unchanged.
type VisitFunc func(p AttributeProvider, a Attribute) error
