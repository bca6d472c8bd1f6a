package gatt

import (
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// A Store is a fixed, ordered table of attributes.
//
// The structure of a Store (handles, types, grouping) is settled by
// NewStore and never changes. The only mutation is Write on the one
// designated writable attribute.
type Store struct {
	attrs []Attribute // sorted by handle

	wh   uint16 // writable handle; 0 if none
	widx int    // index of wh in attrs

	// groups maps the handle of each grouping attribute to the
	// index of the last attribute in its group.
	groups map[uint16]int

	log log.FieldLogger
}

// A StoreOption configures a Store.
type StoreOption func(*Store)

// StoreLogger sets the logger used by the store.
// The default is the logrus standard logger.
func StoreLogger(l log.FieldLogger) StoreOption {
	return func(s *Store) { s.log = l }
}

// NewStore builds a store from attrs, which must be in ascending
// handle order. writable names the one attribute whose value may be
// changed with Write; 0 means that every attribute is read-only.
//
// The attribute list is copied, the attribute values are not.
func NewStore(attrs []Attribute, writable uint16, opts ...StoreOption) (*Store, error) {
	s := &Store{
		attrs: append([]Attribute(nil), attrs...),
		widx:  -1,
		log:   log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for i, a := range s.attrs {
		if a.Handle == 0 {
			return nil, errors.Errorf("attribute %d: handle 0x0000 is reserved", i)
		}
		if i > 0 && a.Handle <= s.attrs[i-1].Handle {
			return nil, errors.Errorf("attribute %d: handle 0x%04X does not follow 0x%04X",
				i, a.Handle, s.attrs[i-1].Handle)
		}
		if a.Type.Len() == 0 {
			return nil, errors.Errorf("attribute 0x%04X: missing type", a.Handle)
		}
	}

	if writable != 0 {
		i, ok := s.index(writable)
		if !ok {
			return nil, errors.Errorf("writable handle 0x%04X is not in the table", writable)
		}
		if s.IsGroupingType(s.attrs[i].Type) {
			return nil, errors.Errorf("writable handle 0x%04X is a %s declaration", writable, s.attrs[i].Type)
		}
		s.wh, s.widx = writable, i
	}

	if err := s.buildGroups(); err != nil {
		return nil, err
	}

	s.dumpAttributes()
	return s, nil
}

// Len returns the number of attributes in the store.
func (s *Store) Len() int { return len(s.attrs) }

// search returns the index of the first attribute with handle >= h.
func (s *Store) search(h uint16) int {
	return sort.Search(len(s.attrs), func(i int) bool { return s.attrs[i].Handle >= h })
}

// index returns the index of the attribute with handle h.
func (s *Store) index(h uint16) (int, bool) {
	i := s.search(h)
	return i, i < len(s.attrs) && s.attrs[i].Handle == h
}

// At returns the attribute with handle h.
func (s *Store) At(h uint16) (a Attribute, ok bool) {
	i, ok := s.index(h)
	if !ok {
		return Attribute{}, false
	}
	return s.attrs[i], true
}

// subrange returns attributes in range [start, end]; it may return an
// empty slice. subrange does not panic for out-of-range start or end.
func (s *Store) subrange(start, end uint16) []Attribute {
	if start > end {
		return s.attrs[:0]
	}
	lo := s.search(start)
	hi := lo + sort.Search(len(s.attrs)-lo, func(i int) bool { return s.attrs[lo+i].Handle > end })
	return s.attrs[lo:hi]
}

// ForEachInRange calls f for each attribute with a handle in r, in
// ascending handle order. It stops at the first error returned by f
// and returns that error. An empty range, or one that matches no
// attributes, calls f zero times and returns nil.
func (s *Store) ForEachInRange(r HandleRange, f VisitFunc) error {
	for _, a := range s.subrange(r.Start, r.End) {
		if err := f(s, a); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) dumpAttributes() {
	s.log.Debugf("Generating attribute table:")
	s.log.Debugf("handle\tend\ttype\tvalue")
	for _, a := range s.attrs {
		end := a.Handle
		if e, ok := s.GroupEnd(a.Handle); ok {
			end = e.Handle
		}
		s.log.Debugf("0x%04X\t0x%04X\t0x%s\t[ % X ]", a.Handle, end, a.Type, a.Value)
	}
}
