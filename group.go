package gatt

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// IsGroupingType reports whether u is the primary service
// or the characteristic declaration type.
func (s *Store) IsGroupingType(u UUID) bool {
	return u.Equal(attrPrimaryServiceUUID) || u.Equal(attrCharacteristicUUID)
}

// GroupEnd returns the last attribute of the group started by the
// attribute at h. For a primary service that is the attribute just
// before the next primary service (or the last attribute in the
// store); for a characteristic it is the characteristic's value.
//
// GroupEnd returns ok == false for any h that does not start a group,
// including handles that are not in the store.
func (s *Store) GroupEnd(h uint16) (a Attribute, ok bool) {
	i, ok := s.groups[h]
	if !ok {
		return Attribute{}, false
	}
	return s.attrs[i], true
}

// buildGroups fills s.groups from the layout of s.attrs.
func (s *Store) buildGroups() error {
	s.groups = make(map[uint16]int)
	svc := -1
	for i, a := range s.attrs {
		switch {
		case a.Type.Equal(attrPrimaryServiceUUID):
			if svc >= 0 {
				s.groups[s.attrs[svc].Handle] = i - 1
			}
			svc = i
		case a.Type.Equal(attrCharacteristicUUID):
			j, err := s.charValue(i)
			if err != nil {
				return err
			}
			s.groups[a.Handle] = j
		}
	}
	if svc >= 0 {
		s.groups[s.attrs[svc].Handle] = len(s.attrs) - 1
	}
	return nil
}

// charValue returns the index of the value attribute belonging to the
// characteristic declaration at index i. The value handle is read from
// the declaration when it carries one; otherwise the value is the next
// attribute. The value must come after the declaration with no other
// grouping attribute in between.
func (s *Store) charValue(i int) (int, error) {
	decl := s.attrs[i]
	j := i + 1
	if len(decl.Value) >= 3 {
		vh := binary.LittleEndian.Uint16(decl.Value[1:3])
		var ok bool
		if j, ok = s.index(vh); !ok {
			return 0, errors.Errorf("characteristic 0x%04X: value handle 0x%04X is not in the table", decl.Handle, vh)
		}
	}
	if j <= i || j >= len(s.attrs) {
		return 0, errors.Errorf("characteristic 0x%04X: no value attribute follows the declaration", decl.Handle)
	}
	for k := i + 1; k <= j; k++ {
		if s.IsGroupingType(s.attrs[k].Type) {
			return 0, errors.Errorf("characteristic 0x%04X: value 0x%04X lies outside the characteristic",
				decl.Handle, s.attrs[j].Handle)
		}
	}
	return j, nil
}
