package gatt

import "github.com/pkg/errors"

var (
	// ErrInvalidLength is returned by Write for an empty value,
	// or one longer than MaxAttrLen.
	ErrInvalidLength = errors.New("invalid attribute value length")

	// ErrUnwritable is returned by Write for any handle other
	// than the store's writable handle.
	ErrUnwritable = errors.New("attribute is not writable")
)

// Write replaces the value of the writable attribute with a copy of
// data. The new value is visible to every later query.
func (s *Store) Write(h uint16, data []byte) error {
	if len(data) == 0 || len(data) > MaxAttrLen {
		return ErrInvalidLength
	}
	if s.wh == 0 || h != s.wh {
		return ErrUnwritable
	}
	s.attrs[s.widx].Value = append([]byte(nil), data...)
	s.log.Debugf("Wrote attribute 0x%04X: [ % X ]", h, data)
	return nil
}
