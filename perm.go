package gatt

// Permissions returns ReadWrite for the store's writable handle
// and ReadOnly for every other handle.
func (s *Store) Permissions(h uint16) AccessRight {
	if s.wh != 0 && h == s.wh {
		return ReadWrite
	}
	return ReadOnly
}
