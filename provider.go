package gatt

// An AttributeProvider is the narrow view of an attribute table that
// an ATT engine needs to answer requests. The engine never gets at
// the table itself, only at these operations.
//
// Implementations are not safe for concurrent use; they are meant to
// be driven by the single goroutine that processes ATT PDUs.
type AttributeProvider interface {
	// Permissions returns the access rule for handle h.
	// It is only meaningful for handles present in the table.
	Permissions(h uint16) AccessRight

	// IsGroupingType reports whether attributes of type u start a group
	// (primary service and characteristic declarations).
	IsGroupingType(u UUID) bool

	// GroupEnd returns the last attribute of the group that starts at h.
	// ok is false when h does not start a group.
	GroupEnd(h uint16) (a Attribute, ok bool)

	// ForEachInRange calls f for every attribute with a handle in r,
	// in ascending handle order, stopping at the first error from f.
	ForEachInRange(r HandleRange, f VisitFunc) error

	// Write replaces the value of the attribute at h.
	Write(h uint16, data []byte) error
}

var _ AttributeProvider = (*Store)(nil)
