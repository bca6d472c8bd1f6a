package gatt

// ReferenceWritableHandle is the writable attribute of the reference
// table: the Automation IO digital output that drives the LED.
const ReferenceWritableHandle = 0x0003

// ReferenceAttributes returns the watch's attribute table: an
// Automation IO service with a writable digital output, followed by a
// Battery service with a read-only battery level.
func ReferenceAttributes() []Attribute {
	return []Attribute{
		{Handle: 0x0001, Type: attrPrimaryServiceUUID, Value: attrAutomationIOUUID.Bytes()},
		{Handle: 0x0002, Type: attrCharacteristicUUID, Value: charDecl(charRead|charWrite, 0x0003, attrDigitalUUID)},
		{Handle: 0x0003, Type: attrDigitalUUID, Value: []byte{0x00}},
		{Handle: 0x0004, Type: attrPrimaryServiceUUID, Value: attrBatteryUUID.Bytes()},
		{Handle: 0x0005, Type: attrCharacteristicUUID, Value: charDecl(charRead, 0x0006, attrBatteryLevelUUID)},
		{Handle: 0x0006, Type: attrBatteryLevelUUID, Value: []byte{100}},
	}
}

// NewReferenceStore builds a Store from ReferenceAttributes.
func NewReferenceStore(opts ...StoreOption) (*Store, error) {
	return NewStore(ReferenceAttributes(), ReferenceWritableHandle, opts...)
}

// charDecl returns the value of a characteristic declaration:
// properties, value handle, characteristic UUID.
func charDecl(props uint8, vh uint16, u UUID) []byte {
	return append([]byte{props, byte(vh), byte(vh >> 8)}, u.Bytes()...)
}
