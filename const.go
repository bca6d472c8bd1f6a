package gatt

// This file includes constants from the BLE spec.

var (
	attrAutomationIOUUID = UUID16(0x1815)
	attrBatteryUUID      = UUID16(0x180F)

	attrPrimaryServiceUUID   = UUID16(0x2800)
	attrSecondaryServiceUUID = UUID16(0x2801)
	attrIncludeUUID          = UUID16(0x2802)
	attrCharacteristicUUID   = UUID16(0x2803)

	attrExtendedPropertiesUUID = UUID16(0x2900)
	attrUserDescriptionUUID    = UUID16(0x2901)
	attrClientCharConfigUUID   = UUID16(0x2902)
	attrServerCharConfigUUID   = UUID16(0x2903)
	attrPresentationFormatUUID = UUID16(0x2904)
	attrAggregateFormatUUID    = UUID16(0x2905)

	attrDigitalUUID      = UUID16(0x2A56)
	attrBatteryLevelUUID = UUID16(0x2A19)
)

// Do not re-order the bit flags below;
// they are organized to match the BLE spec.

// Characteristic property flags.
const (
	charRead    = 1 << (iota + 1) // the characteristic may be read
	charWriteNR                   // the characteristic may be written to, with no reply
	charWrite                     // the characteristic may be written to, with a reply
)

// MaxAttrLen is the maximum length of an attribute value. [Vol 3, Part F, 3.2.9]
const MaxAttrLen = 512

// DefaultMTU is the ATT_MTU in effect until an MTU exchange.
const DefaultMTU = 23

// maxMTU is MaxAttrLen plus the 3-byte header of the largest response.
const maxMTU = MaxAttrLen + 3
