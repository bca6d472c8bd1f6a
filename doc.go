// Package gatt provides the attribute server side of a Bluetooth Low
// Energy GATT implementation for a small peripheral.
//
// Gatt (Generic Attribute Profile) organizes a device's data as a flat
// table of attributes: service declarations, characteristic
// declarations, characteristic values and descriptors, each addressed
// by a 16-bit handle. A client discovers and reads the table with ATT
// requests and writes the few values that allow it.
//
// STATUS
//
// The attribute table is fixed at construction. Exactly one
// characteristic value may be writable; everything else is read-only.
// Security, notifications and long writes are not supported.
//
// USAGE
//
// A Store holds the table and implements AttributeProvider, which is
// all the ATT engine needs to answer requests:
//
//     store, err := gatt.NewReferenceStore()
//     if err != nil {
//         log.Fatal(err)
//     }
//     srv := gatt.NewServer(store, gatt.MaxMTU(185))
//     rsp := srv.HandleRequest(pdu)
//
// Range queries visit attributes in ascending handle order:
//
//     store.ForEachInRange(gatt.HandleRange{Start: 1, End: 0xFFFF},
//         func(p gatt.AttributeProvider, a gatt.Attribute) error {
//             fmt.Println(a)
//             return nil
//         })
//
// Grouping attributes (primary services and characteristic
// declarations) know where their group ends:
//
//     if end, ok := store.GroupEnd(0x0004); ok {
//         fmt.Printf("battery service ends at 0x%04X\n", end.Handle)
//     }
//
// The serial subpackage carries PDUs over a serial line; cmd/attserve
// wires both together.
//
// REFERENCES
//
// Bluetooth Core Specification, Vol 3, Part F (ATT) and Part G (GATT).
package gatt
