package gatt

import (
	"bytes"
	"crypto/aes"
	"encoding/binary"

	"github.com/enceve/crypto/cmac"
	"github.com/pkg/errors"
)

// hashInput reports whether attributes of type u contribute to the
// database hash, and whether their value is included. [Vol 3, Part G, 7.3.1]
func hashInput(u UUID) (included, withValue bool) {
	for _, t := range []UUID{
		attrPrimaryServiceUUID,
		attrSecondaryServiceUUID,
		attrIncludeUUID,
		attrCharacteristicUUID,
		attrExtendedPropertiesUUID,
	} {
		if u.Equal(t) {
			return true, true
		}
	}
	for _, t := range []UUID{
		attrUserDescriptionUUID,
		attrClientCharConfigUUID,
		attrServerCharConfigUUID,
		attrPresentationFormatUUID,
		attrAggregateFormatUUID,
	} {
		if u.Equal(t) {
			return true, false
		}
	}
	return false, false
}

// hashMessage returns the bytes the database hash is computed over.
func (s *Store) hashMessage() []byte {
	var b bytes.Buffer
	var h [2]byte
	for _, a := range s.attrs {
		ok, withValue := hashInput(a.Type)
		if !ok {
			continue
		}
		binary.LittleEndian.PutUint16(h[:], a.Handle)
		b.Write(h[:])
		b.Write(a.Type.Bytes())
		if withValue {
			b.Write(a.Value)
		}
	}
	return b.Bytes()
}

// Hash returns the 16-byte GATT database hash of the store: an AES-CMAC,
// keyed with zeros, over the declarations and descriptors in handle order.
// Characteristic values do not contribute, so Write never changes it.
func (s *Store) Hash() ([]byte, error) {
	block, err := aes.NewCipher(make([]byte, 16))
	if err != nil {
		return nil, errors.Wrap(err, "database hash")
	}
	mac, err := cmac.New(block)
	if err != nil {
		return nil, errors.Wrap(err, "database hash")
	}

	mac.Write(s.hashMessage())
	return mac.Sum(nil), nil
}
