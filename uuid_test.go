package gatt

import (
	"bytes"
	"testing"
)

func TestUUID16(t *testing.T) {
	if want, got := (UUID{[]byte{0x00, 0x18}}), UUID16(0x1800); !got.Equal(want) {
		t.Errorf("UUID16: got %x, want %x", got, want)
	}
}

func TestParseUUID(t *testing.T) {
	cases := []struct {
		s    string
		want []byte
		ok   bool
	}{
		{s: "2800", want: []byte{0x00, 0x28}, ok: true},
		{s: "2A19", want: []byte{0x19, 0x2a}, ok: true},
		{
			s:    "09fc95c0-c111-11e3-9904-0002a5d5c51b",
			want: []byte{0x1b, 0xc5, 0xd5, 0xa5, 0x02, 0x00, 0x04, 0x99, 0xe3, 0x11, 0x11, 0xc1, 0xc0, 0x95, 0xfc, 0x09},
			ok:   true,
		},
		{s: "28", ok: false},
		{s: "280", ok: false},
		{s: "zz00", ok: false},
		{s: "", ok: false},
	}

	for _, tt := range cases {
		u, err := ParseUUID(tt.s)
		if (err == nil) != tt.ok {
			t.Errorf("ParseUUID(%q): got err %v, want ok %t", tt.s, err, tt.ok)
			continue
		}
		if tt.ok && !bytes.Equal(u.Bytes(), tt.want) {
			t.Errorf("ParseUUID(%q): got %x want %x", tt.s, u.Bytes(), tt.want)
		}
	}
}

func TestUUIDString(t *testing.T) {
	if got, want := UUID16(0x2803).String(), "2803"; got != want {
		t.Errorf("UUID16(0x2803).String(): got %q want %q", got, want)
	}
	s := "09fc95c0c11111e399040002a5d5c51b"
	if got := MustParseUUID(s).String(); got != s {
		t.Errorf("MustParseUUID(%q).String(): got %q", s, got)
	}
}

func TestReverse(t *testing.T) {
	cases := []struct {
		fwd  []byte
		back []byte
	}{
		{fwd: []byte{0, 1}, back: []byte{1, 0}},
		{fwd: []byte{0, 1, 2}, back: []byte{2, 1, 0}},
		{fwd: []byte{0, 1, 2, 3}, back: []byte{3, 2, 1, 0}},
		{
			fwd:  []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
			back: []byte{15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
		},
	}

	for _, tt := range cases {
		got := reverse(tt.fwd)
		if !bytes.Equal(got, tt.back) {
			t.Errorf("reverse(%x): got %x want %x", tt.fwd, got, tt.back)
		}

		u := UUID{tt.fwd}
		got = reverse(u.b)
		if !bytes.Equal(got, tt.back) {
			t.Errorf("UUID.reverse(%x): got %x want %x", tt.fwd, got, tt.back)
		}
	}
}

func BenchmarkReverseBytes16(b *testing.B) {
	u := UUID{make([]byte, 2)}
	for i := 0; i < b.N; i++ {
		reverse(u.b)
	}
}

func BenchmarkReverseBytes128(b *testing.B) {
	u := UUID{make([]byte, 16)}
	for i := 0; i < b.N; i++ {
		reverse(u.b)
	}
}
