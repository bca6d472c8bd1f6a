package gatt

import (
	"io/ioutil"
	"reflect"
	"testing"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func quietLogger() log.FieldLogger {
	l := log.New()
	l.SetOutput(ioutil.Discard)
	return l
}

func referenceStore(t testing.TB) *Store {
	s, err := NewReferenceStore(StoreLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewReferenceStore: %v", err)
	}
	return s
}

// plainStore returns a store of n plain attributes with handles base..base+n-1.
func plainStore(t testing.TB, base uint16, n int) *Store {
	var aa []Attribute
	for i := 0; i < n; i++ {
		aa = append(aa, Attribute{Handle: base + uint16(i), Type: UUID16(0x2A19), Value: []byte{byte(i)}})
	}
	s, err := NewStore(aa, 0, StoreLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

// visited returns the handles visited by ForEachInRange(r).
func visited(t *testing.T, p AttributeProvider, r HandleRange) []uint16 {
	hh := []uint16{}
	err := p.ForEachInRange(r, func(_ AttributeProvider, a Attribute) error {
		hh = append(hh, a.Handle)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachInRange(%v): %v", r, err)
	}
	return hh
}

func TestStoreAt(t *testing.T) {
	s := plainStore(t, 4, 3)

	for _, h := range [...]uint16{0, 2, 3, 7, 8, 100} {
		if _, ok := s.At(h); ok {
			t.Errorf("At(%d) should return !ok", h)
		}
	}

	for _, h := range [...]uint16{4, 5, 6} {
		if _, ok := s.At(h); !ok {
			t.Errorf("At(%d) should return ok", h)
		}
		if a, _ := s.At(h); a.Handle != h {
			t.Errorf("At(%d) returned wrong attr, got %d want %d", h, a.Handle, h)
		}
	}
}

func TestForEachInRange(t *testing.T) {
	cases := []struct {
		start, end uint16
		base       uint16
		want       []uint16
	}{
		{start: 0, end: 3, base: 4, want: []uint16{}},
		{start: 0, end: 4, base: 4, want: []uint16{4}},
		{start: 0, end: 5, base: 4, want: []uint16{4, 5}},
		{start: 4, end: 5, base: 4, want: []uint16{4, 5}},
		{start: 4, end: 6, base: 4, want: []uint16{4, 5, 6}},
		{start: 4, end: 100, base: 4, want: []uint16{4, 5, 6}},
		{start: 5, end: 100, base: 4, want: []uint16{5, 6}},
		{start: 5, end: 6, base: 4, want: []uint16{5, 6}},
		{start: 5, end: 5, base: 4, want: []uint16{5}},
		{start: 6, end: 6, base: 4, want: []uint16{6}},
		{start: 6, end: 100, base: 4, want: []uint16{6}},
		{start: 7, end: 100, base: 4, want: []uint16{}},
		{start: 100, end: 1000, base: 4, want: []uint16{}},
		{start: 1000, end: 100, base: 4, want: []uint16{}},
		{start: 5, end: 1, base: 4, want: []uint16{}},
		{start: 1, end: 65535, base: 4, want: []uint16{4, 5, 6}},
		{start: 65535, end: 65535, base: 65533, want: []uint16{65535}},
		{start: 2, end: 65535, base: 1, want: []uint16{2, 3}},
	}

	for _, tt := range cases {
		s := plainStore(t, tt.base, 3)
		r := HandleRange{Start: tt.start, End: tt.end}
		if got := visited(t, s, r); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ForEachInRange(%d, %d) base %d: got %v want %v", tt.start, tt.end, tt.base, got, tt.want)
		}
	}
}

func TestForEachInRangeSparse(t *testing.T) {
	aa := []Attribute{
		{Handle: 0x0010, Type: UUID16(0x2A19)},
		{Handle: 0x0020, Type: UUID16(0x2A19)},
		{Handle: 0x0030, Type: UUID16(0x2A19)},
	}
	s, err := NewStore(aa, 0, StoreLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if got, want := visited(t, s, HandleRange{Start: 0x0011, End: 0x0030}), []uint16{0x0020, 0x0030}; !reflect.DeepEqual(got, want) {
		t.Errorf("ForEachInRange(0x11, 0x30): got %v want %v", got, want)
	}
	if got := visited(t, s, HandleRange{Start: 0x0011, End: 0x001f}); len(got) != 0 {
		t.Errorf("ForEachInRange(0x11, 0x1f): got %v want none", got)
	}
}

func TestForEachInRangeEmptyRange(t *testing.T) {
	s := referenceStore(t)
	for a := uint16(1); a <= 8; a++ {
		for b := uint16(0); b < a; b++ {
			calls := 0
			err := s.ForEachInRange(HandleRange{Start: a, End: b}, func(AttributeProvider, Attribute) error {
				calls++
				return nil
			})
			if err != nil || calls != 0 {
				t.Errorf("ForEachInRange(%d, %d): got %d calls, err %v; want 0 calls, nil", a, b, calls, err)
			}
		}
	}
}

func TestForEachInRangeFullSpan(t *testing.T) {
	s := referenceStore(t)
	want := []uint16{1, 2, 3, 4, 5, 6}
	for _, r := range []HandleRange{{1, 6}, {0, 6}, {1, 0xFFFF}, {0, 0xFFFF}} {
		if got := visited(t, s, r); !reflect.DeepEqual(got, want) {
			t.Errorf("ForEachInRange(%v): got %v want %v", r, got, want)
		}
	}
}

func TestForEachInRangeScenario(t *testing.T) {
	s := referenceStore(t)
	if got, want := visited(t, s, HandleRange{Start: 2, End: 5}), []uint16{2, 3, 4, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("ForEachInRange(2, 5): got %v want %v", got, want)
	}
}

func TestForEachInRangeStops(t *testing.T) {
	s := referenceStore(t)
	stop := errors.New("stop")
	var hh []uint16
	err := s.ForEachInRange(HandleRange{Start: 1, End: 6}, func(_ AttributeProvider, a Attribute) error {
		hh = append(hh, a.Handle)
		if a.Handle == 3 {
			return stop
		}
		return nil
	})
	if err != stop {
		t.Errorf("ForEachInRange: got err %v want %v", err, stop)
	}
	if want := []uint16{1, 2, 3}; !reflect.DeepEqual(hh, want) {
		t.Errorf("ForEachInRange: visited %v want %v", hh, want)
	}
}

func TestNewStoreRejects(t *testing.T) {
	svc := Attribute{Handle: 1, Type: attrPrimaryServiceUUID, Value: attrBatteryUUID.Bytes()}
	cases := []struct {
		name     string
		attrs    []Attribute
		writable uint16
	}{
		{
			name:  "zero handle",
			attrs: []Attribute{{Handle: 0, Type: UUID16(0x2A19)}},
		},
		{
			name:  "duplicate handle",
			attrs: []Attribute{svc, {Handle: 1, Type: UUID16(0x2A19)}},
		},
		{
			name:  "descending handles",
			attrs: []Attribute{{Handle: 2, Type: UUID16(0x2A19)}, {Handle: 1, Type: UUID16(0x2A19)}},
		},
		{
			name:  "missing type",
			attrs: []Attribute{{Handle: 1}},
		},
		{
			name:     "writable not in table",
			attrs:    []Attribute{svc},
			writable: 2,
		},
		{
			name:     "writable declaration",
			attrs:    []Attribute{svc},
			writable: 1,
		},
		{
			name: "characteristic without value",
			attrs: []Attribute{
				svc,
				{Handle: 2, Type: attrCharacteristicUUID, Value: []byte{charRead}},
			},
		},
		{
			name: "characteristic value handle missing",
			attrs: []Attribute{
				svc,
				{Handle: 2, Type: attrCharacteristicUUID, Value: charDecl(charRead, 0x0009, attrBatteryLevelUUID)},
				{Handle: 3, Type: attrBatteryLevelUUID},
			},
		},
		{
			name: "characteristic value before declaration",
			attrs: []Attribute{
				svc,
				{Handle: 2, Type: attrBatteryLevelUUID},
				{Handle: 3, Type: attrCharacteristicUUID, Value: charDecl(charRead, 0x0002, attrBatteryLevelUUID)},
			},
		},
		{
			name: "characteristic value in next service",
			attrs: []Attribute{
				svc,
				{Handle: 2, Type: attrCharacteristicUUID, Value: charDecl(charRead, 0x0004, attrBatteryLevelUUID)},
				{Handle: 3, Type: attrPrimaryServiceUUID, Value: attrAutomationIOUUID.Bytes()},
				{Handle: 4, Type: attrBatteryLevelUUID},
			},
		},
	}

	for _, tt := range cases {
		if _, err := NewStore(tt.attrs, tt.writable, StoreLogger(quietLogger())); err == nil {
			t.Errorf("NewStore(%s): got nil error", tt.name)
		}
	}
}

func TestNewStoreCopiesList(t *testing.T) {
	aa := ReferenceAttributes()
	s, err := NewStore(aa, ReferenceWritableHandle, StoreLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	aa[0].Handle = 0x0100
	if a, _ := s.At(1); a.Handle != 1 {
		t.Errorf("store changed with caller's slice: At(1) = %v", a)
	}
	if s.Len() != 6 {
		t.Errorf("Len: got %d want 6", s.Len())
	}
}

func BenchmarkForEachInRange(b *testing.B) {
	s := plainStore(b, 1, 64)
	r := HandleRange{Start: 40, End: 48}
	f := func(AttributeProvider, Attribute) error { return nil }
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.ForEachInRange(r, f)
	}
}
