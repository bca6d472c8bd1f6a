package gatt

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// errRespFull is returned by range visitors to stop filling a response.
var errRespFull = errors.New("response full")

// A Server answers ATT requests from a single connected client,
// using an AttributeProvider for all attribute access.
//
// A Server is not safe for concurrent use. Feed it requests from
// one goroutine, in the order they arrive.
type Server struct {
	attrs  AttributeProvider
	mtu    uint16 // negotiated ATT_MTU
	maxMTU uint16 // largest ATT_MTU we accept
	log    log.FieldLogger
}

// NewServer creates a Server for p with the specified options.
// See also Server.Option.
func NewServer(p AttributeProvider, opts ...option) *Server {
	s := &Server{
		attrs:  p,
		mtu:    DefaultMTU,
		maxMTU: DefaultMTU,
		log:    log.StandardLogger(),
	}
	s.Option(opts...)
	return s
}

type option func(*Server) option

// Option sets the options specified.
// It returns an option to restore the last arg's previous value.
func (s *Server) Option(opts ...option) (prev option) {
	for _, opt := range opts {
		prev = opt(s)
	}
	return prev
}

// MaxMTU sets the largest ATT_MTU the server agrees to in an MTU
// exchange. n is clamped to [DefaultMTU, MaxAttrLen+3].
func MaxMTU(n uint16) option {
	return func(s *Server) option {
		prev := s.maxMTU
		switch {
		case n < DefaultMTU:
			n = DefaultMTU
		case n > maxMTU:
			n = maxMTU
		}
		s.maxMTU = n
		return MaxMTU(prev)
	}
}

// Logger sets the logger used by the server.
func Logger(l log.FieldLogger) option {
	return func(s *Server) option {
		prev := s.log
		s.log = l
		return Logger(prev)
	}
}

// MTU returns the ATT_MTU currently in effect.
func (s *Server) MTU() int { return int(s.mtu) }

// HandleRequest processes one ATT PDU and returns the response PDU.
// It returns nil for commands, which are never answered.
func (s *Server) HandleRequest(req []byte) []byte {
	if len(req) == 0 {
		return nil
	}
	s.log.Debugf("Rx ATT request:\n%s", hex.Dump(req))

	var rsp []byte
	switch op := req[0]; op {
	case attOpMtuReq:
		rsp = s.handleMTU(req)
	case attOpFindInfoReq:
		rsp = s.handleFindInfo(req)
	case attOpFindByTypeReq:
		rsp = s.handleFindByTypeValue(req)
	case attOpReadByTypeReq:
		rsp = s.handleReadByType(req)
	case attOpReadReq:
		rsp = s.handleRead(req)
	case attOpReadBlobReq:
		rsp = s.handleReadBlob(req)
	case attOpReadByGroupReq:
		rsp = s.handleReadByGroup(req)
	case attOpWriteReq, attOpWriteCmd:
		rsp = s.handleWrite(req)
	default:
		if isAttCommand(op) {
			s.log.Debugf("Ignoring unsupported ATT command 0x%02X", op)
			return nil
		}
		rsp = attErrorResp(op, 0x0000, attEcodeReqNotSupp)
	}

	if rsp != nil {
		s.log.Debugf("Tx ATT response:\n%s", hex.Dump(rsp))
	}
	return rsp
}

// readRange decodes the starting and ending handle of a range request.
// It returns a non-nil error response if the range is invalid.
func readRange(req []byte) (HandleRange, []byte) {
	r := HandleRange{
		Start: binary.LittleEndian.Uint16(req[1:]),
		End:   binary.LittleEndian.Uint16(req[3:]),
	}
	if r.Start == 0 || r.Empty() {
		return r, attErrorResp(req[0], r.Start, attEcodeInvalidHandle)
	}
	return r, nil
}

// lookup returns the attribute with handle h.
func (s *Server) lookup(h uint16) (found Attribute, ok bool) {
	s.attrs.ForEachInRange(HandleRange{Start: h, End: h}, func(_ AttributeProvider, a Attribute) error {
		found, ok = a, true
		return nil
	})
	return found, ok
}

// clip truncates v to at most n bytes.
func clip(v []byte, n int) []byte {
	if n < 0 {
		n = 0
	}
	if len(v) > n {
		return v[:n]
	}
	return v
}

func (s *Server) handleMTU(req []byte) []byte {
	if len(req) != 3 {
		return attErrorResp(req[0], 0x0000, attEcodeInvalidPDU)
	}
	mtu := binary.LittleEndian.Uint16(req[1:])
	if mtu < DefaultMTU {
		mtu = DefaultMTU
	}
	if mtu > s.maxMTU {
		mtu = s.maxMTU
	}
	s.mtu = mtu
	s.log.Debugf("ATT MTU set to %d", mtu)
	return []byte{attOpMtuResp, byte(s.maxMTU), byte(s.maxMTU >> 8)}
}

func (s *Server) handleFindInfo(req []byte) []byte {
	if len(req) != 5 {
		return attErrorResp(req[0], 0x0000, attEcodeInvalidPDU)
	}
	r, errRsp := readRange(req)
	if errRsp != nil {
		return errRsp
	}

	w := newRespWriter(s.mtu)
	w.WriteByteFit(attOpFindInfoResp)
	w.WriteByteFit(0) // format; set below
	uuidLen := 0
	err := s.attrs.ForEachInRange(r, func(_ AttributeProvider, a Attribute) error {
		if uuidLen == 0 {
			uuidLen = a.Type.Len()
		} else if a.Type.Len() != uuidLen {
			return errRespFull
		}
		w.Chunk()
		w.WriteUint16Fit(a.Handle)
		w.WriteUUIDFit(a.Type)
		if !w.Commit() {
			return errRespFull
		}
		return nil
	})
	if err != nil && err != errRespFull {
		return attErrorResp(req[0], r.Start, attEcodeUnlikely)
	}
	if w.Committed() == 0 {
		return attErrorResp(req[0], r.Start, attEcodeAttrNotFound)
	}

	rsp := w.Bytes()
	rsp[1] = 0x01
	if uuidLen == 16 {
		rsp[1] = 0x02
	}
	return rsp
}

func (s *Server) handleFindByTypeValue(req []byte) []byte {
	if len(req) < 7 {
		return attErrorResp(req[0], 0x0000, attEcodeInvalidPDU)
	}
	r, errRsp := readRange(req)
	if errRsp != nil {
		return errRsp
	}
	typ := UUID{req[5:7]}
	val := req[7:]

	w := newRespWriter(s.mtu)
	w.WriteByteFit(attOpFindByTypeResp)
	err := s.attrs.ForEachInRange(r, func(p AttributeProvider, a Attribute) error {
		if !a.Type.Equal(typ) || !bytes.Equal(a.Value, val) {
			return nil
		}
		end := a.Handle
		if g, ok := p.GroupEnd(a.Handle); ok {
			end = g.Handle
		}
		w.Chunk()
		w.WriteUint16Fit(a.Handle)
		w.WriteUint16Fit(end)
		if !w.Commit() {
			return errRespFull
		}
		return nil
	})
	if err != nil && err != errRespFull {
		return attErrorResp(req[0], r.Start, attEcodeUnlikely)
	}
	if w.Committed() == 0 {
		return attErrorResp(req[0], r.Start, attEcodeAttrNotFound)
	}
	return w.Bytes()
}

// readByRange implements Read By Type and Read By Group Type, which
// differ only in whether each entry carries a group end handle.
func (s *Server) readByRange(req []byte, grouped bool) []byte {
	if len(req) != 7 && len(req) != 21 {
		return attErrorResp(req[0], 0x0000, attEcodeInvalidPDU)
	}
	r, errRsp := readRange(req)
	if errRsp != nil {
		return errRsp
	}
	typ, err := uuidFromBytes(req[5:])
	if err != nil {
		return attErrorResp(req[0], r.Start, attEcodeInvalidPDU)
	}
	if grouped && !s.attrs.IsGroupingType(typ) {
		return attErrorResp(req[0], r.Start, attEcodeUnsuppGrpType)
	}

	head, maxLen := 2, 253
	if grouped {
		head, maxLen = 4, 251
	}
	if n := int(s.mtu) - 2 - head; n < maxLen {
		maxLen = n
	}

	w := newRespWriter(s.mtu)
	w.WriteByteFit(attRespFor[req[0]])
	w.WriteByteFit(0) // entry length; set below
	entryLen := 0
	var denied *attErr
	err = s.attrs.ForEachInRange(r, func(p AttributeProvider, a Attribute) error {
		if !a.Type.Equal(typ) {
			return nil
		}
		if !p.Permissions(a.Handle).Readable() {
			if w.Committed() == 0 {
				denied = &attErr{opcode: req[0], handle: a.Handle, status: attEcodeReadNotPerm}
			}
			return errRespFull
		}
		v := clip(a.Value, maxLen)
		if entryLen == 0 {
			entryLen = head + len(v)
		} else if head+len(v) != entryLen {
			return errRespFull
		}
		w.Chunk()
		w.WriteUint16Fit(a.Handle)
		if grouped {
			end := a.Handle
			if g, ok := p.GroupEnd(a.Handle); ok {
				end = g.Handle
			}
			w.WriteUint16Fit(end)
		}
		w.WriteFit(v)
		if !w.Commit() {
			return errRespFull
		}
		return nil
	})
	switch {
	case denied != nil:
		return denied.Marshal()
	case err != nil && err != errRespFull:
		return attErrorResp(req[0], r.Start, attEcodeUnlikely)
	case w.Committed() == 0:
		return attErrorResp(req[0], r.Start, attEcodeAttrNotFound)
	}

	rsp := w.Bytes()
	rsp[1] = byte(entryLen)
	return rsp
}

func (s *Server) handleReadByType(req []byte) []byte {
	return s.readByRange(req, false)
}

func (s *Server) handleReadByGroup(req []byte) []byte {
	return s.readByRange(req, true)
}

func (s *Server) handleRead(req []byte) []byte {
	if len(req) != 3 {
		return attErrorResp(req[0], 0x0000, attEcodeInvalidPDU)
	}
	return s.readAt(req[0], binary.LittleEndian.Uint16(req[1:]), 0)
}

func (s *Server) handleReadBlob(req []byte) []byte {
	if len(req) != 5 {
		return attErrorResp(req[0], 0x0000, attEcodeInvalidPDU)
	}
	h := binary.LittleEndian.Uint16(req[1:])
	off := binary.LittleEndian.Uint16(req[3:])
	return s.readAt(req[0], h, int(off))
}

func (s *Server) readAt(op byte, h uint16, off int) []byte {
	a, ok := s.lookup(h)
	if !ok {
		return attErrorResp(op, h, attEcodeInvalidHandle)
	}
	if !s.attrs.Permissions(h).Readable() {
		return attErrorResp(op, h, attEcodeReadNotPerm)
	}
	if off > len(a.Value) {
		return attErrorResp(op, h, attEcodeInvalidOffset)
	}
	v := clip(a.Value[off:], int(s.mtu)-1)
	return append([]byte{attRespFor[op]}, v...)
}

func (s *Server) handleWrite(req []byte) []byte {
	op := req[0]
	respond := func(b []byte) []byte {
		if isAttCommand(op) {
			return nil
		}
		return b
	}
	if len(req) < 3 {
		return respond(attErrorResp(op, 0x0000, attEcodeInvalidPDU))
	}
	h := binary.LittleEndian.Uint16(req[1:])
	if _, ok := s.lookup(h); !ok {
		return respond(attErrorResp(op, h, attEcodeInvalidHandle))
	}
	if !s.attrs.Permissions(h).Writable() {
		return respond(attErrorResp(op, h, attEcodeWriteNotPerm))
	}
	if err := s.attrs.Write(h, req[3:]); err != nil {
		s.log.Debugf("Write to 0x%04X rejected: %v", h, err)
		return respond(attErrorResp(op, h, attEcodeFor(err)))
	}
	return respond([]byte{attOpWriteResp})
}
