package main

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/XC-/pinegatt/serial"
)

const (
	attOpError    = 0x01
	attOpReadReq  = 0x0a
	attOpWriteReq = 0x12
)

// exchange sends one request to h and returns the response payload,
// or an error carrying the ATT error code.
func exchange(h serial.Handler, req []byte) ([]byte, error) {
	rsp := h.HandleRequest(req)
	log.Debugf("ATT %X -> %X", req, rsp)
	switch {
	case len(rsp) == 0:
		return nil, errors.New("no response")
	case rsp[0] == attOpError && len(rsp) == 5:
		return nil, errors.Errorf("ATT error 0x%02X on handle 0x%02X%02X", rsp[4], rsp[3], rsp[2])
	}
	return rsp[1:], nil
}

func readCmd(mtu *uint16) *cobra.Command {
	return &cobra.Command{
		Use:     "read <handle>",
		Short:   "Read an attribute of the table",
		Example: "  attserve read 0x0006",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := parseHandle(args[0])
			if err != nil {
				return err
			}
			_, srv, err := newServer(*mtu)
			if err != nil {
				return err
			}
			v, err := exchange(srv, []byte{attOpReadReq, byte(h), byte(h >> 8)})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "0x%04X: % X\n", h, v)
			return nil
		},
	}
}

func writeCmd(mtu *uint16) *cobra.Command {
	return &cobra.Command{
		Use:     "write <handle> <hex-value>",
		Short:   "Write an attribute of the table and read it back",
		Example: "  attserve write 0x0003 01",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := parseHandle(args[0])
			if err != nil {
				return err
			}
			data, err := hex.DecodeString(args[1])
			if err != nil {
				return errors.Wrap(err, "value")
			}
			_, srv, err := newServer(*mtu)
			if err != nil {
				return err
			}
			req := append([]byte{attOpWriteReq, byte(h), byte(h >> 8)}, data...)
			if _, err := exchange(srv, req); err != nil {
				return err
			}
			v, err := exchange(srv, []byte{attOpReadReq, byte(h), byte(h >> 8)})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "0x%04X: % X\n", h, v)
			return nil
		},
	}
}
