package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/ugorji/go/codec"

	gatt "github.com/XC-/pinegatt"
)

type attrEntry struct {
	Handle   uint16 `codec:"handle"`
	Type     string `codec:"type"`
	Value    string `codec:"value"`
	Access   string `codec:"access"`
	GroupEnd uint16 `codec:"group_end,omitempty"`
}

type tableDump struct {
	Hash       string      `codec:"hash"`
	Attributes []attrEntry `codec:"attributes"`
}

func collect(p gatt.AttributeProvider) []attrEntry {
	var ee []attrEntry
	p.ForEachInRange(gatt.HandleRange{Start: 1, End: 0xFFFF}, func(p gatt.AttributeProvider, a gatt.Attribute) error {
		e := attrEntry{
			Handle: a.Handle,
			Type:   a.Type.String(),
			Value:  hex.EncodeToString(a.Value),
			Access: p.Permissions(a.Handle).String(),
		}
		if p.IsGroupingType(a.Type) {
			if end, ok := p.GroupEnd(a.Handle); ok {
				e.GroupEnd = end.Handle
			}
		}
		ee = append(ee, e)
		return nil
	})
	return ee
}

func dumpText(w io.Writer, d tableDump) {
	fmt.Fprintf(w, "%-6s  %-36s  %-9s  %-6s  %s\n", "handle", "type", "access", "end", "value")
	for _, e := range d.Attributes {
		end := ""
		if e.GroupEnd != 0 {
			end = fmt.Sprintf("0x%04X", e.GroupEnd)
		}
		fmt.Fprintf(w, "0x%04X  %-36s  %-9s  %-6s  %s\n", e.Handle, e.Type, e.Access, end, e.Value)
	}
	fmt.Fprintf(w, "database hash: %s\n", d.Hash)
}

func dumpJSON(w io.Writer, d tableDump) error {
	h := new(codec.JsonHandle)
	h.Indent = 2
	h.HTMLCharsAsIs = true
	if err := codec.NewEncoder(w, h).Encode(d); err != nil {
		return errors.Wrap(err, "json")
	}
	fmt.Fprintln(w)
	return nil
}

func dumpCmd() *cobra.Command {
	format := "text"
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the attribute table and its database hash",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := newServer(gatt.DefaultMTU)
			if err != nil {
				return err
			}
			hash, err := store.Hash()
			if err != nil {
				return err
			}
			d := tableDump{Hash: hex.EncodeToString(hash), Attributes: collect(store)}

			switch format {
			case "text":
				dumpText(cmd.OutOrStdout(), d)
				return nil
			case "json":
				return dumpJSON(cmd.OutOrStdout(), d)
			}
			return errors.Errorf("unknown format %q", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", format, "output format: text or json")
	return cmd
}
