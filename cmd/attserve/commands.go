package main

import (
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	gatt "github.com/XC-/pinegatt"
)

func Commands() *cobra.Command {
	logLevelStr := ""
	logFile := ""
	mtu := uint16(gatt.DefaultMTU)
	cmd := &cobra.Command{
		Use:          "attserve",
		Short:        "attserve serves the watch attribute table over ATT",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevelStr)
			if err != nil {
				return err
			}
			log.SetLevel(lvl)

			if logFile == "" {
				return nil
			}
			path, err := homedir.Expand(logFile)
			if err != nil {
				return errors.Wrap(err, "log file")
			}
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return errors.Wrap(err, "log file")
			}
			log.SetOutput(f)
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	cmd.PersistentFlags().StringVarP(&logLevelStr, "loglevel", "l", "info",
		"log level to use")
	cmd.PersistentFlags().StringVar(&logFile, "logfile", "",
		"append logs to this file instead of stderr")
	cmd.PersistentFlags().Uint16Var(&mtu, "mtu", gatt.DefaultMTU,
		"largest ATT_MTU to accept in an MTU exchange")

	cmd.AddCommand(serveCmd(&mtu))
	cmd.AddCommand(dumpCmd())
	cmd.AddCommand(readCmd(&mtu))
	cmd.AddCommand(writeCmd(&mtu))
	return cmd
}

// newServer builds the reference table and a server for it that
// accepts an ATT_MTU of up to mtu.
func newServer(mtu uint16) (*gatt.Store, *gatt.Server, error) {
	store, err := gatt.NewReferenceStore()
	if err != nil {
		return nil, nil, err
	}
	return store, gatt.NewServer(store, gatt.MaxMTU(mtu)), nil
}

// parseHandle accepts decimal or 0x-prefixed hex. A leading zero
// without the x is rejected rather than read as octal.
func parseHandle(s string) (uint16, error) {
	if len(s) > 1 && s[0] == '0' && s[1] != 'x' && s[1] != 'X' {
		return 0, errors.Errorf("invalid handle %q", s)
	}
	n, err := cast.ToIntE(s)
	if err != nil {
		return 0, errors.Errorf("invalid handle %q", s)
	}
	if n < 1 || n > 0xFFFF {
		return 0, errors.Errorf("handle %q out of range", s)
	}
	return uint16(n), nil
}
