package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/structs"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/XC-/pinegatt/serial"
)

// stdio is a stream over the process's standard input and output.
type stdio struct {
	io.Reader
	io.Writer
}

func (stdio) Close() error { return os.Stdin.Close() }

func serveCmd(mtu *uint16) *cobra.Command {
	cfg := serial.NewXportCfg()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Answer ATT requests framed on a serial line",
		Example: "  attserve serve --dev /dev/ttyUSB0 --baud 115200\n" +
			"  attserve serve < requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, srv, err := newServer(*mtu)
			if err != nil {
				return err
			}

			var x *serial.Xport
			if cfg.DevPath == "" {
				x = serial.NewXport(stdio{os.Stdin, os.Stdout})
			} else if x, err = serial.Open(cfg); err != nil {
				return err
			}

			log.WithFields(log.Fields(structs.Map(cfg))).
				WithField("MaxMTU", *mtu).
				Info("Serving attribute table")

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)
			go func() {
				<-sigChan
				log.Info("Stopping")
				x.Stop()
			}()

			return x.Serve(srv)
		},
	}

	cmd.Flags().StringVar(&cfg.DevPath, "dev", "",
		"serial device to serve on; standard input and output if empty")
	cmd.Flags().IntVar(&cfg.Baud, "baud", cfg.Baud, "serial baud rate")
	cmd.Flags().DurationVar(&cfg.ReadTimeout, "timeout", cfg.ReadTimeout,
		"serial read timeout")
	return cmd
}
