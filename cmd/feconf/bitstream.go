package main

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/nsw-daq/feconf"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	bitstreamDevice  string
	bitstreamInput   string
	bitstreamSection string
	bitstreamPartial bool
)

var bitstreamCmd = &cobra.Command{
	Use:   "bitstream",
	Short: "Encode named register fields as register bitstreams",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := feconf.ParseDeviceKind(bitstreamDevice)
		if err != nil {
			return err
		}
		txn := newTransaction(fmt.Sprintf("bitstream %v %s", kind, bitstreamInput))
		registers, err := readTree(bitstreamInput, bitstreamSection)
		if err != nil {
			return err
		}
		n, err := printBitstreams(os.Stdout, bitstreamInput, kind, registers, bitstreamPartial)
		if err != nil {
			return err
		}
		feconf.UpdateLogger.Printf("[%s] %d registers", txn, n)
		return nil
	},
}

func init() {
	bitstreamCmd.Flags().StringVarP(&bitstreamDevice, "device", "d", "", "device kind")
	bitstreamCmd.Flags().StringVarP(&bitstreamInput, "input", "i", "", "register document")
	bitstreamCmd.Flags().StringVarP(&bitstreamSection, "section", "s", "", "section of the document holding the registers")
	bitstreamCmd.Flags().BoolVar(&bitstreamPartial, "partial", false, "encode only the registers present")
	bitstreamCmd.MarkFlagRequired("device")
	bitstreamCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(bitstreamCmd)
}

// printBitstreams builds a register store and dumps it, followed by the wire
// bytes of each register.
func printBitstreams(w io.Writer, name string, kind feconf.DeviceKind, registers *feconf.Tree, partial bool) (int, error) {
	build := feconf.NewRegisterStore
	if partial {
		build = feconf.NewPartialRegisterStore
	}
	store, err := build(name, kind, registers)
	if err != nil {
		return 0, err
	}
	if viper.GetBool("verbose") {
		spew.Dump(store.Bitstreams())
	}
	if err := store.Dump(w); err != nil {
		return 0, err
	}
	for _, a := range store.Addresses() {
		data, _ := store.Bytes(a)
		fmt.Fprintf(w, "%-12s % x\n", a, data)
	}
	return len(store.Addresses()), nil
}
