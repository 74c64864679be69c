package main

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/nsw-daq/feconf"
	"github.com/nsw-daq/feconf/internal/simbus"
	"github.com/nsw-daq/feconf/internal/treeio"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	flattenDevice    string
	flattenInput     string
	flattenSection   string
	flattenReference string
	flattenSimulate  bool
)

var flattenCmd = &cobra.Command{
	Use:   "flatten",
	Short: "Turn a value configuration into one value per register",
	Long: `Translate values into flat register values. Registers only partly covered
by the values are completed from a reference: a readback document given with
--reference, or a simulated bus (--simulate) which then receives the writes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := feconf.ParseDeviceKind(flattenDevice)
		if err != nil {
			return err
		}
		txn := newTransaction(fmt.Sprintf("flatten %v %s", kind, flattenInput))
		values, err := readTree(flattenInput, flattenSection)
		if err != nil {
			return err
		}
		var snapshot feconf.Snapshot
		if flattenReference != "" {
			ref, err := readTree(flattenReference, "")
			if err != nil {
				return err
			}
			snapshot = snapshotFromTree(ref)
		}
		n, err := flatten(os.Stdout, kind, values, snapshot, flattenSimulate, viper.GetBool("output.hex"))
		if err != nil {
			return err
		}
		feconf.UpdateLogger.Printf("[%s] %d registers", txn, n)
		return nil
	},
}

func init() {
	flattenCmd.Flags().StringVarP(&flattenDevice, "device", "d", "", "device kind (roc-analog, roc-digital, tds, art-core, art-ps)")
	flattenCmd.Flags().StringVarP(&flattenInput, "input", "i", "", "value document")
	flattenCmd.Flags().StringVarP(&flattenSection, "section", "s", "", "section of the document holding the values")
	flattenCmd.Flags().StringVar(&flattenReference, "reference", "", "flat register readback document")
	flattenCmd.Flags().BoolVar(&flattenSimulate, "simulate", false, "merge against, and write to, a simulated bus")
	flattenCmd.MarkFlagRequired("device")
	flattenCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(flattenCmd)
}

// readTree reads a whole document, or one of its sections, as a Tree.
func readTree(filename, section string) (*feconf.Tree, error) {
	doc, err := treeio.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if section == "" {
		return doc.Tree()
	}
	return doc.Section(section)
}

func snapshotFromTree(t *feconf.Tree) feconf.Snapshot {
	snap := make(feconf.Snapshot)
	for _, l := range t.Leaves() {
		snap[l.Path] = l.Value
	}
	return snap
}

// flatten writes "address value" lines and returns the number of registers.
// Without a simulated bus, an incomplete register with no snapshot value is
// an error.
func flatten(w io.Writer, kind feconf.DeviceKind, values *feconf.Tree, snapshot feconf.Snapshot,
	simulate, hex bool) (int, error) {
	tr, err := feconf.NewTranslator(kind, values, feconf.ValueBased)
	if err != nil {
		return 0, err
	}
	var ref feconf.ReferenceLookup = snapshot
	var bus *simbus.Bus
	if simulate {
		if bus, err = simbus.New("flatten", kind, snapshot); err != nil {
			return 0, err
		}
		defer bus.Close()
		ref = bus
	}
	flat, err := tr.FlatWithReference(ref)
	if err != nil {
		return 0, err
	}
	if viper.GetBool("verbose") {
		fc, _ := tr.Flat()
		spew.Dump(fc)
	}
	if bus != nil {
		if err := bus.WriteTree(flat); err != nil {
			return 0, err
		}
	}
	leaves := flat.Leaves()
	for _, l := range leaves {
		text := l.Value.String()
		if hex {
			text = l.Value.Hex()
		}
		fmt.Fprintf(w, "%s %s\n", l.Path, text)
	}
	return len(leaves), nil
}
