package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/nsw-daq/feconf"
	"github.com/nsw-daq/feconf/internal/treeio"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	convertInput  string
	convertOutput string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert device sections between value and register form",
	Long: `Walk a configuration document and convert every configured device section.
Value-based sections become register-based and register-based sections become
value-based. Sections are recognised by name (config key "sections").`,
	RunE: func(cmd *cobra.Command, args []string) error {
		txn := newTransaction("convert " + convertInput)
		kinds, err := sectionKinds()
		if err != nil {
			return err
		}
		doc, err := treeio.ReadFile(convertInput)
		if err != nil {
			return err
		}
		n, err := convertDocument(doc, kinds, viper.GetBool("output.hex"))
		if err != nil {
			return err
		}
		if convertOutput == "" {
			data, err := doc.Bytes()
			if err != nil {
				return err
			}
			os.Stdout.Write(data)
		} else if err := doc.WriteFile(convertOutput); err != nil {
			return err
		}
		feconf.UpdateLogger.Printf("[%s] converted %d sections", txn, n)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "", "input document (JSON or YAML)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output document (default stdout)")
	convertCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(convertCmd)
}

// convertDocument converts every section named in kinds, in place.
func convertDocument(doc *treeio.Document, kinds map[string]feconf.DeviceKind, hex bool) (int, error) {
	pick := func(key string) treeio.Converter {
		kind, ok := kinds[strings.ToLower(key)]
		if !ok {
			return nil
		}
		return func(t *feconf.Tree) (*feconf.Tree, error) {
			return convertSection(kind, t)
		}
	}
	return doc.Rewrite(pick, hex)
}

// convertSection tries the section as value based first, then as register
// based.
func convertSection(kind feconf.DeviceKind, t *feconf.Tree) (*feconf.Tree, error) {
	tr, err := feconf.NewTranslator(kind, t, feconf.ValueBased)
	if err != nil {
		return nil, err
	}
	out, errValue := tr.SubRegisterTree()
	if errValue == nil {
		if viper.GetBool("verbose") {
			spew.Dump(out.Leaves())
		}
		return out, nil
	}
	tr, _ = feconf.NewTranslator(kind, t, feconf.RegisterBased)
	out, errRegister := tr.ValueTree()
	if errRegister == nil {
		if viper.GetBool("verbose") {
			spew.Dump(out.Leaves())
		}
		return out, nil
	}
	return nil, fmt.Errorf("%v section is neither value nor register based: %w",
		kind, errors.Join(errValue, errRegister))
}
