package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fenwick-labs/xmlstream/xmlstream"
	"github.com/fenwick-labs/xmlstream/xmlwrite"
)

var indent string

var formatCmd = &cobra.Command{
	Use:   "format [xml_file]",
	Short: "Reformat an XML file with consistent indentation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		doc, err := xmlstream.NewDecoder(f, xmlstream.DefaultConfig()).Decode()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			os.Exit(1)
		}

		out, err := xmlwrite.RenderIndent(doc, "", indent)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
	},
}

func init() {
	rootCmd.AddCommand(formatCmd)
	formatCmd.Flags().StringVar(&indent, "indent", "  ", "indentation string used per nesting level")
}
