package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "xmlfmt",
	Short: "Validate and reformat XML documents",
	Long: `xmlfmt streams an XML document through a non-validating XML 1.0
tokenizer and parser, reporting the first well-formedness error it finds,
and can reformat well-formed documents with consistent indentation.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
