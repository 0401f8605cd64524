package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/inclr/lr/lr1"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	file *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse [text ...]",
		Short:   "Parse a text and display its syntax tree",
		Example: `  inclr parse "1 + 2 * (3 - 4)"`,
		RunE:    runParse,
	}
	parseFlags.file = cmd.Flags().StringP("file", "f", "", "read the text from a file")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	lang, err := loadLanguage()
	if err != nil {
		return err
	}
	input := strings.Join(args, " ")
	if *parseFlags.file != "" {
		b, err := os.ReadFile(*parseFlags.file)
		if err != nil {
			return err
		}
		input = string(b)
	}
	sc, err := newScanner()
	if err != nil {
		return err
	}
	words, err := sc.Scan(input)
	if err != nil {
		return err
	}
	tracer().Infof("input has %d words", len(words))
	tree, err := lang.BatchParser(lr1.Trace(stepTracing())).Parse(words)
	if err != nil {
		printSyntaxError(err)
		return fmt.Errorf("input is not a valid %s", lang.Name)
	}
	renderTree(tree)
	return nil
}

func printSyntaxError(err error) {
	var serr *lr1.SyntaxError
	if !errors.As(err, &serr) {
		pterm.Error.Println(err.Error())
		return
	}
	pterm.Error.Println(fmt.Sprintf("%s: %s Expected one of: %s", serr.Word.Loc, serr.Message(),
		strings.Join(serr.Expected, " ")))
}
