/*
Command inclr is a workbench for grammars and the incremental LR(1) parser.

It reads a language definition (see package lr/langdef) or uses a built-in
grammar for arithmetic expressions, and offers three sub-commands:

	inclr tables [--dot file] [--html file]    show rules, FIRST/FOLLOW sets and conflicts
	inclr parse [--file file] [text ...]        parse a text and display its syntax tree
	inclr repl [text ...]                       edit a document line by line

In the REPL every line entered is taken as the new text of the document. The
difference to the previous text is handed to the incremental parser, and the
resulting tree changes are displayed.

Flags --lang and --trace are understood by every sub-command.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/inclr/lr"
	"github.com/npillmayer/inclr/lr/cst"
	"github.com/npillmayer/inclr/lr/langdef"
	"github.com/npillmayer/inclr/lr/scanner"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// tracer traces with key 'inclr.cli'.
func tracer() tracing.Trace {
	return tracing.Select("inclr.cli")
}

var rootFlags = struct {
	lang  *string
	trace *string
}{}

var rootCmd = &cobra.Command{
	Use:   "inclr",
	Short: "Build LR(1) tables and parse incrementally",
	Long: `inclr builds LR(1) parser tables for a grammar and runs the batch
and incremental parsers on input texts. Without --lang a grammar for
arithmetic expressions is used.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootFlags.lang = rootCmd.PersistentFlags().StringP("lang", "l", "", "language definition file (TOML)")
	rootFlags.trace = rootCmd.PersistentFlags().StringP("trace", "t", "Info", "trace level [Debug|Info|Error]")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	initDisplay()
	level := tracing.TraceLevelFromString(*rootFlags.trace)
	for _, key := range []string{"inclr.cli", "inclr.lr", "inclr.scanner"} {
		tracing.Select(key).SetTraceLevel(level)
	}
	tracer().Debugf("trace level is %s", *rootFlags.trace)
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// stepTracing is true if parsers should trace every step.
func stepTracing() bool {
	return tracer().GetTraceLevel() == tracing.LevelDebug
}

// loadLanguage builds the language given by flag --lang. Conflicts are
// tolerated; they are reported as a warning.
func loadLanguage() (*langdef.Language, error) {
	var d *langdef.Definition
	var err error
	if *rootFlags.lang == "" {
		d, err = langdef.LoadDefinition(strings.NewReader(langdef.Expressions))
	} else {
		d, err = langdef.LoadDefinitionFile(*rootFlags.lang)
	}
	if err != nil {
		return nil, err
	}
	lrtracer := tracing.Select("inclr.lr")
	level := lrtracer.GetTraceLevel()
	if level != tracing.LevelDebug {
		lrtracer.SetTraceLevel(tracing.LevelError)
	}
	lang, err := d.Build(lr.TolerateConflicts(true))
	lrtracer.SetTraceLevel(level)
	if err != nil {
		return nil, err
	}
	if lang.Tables.HasConflicts() {
		pterm.Warning.Println(fmt.Sprintf("grammar %s is not LR(1), %d conflicts", lang.Name,
			len(lang.Tables.Conflicts())))
	}
	tracer().Infof("language %s with %d rules", lang.Name, lang.Grammar.Size())
	return lang, nil
}

func newScanner() (*scanner.Scanner, error) {
	return scanner.New(scanner.SkipComments(true))
}

// renderTree displays a syntax tree on the terminal.
func renderTree(tree *cst.Tree) {
	if tree.Empty() {
		pterm.Info.Println("empty tree")
		return
	}
	var ll pterm.LeveledList
	tree.Leveled(func(level int, n *cst.Node) {
		ll = append(ll, pterm.LeveledListItem{
			Level: level,
			Text:  nodeText(n),
		})
	})
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
}

func nodeText(n *cst.Node) string {
	if n.IsTerminal() {
		return fmt.Sprintf("%q @%s", n.Word.Value, n.Word.Loc)
	}
	if n.Rule == cst.NoRule || n.State == cst.NoState {
		return n.Label()
	}
	return fmt.Sprintf("%s  [r%d, s%d]", n.Label(), n.Rule, n.State)
}
