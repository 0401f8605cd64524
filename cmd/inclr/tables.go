package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/inclr/lr"
	"github.com/npillmayer/inclr/lr/langdef"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var tablesFlags = struct {
	dot  *string
	html *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "tables",
		Short:   "Show grammar rules, FIRST/FOLLOW sets and parser tables",
		Example: `  inclr tables --lang lists.toml --dot lists.dot`,
		Args:    cobra.NoArgs,
		RunE:    runTables,
	}
	tablesFlags.dot = cmd.Flags().String("dot", "", "write the LR(1) automaton in Graphviz format to a file")
	tablesFlags.html = cmd.Flags().String("html", "", "write ACTION and GOTO tables in HTML format to a file")
	rootCmd.AddCommand(cmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	lang, err := loadLanguage()
	if err != nil {
		return err
	}
	rules := pterm.TableData{{"#", "Rule"}}
	for _, r := range lang.Grammar.Rules() {
		rules = append(rules, []string{strconv.Itoa(r.Serial), r.String()})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rules).Render()
	pterm.Println()
	sets := pterm.TableData{{"Non-terminal", "FIRST", "FOLLOW"}}
	for _, A := range lang.Grammar.NonTerminals() {
		first := lang.Analysis.First(A)
		if lang.Analysis.Nullable(A) {
			first = append(first, "ε")
		}
		sets = append(sets, []string{A, setString(first), setString(lang.Analysis.Follow(A))})
	}
	pterm.DefaultTable.WithHasHeader().WithData(sets).Render()
	pterm.Println()
	pterm.Info.Println(fmt.Sprintf("%d states, %d edges, %d terminals", lang.Automaton.Size(),
		len(lang.Automaton.Edges()), len(lang.Grammar.Terminals())))
	for _, c := range lang.Tables.Conflicts() {
		pterm.Warning.Println(c.String())
	}
	if *tablesFlags.dot != "" {
		if err = writeFile(*tablesFlags.dot, lang, writeDot); err != nil {
			return err
		}
	}
	if *tablesFlags.html != "" {
		if err = writeFile(*tablesFlags.html, lang, writeHTML); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, lang *langdef.Language, write func(*os.File, *langdef.Language) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err = write(f, lang); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	pterm.Info.Println("wrote " + path)
	return nil
}

func writeDot(f *os.File, lang *langdef.Language) error {
	return lang.Automaton.ToGraphViz(f)
}

func writeHTML(f *os.File, lang *langdef.Language) error {
	if err := lr.ActionTableAsHTML(lang.Tables, f); err != nil {
		return err
	}
	return lr.GotoTableAsHTML(lang.Tables, f)
}

func setString(set []string) string {
	return "{ " + strings.Join(set, " ") + " }"
}
