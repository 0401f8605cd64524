package main

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/inclr/lr/document"
	"github.com/npillmayer/inclr/lr/langdef"
	"github.com/npillmayer/inclr/lr/scanner"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "repl [text ...]",
		Short: "Edit a document interactively, parsing incrementally",
		Long: `Every line entered replaces the text of the document. The words which
differ from the previous text are re-parsed incrementally and the changes to
the syntax tree are displayed. Lines starting with a colon are commands:

  :tree       display the syntax tree
  :words      display the words of the document
  :allowed    list the terminals which may follow the document
  :compact    drop unused nodes of previous trees
  :quit       leave (as does <ctrl>D)`,
		RunE: runRepl,
	}
	rootCmd.AddCommand(cmd)
}

// Intp is our interpreter object.
type Intp struct {
	lang *langdef.Language
	doc  *document.Document
	sc   *scanner.Scanner
	repl *readline.Instance
}

func runRepl(cmd *cobra.Command, args []string) error {
	lang, err := loadLanguage()
	if err != nil {
		return err
	}
	sc, err := newScanner()
	if err != nil {
		return err
	}
	repl, err := readline.New("inclr> ")
	if err != nil {
		return err
	}
	defer repl.Close()
	intp := &Intp{
		lang: lang,
		doc:  document.New(lang.Tables, lang.Mapper, document.Trace(stepTracing())),
		sc:   sc,
		repl: repl,
	}
	pterm.Info.Println("Welcome to the inclr REPL, language is " + lang.Name)
	if input := strings.TrimSpace(strings.Join(args, " ")); input != "" {
		intp.Edit(input)
	}
	tracer().Infof("Quit with <ctrl>D")
	intp.REPL()
	return nil
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if quit := intp.Execute(line); quit {
				break
			}
			continue
		}
		intp.Edit(line)
	}
	pterm.Println("Good bye!")
}

// Edit takes text as the new content of the document.
func (intp *Intp) Edit(text string) {
	words, err := intp.sc.Scan(text)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	offset, length, inserted := document.DiffWords(intp.doc.Words(), words)
	tracer().Debugf("replacing %d words at %d by %d words", length, offset, len(inserted))
	outcome, err := intp.doc.Replace(offset, length, inserted)
	if err != nil {
		printSyntaxError(err)
		return
	}
	if !outcome.Incremental {
		pterm.Warning.Println("incremental parse failed, document has been parsed from scratch")
	} else if len(outcome.Changes) == 0 {
		pterm.Info.Println("no changes")
		return
	} else {
		pterm.Info.Println(fmt.Sprintf("%d words and terminals processed", outcome.ProcessedWords))
	}
	for _, c := range outcome.Changes {
		pterm.Info.Println(fmt.Sprint(c))
	}
	renderTree(intp.doc.Tree())
}

// Execute runs a REPL command. It returns true if the REPL should quit.
func (intp *Intp) Execute(line string) bool {
	switch cmd := strings.Fields(line)[0]; cmd {
	case ":quit", ":q":
		return true
	case ":tree":
		renderTree(intp.doc.Tree())
	case ":words":
		data := pterm.TableData{{"#", "Word", "Type", "Location", "Terminal"}}
		for i, w := range intp.doc.Words() {
			data = append(data, []string{fmt.Sprint(i), w.Value, w.Type.String(), w.Loc.String(),
				intp.lang.Mapper(w)})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	case ":allowed":
		p := intp.lang.IncrementalParser()
		labels := p.AllowedLabels(intp.doc.Tree(), nil)
		pterm.Info.Println("may follow: " + strings.Join(labels, " "))
	case ":compact":
		n := intp.doc.Tree().Len()
		intp.doc.Compact()
		pterm.Info.Println(fmt.Sprintf("compacted tree from %d to %d nodes", n, intp.doc.Tree().Len()))
	default:
		pterm.Error.Println("unknown command " + cmd)
	}
	return false
}
