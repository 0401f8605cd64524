/*
Package inclr is an incremental LR(1) parsing toolbox.

inclr builds canonical LR(1) parser tables at runtime from a textual grammar
description and uses them to parse sequences of scanned words into concrete
syntax trees. The trees may be re-parsed incrementally after an edit: the
incremental parser re-uses untouched subtrees of the previous tree and reports
the differences as a list of tree changes. This makes it suitable for editors
and language servers, which keep a syntax tree per document and update it on
every keystroke. Package structure is as follows:

■ lr: Package lr implements the grammar model, grammar analysis (FIRST and
FOLLOW sets), the LR(1) automaton and the ACTION and GOTO tables.
Sub-packages provide the concrete syntax tree, a batch parser, the incremental
parser, a word scanner, language definitions and an editable document type.

■ cmd/inclr: A command line tool to inspect parser tables, parse input and
experiment with incremental edits in an interactive session.

The base package contains data types which are used throughout all the other packages:
scanned words and the mapping of words to grammar terminals.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package inclr
