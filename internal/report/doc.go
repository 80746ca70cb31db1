// Package report renders school reports for the terminal.
//
// SimpleWriter prints the line-oriented text layout. MarkdownWriter prints
// the same content as GitHub Flavored Markdown. Both read the report model
// built by the pipeline and never fetch anything themselves; every label
// comes from a Labels catalog chosen with LabelsFor.
package report
