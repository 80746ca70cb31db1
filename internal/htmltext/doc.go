// Package htmltext converts announcement HTML into wrapped plain text.
//
// The output keeps a light Markdown flavor (headings as "#", list items
// as "*", bold as "**") so it stays readable in a terminal. Hyperlinks are
// reduced to their visible text.
package htmltext
