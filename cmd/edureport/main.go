// Package main provides the entry point for the edureport CLI.
//
// edureport logs in to one or more EduPage school portals and prints a
// daily overview: timetable, recent grades and notices for every child of
// a parent account, or the ordered lunch with --lunch.
//
// Usage:
//
//	edureport
//	edureport --date 23.02.2026
//	edureport --lunch --date 23.02.2026
//	edureport init
//
// See --help for all available options.
package main

// main is the entry point for edureport.
func main() {
	Execute()
}
