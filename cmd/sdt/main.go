// Package main is the entry point for the Study Dashboard TUI application.
package main

func main() {
	Execute()
}
