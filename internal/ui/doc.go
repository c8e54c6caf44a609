// Package ui holds the terminal presentation pieces of spx: the overwrite confirmation prompt and the
// lipgloss-styled download summary and history tables.
//
// [Prompter] asks "<file> exists. Overwrite? [y/N]". On a terminal it runs a small bubbletea program
// (keys y/Y accept; n/N, enter and esc decline; ctrl+c declines and cancels the run). On any other input it
// reads a line instead, so piped or closed stdin never blocks: empty input and EOF decline.
package ui
