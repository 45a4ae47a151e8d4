// Package logger prints the diagnostic output that surrounds a chunk
// assignment run: bucket counts before and after each merge pass, progress
// messages, and timing information. None of it is part of the assignment
// algorithm's functional contract (see the linker package) -- these
// messages are free to change shape between versions.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
)

type Level int8

const (
	LevelSilent Level = iota
	LevelInfo
	LevelVerbose
)

// Log prints diagnostic lines to an io.Writer using pterm for coloring
// and layout. The zero value is a silent logger; every method on it
// degrades to a no-op.
type Log struct {
	level  Level
	writer io.Writer
}

func New(level Level) Log {
	if level >= LevelVerbose {
		// pterm suppresses its Debug printer unless asked not to.
		pterm.EnableDebugMessages()
	}
	return Log{level: level, writer: os.Stderr}
}

func NewDiscard() Log {
	return Log{level: LevelSilent}
}

func (log Log) Info(text string) {
	if log.level < LevelInfo || log.writer == nil {
		return
	}
	pterm.Info.WithWriter(log.writer).Println(text)
}

// IsVerbose lets callers skip building expensive diagnostic strings that
// Verbose would discard anyway.
func (log Log) IsVerbose() bool {
	return log.level >= LevelVerbose && log.writer != nil
}

func (log Log) Verbose(text string) {
	if log.level < LevelVerbose || log.writer == nil {
		return
	}
	pterm.Debug.WithWriter(log.writer).Println(text)
}

func (log Log) Warn(text string) {
	if log.level < LevelInfo || log.writer == nil {
		return
	}
	pterm.Warning.WithWriter(log.writer).Println(text)
}

// BucketCounts prints the {small,big} x {pure,sideEffect} partition that
// feeds the size-driven merge pass, formatted as a small table.
func (log Log) BucketCounts(label string, smallPure, smallSideEffect, bigPure, bigSideEffect int) {
	if log.level < LevelVerbose || log.writer == nil {
		return
	}
	data := pterm.TableData{
		{"", "pure", "side-effect"},
		{"small", fmt.Sprint(smallPure), fmt.Sprint(smallSideEffect)},
		{"big", fmt.Sprint(bigPure), fmt.Sprint(bigSideEffect)},
	}
	pterm.DefaultTable.WithWriter(log.writer).WithHasHeader().WithData(data).WithBoxed().Render() //nolint:errcheck
	pterm.Debug.WithWriter(log.writer).Println(label)
}

// PrettyBytes formats a byte count the way humans read one.
func PrettyBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%db", n)
	} else if n < 1024*1024 {
		return fmt.Sprintf("%.1fkb", float64(n)/1024)
	} else if n < 1024*1024*1024 {
		return fmt.Sprintf("%.1fmb", float64(n)/(1024*1024))
	}
	return fmt.Sprintf("%.1fgb", float64(n)/(1024*1024*1024))
}

// Timing prints the lines produced by helpers.Timer.Lines.
func (log Log) Timing(lines []string) {
	if log.level < LevelVerbose || log.writer == nil {
		return
	}
	for _, line := range lines {
		pterm.Debug.WithWriter(log.writer).Println(line)
	}
}
