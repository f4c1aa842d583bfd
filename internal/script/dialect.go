package script

import (
	"fmt"
	"strings"
)

// Dialect renders individual script instructions for one shell.
type Dialect interface {
	// Name identifies the dialect ("batch", "shell").
	Name() string
	// FileExt is the extension of generated script files.
	FileExt() string
	// Newline terminates every emitted line.
	Newline() string
	// ScriptExtensions are lower-case extensions of scripts that must be
	// invoked indirectly.
	ScriptExtensions() []string

	Header(title string) []string
	ChangeDir(dir string) string
	SetTitle(title string) string
	Indirect(cmd string) string
	// FeedInput writes input to the temp file named file, runs cmd with
	// stdin redirected from it and deletes the file.
	FeedInput(cmd, input, file string) []string
	KeepOpen() string
}

// Batch is the Windows cmd.exe dialect.
var Batch Dialect = batch{}

// Shell is the POSIX sh dialect.
var Shell Dialect = shell{}

// DialectByName returns the dialect with the given name.
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "batch", "bat", "cmd":
		return Batch, nil
	case "shell", "sh", "posix":
		return Shell, nil
	}
	return nil, fmt.Errorf("unknown script dialect %q", name)
}

type batch struct{}

func (batch) Name() string               { return "batch" }
func (batch) FileExt() string            { return ".bat" }
func (batch) Newline() string            { return "\r\n" }
func (batch) ScriptExtensions() []string { return []string{".bat", ".cmd"} }

func (batch) Header(title string) []string {
	return []string{"@echo off", "title " + title}
}

func (batch) ChangeDir(dir string) string  { return fmt.Sprintf("cd /d \"%s\"", dir) }
func (batch) SetTitle(title string) string { return "title " + title }
func (batch) Indirect(cmd string) string   { return "call " + cmd }
func (batch) KeepOpen() string             { return "cmd /k" }

// FeedInput puts the redirect first: "echo 1> f" would redirect handle 1
// and write "ECHO is off." instead of the answer.
func (batch) FeedInput(cmd, input, file string) []string {
	path := `"%TEMP%\` + file + `"`
	return []string{
		fmt.Sprintf(">%s echo %s", path, input),
		fmt.Sprintf("call %s < %s", cmd, path),
		fmt.Sprintf("del %s 2>nul", path),
	}
}

type shell struct{}

func (shell) Name() string               { return "shell" }
func (shell) FileExt() string            { return ".sh" }
func (shell) Newline() string            { return "\n" }
func (shell) ScriptExtensions() []string { return []string{".sh", ".command"} }

func (s shell) Header(title string) []string {
	return []string{"#!/bin/sh", "set +vx", s.SetTitle(title)}
}

func (shell) ChangeDir(dir string) string { return "cd -- " + quote(dir) }

// SetTitle writes an OSC 0 sequence; terminals that ignore it are harmless.
func (shell) SetTitle(title string) string {
	return `printf '\033]0;%s\007' ` + quote(title)
}

func (shell) Indirect(cmd string) string { return "command " + cmd }

// KeepOpen runs an interactive shell as a child so the console host keeps
// its argv[0], which is the title on platforms without window titles.
// Without a terminal on stdin an interactive shell would exit at once, so
// a headless console idles until it is stopped instead.
func (shell) KeepOpen() string {
	return `if [ -t 0 ]; then "${SHELL:-/bin/sh}" -i; else while :; do sleep 3600; done; fi`
}

func (shell) FeedInput(cmd, input, file string) []string {
	path := `"${TMPDIR:-/tmp}/` + file + `"`
	return []string{
		fmt.Sprintf("printf '%%s\\n' %s > %s", quote(input), path),
		fmt.Sprintf("command %s < %s", cmd, path),
		fmt.Sprintf("rm -f %s 2>/dev/null", path),
	}
}

// quote wraps s in single quotes for sh.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
