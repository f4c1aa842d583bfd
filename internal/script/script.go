// Package script turns an application's command list into the shell script
// that runs inside its console.
//
// The output is plain text and is never validated: commands are trusted user
// input and are concatenated as-is. The console title is set to a tagged
// value ("[IRIS] <name>") and restored after every command, because the title
// is how a detached console is found again later.
package script

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Tag marks every console title iris owns.
const Tag = "[IRIS]"

// Title returns the tagged console title for an application name.
func Title(name string) string {
	return Tag + " " + name
}

// indirectPrefixes are package-manager and runtime launchers that, on
// Windows at least, are themselves scripts and would end the batch file if
// invoked without the dialect's indirect keyword.
var indirectPrefixes = []string{
	"npm ",
	"yarn ",
	"pnpm ",
	"npx ",
	"dotnet ",
	"cargo ",
}

// inputTokens are single-letter confirm/deny answers (English and Portuguese).
var inputTokens = []string{"s", "n", "y"}

// Input is everything Build needs from an application record.
type Input struct {
	ID         string
	Name       string
	WorkingDir string
	Commands   []string
}

// FileName returns the script file name for an application ID.
// It is deterministic so that a relaunch overwrites the previous script and
// so that processes running it can be found by command line.
func FileName(d Dialect, id string) string {
	return "iris_" + id + d.FileExt()
}

// InputFileName returns the name of the per-application file used to feed
// an answer to an interactive script.
func InputFileName(id string) string {
	return "iris_input_" + id + ".txt"
}

// LooksLikeInput reports whether s reads like an answer typed into a prompt
// rather than a command: a bare version string or a single confirm letter.
func LooksLikeInput(s string) bool {
	for _, tok := range inputTokens {
		if strings.EqualFold(s, tok) {
			return true
		}
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return false
		}
	}
	return true
}

// Build synthesizes the script text for in using dialect d.
// Callers must reject records without commands before calling.
func Build(d Dialect, in Input) string {
	fold := cases.Fold()
	title := Title(in.Name)

	var b strings.Builder
	emit := func(lines ...string) {
		for _, l := range lines {
			b.WriteString(l)
			b.WriteString(d.Newline())
		}
	}

	emit(d.Header(title)...)
	if in.WorkingDir != "" {
		emit(d.ChangeDir(in.WorkingDir))
	}

	cmds := in.Commands
	for i := 0; i < len(cmds); {
		cmd := cmds[i]
		folded := fold.String(cmd)

		if i+1 < len(cmds) && isScript(d, folded) && LooksLikeInput(cmds[i+1]) {
			emit(d.FeedInput(cmd, cmds[i+1], InputFileName(in.ID))...)
			emit(d.SetTitle(title))
			i += 2
			continue
		}

		if needsIndirect(d, folded) {
			emit(d.Indirect(cmd))
		} else {
			emit(cmd)
		}
		emit(d.SetTitle(title))
		i++
	}

	emit(d.SetTitle(title))
	emit(d.KeepOpen())
	return b.String()
}

func isScript(d Dialect, folded string) bool {
	for _, ext := range d.ScriptExtensions() {
		if strings.HasSuffix(folded, ext) {
			return true
		}
	}
	return false
}

func needsIndirect(d Dialect, folded string) bool {
	for _, p := range indirectPrefixes {
		if strings.HasPrefix(folded, p) {
			return true
		}
	}
	return isScript(d, folded)
}
