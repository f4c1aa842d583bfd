package script

import (
	"strings"
	"testing"
)

// lines splits generated script text, tolerating CRLF.
func lines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func count(ls []string, want string) int {
	n := 0
	for _, l := range ls {
		if l == want {
			n++
		}
	}
	return n
}

func TestLooksLikeInput(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1.0", true},
		{"42", true},
		{"1.2.3", true},
		{"y", true},
		{"Y", true},
		{"s", true},
		{"N", true},
		{"yes", false},
		{"v1.0", false},
		{"npm run dev", false},
		{"1.0-beta", false},
	}
	for _, tt := range tests {
		if got := LooksLikeInput(tt.in); got != tt.want {
			t.Errorf("LooksLikeInput(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBuild_BatchPackageManagers(t *testing.T) {
	out := Build(Batch, Input{
		ID:         "app1",
		Name:       "Web",
		WorkingDir: `C:\proj`,
		Commands:   []string{"npm install", "npm run dev"},
	})
	ls := lines(out)

	want := []string{
		"@echo off",
		"title [IRIS] Web",
		`cd /d "C:\proj"`,
		"call npm install",
		"title [IRIS] Web",
		"call npm run dev",
		"title [IRIS] Web",
		"title [IRIS] Web",
		"cmd /k",
	}
	if len(ls) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(ls), len(want), out)
	}
	for i := range want {
		if ls[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, ls[i], want[i])
		}
	}
	if strings.Contains(out, "iris_input_") {
		t.Error("interactive input block should not fire for npm commands")
	}
}

func TestBuild_BatchInteractiveInput(t *testing.T) {
	out := Build(Batch, Input{
		ID:       "app2",
		Name:     "Setup",
		Commands: []string{"setup.bat", "1.0"},
	})
	ls := lines(out)

	path := `"%TEMP%\iris_input_app2.txt"`
	for _, l := range []string{
		">" + path + " echo 1.0",
		"call setup.bat < " + path,
		"del " + path + " 2>nul",
	} {
		if count(ls, l) != 1 {
			t.Errorf("expected exactly one %q line in:\n%s", l, out)
		}
	}
	if count(ls, "1.0") != 0 || count(ls, "call 1.0") != 0 {
		t.Errorf("lookahead input emitted as its own command:\n%s", out)
	}
	if strings.Contains(out, "cd /d") {
		t.Error("no directory change expected for empty working dir")
	}
	if ls[len(ls)-1] != "cmd /k" {
		t.Errorf("last line = %q, want cmd /k", ls[len(ls)-1])
	}
}

func TestBuild_BatchInputDigitIsNotAHandleRedirect(t *testing.T) {
	out := Build(Batch, Input{
		ID:       "app4",
		Name:     "Menu",
		Commands: []string{"menu.cmd", "1"},
	})
	ls := lines(out)
	if count(ls, `>"%TEMP%\iris_input_app4.txt" echo 1`) != 1 {
		t.Errorf("expected the answer written with a leading redirect:\n%s", out)
	}
	if strings.Contains(out, "echo 1>") {
		t.Errorf("\"echo 1>\" redirects stdout instead of writing 1:\n%s", out)
	}
}

func TestBuild_InteractiveRequiresScriptCommand(t *testing.T) {
	out := Build(Batch, Input{
		ID:       "app3",
		Name:     "Plain",
		Commands: []string{"python manage.py", "y"},
	})
	if strings.Contains(out, "iris_input_") {
		t.Errorf("non-script command must not consume the next one:\n%s", out)
	}
	ls := lines(out)
	if count(ls, "python manage.py") != 1 || count(ls, "y") != 1 {
		t.Errorf("both commands should be emitted verbatim:\n%s", out)
	}
}

func TestBuild_IndirectIsCaseInsensitive(t *testing.T) {
	out := Build(Batch, Input{
		ID:       "x",
		Name:     "Mixed",
		Commands: []string{"NPM start", "Build.CMD", "cargo run", "go run ."},
	})
	ls := lines(out)
	for _, l := range []string{"call NPM start", "call Build.CMD", "call cargo run", "go run ."} {
		if count(ls, l) != 1 {
			t.Errorf("missing %q in:\n%s", l, out)
		}
	}
}

func TestBuild_TitleRestoreCount(t *testing.T) {
	cmds := []string{"echo one", "yarn dev", "dotnet watch", "make", "npx vite"}
	for _, d := range []Dialect{Batch, Shell} {
		t.Run(d.Name(), func(t *testing.T) {
			out := Build(d, Input{ID: "p", Name: "Prop", Commands: cmds})
			ls := lines(out)

			// One title set in the header, one restore per command and one
			// trailing restore.
			restore := d.SetTitle(Title("Prop"))
			if got, want := count(ls, restore), len(cmds)+2; got != want {
				t.Errorf("title lines = %d, want %d", got, want)
			}

			// Every command appears exactly once, in order.
			last := -1
			for _, c := range cmds {
				idx := -1
				for i, l := range ls {
					if l == c || l == d.Indirect(c) {
						if idx >= 0 {
							t.Errorf("command %q emitted twice", c)
						}
						idx = i
					}
				}
				if idx < 0 {
					t.Fatalf("command %q missing:\n%s", c, out)
				}
				if idx <= last {
					t.Errorf("command %q out of order", c)
				}
				last = idx
			}
		})
	}
}

func TestBuild_Shell(t *testing.T) {
	out := Build(Shell, Input{
		ID:         "s1",
		Name:       "It's live",
		WorkingDir: "/srv/app",
		Commands:   []string{"./install.sh", "y", "npm start"},
	})
	ls := lines(out)

	if ls[0] != "#!/bin/sh" {
		t.Errorf("first line = %q, want shebang", ls[0])
	}
	for _, l := range []string{
		"cd -- '/srv/app'",
		`printf '%s\n' 'y' > "${TMPDIR:-/tmp}/iris_input_s1.txt"`,
		`command ./install.sh < "${TMPDIR:-/tmp}/iris_input_s1.txt"`,
		`rm -f "${TMPDIR:-/tmp}/iris_input_s1.txt" 2>/dev/null`,
		"command npm start",
		`printf '\033]0;%s\007' '[IRIS] It'\''s live'`,
		`if [ -t 0 ]; then "${SHELL:-/bin/sh}" -i; else while :; do sleep 3600; done; fi`,
	} {
		if count(ls, l) == 0 {
			t.Errorf("missing %q in:\n%s", l, out)
		}
	}
}

func TestFileNames(t *testing.T) {
	if got := FileName(Batch, "abc"); got != "iris_abc.bat" {
		t.Errorf("FileName(Batch) = %q", got)
	}
	if got := FileName(Shell, "abc"); got != "iris_abc.sh" {
		t.Errorf("FileName(Shell) = %q", got)
	}
	if got := InputFileName("abc"); got != "iris_input_abc.txt" {
		t.Errorf("InputFileName() = %q", got)
	}
}

func TestDialectByName(t *testing.T) {
	for name, want := range map[string]Dialect{"batch": Batch, "CMD": Batch, "shell": Shell, "posix": Shell} {
		got, err := DialectByName(name)
		if err != nil {
			t.Errorf("DialectByName(%q) error = %v", name, err)
			continue
		}
		if got.Name() != want.Name() {
			t.Errorf("DialectByName(%q) = %s, want %s", name, got.Name(), want.Name())
		}
	}
	if _, err := DialectByName("fish"); err == nil {
		t.Error("DialectByName(fish) should fail")
	}
}
