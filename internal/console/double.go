package console

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/steveyegge/iris/internal/script"
)

// Double is a FAKE with SPY capabilities for the Host interface.
//
//   - FAKE: an in-memory process table; Spawn adds a shim and a console
//     whose title is the requested one.
//   - SPY: every Host call is appended to a call log (Calls).
//
// Failures are injected with the Set* methods.
type Double struct {
	mu      sync.Mutex
	dialect script.Dialect
	nextPID int
	procs   map[int]*FakeProcess
	calls   []Call
	spawned []SpawnRequest

	spawnErr    error
	findErr     error
	aliveErr    error
	hideSpawned bool
	hiddenFinds int
	spawnHook   func(SpawnRequest)
}

// FakeProcess is one entry in the Double's process table.
type FakeProcess struct {
	PID         int
	PPID        int
	Title       string
	CommandLine string
	Alive       bool
	// Shim marks the launcher process Spawn returns a handle to.
	Shim bool
}

// Call is one recorded Host invocation.
type Call struct {
	Op     string
	Filter TitleFilter
	PID    int
	Arg    string
}

func (c Call) String() string {
	switch c.Op {
	case "find", "kill-title":
		return c.Op + " " + c.Filter.String()
	case "terminate", "terminate-tree", "alive", "handle-kill":
		return fmt.Sprintf("%s %d", c.Op, c.PID)
	}
	return strings.TrimSpace(c.Op + " " + c.Arg)
}

// NewDouble creates an empty in-memory host that renders batch scripts.
func NewDouble() *Double {
	return &Double{
		dialect: script.Batch,
		nextPID: 1000,
		procs:   make(map[int]*FakeProcess),
	}
}

// Ensure Double implements Host
var _ Host = (*Double)(nil)

// --- Host ---

func (d *Double) Dialect() script.Dialect { return d.dialect }

// Spawn records req, then adds a shim and a console running the script.
func (d *Double) Spawn(_ context.Context, req SpawnRequest) (Handle, error) {
	d.mu.Lock()
	hook := d.spawnHook
	d.mu.Unlock()
	if hook != nil {
		hook(req)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{Op: "spawn", Arg: req.ScriptPath})
	if d.spawnErr != nil {
		return nil, d.spawnErr
	}
	d.spawned = append(d.spawned, req)

	shim := d.addLocked(0, "", "cmd /C start "+req.ScriptPath)
	shim.Shim = true
	title := req.Title
	if d.hideSpawned {
		title = ""
	}
	d.addLocked(shim.PID, title, "cmd /c "+req.ScriptPath)
	return &fakeHandle{d: d, pid: shim.PID}, nil
}

func (d *Double) FindByTitle(_ context.Context, f TitleFilter) ([]int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{Op: "find", Filter: f})
	if d.findErr != nil {
		return nil, d.findErr
	}
	if d.hiddenFinds > 0 {
		d.hiddenFinds--
		return nil, nil
	}
	return d.matchLocked(f), nil
}

func (d *Double) KillByTitle(_ context.Context, f TitleFilter) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{Op: "kill-title", Filter: f})
	for _, pid := range d.matchLocked(f) {
		d.procs[pid].Alive = false
	}
	return nil
}

func (d *Double) Terminate(_ context.Context, pid int, tree bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	op := "terminate"
	if tree {
		op = "terminate-tree"
	}
	d.calls = append(d.calls, Call{Op: op, PID: pid})
	p, ok := d.procs[pid]
	if !ok {
		return fmt.Errorf("no such process: %d", pid)
	}
	p.Alive = false
	if tree {
		d.killChildrenLocked(pid)
	}
	return nil
}

func (d *Double) KillByCommandLine(_ context.Context, substr string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{Op: "kill-cmdline", Arg: substr})
	for _, p := range d.procs {
		if p.Alive && strings.Contains(p.CommandLine, substr) {
			p.Alive = false
		}
	}
	return nil
}

func (d *Double) Alive(_ context.Context, pid int) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{Op: "alive", PID: pid})
	if d.aliveErr != nil {
		return false, d.aliveErr
	}
	p, ok := d.procs[pid]
	return ok && p.Alive, nil
}

// --- Test setup ---

// AddProcess adds a live process and returns its PID.
func (d *Double) AddProcess(ppid int, title, cmdline string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addLocked(ppid, title, cmdline).PID
}

// Exit marks pid as no longer running, as if the user closed it.
func (d *Double) Exit(pid int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.procs[pid]; ok {
		p.Alive = false
	}
}

// SetSpawnError makes every Spawn fail with err.
func (d *Double) SetSpawnError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.spawnErr = err
}

// SetFindError makes every FindByTitle fail with err.
func (d *Double) SetFindError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.findErr = err
}

// SetAliveError makes every Alive probe fail with err.
func (d *Double) SetAliveError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.aliveErr = err
}

// SetUntitledSpawns makes spawned consoles carry no title, so they can
// never be discovered.
func (d *Double) SetUntitledSpawns(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hideSpawned = v
}

// HideFromNextFinds makes the next n FindByTitle calls return nothing,
// simulating a console whose window is not up yet.
func (d *Double) HideFromNextFinds(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hiddenFinds = n
}

// SetSpawnHook installs fn to run at the start of every Spawn, outside
// the Double's lock. Tests use it to block a launch mid-flight.
func (d *Double) SetSpawnHook(fn func(SpawnRequest)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.spawnHook = fn
}

// --- Inspection ---

// Process returns a copy of the process table entry for pid.
func (d *Double) Process(pid int) (FakeProcess, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.procs[pid]
	if !ok {
		return FakeProcess{}, false
	}
	return *p, true
}

// Live returns the live non-shim processes matching f, in PID order.
func (d *Double) Live(f TitleFilter) []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.matchLocked(f)
}

// Calls returns a copy of the call log.
func (d *Double) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Call(nil), d.calls...)
}

// CallsOf returns the logged calls with the given op.
func (d *Double) CallsOf(op string) []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Call
	for _, c := range d.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls clears the call log.
func (d *Double) ResetCalls() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
}

// Spawned returns every successful spawn request in order.
func (d *Double) Spawned() []SpawnRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]SpawnRequest(nil), d.spawned...)
}

// --- internals ---

func (d *Double) addLocked(ppid int, title, cmdline string) *FakeProcess {
	d.nextPID++
	p := &FakeProcess{PID: d.nextPID, PPID: ppid, Title: title, CommandLine: cmdline, Alive: true}
	d.procs[p.PID] = p
	return p
}

func (d *Double) matchLocked(f TitleFilter) []int {
	var pids []int
	for _, p := range d.procs {
		if p.Alive && !p.Shim && p.Title != "" && f.Matches(p.Title) {
			pids = append(pids, p.PID)
		}
	}
	sort.Ints(pids)
	return pids
}

func (d *Double) killChildrenLocked(pid int) {
	for _, p := range d.procs {
		if p.PPID == pid {
			p.Alive = false
			d.killChildrenLocked(p.PID)
		}
	}
}

type fakeHandle struct {
	d   *Double
	pid int
}

func (h *fakeHandle) Kill() error {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	h.d.calls = append(h.d.calls, Call{Op: "handle-kill", PID: h.pid})
	if p, ok := h.d.procs[h.pid]; ok {
		p.Alive = false
	}
	return nil
}
