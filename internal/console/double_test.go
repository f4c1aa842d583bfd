package console

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDouble_SpawnCreatesDiscoverableConsole(t *testing.T) {
	d := NewDouble()
	ctx := context.Background()

	h, err := d.Spawn(ctx, SpawnRequest{ScriptPath: `C:\tmp\iris_a.bat`, Title: "[IRIS] API"})
	require.NoError(t, err)
	require.NotNil(t, h)

	pids, err := d.FindByTitle(ctx, TitleEquals("[IRIS] API"))
	require.NoError(t, err)
	require.Len(t, pids, 1)

	p, ok := d.Process(pids[0])
	require.True(t, ok)
	assert.Contains(t, p.CommandLine, "iris_a.bat")
	assert.False(t, p.Shim)

	alive, err := d.Alive(ctx, pids[0])
	require.NoError(t, err)
	assert.True(t, alive)
}

func TestDouble_TerminateTreeKillsDescendants(t *testing.T) {
	d := NewDouble()
	ctx := context.Background()

	root := d.AddProcess(0, "[IRIS] API", "cmd /c x.bat")
	child := d.AddProcess(root, "", "npm run dev")
	grandchild := d.AddProcess(child, "", "node vite")
	other := d.AddProcess(0, "", "node other")

	require.NoError(t, d.Terminate(ctx, root, true))

	for _, pid := range []int{root, child, grandchild} {
		alive, _ := d.Alive(ctx, pid)
		assert.False(t, alive, "pid %d should be dead", pid)
	}
	alive, _ := d.Alive(ctx, other)
	assert.True(t, alive)
}

func TestDouble_KillByTitleAndCommandLine(t *testing.T) {
	d := NewDouble()
	ctx := context.Background()

	a := d.AddProcess(0, "[IRIS] A", "cmd /c iris_a.bat")
	b := d.AddProcess(0, "npm run dev", "cmd /c npm run dev")
	c := d.AddProcess(0, "other", "cmd /c iris_c.bat")

	require.NoError(t, d.KillByTitle(ctx, TitlePrefix("npm")))
	require.NoError(t, d.KillByCommandLine(ctx, "iris_c.bat"))

	assert.Equal(t, []int{a}, d.Live(TitleLike("*")))
	for _, pid := range []int{b, c} {
		p, _ := d.Process(pid)
		assert.False(t, p.Alive, "pid %d should be dead", pid)
	}

	var ops []string
	for _, call := range d.Calls() {
		ops = append(ops, call.String())
	}
	assert.Equal(t, []string{"kill-title prefix npm", "kill-cmdline iris_c.bat"}, ops)
}

func TestDouble_InjectedFailures(t *testing.T) {
	d := NewDouble()
	ctx := context.Background()
	boom := errors.New("boom")

	d.SetSpawnError(boom)
	_, err := d.Spawn(ctx, SpawnRequest{ScriptPath: "x.bat", Title: "t"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, d.Spawned())

	d.SetFindError(boom)
	_, err = d.FindByTitle(ctx, TitleEquals("t"))
	assert.ErrorIs(t, err, boom)

	d.SetAliveError(boom)
	_, err = d.Alive(ctx, 1)
	assert.ErrorIs(t, err, boom)
}

func TestDouble_HiddenAndUntitledSpawns(t *testing.T) {
	d := NewDouble()
	ctx := context.Background()

	_, err := d.Spawn(ctx, SpawnRequest{ScriptPath: "a.bat", Title: "[IRIS] A"})
	require.NoError(t, err)

	d.HideFromNextFinds(2)
	for i := 0; i < 2; i++ {
		pids, _ := d.FindByTitle(ctx, TitleEquals("[IRIS] A"))
		assert.Empty(t, pids, "find %d", i)
	}
	pids, _ := d.FindByTitle(ctx, TitleEquals("[IRIS] A"))
	assert.Len(t, pids, 1)

	d.SetUntitledSpawns(true)
	_, err = d.Spawn(ctx, SpawnRequest{ScriptPath: "b.bat", Title: "[IRIS] B"})
	require.NoError(t, err)
	pids, _ = d.FindByTitle(ctx, TitleLike("*B*"))
	assert.Empty(t, pids)
}

func TestDouble_HandleKillsShimOnly(t *testing.T) {
	d := NewDouble()
	ctx := context.Background()

	h, err := d.Spawn(ctx, SpawnRequest{ScriptPath: "a.bat", Title: "[IRIS] A"})
	require.NoError(t, err)
	require.NoError(t, h.Kill())

	assert.Len(t, d.Live(TitleEquals("[IRIS] A")), 1)
	assert.Len(t, d.CallsOf("handle-kill"), 1)
}
