//go:build e2e && unix

package main

import (
	"bytes"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartupShowsCatalog(t *testing.T) {
	t.Parallel()
	backend := newPlanningBackend(t)
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(backend.URL))

	require.True(t, tf.SeePlain("harmoniq"), "title")
	require.True(t, tf.SeePlain("Wind farms"), "wind header")
	require.True(t, tf.SeePlain("Mistral Ridge"), "wind item")
	require.True(t, tf.SeePlain("Grand Dam"), "hydro item")

	tf.Type(KeyQuit)
	require.NoError(t, tf.WaitExit(3*time.Second))
}

func TestSelectionIsSaved(t *testing.T) {
	t.Parallel()
	backend := newPlanningBackend(t)
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(backend.URL))
	require.True(t, tf.SeePlain("Mistral Ridge"))

	tf.Type("g")
	require.True(t, tf.SeeAfter("Infrastructure group"), "group picker")
	tf.Type(KeyEnter)
	require.True(t, tf.SeeAfter("Group North"), "group opened")

	tf.Type(KeyDown, KeySpace)
	require.Eventually(t, func() bool {
		wind, puts := backend.state()
		return puts >= 1 && wind == "1,2"
	}, 5*time.Second, 25*time.Millisecond)

	tf.Type(KeyQuit)
	require.NoError(t, tf.WaitExit(3*time.Second))
}

func TestQuitSavesPendingSelection(t *testing.T) {
	t.Parallel()
	backend := newPlanningBackend(t)
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(backend.URL, "--debounce", "1h"))
	require.True(t, tf.SeePlain("Mistral Ridge"))

	tf.Type("g", KeyEnter)
	require.True(t, tf.SeeAfter("Group North"))
	tf.Type(KeyDown, KeySpace)

	time.Sleep(200 * time.Millisecond)
	_, puts := backend.state()
	require.Zero(t, puts, "nothing is saved before the delay")

	tf.Type(KeyQuit)
	require.NoError(t, tf.WaitExit(5*time.Second))

	wind, puts := backend.state()
	assert.Equal(t, 1, puts)
	assert.Equal(t, "1,2", wind)
}

func TestFilterNarrowsList(t *testing.T) {
	t.Parallel()
	backend := newPlanningBackend(t)
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(backend.URL))
	require.True(t, tf.SeePlain("Grand Dam"))

	tf.Type("/", "g", "r", "a", "n", "d")
	require.True(t, tf.SeeAfter("[Filter: grand]"), "filter indicator")
	tf.Type(KeyEnter)

	tf.Type(KeyEsc)
	require.True(t, tf.SeeAfter("Mistral Ridge"), "list restored")

	tf.Type(KeyQuit)
	require.NoError(t, tf.WaitExit(3*time.Second))
}

func TestHelpOpensInPager(t *testing.T) {
	t.Parallel()
	backend := newPlanningBackend(t)
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(backend.URL))
	require.True(t, tf.SeePlain("Wind farms"))

	tf.Type(KeyHelp)
	require.True(t, tf.SeeAfter("harmoniq help"), "help in pager")
	require.True(t, tf.SeePlain("Choose the active group"))

	tf.Type(KeyQuit)
	require.True(t, tf.SeeAfter("Wind farms"), "back in the list")

	tf.Type(KeyQuit)
	require.NoError(t, tf.WaitExit(3*time.Second))
}

func TestCtrlCExits(t *testing.T) {
	t.Parallel()
	backend := newPlanningBackend(t)
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp(backend.URL))
	require.True(t, tf.SeePlain("Wind farms"))

	tf.Type(KeyCtrlC)
	require.NoError(t, tf.WaitExit(3*time.Second))
}

func TestRefusesWithoutTerminal(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	cmd := exec.Command(binPath, "--api", "http://127.0.0.1:1")
	cmd.Dir = t.TempDir()
	cmd.Env = []string{"HOME=" + cmd.Dir}
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	require.Error(t, err)
	assert.Contains(t, out.String(), "interactive terminal")
}
