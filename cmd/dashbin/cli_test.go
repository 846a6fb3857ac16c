package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ag758/dashbin"
)

func runApp(t *testing.T, store *dashbin.Store, args ...string) (string, error) {
	t.Helper()
	app := newApp(store)
	var out bytes.Buffer
	app.Writer = &out
	err := app.Run(append([]string{"dashbin"}, args...))
	return out.String(), err
}

func TestAddAndList(t *testing.T) {
	store := dashbin.NewStore()
	_, err := runApp(t, store, "add", "git", "status")
	require.NoError(t, err)
	_, err = runApp(t, store, "add", "ls", "-la")
	require.NoError(t, err)

	out, err := runApp(t, store, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ls -la")
	assert.Contains(t, out, "git status")
}

func TestListWithQueryRanks(t *testing.T) {
	store := dashbin.NewStore()
	store.Add("set top")
	store.Add("status out")

	out, err := runApp(t, store, "list", "st")
	require.NoError(t, err)
	first := bytes.Index([]byte(out), []byte("status out"))
	second := bytes.Index([]byte(out), []byte("set top"))
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second, "prefix match ranks above scattered match")
}

func TestSuggestCommand(t *testing.T) {
	store := dashbin.NewStore()
	store.Add("git checkout main")

	out, err := runApp(t, store, "suggest", "git", "ch")
	require.NoError(t, err)
	assert.Equal(t, "git checkout main\n", out)

	_, err = runApp(t, store, "suggest", "zz")
	assert.Error(t, err)
}

func TestPinAndRm(t *testing.T) {
	store := dashbin.NewStore()
	store.Add("make build")

	_, err := runApp(t, store, "pin", "make build")
	require.NoError(t, err)
	assert.True(t, store.List("")[0].Pinned)

	_, err = runApp(t, store, "rm", "make build")
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())

	_, err = runApp(t, store, "rm", "make build")
	assert.Error(t, err, "already gone")
}

func TestEditPropagates(t *testing.T) {
	store := dashbin.NewStore()
	store.Add("make build")
	gid, _ := store.CreateGroup("ci")
	store.AddToGroup(gid, store.List("")[0])

	_, err := runApp(t, store, "edit", "--propagate", "make build", "make", "build", "-j8")
	require.NoError(t, err)
	assert.Equal(t, "make build -j8", store.List("")[0].Text)
	assert.Equal(t, "make build -j8", store.Groups()[0].Records[0].Text)
}

func TestGroupLifecycle(t *testing.T) {
	store := dashbin.NewStore()
	store.Add("kubectl get pods")

	_, err := runApp(t, store, "group", "create", "k8s")
	require.NoError(t, err)
	_, err = runApp(t, store, "group", "add", "k8s", "kubectl get pods")
	require.NoError(t, err)

	out, err := runApp(t, store, "group", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "k8s (1)")
	assert.Contains(t, out, "kubectl get pods")

	_, err = runApp(t, store, "group", "rename", "k8s", "kubernetes")
	require.NoError(t, err)
	_, err = runApp(t, store, "group", "remove", "kubernetes", "kubectl get pods")
	require.NoError(t, err)
	_, err = runApp(t, store, "group", "rm", "kubernetes")
	require.NoError(t, err)
	assert.Empty(t, store.Groups())
}

func TestRecordResolutionByIDPrefix(t *testing.T) {
	store := dashbin.NewStore()
	store.Add("one")
	rec := store.List("")[0]

	_, err := runApp(t, store, "rm", rec.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}
