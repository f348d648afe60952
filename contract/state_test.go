package contract

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareblock/sdk"
)

// exerciseState runs the same checks against every backend.
func exerciseState(t *testing.T, st BatchState) {
	t.Helper()
	v, err := st.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, st.Set("k", "v"))
	v, err = st.Get("k")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "v", *v)

	// binary values survive untouched
	raw := string([]byte{0x01, 0xff, 0x00, 0xfe})
	next := "w"
	require.NoError(t, st.Apply(map[string]*string{"k": nil, "bin": &raw, "other": &next}))
	v, err = st.Get("k")
	require.NoError(t, err)
	assert.Nil(t, v)
	v, err = st.Get("bin")
	require.NoError(t, err)
	assert.Equal(t, raw, *v)

	require.NoError(t, st.Delete("other"))
	v, err = st.Get("other")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMockState(t *testing.T) {
	exerciseState(t, NewMockState())
}

func TestFileState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	st, err := NewFileState(path)
	require.NoError(t, err)
	exerciseState(t, st)

	reloaded, err := NewFileState(path)
	require.NoError(t, err)
	v, err := reloaded.Get("bin")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, string([]byte{0x01, 0xff, 0x00, 0xfe}), *v)
}

func TestFileStateWriteFailureKeepsMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "state.json")
	st, err := NewFileState(path)
	require.NoError(t, err)

	v := "v"
	assert.Error(t, st.Apply(map[string]*string{"k": &v}))
	got, err := st.Get("k")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = New(st, Config{Owner: "hive:owner", SettlementAsset: sdk.AssetDai, NativeAsset: sdk.AssetEth})
	assert.Error(t, err)
	assert.Zero(t, st.Len())
}

func TestBadgerStateInMemory(t *testing.T) {
	st, err := OpenBadgerState("")
	require.NoError(t, err)
	defer st.Close()
	exerciseState(t, st)
}

func TestBadgerStateOnDisk(t *testing.T) {
	dir := t.TempDir()
	st, err := OpenBadgerState(dir)
	require.NoError(t, err)
	require.NoError(t, st.Set("cfg", "hive:owner|dai|eth"))
	require.NoError(t, st.Close())

	st, err = OpenBadgerState(dir)
	require.NoError(t, err)
	defer st.Close()
	v, err := st.Get("cfg")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "hive:owner|dai|eth", *v)
}
