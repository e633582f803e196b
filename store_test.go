package mural

import (
	"errors"
	"io/ioutil"
	"log"
	"path/filepath"
	"testing"

	"github.com/bodgit/mural/grid"
	"github.com/bodgit/mural/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPalette(t *testing.T) *palette.Palette {
	t.Helper()
	p, err := palette.ParseHex("#000000", "#ffffff", "#ff0000", "#00ff00", "#0000ff")
	require.NoError(t, err)
	return p
}

func testManager(t *testing.T, file string) *Manager {
	t.Helper()
	m, err := New(file, testPalette(t), log.New(ioutil.Discard, "", 0))
	require.NoError(t, err)
	return m
}

func testMural(name string, x, y int) *Mural {
	return &Mural{
		Name:   name,
		X:      x,
		Y:      y,
		Pixels: [][]int{{0, 1, -1}, {2, -1, 4}},
	}
}

func TestStoreAdd(t *testing.T) {
	s := NewStore(testDB(t), testPalette(t))

	m := testMural("castle", 10, 20)
	require.NoError(t, s.Add(m))
	assert.Equal(t, []*Mural{m}, s.Murals())
	assert.Equal(t, 4, s.PixelCount(m))

	bad := testMural("tower", 0, 0)
	bad.Pixels[0][0] = 5
	assert.True(t, errors.Is(s.Add(bad), grid.ErrUnknownColor))

	bad = testMural("t", 0, 0)
	var ve *ValidationError
	assert.True(t, errors.As(s.Add(bad), &ve))

	assert.Len(t, s.Murals(), 1)
}

func TestStoreFind(t *testing.T) {
	s := NewStore(testDB(t), testPalette(t))

	first, second := testMural("castle", 0, 0), testMural("castle", 5, 5)
	require.NoError(t, s.Add(first))
	require.NoError(t, s.Add(second))

	m, ok := s.Find("castle")
	assert.True(t, ok)
	assert.Same(t, first, m)

	_, ok = s.Find("tower")
	assert.False(t, ok)
}

func TestStoreSelectAndOverlays(t *testing.T) {
	s := NewStore(testDB(t), testPalette(t))

	a, b, c := testMural("aa", 0, 0), testMural("bb", 1, 1), testMural("cc", 2, 2)
	for _, m := range []*Mural{a, b, c} {
		require.NoError(t, s.Add(m))
	}

	assert.Nil(t, s.Selected())
	require.NoError(t, s.Select(c))
	assert.Same(t, c, s.Selected())

	require.NoError(t, s.AddOverlay(c))
	require.NoError(t, s.AddOverlay(a))
	require.NoError(t, s.AddOverlay(c))
	assert.Equal(t, []*Mural{c, a}, s.Overlays())
	assert.True(t, s.HasOverlay(a))
	assert.False(t, s.HasOverlay(b))

	require.NoError(t, s.Remove(a))
	assert.Equal(t, []*Mural{b, c}, s.Murals())
	assert.Same(t, c, s.Selected())
	assert.Equal(t, []*Mural{c}, s.Overlays())
	assert.False(t, s.HasOverlay(a))

	require.NoError(t, s.RemoveOverlay(c))
	assert.Empty(t, s.Overlays())

	require.NoError(t, s.Remove(c))
	assert.Nil(t, s.Selected())

	require.NoError(t, s.Select(b))
	require.NoError(t, s.Select(nil))
	assert.Nil(t, s.Selected())

	assert.Equal(t, errUnknownMural, s.Select(a))
	assert.Equal(t, errUnknownMural, s.Remove(a))
	assert.Equal(t, errUnknownMural, s.AddOverlay(a))
}

func TestStoreUpdate(t *testing.T) {
	s := NewStore(testDB(t), testPalette(t))

	m := testMural("castle", 0, 0)
	require.NoError(t, s.Add(m))

	next := *testMural("castle", 4, 4)
	next.Pixels[0][2] = 3
	require.NoError(t, s.Update(m, next))
	assert.Equal(t, 5, s.PixelCount(m))
	assert.Equal(t, 4, m.X)

	assert.Equal(t, errUnknownMural, s.Update(testMural("tower", 0, 0), next))
}

func TestStoreUpdateInvalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.db")

	mgr := testManager(t, file)
	m := testMural("castle", 0, 0)
	require.NoError(t, mgr.Store().Add(m))

	ragged := *testMural("castle", 0, 0)
	ragged.Pixels[1] = ragged.Pixels[1][:2]
	var ve *ValidationError
	require.True(t, errors.As(mgr.Store().Update(m, ragged), &ve))
	assert.Equal(t, "pixels[1] incorrect size", ve.Reason)
	assert.Equal(t, testMural("castle", 0, 0), m)
	assert.Equal(t, 4, mgr.Store().PixelCount(m))
	require.NoError(t, mgr.Close())

	mgr = testManager(t, file)
	defer mgr.Close()
	assert.Equal(t, []*Mural{testMural("castle", 0, 0)}, mgr.Store().Murals())
}

func TestStoreSaveInvalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.db")

	mgr := testManager(t, file)
	m := testMural("castle", 0, 0)
	require.NoError(t, mgr.Store().Add(m))

	m.Pixels[1] = m.Pixels[1][:1]
	assert.Error(t, mgr.Store().Save())
	assert.Error(t, mgr.Close())

	mgr = testManager(t, file)
	defer mgr.Close()
	assert.Equal(t, []*Mural{testMural("castle", 0, 0)}, mgr.Store().Murals())
}

func TestStorePersists(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.db")

	m := testManager(t, file)
	a, b := testMural("castle", -10, 20), testMural("tower", 600, -3)
	require.NoError(t, m.Store().Add(a))
	require.NoError(t, m.Store().Add(b))
	require.NoError(t, m.Store().Select(b))
	require.NoError(t, m.Store().AddOverlay(a))
	require.NoError(t, m.Close())

	m = testManager(t, file)
	defer m.Close()

	s := m.Store()
	assert.Equal(t, []*Mural{a, b}, s.Murals())
	require.NotNil(t, s.Selected())
	assert.Equal(t, "tower", s.Selected().Name)
	require.Len(t, s.Overlays(), 1)
	assert.Equal(t, "castle", s.Overlays()[0].Name)
	assert.Equal(t, 4, s.PixelCount(s.Murals()[0]))
}

func TestStoreLoadInvalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDB(file)
	require.NoError(t, err)
	require.NoError(t, db.Set(keyMurals, []interface{}{
		map[string]interface{}{"name": "castle", "x": 0, "y": 0, "pixels": [][]int{{0, 1}, {1, 0}}},
		map[string]interface{}{"name": "tower", "x": 0.5, "y": 0, "pixels": [][]int{{0, 1}, {1, 0}}},
	}))
	require.NoError(t, db.Close())

	_, err = New(file, testPalette(t), log.New(ioutil.Discard, "", 0))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "x is not an integer", ve.Reason)
}

func TestStoreLoadOverlays(t *testing.T) {
	db := testDB(t)

	s := NewStore(db, testPalette(t))
	a, b := testMural("castle", 0, 0), testMural("tower", 1, 1)
	require.NoError(t, s.Add(a))
	require.NoError(t, s.Add(b))
	require.NoError(t, db.Set(keyOverlays, []int{1, 0, 1, 0, 7, -1}))
	require.NoError(t, db.Set(keySelected, 9))

	s = NewStore(db, testPalette(t))
	require.NoError(t, s.Load())
	assert.Equal(t, []*Mural{b, a}, s.Overlays())
	assert.Nil(t, s.Selected())
}
