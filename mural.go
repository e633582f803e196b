/*
Package mural is a library for maintaining murals, named and positioned
indexed-color images drawn over a collaborative pixel canvas.

Images are imported by quantizing them to the canvas palette, optionally
with error diffusion dithering, and stored together with the overlay and
selection state in a local database.
*/
package mural

import (
	"log"

	"github.com/bodgit/mural/grid"
	"github.com/bodgit/mural/palette"
	"github.com/bodgit/mural/quantize"
)

// ChunkSize is the width and height of a canvas chunk.
const ChunkSize = 512

// Mural is a rectangular grid of palette indices whose top-left cell is
// at X, Y in canvas coordinates.
type Mural struct {
	Name   string    `json:"name"`
	Pixels grid.Grid `json:"pixels"`
	X      int       `json:"x"`
	Y      int       `json:"y"`
}

// Width returns the width of the mural in pixels.
func (m *Mural) Width() int {
	return m.Pixels.Width()
}

// Height returns the height of the mural in pixels.
func (m *Mural) Height() int {
	return m.Pixels.Height()
}

func floorChunk(v int) int {
	if v < 0 {
		return -((-v + ChunkSize - 1) / ChunkSize) * ChunkSize
	}
	return v / ChunkSize * ChunkSize
}

// Chunk returns the origin of the canvas chunk containing x, y.
func Chunk(x, y int) (int, int) {
	return floorChunk(x), floorChunk(y)
}

// Manager ties together the mural store, the palette and the quantizer.
type Manager struct {
	db        *DB
	store     *Store
	quantizer *quantize.Quantizer
	logger    *log.Logger
}

// New opens the database in file and loads the stored murals, which must
// all be valid for p.
func New(file string, p *palette.Palette, logger *log.Logger) (*Manager, error) {
	q, err := quantize.New(p, nil)
	if err != nil {
		return nil, err
	}

	db, err := NewDB(file)
	if err != nil {
		return nil, err
	}

	store := NewStore(db, p)
	if err := store.Load(); err != nil {
		db.Close()
		return nil, err
	}
	logger.Printf("Loaded %d murals from \"%s\"\n", len(store.Murals()), file)

	return &Manager{
		db:        db,
		store:     store,
		quantizer: q,
		logger:    logger,
	}, nil
}

// Store returns the mural store.
func (m *Manager) Store() *Store {
	return m.store
}

// Palette returns the palette murals are stored against.
func (m *Manager) Palette() *palette.Palette {
	return m.quantizer.Palette()
}

// Move repositions m and optionally renames it. m is left unchanged if the
// result does not validate.
func (m *Manager) Move(mural *Mural, name string, x, y int) error {
	moved := *mural
	moved.X, moved.Y = x, y
	if name != "" {
		moved.Name = name
	}
	return m.store.Update(mural, moved)
}

// Close saves the store and closes the database.
func (m *Manager) Close() error {
	if err := m.store.Save(); err != nil {
		m.db.Close()
		return err
	}
	return m.db.Close()
}
