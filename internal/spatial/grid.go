// Package spatial provides a uniform grid index over animal positions.
// Neighbor queries inspect only the cells a radius can touch, replacing the
// O(n) scan over every animal with work proportional to local density.
//
// The grid is a derived index: it stores ids and the position each id was
// last indexed at, never the animal records themselves. Whoever mutates the
// entity store must keep it consistent (Insert on birth, Remove on death,
// Relocate on move).
package spatial

import (
	"math"

	"github.com/kamstrup/intmap"
)

// Grid partitions the map into square cells of a fixed size.
// Cell buckets are ordered slices, not sets: queries must return ids in a
// reproducible order so that equal seeds replay identical runs.
type Grid struct {
	cellSize float64
	cols     int
	rows     int

	cells   *intmap.Map[uint64, []string]
	entries map[string]entry
}

// entry records where an id is indexed.
type entry struct {
	x, y float64
	key  uint64
}

// New creates a grid covering a width×height map. Cell size trades query
// precision against cell count; one cell should comfortably hold the largest
// common query radius divided by a small integer.
func New(width, height, cellSize float64) *Grid {
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Grid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    intmap.New[uint64, []string](64),
		entries:  make(map[string]entry),
	}
}

// cellKey clamps a position into grid bounds and packs its cell coordinates.
func (g *Grid) cellKey(x, y float64) uint64 {
	col := int(x / g.cellSize)
	row := int(y / g.cellSize)
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return uint64(row)<<32 | uint64(col)
}

// Insert indexes an id at a position. Inserting an id twice is a defect in
// the caller; the entry is simply replaced.
func (g *Grid) Insert(id string, x, y float64) {
	if old, ok := g.entries[id]; ok {
		g.removeFromCell(id, old.key)
	}
	key := g.cellKey(x, y)
	g.addToCell(id, key)
	g.entries[id] = entry{x: x, y: y, key: key}
}

// Remove drops an id from the index. Unknown ids are a no-op.
func (g *Grid) Remove(id string) {
	e, ok := g.entries[id]
	if !ok {
		return
	}
	g.removeFromCell(id, e.key)
	delete(g.entries, id)
}

// Relocate updates an id's indexed position. Staying within the same cell
// only refreshes the stored position.
func (g *Grid) Relocate(id string, x, y float64) {
	e, ok := g.entries[id]
	if !ok {
		g.Insert(id, x, y)
		return
	}
	key := g.cellKey(x, y)
	if key != e.key {
		g.removeFromCell(id, e.key)
		g.addToCell(id, key)
	}
	g.entries[id] = entry{x: x, y: y, key: key}
}

// Contains reports whether an id is indexed.
func (g *Grid) Contains(id string) bool {
	_, ok := g.entries[id]
	return ok
}

// Len returns the number of indexed ids.
func (g *Grid) Len() int { return len(g.entries) }

// QueryRadius returns every indexed id within radius of (x, y), excluding
// the given id. Candidate cells are the ceil(r/cellSize)+1 ring around the
// center cell; true Euclidean distance filters out corner false positives.
func (g *Grid) QueryRadius(x, y, radius float64, exclude string) []string {
	centerCol := int(x / g.cellSize)
	centerRow := int(y / g.cellSize)
	ring := int(math.Ceil(radius/g.cellSize)) + 1
	radiusSq := radius * radius

	var out []string
	for dr := -ring; dr <= ring; dr++ {
		row := centerRow + dr
		if row < 0 || row >= g.rows {
			continue
		}
		for dc := -ring; dc <= ring; dc++ {
			col := centerCol + dc
			if col < 0 || col >= g.cols {
				continue
			}
			bucket, ok := g.cells.Get(uint64(row)<<32 | uint64(col))
			if !ok {
				continue
			}
			for _, id := range bucket {
				if id == exclude {
					continue
				}
				e := g.entries[id]
				dx := e.x - x
				dy := e.y - y
				if dx*dx+dy*dy <= radiusSq {
					out = append(out, id)
				}
			}
		}
	}
	return out
}

// Nearest returns the candidate id closest to (x, y) within maxDist, using
// the indexed positions. The second return is false when none qualifies.
func (g *Grid) Nearest(x, y float64, candidates []string, maxDist float64) (string, bool) {
	bestID := ""
	bestSq := maxDist * maxDist
	found := false
	for _, id := range candidates {
		e, ok := g.entries[id]
		if !ok {
			continue
		}
		dx := e.x - x
		dy := e.y - y
		d := dx*dx + dy*dy
		if d < bestSq {
			bestSq = d
			bestID = id
			found = true
		}
	}
	return bestID, found
}

func (g *Grid) addToCell(id string, key uint64) {
	bucket, _ := g.cells.Get(key)
	g.cells.Put(key, append(bucket, id))
}

func (g *Grid) removeFromCell(id string, key uint64) {
	bucket, ok := g.cells.Get(key)
	if !ok {
		return
	}
	for i, b := range bucket {
		if b == id {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		g.cells.Del(key)
		return
	}
	g.cells.Put(key, bucket)
}
