package world

import (
	"sort"

	"github.com/worldweaver/server/internal/core/ecs"
)

// RoomGraph is the static adjacency and region index over rooms. It is built
// once from content at startup and only changes if rooms are added; the LOD
// manager reads it every time the player moves.
type RoomGraph struct {
	adjacency map[ecs.EntityID][]ecs.EntityID
	regions   map[ecs.EntityID]ecs.EntityID // room -> region
}

func NewRoomGraph() *RoomGraph {
	return &RoomGraph{
		adjacency: make(map[ecs.EntityID][]ecs.EntityID),
		regions:   make(map[ecs.EntityID]ecs.EntityID),
	}
}

// Reset empties the graph in place. The LOD manager keeps a pointer to the
// graph, so a reload must reuse this instance rather than allocate a new one.
func (g *RoomGraph) Reset() {
	clear(g.adjacency)
	clear(g.regions)
}

// AddConnection records a bidirectional link between two rooms. Duplicate
// links are ignored.
func (g *RoomGraph) AddConnection(a, b ecs.EntityID) {
	g.addDirected(a, b)
	g.addDirected(b, a)
}

func (g *RoomGraph) addDirected(from, to ecs.EntityID) {
	for _, n := range g.adjacency[from] {
		if n == to {
			return
		}
	}
	g.adjacency[from] = append(g.adjacency[from], to)
}

// SetRegion assigns a room to a region cluster.
func (g *RoomGraph) SetRegion(room, region ecs.EntityID) {
	g.regions[room] = region
}

// Region returns the region of a room, if assigned.
func (g *RoomGraph) Region(room ecs.EntityID) (ecs.EntityID, bool) {
	r, ok := g.regions[room]
	return r, ok
}

// IsAdjacent reports whether two rooms are directly connected.
func (g *RoomGraph) IsAdjacent(a, b ecs.EntityID) bool {
	for _, n := range g.adjacency[a] {
		if n == b {
			return true
		}
	}
	return false
}

// SameRegion reports whether both rooms belong to the same region. Rooms
// without a region assignment are never in the same region as anything.
func (g *RoomGraph) SameRegion(a, b ecs.EntityID) bool {
	ra, okA := g.regions[a]
	rb, okB := g.regions[b]
	return okA && okB && ra == rb
}

// AdjacentRooms returns the neighbors of a room in id order.
func (g *RoomGraph) AdjacentRooms(room ecs.EntityID) []ecs.EntityID {
	out := append([]ecs.EntityID(nil), g.adjacency[room]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// NextHop returns the first step on a shortest path from from to to. BFS
// expands neighbors in id order so the chosen hop is deterministic when
// several shortest paths exist. Returns false when to is unreachable.
func (g *RoomGraph) NextHop(from, to ecs.EntityID) (ecs.EntityID, bool) {
	if from == to {
		return from, true
	}
	parent := map[ecs.EntityID]ecs.EntityID{from: from}
	queue := []ecs.EntityID{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.AdjacentRooms(cur) {
			if _, seen := parent[n]; seen {
				continue
			}
			parent[n] = cur
			if n == to {
				// Walk back to the hop right after from.
				for parent[n] != from {
					n = parent[n]
				}
				return n, true
			}
			queue = append(queue, n)
		}
	}
	return ecs.ZeroEntity, false
}
