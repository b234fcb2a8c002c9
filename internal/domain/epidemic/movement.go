package epidemic

import (
	"math/rand"

	"epigrid/internal/domain/world"
)

// Anchor returns the fixed destination of a goal on a width x height grid.
func Anchor(goal Goal, width, height int) (world.Point, bool) {
	switch goal {
	case GoalSchool:
		return world.Point{X: 0, Y: 0}, true
	case GoalShopping:
		return world.Point{X: width - 1, Y: height - 1}, true
	case GoalHospital:
		return world.Point{X: width / 2, Y: height / 2}, true
	case GoalRandom:
		return world.Point{}, false
	default:
		return world.Point{}, false
	}
}

// moveCandidates lists the free cells an agent at from may step onto.
func moveCandidates(space Space, from world.Point, goal Goal) []world.Point {
	w, h := space.Dimensions()
	anchor, ok := Anchor(goal, w, h)
	if !ok {
		return freeNeighbors(space, from)
	}
	return freeStepsToward(space, from, anchor)
}

func freeNeighbors(space Space, from world.Point) []world.Point {
	all := space.Neighbors(from)
	out := make([]world.Point, 0, len(all))
	for _, p := range all {
		if _, taken := space.OccupantAt(p); !taken {
			out = append(out, p)
		}
	}
	return out
}

// freeStepsToward keeps steps where no axis moves away from the anchor and at
// least one axis gets strictly closer.
func freeStepsToward(space Space, from, anchor world.Point) []world.Point {
	sx, sy := sign(anchor.X-from.X), sign(anchor.Y-from.Y)
	if sx == 0 && sy == 0 {
		return nil
	}
	out := make([]world.Point, 0, 3)
	for _, dy := range axisSteps(sy) {
		for _, dx := range axisSteps(sx) {
			if dx == 0 && dy == 0 {
				continue
			}
			p := world.Point{X: from.X + dx, Y: from.Y + dy}
			if _, taken := space.OccupantAt(p); taken {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// chooseDestination picks one candidate, or from when there is none.
func chooseDestination(space Space, rng *rand.Rand, from world.Point, candidates []world.Point, distancing bool) world.Point {
	if len(candidates) == 0 {
		return from
	}
	pool := candidates
	if distancing {
		pool = leastCrowded(space, candidates)
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[0]
}

func leastCrowded(space Space, candidates []world.Point) []world.Point {
	best := -1
	out := make([]world.Point, 0, len(candidates))
	for _, p := range candidates {
		n := space.OccupiedAround(p)
		switch {
		case best < 0 || n < best:
			best = n
			out = append(out[:0], p)
		case n == best:
			out = append(out, p)
		}
	}
	return out
}

func axisSteps(s int) []int {
	if s == 0 {
		return []int{0}
	}
	return []int{0, s}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
