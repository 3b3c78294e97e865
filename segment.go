package rectpack

import (
	"math"
	"slices"
	"sort"
)

// segmentPoint is the candidate point attached to an interior segment: the
// corner at which a rectangle's bottom-left may anchor. Left points sit
// against a rising step with the open side to the right; right points sit
// against a falling step with the open side to the left.
type segmentPoint struct {
	x, y      int
	isLeft    bool
	wBase     int
	wMax      int
	hLeftIdx  int
	hRightIdx int
}

// segmentEntry is one node of the skyline's segment list: S[k] = (x, y)
// means the horizontal run from S[k].x to S[k+1].x sits at altitude
// S[k].y. point is only meaningful for entries other than the left
// sentinel (the right sentinel included), and only after
// findCandidatePoints has run for the current step.
type segmentEntry struct {
	x, y  int
	point segmentPoint
}

// placementCandidate is a (segment index, rectangle, rotation) triple
// under consideration for the next placement.
type placementCandidate struct {
	segIdx  int
	rect    *Rectangle
	rotated bool
}

func (c placementCandidate) dims() (w, h int) {
	return c.rect.Dims(c.rotated)
}

// heuristicRun holds all ephemeral state for one Heuristic.Run invocation:
// the segment list, the not-yet-placed rectangles, the precomputed minima,
// the lowest current altitude, and the running waste counter. It is
// discarded at the end of the run.
type heuristicRun struct {
	segs      []segmentEntry
	unplaced  []*Rectangle
	w, h      int
	maxSpread int

	wMin, wSec int
	hMin, hSec int
	lowestY    int
	wasted     int
	onlyFits   []placementCandidate
}

func newHeuristicRun(width, height, maxSpread int) *heuristicRun {
	return &heuristicRun{
		w: width, h: height, maxSpread: maxSpread,
		segs: []segmentEntry{
			{x: -1, y: height},
			{x: 0, y: 0},
			{x: width, y: height},
		},
	}
}

// findMinValues scans the unplaced set for w_min/w_sec (== h_min/h_sec,
// since rotation is free) and the lowest current skyline altitude.
func (run *heuristicRun) findMinValues() {
	lowestY := run.segs[0].y
	for _, s := range run.segs {
		if s.y < lowestY {
			lowestY = s.y
		}
	}
	run.lowestY = lowestY

	if len(run.unplaced) == 1 {
		m := run.unplaced[0].MinSide()
		run.wMin, run.wSec, run.hMin, run.hSec = m, m, m, m
		return
	}

	wMin, wSec := math.MaxInt, math.MaxInt
	for _, r := range run.unplaced {
		m := r.MinSide()
		if m < wSec {
			if m < wMin {
				wSec = wMin
				wMin = m
			} else {
				wSec = m
			}
		}
	}
	run.wMin, run.wSec = wMin, wSec
	run.hMin, run.hSec = wMin, wSec
}

// findCandidatePoints recomputes the candidate point for every interior
// segment (including the right sentinel, which anchors a right point
// against the bin's right edge).
func (run *heuristicRun) findCandidatePoints() {
	for i := 1; i < len(run.segs); i++ {
		if run.segs[i].y < run.segs[i-1].y {
			run.segs[i].point = segmentPoint{x: run.segs[i].x, y: run.segs[i].y, isLeft: true}
			run.segs[i].point.wBase = run.segs[i+1].x - run.segs[i].x
		} else {
			run.segs[i].point = segmentPoint{x: run.segs[i].x, y: run.segs[i-1].y, isLeft: false}
			run.segs[i].point.wBase = run.segs[i].x - run.segs[i-1].x
		}
		run.segs[i].point.hLeftIdx = run.findHLeft(i)
		run.segs[i].point.hRightIdx = run.findHRight(i)
		run.segs[i].point.wMax = run.findWMax(i)
	}
}

func (run *heuristicRun) findHLeft(i int) int {
	idx := i - 1
	if !run.segs[i].point.isLeft {
		idx = i - 2
	}
	for run.segs[idx].y < run.segs[i].point.y {
		idx--
	}
	return idx
}

func (run *heuristicRun) findHRight(i int) int {
	idx := i + 1
	if !run.segs[i].point.isLeft {
		idx = i
	}
	for run.segs[idx].y < run.segs[i].point.y {
		idx++
	}
	return idx
}

func (run *heuristicRun) findWMax(i int) int {
	if run.segs[i].point.isLeft {
		p := i + 1
		for run.segs[p].y <= run.segs[i].y {
			p++
		}
		return run.segs[p].x - run.segs[i].x
	}
	p := i - 2
	for run.segs[p].y <= run.segs[i-1].y {
		p--
	}
	return run.segs[i].x - run.segs[p+1].x
}

// findValidPlacements enumerates every (point, rectangle, rotation) triple
// that fits, and records every point with exactly one accepted triple into
// run.onlyFits as it goes.
func (run *heuristicRun) findValidPlacements() []placementCandidate {
	var valid []placementCandidate
	for i := 1; i < len(run.segs); i++ {
		pt := run.segs[i].point
		count := 0
		var last placementCandidate
		for _, r := range run.unplaced {
			if r.Width <= pt.wMax && pt.y+r.Height-run.lowestY <= run.maxSpread && pt.y+r.Height <= run.h {
				c := placementCandidate{segIdx: i, rect: r, rotated: false}
				valid = append(valid, c)
				last = c
				count++
			}
			if r.Height <= pt.wMax && pt.y+r.Width-run.lowestY <= run.maxSpread && pt.y+r.Width <= run.h {
				c := placementCandidate{segIdx: i, rect: r, rotated: true}
				valid = append(valid, c)
				last = c
				count++
			}
		}
		if count == 1 {
			run.onlyFits = append(run.onlyFits, last)
		}
	}
	return valid
}

// findTopWaste computes the dead space between a candidate placement's
// top edge and the bin roof, when that gap is too shallow to ever hold
// the smallest remaining rectangle.
func (run *heuristicRun) findTopWaste(c placementCandidate) int {
	rw, rh := c.dims()
	pt := run.segs[c.segIdx].point
	top := pt.y + rh
	minH := run.hMin
	if rh == run.hMin {
		minH = run.hSec
	}
	slack := run.h - top
	if slack < minH {
		return rw * slack
	}
	return 0
}

// findSideWastes computes dead space pockets to the left and right of a
// candidate placement that are too narrow to hold the smallest remaining
// rectangle.
func (run *heuristicRun) findSideWastes(c placementCandidate) int {
	rw, rh := c.dims()
	minW := run.wMin
	if rw == run.wMin {
		minW = run.wSec
	}
	pt := run.segs[c.segIdx].point

	var leftSide, rightSide int
	if pt.isLeft {
		leftSide = pt.x
		rightSide = pt.x + rw
	} else {
		leftSide = pt.x - rw
		rightSide = pt.x
	}
	top := pt.y + rh
	waste := 0

	leftIdx := pt.hLeftIdx
	gap := leftSide - run.segs[leftIdx+1].x
	p := leftIdx
	for run.segs[p].y < top {
		gap += run.segs[p+1].x - run.segs[p].x
		p--
	}
	if gap > 0 && gap < minW {
		for run.segs[p+1].x < leftSide {
			areaWidth := min(run.segs[p+2].x, leftSide) - run.segs[p+1].x
			areaHeight := top - run.segs[p+1].y
			waste += areaWidth * areaHeight
			p++
		}
	}

	rightIdx := pt.hRightIdx
	gap = run.segs[rightIdx].x - rightSide
	p = rightIdx
	for run.segs[p].y < top {
		gap += run.segs[p+1].x - run.segs[p].x
		p++
	}
	if gap > 0 && gap < minW {
		for run.segs[p].x > rightSide {
			areaWidth := run.segs[p].x - max(run.segs[p-1].x, rightSide)
			areaHeight := top - run.segs[p-1].y
			waste += areaWidth * areaHeight
			p--
		}
	}
	return waste
}

// findBottomWaste computes dead space left under a placement that
// overhangs the segment it anchors to.
func (run *heuristicRun) findBottomWaste(c placementCandidate) int {
	rw, _ := c.dims()
	i := c.segIdx
	pt := run.segs[i].point
	if pt.wBase >= rw {
		return 0
	}
	waste := 0
	if pt.isLeft {
		rightSide := run.segs[i].x + rw
		p := i + 1
		segCount := len(run.segs)
		for p < segCount-1 && run.segs[p+1].x <= rightSide {
			waste += (run.segs[p+1].x - run.segs[p].x) * (run.segs[i].y - run.segs[p].y)
			p++
		}
		waste += (rightSide - run.segs[p].x) * (run.segs[i].y - run.segs[p].y)
	} else {
		leftSide := run.segs[i].x - rw
		p := i
		for run.segs[p-1].x >= leftSide {
			waste += (run.segs[p].x - run.segs[p-1].x) * (run.segs[i].y - run.segs[p].y)
			p--
		}
		waste += (run.segs[p].x - leftSide) * (run.segs[i].y - run.segs[p].y)
	}
	return waste
}

func (run *heuristicRun) findWaste(c placementCandidate) int {
	return run.findTopWaste(c) + run.findSideWastes(c) + run.findBottomWaste(c)
}

// findFitness scores a candidate from 0 to 4, rewarding exact-fit sides
// and roof contact.
func (run *heuristicRun) findFitness(c placementCandidate) int {
	fitness := 0
	i := c.segIdx
	rw, rh := c.dims()
	pt := run.segs[i].point
	if pt.isLeft {
		if run.segs[i-1].y-run.segs[i].y == rh {
			fitness++
		}
		if pt.wBase == rw {
			fitness++
			if run.segs[i+1].y-run.segs[i].y == rh {
				fitness++
			}
		}
	} else {
		if run.segs[i].y-run.segs[i-1].y == rh {
			fitness++
		}
		if pt.wBase == rw {
			fitness++
			if run.segs[i-2].y-run.segs[i-1].y == rh {
				fitness++
			}
		}
	}
	if pt.y+rh == run.h {
		fitness++
	}
	return fitness
}

// filterMinWaste retains the candidates with minimum waste, and folds
// that minimum into the running wasted-area counter.
func (run *heuristicRun) filterMinWaste(candidates []placementCandidate) []placementCandidate {
	minWaste := math.MaxInt
	out := candidates[:0:0]
	for _, c := range candidates {
		w := run.findWaste(c)
		if w < minWaste {
			out = append(out[:0], c)
			minWaste = w
		} else if w == minWaste {
			out = append(out, c)
		}
	}
	run.wasted += minWaste
	return out
}

// filterMaxFitness retains the candidates with maximum fitness.
func (run *heuristicRun) filterMaxFitness(candidates []placementCandidate) []placementCandidate {
	maxFit := -1
	out := candidates[:0:0]
	for _, c := range candidates {
		f := run.findFitness(c)
		if f > maxFit {
			out = append(out[:0], c)
			maxFit = f
		} else if f == maxFit {
			out = append(out, c)
		}
	}
	return out
}

// tiebreak picks the candidate whose rectangle comes earliest in the
// input sequence, then the lowest point altitude, then the lowest point
// x coordinate.
func (run *heuristicRun) tiebreak(candidates []placementCandidate) placementCandidate {
	minIdx := candidates[0].rect.index
	for _, c := range candidates {
		if c.rect.index < minIdx {
			minIdx = c.rect.index
		}
	}
	byIndex := candidates[:0:0]
	for _, c := range candidates {
		if c.rect.index == minIdx {
			byIndex = append(byIndex, c)
		}
	}
	if len(byIndex) == 1 {
		return byIndex[0]
	}

	minY := run.segs[byIndex[0].segIdx].point.y
	for _, c := range byIndex {
		if y := run.segs[c.segIdx].point.y; y < minY {
			minY = y
		}
	}
	byY := byIndex[:0:0]
	for _, c := range byIndex {
		if run.segs[c.segIdx].point.y == minY {
			byY = append(byY, c)
		}
	}
	if len(byY) == 1 {
		return byY[0]
	}

	minX := run.segs[byY[0].segIdx].point.x
	for _, c := range byY {
		if x := run.segs[c.segIdx].point.x; x < minX {
			minX = x
		}
	}
	for _, c := range byY {
		if run.segs[c.segIdx].point.x == minX {
			return c
		}
	}
	return byY[0]
}

// place applies the chosen placement: records the rectangle's bottom-left
// coordinate, splices the segment list, and removes the rectangle from
// the unplaced set.
func (run *heuristicRun) place(c placementCandidate) {
	i := c.segIdx
	rw, rh := c.dims()
	pt := run.segs[i].point

	if pt.isLeft {
		c.rect.setPlacement(run.segs[i].x, run.segs[i].y, c.rotated)
		newSeg := segmentEntry{x: run.segs[i].x, y: run.segs[i].y + rh}
		rightSide := run.segs[i].x + rw
		p := i
		for p < len(run.segs)-1 && run.segs[p+1].x <= rightSide {
			run.segs = slices.Delete(run.segs, p, p+1)
		}
		run.segs[p].x = rightSide
		run.segs = slices.Insert(run.segs, i, newSeg)
	} else {
		leftSide := run.segs[i].x - rw
		c.rect.setPlacement(leftSide, run.segs[i-1].y, c.rotated)
		newSeg := segmentEntry{x: leftSide, y: run.segs[i-1].y + rh}
		p := i
		for run.segs[p-1].x >= leftSide {
			run.segs = slices.Delete(run.segs, p-1, p)
			p--
		}
		run.segs = slices.Insert(run.segs, p, newSeg)
	}

	run.mergeSegments(rw)
	run.removeUnplaced(c.rect)
}

func (run *heuristicRun) removeUnplaced(r *Rectangle) {
	for idx, rr := range run.unplaced {
		if rr == r {
			run.unplaced = slices.Delete(run.unplaced, idx, idx+1)
			return
		}
	}
}

// mergeSegments repeatedly removes narrow valleys and equal-height
// adjacent segments produced by the last placement, until a full pass
// removes nothing.
func (run *heuristicRun) mergeSegments(curWidth int) {
	minWidth := run.wMin
	if curWidth == run.wMin {
		minWidth = run.wSec
	}

	toRemove := make(map[int]bool)
	for i := 1; i < len(run.segs)-1; i++ {
		run.checkSegmentNarrow(i, minWidth, toRemove)
		run.checkSegmentSameHeight(i, toRemove)
	}
	if len(toRemove) == 0 {
		return
	}

	idxs := make([]int, 0, len(toRemove))
	for i := range toRemove {
		idxs = append(idxs, i)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(idxs)))
	for _, i := range idxs {
		run.segs = slices.Delete(run.segs, i, i+1)
	}
	run.mergeSegments(curWidth)
}

func (run *heuristicRun) checkSegmentNarrow(i, minWidth int, toRemove map[int]bool) {
	if run.segs[i].y < run.segs[i-1].y && run.segs[i].y < run.segs[i+1].y {
		segLen := run.segs[i+1].x - run.segs[i].x
		if segLen < minWidth {
			switch {
			case run.segs[i-1].y == run.segs[i+1].y:
				toRemove[i] = true
				toRemove[i+1] = true
			case run.segs[i-1].y < run.segs[i+1].y:
				toRemove[i] = true
			default:
				run.segs[i].y = run.segs[i+1].y
				toRemove[i+1] = true
			}
		}
	}
}

func (run *heuristicRun) checkSegmentSameHeight(i int, toRemove map[int]bool) {
	if i == 1 && run.segs[i-1].y == run.segs[i].y {
		toRemove[i] = true
	}
	if run.segs[i].y == run.segs[i+1].y {
		toRemove[i+1] = true
	}
}

// validateInvariants is used by property tests to assert the segment
// list invariants hold: strictly increasing x, both sentinels pinned at
// H, and no two adjacent interior entries sharing an altitude.
func (run *heuristicRun) validateInvariants() error {
	n := len(run.segs)
	if n < 3 {
		return errSegmentInvariant("fewer than 3 segments")
	}
	if run.segs[0].y != run.h || run.segs[n-1].y != run.h {
		return errSegmentInvariant("sentinel altitude mismatch")
	}
	for i := 0; i < n-1; i++ {
		if run.segs[i].x >= run.segs[i+1].x {
			return errSegmentInvariant("x coordinates not strictly increasing")
		}
	}
	for i := 1; i < n-1; i++ {
		if run.segs[i].y == run.segs[i+1].y {
			return errSegmentInvariant("adjacent equal-height segments survived merge")
		}
	}
	return nil
}

// vim: ts=4
