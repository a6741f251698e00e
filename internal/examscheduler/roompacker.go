package examscheduler

import (
	"sort"

	"github.com/rabiauynk/exam-orchestrator-planner/internal/examdomain"
	"github.com/rabiauynk/exam-orchestrator-planner/internal/examtime"
)

// maxRoomsPerAssignment bounds the room packer: the room-set is announced
// to students, so it is kept small and the search cost stays constant per
// candidate slot (spec §4.5).
const maxRoomsPerAssignment = 3

// packResult is the outcome of one room-packing attempt.
type packResult struct {
	ok         bool
	primary    examdomain.Room
	additional []examdomain.Room
	reason     string
}

// eligibleRooms resolves a request's allowed_room_names through the
// supplied mapping, then drops inactive rooms, rooms lacking a computer
// when required, and rooms already occupied on date across [start, end).
func eligibleRooms(req examdomain.ExamRequest, byName map[string]examdomain.Room, ledger *examdomain.DayLedger, date examtime.Date, start, end examtime.Clock) []examdomain.Room {
	var rooms []examdomain.Room
	for _, name := range req.AllowedRoomNames {
		room, ok := byName[name]
		if !ok || !room.Active {
			continue
		}
		if req.NeedsComputer && !room.HasComputer {
			continue
		}
		if ledger.RoomOccupied(date, room.ID, start, end) {
			continue
		}
		rooms = append(rooms, room)
	}
	return rooms
}

// packRooms chooses up to maxRoomsPerAssignment rooms from candidates
// whose combined capacity covers studentCount, per spec §4.5's
// single-room-first then combination search.
func packRooms(candidates []examdomain.Room, studentCount int) packResult {
	if len(candidates) == 0 {
		return packResult{ok: false, reason: ReasonNoEligibleRooms}
	}

	sorted := make([]examdomain.Room, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Capacity > sorted[j].Capacity
	})

	for _, room := range sorted {
		if room.Capacity >= studentCount {
			return packResult{ok: true, primary: room}
		}
	}

	if combo, ok := bestCombination(sorted, studentCount, 2); ok {
		return finalizeCombo(combo)
	}
	if combo, ok := bestCombination(sorted, studentCount, 3); ok {
		return finalizeCombo(combo)
	}
	return packResult{ok: false, reason: ReasonInsufficientCapacity}
}

// bestCombination searches combinations of exactly size rooms, in
// descending-capacity lexicographic order, returning the first whose
// summed capacity meets studentCount.
func bestCombination(rooms []examdomain.Room, studentCount, size int) ([]examdomain.Room, bool) {
	if len(rooms) < size {
		return nil, false
	}
	indices := make([]int, size)
	for i := range indices {
		indices[i] = i
	}
	for {
		sum := 0
		for _, idx := range indices {
			sum += rooms[idx].Capacity
		}
		if sum >= studentCount {
			combo := make([]examdomain.Room, size)
			for i, idx := range indices {
				combo[i] = rooms[idx]
			}
			return combo, true
		}
		if !advance(indices, len(rooms)) {
			return nil, false
		}
	}
}

// advance steps indices to the next lexicographic combination of the
// given size drawn from n items, returning false once combinations are
// exhausted.
func advance(indices []int, n int) bool {
	size := len(indices)
	i := size - 1
	for i >= 0 && indices[i] == n-size+i {
		i--
	}
	if i < 0 {
		return false
	}
	indices[i]++
	for j := i + 1; j < size; j++ {
		indices[j] = indices[j-1] + 1
	}
	return true
}

// finalizeCombo picks the highest-capacity member as primary and keeps
// the rest in insertion (descending-capacity) order, per spec §4.5 step 5.
func finalizeCombo(combo []examdomain.Room) packResult {
	primary := combo[0]
	additional := make([]examdomain.Room, 0, len(combo)-1)
	for _, r := range combo[1:] {
		additional = append(additional, r)
	}
	return packResult{ok: true, primary: primary, additional: additional}
}
