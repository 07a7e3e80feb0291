package view

// Slot identifies a kind of network-backed action whose responses replace
// each other.
type Slot string

const (
	SlotCatalog  Slot = "catalog"
	SlotOrders   Slot = "orders"
	SlotDetails  Slot = "details"
	SlotLogin    Slot = "login"
	SlotRegister Slot = "register"
)

// Sequence numbers outgoing requests so a response that arrives after a
// newer request for the same slot can be discarded.
type Sequence struct {
	Counter uint64          `json:"counter"`
	Latest  map[Slot]uint64 `json:"latest,omitempty"`
}

// Issue allocates the next number and records it as the latest for slot
func (q *Sequence) Issue(slot Slot) uint64 {
	if q.Latest == nil {
		q.Latest = make(map[Slot]uint64)
	}
	q.Counter++
	q.Latest[slot] = q.Counter
	return q.Counter
}

// IsLatest reports whether n is still the newest request issued for slot
func (q *Sequence) IsLatest(slot Slot, n uint64) bool {
	return n != 0 && q.Latest[slot] == n
}
