package domain

// Partition selects which order set an operation addresses.
type Partition string

const (
	// PartitionCurrent is the live, mutable set belonging to the active
	// collection window.
	PartitionCurrent Partition = "current"
	// PartitionArchived is the frozen snapshot of the previous window,
	// retained for read/delete-only access by owners.
	PartitionArchived Partition = "archived"
)

// Valid reports whether p names a known partition.
func (p Partition) Valid() bool {
	return p == PartitionCurrent || p == PartitionArchived
}

// Order is one owner/product line. Orders reference users and products by id
// only, so renames and reprices show up in every view immediately. Quantity is
// always >= 1; a line whose quantity would drop to zero is removed instead.
type Order struct {
	UserID    int64
	ProductID int64
	Quantity  int
	Done      bool
}
