package store

// Record is a raw persisted task record: an opaque identifier and the
// text blob stored under it.
type Record struct {
	ID   string
	Text string
}

// Backend is the persistence capability the store is built on. Records
// are opaque text blobs addressed by identifier; the codec and the
// transition logic never depend on which implementation is active.
type Backend interface {
	// Create allocates a new record holding text and returns its
	// identifier. The dir backend draws identifiers from the generator;
	// the jj backend lets jj assign a change id.
	Create(text string) (string, error)

	// Load returns the text stored under id.
	Load(id string) (string, error)

	// Save overwrites the record at id. Idempotent.
	Save(id, text string) error

	// Delete removes the record permanently.
	Delete(id string) error

	// List returns every live record in unspecified order.
	List() ([]Record, error)

	// AppendArchive appends a block to the append-only archive log.
	AppendArchive(text string) error
}
