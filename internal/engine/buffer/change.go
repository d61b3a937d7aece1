package buffer

// TextChange describes a buffer mutation that has already been applied.
type TextChange struct {
	// Start is the byte offset of the mutation.
	Start int

	// InsertedLineCount is the number of delimiters in the inserted text.
	InsertedLineCount int

	// DeletedLineCount is the number of delimiters in the deleted text.
	DeletedLineCount int

	// InsertedCharCount is the byte length of the inserted text.
	InsertedCharCount int

	// DeletedCharCount is the byte length of the deleted text.
	DeletedCharCount int
}

// Delta returns the net change in buffer length.
func (c TextChange) Delta() int {
	return c.InsertedCharCount - c.DeletedCharCount
}

// ChangeListener receives buffer mutation notifications. Delivery is
// synchronous, on the mutating goroutine, after the mutation is applied;
// listeners may query the buffer but must not mutate it reentrantly.
type ChangeListener interface {
	// TextChanged reports an incremental mutation.
	TextChanged(change TextChange)

	// TextSet reports a wholesale content replacement.
	TextSet()
}
