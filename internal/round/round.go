package round

// Round is a single state of a protocol execution.
type Round interface {
	// VerifyMessage handles an incoming Message and validates its content
	// with regard to the protocol specification. The content argument can
	// be cast to the appropriate type for this round without error check.
	// In the first round, this function returns nil.
	// This function should not modify any saved state as it may be called
	// concurrently.
	VerifyMessage(msg Message) error

	// StoreMessage is called after VerifyMessage and should only store the
	// appropriate fields from the content.
	StoreMessage(msg Message) error

	// Finalize is called after the message for the current round has been
	// processed. The message for the next round is sent out through the out
	// channel. When the protocol terminates, an Output or Abort session is
	// returned.
	Finalize(out chan<- *Message) (Session, error)

	// MessageContent returns an uninitialized message.Content for this
	// round.
	//
	// The first round of a protocol, and rounds expecting no message,
	// should return nil.
	MessageContent() Content

	// Number of the current round.
	Number() Number
}
