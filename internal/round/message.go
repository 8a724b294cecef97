package round

import (
	"errors"

	"github.com/brave-experiments/boomerang/pkg/party"
)

var (
	// ErrInvalidContent is returned when the content of a message could not
	// be cast to the type expected by the current round.
	ErrInvalidContent = errors.New("round: invalid message content")
	// ErrNilFields is returned when the content of a message contains
	// uninitialized fields.
	ErrNilFields = errors.New("round: message contains nil fields")
	// ErrOutChanFull is returned when the out channel cannot accept another
	// message.
	ErrOutChanFull = errors.New("round: out channel is full")
)

// Content represents the data sent by a round during finalization.
type Content interface {
	RoundNumber() Number
}

// Message is a Content together with routing information.
type Message struct {
	From, To party.ID
	Content  Content
}
