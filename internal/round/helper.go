package round

import (
	"errors"
	"fmt"
	"sync"

	"github.com/brave-experiments/boomerang/pkg/hash"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/party"
)

// Helper implements Session without Round, and can therefore be embedded in
// the first round of a protocol in order to satisfy the Session interface.
type Helper struct {
	info Info

	// partyIDs is a sorted slice of Info.PartyIDs.
	partyIDs party.IDSlice
	// otherID is the peer's ID.
	otherID party.ID

	// ssid is the unique identifier for this protocol execution.
	ssid []byte

	hash *hash.Hash

	mtx sync.Mutex
}

// NewSession creates a new *Helper which can be embedded in the first Round,
// so that the full struct implements Session.
//
// sessionID is an optional byte slice provided by the user. When used, it
// should be unique for each execution of the protocol: a counter incremented
// after execution, or a common random string. auxInfo is a variable list of
// objects which should be included in the session's transcript state.
func NewSession(info Info, sessionID []byte, auxInfo ...hash.WriterToWithDomain) (*Helper, error) {
	partyIDs := party.NewIDSlice(info.PartyIDs)
	if !partyIDs.Valid() || len(partyIDs) != 2 {
		return nil, errors.New("session: expected exactly two distinct party IDs")
	}
	if !partyIDs.Contains(info.SelfID) {
		return nil, errors.New("session: selfID not included in partyIDs")
	}
	if info.Group == nil {
		return nil, errors.New("session: group not set")
	}

	h := hash.New()
	if sessionID != nil {
		if err := h.WriteAny(&hash.BytesWithDomain{
			TheDomain: "Session ID",
			Bytes:     sessionID,
		}); err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
	}
	if err := h.WriteAny(&hash.BytesWithDomain{
		TheDomain: "Protocol ID",
		Bytes:     []byte(info.ProtocolID),
	}); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if err := h.WriteAny(&hash.BytesWithDomain{
		TheDomain: "Group Name",
		Bytes:     []byte(info.Group.Name()),
	}); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if err := h.WriteAny(partyIDs); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	for _, a := range auxInfo {
		if a == nil {
			continue
		}
		if err := h.WriteAny(a); err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
	}

	return &Helper{
		info:     info,
		partyIDs: partyIDs,
		otherID:  partyIDs.Remove(info.SelfID)[0],
		ssid:     h.Clone().Sum(),
		hash:     h,
	}, nil
}

// UpdateHashState writes additional data to the transcript state.
func (h *Helper) UpdateHashState(value hash.WriterToWithDomain) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	_ = h.hash.WriteAny(value)
}

// SendMessage sends content to the peer. out is expected to be a buffered
// channel with enough capacity to store the message.
func (h *Helper) SendMessage(out chan<- *Message, content Content) error {
	msg := &Message{
		From:    h.info.SelfID,
		To:      h.otherID,
		Content: content,
	}
	select {
	case out <- msg:
		return nil
	default:
		return ErrOutChanFull
	}
}

// Hash returns a copy of the transcript state of this protocol execution.
func (h *Helper) Hash() *hash.Hash {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.hash.Clone()
}

// ResultRound returns a round that contains only the result of the protocol.
// This indicates to the caller that the protocol is finished.
func (h *Helper) ResultRound(result interface{}) Session {
	return &Output{Helper: h, Result: result}
}

// AbortRound returns a round that wraps the error that ended a faulty
// execution of the protocol. The error returned by Round.Finalize in this
// case should still be nil.
func (h *Helper) AbortRound(err error, culprits ...party.ID) Session {
	return &Abort{Helper: h, Culprits: culprits, Err: err}
}

// ProtocolID is an identifier for this protocol.
func (h *Helper) ProtocolID() string { return h.info.ProtocolID }

// FinalRoundNumber is the number of rounds before the output round.
func (h *Helper) FinalRoundNumber() Number { return h.info.FinalRoundNumber }

// SSID is the unique identifier for this protocol execution.
func (h *Helper) SSID() []byte { return h.ssid }

// SelfID is this party's ID.
func (h *Helper) SelfID() party.ID { return h.info.SelfID }

// PartyIDs is a sorted slice of participating parties in this protocol.
func (h *Helper) PartyIDs() party.IDSlice { return h.partyIDs }

// OtherID returns the ID of the peer.
func (h *Helper) OtherID() party.ID { return h.otherID }

// Group returns the curve used for this protocol.
func (h *Helper) Group() curve.Curve { return h.info.Group }
