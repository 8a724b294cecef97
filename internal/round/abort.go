package round

import "github.com/brave-experiments/boomerang/pkg/party"

// Abort is an empty round indicating that the protocol aborted, together
// with the parties who misbehaved, when they could be identified.
type Abort struct {
	*Helper
	Culprits []party.ID
	Err      error
}

func (Abort) VerifyMessage(Message) error                  { return nil }
func (Abort) StoreMessage(Message) error                   { return nil }
func (r *Abort) Finalize(chan<- *Message) (Session, error) { return r, nil }
func (Abort) MessageContent() Content                      { return nil }
func (Abort) Number() Number                               { return 0 }
