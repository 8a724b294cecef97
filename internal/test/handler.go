package test

import (
	"github.com/brave-experiments/boomerang/pkg/party"
	"github.com/brave-experiments/boomerang/pkg/protocol"
)

// HandlerLoop blocks until the handler has finished. The result of the
// execution is passed through the handler.
func HandlerLoop(id party.ID, h protocol.Handler, network *Network) {
	for {
		select {
		case msg, ok := <-h.Listen():
			if !ok {
				// The channel was closed, indicating that the protocol
				// is done executing.
				<-network.Done(id)
				return
			}
			go network.Send(msg)
		case msg := <-network.Next(id):
			h.Accept(msg)
		}
	}
}
