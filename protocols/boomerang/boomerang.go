// Package boomerang exposes the three protocols of the incentive system.
//
// A user first runs Issue to obtain a token with a zero balance. Collect
// adds value to the token and Spend removes it against a reward, both
// retiring the old token through its double-spend tag. Every session leaves
// the user with a freshly signed token that the server cannot link to the
// session that created the previous one.
package boomerang

import (
	"io"

	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/party"
	"github.com/brave-experiments/boomerang/pkg/protocol"
	"github.com/brave-experiments/boomerang/protocols/boomerang/collection"
	"github.com/brave-experiments/boomerang/protocols/boomerang/issuance"
	"github.com/brave-experiments/boomerang/protocols/boomerang/spend"
	"github.com/brave-experiments/boomerang/protocols/boomerang/wallet"
)

type (
	Client = wallet.Client
	Server = wallet.Server
	Record = wallet.Record
	Token  = wallet.Token
)

// NewClient creates a wallet with a fresh user key.
func NewClient(rand io.Reader, group curve.Curve) *Client {
	return wallet.NewClient(rand, group)
}

// NewServer creates a server with a fresh signing key and the given reward
// policy. The policy length must be a power of two.
func NewServer(rand io.Reader, group curve.Curve, policy []curve.Scalar) (*Server, error) {
	return wallet.NewServer(rand, group, policy)
}

// EmptyClient creates a Client ready to be unmarshalled.
func EmptyClient(group curve.Curve) *Client {
	return wallet.EmptyClient(group)
}

// EmptyServer creates a Server ready to be unmarshalled.
func EmptyServer(group curve.Curve) *Server {
	return wallet.EmptyServer(group)
}

// Issue initiates token issuance from the user's side. The user leads, and
// on success holds a signed token with a zero balance. The result is the
// new *Record.
func Issue(client *Client, selfID, otherID party.ID) protocol.StartFunc {
	return issuance.StartUser(client, selfID, otherID)
}

// IssueServer initiates token issuance from the server's side. The result
// is an *issuance.Summary.
func IssueServer(server *Server, selfID, otherID party.ID) protocol.StartFunc {
	return issuance.StartServer(server, selfID, otherID)
}

// Collect initiates a collection from the user's side, spending the active
// token for one carrying the increased balance. The server leads. The
// result is the new *Record.
func Collect(client *Client, selfID, otherID party.ID) protocol.StartFunc {
	return collection.StartUser(client, selfID, otherID)
}

// CollectServer initiates a collection from the server's side, adding value
// to the user's token. The result is a *collection.Summary.
func CollectServer(server *Server, value uint64, selfID, otherID party.ID) protocol.StartFunc {
	return collection.StartServer(server, value, selfID, otherID)
}

// Spend initiates a spend from the user's side, disclosing the spend vector
// and walking away with a token carrying the reduced balance. The server
// leads. The result is the new *Record.
func Spend(client *Client, spendVec []uint64, selfID, otherID party.ID) protocol.StartFunc {
	return spend.StartUser(client, spendVec, selfID, otherID)
}

// SpendServer initiates a spend from the server's side, granting the reward
// determined by its policy. The result is a *spend.Summary.
func SpendServer(server *Server, selfID, otherID party.ID) protocol.StartFunc {
	return spend.StartServer(server, selfID, otherID)
}
