// Package wallet holds the durable state of both sides of the incentive
// system: the user's chain of signed tokens, and the server's signing key,
// reward policy, and spent-tag ledger.
package wallet

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/brave-experiments/boomerang/internal/tagstore"
	"github.com/brave-experiments/boomerang/pkg/acl"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
	"github.com/brave-experiments/boomerang/pkg/rewards"
)

// AttributeCount is the number of slots in a token's committed vector.
const AttributeCount = 4

// Slot indices of the committed vector (id, value, key, rand).
const (
	IDSlot = iota
	ValueSlot
	KeySlot
	RandSlot
)

// SigMessage is the message bound into every token signature.
var SigMessage = []byte("boomerang-token")

// ErrNoToken is returned when an operation needs a token but the wallet
// holds none.
var ErrNoToken = errors.New("wallet: no active token")

// Token is the opening of a signed commitment, without the user's key.
type Token struct {
	// ID is the serial number, jointly sampled with the server.
	ID curve.Scalar
	// Value is the accumulated balance.
	Value curve.Scalar
	// Rand fills the token's randomness slot.
	Rand curve.Scalar
	// CommRand is the Pedersen randomness of the signed commitment.
	CommRand curve.Scalar
}

// Attributes assembles the committed vector for the given user key.
func (t Token) Attributes(sk curve.Scalar) []curve.Scalar {
	return []curve.Scalar{t.ID, t.Value, sk, t.Rand}
}

// Record is a token together with the signature that makes it spendable.
type Record struct {
	// Sig is the ACL signature over Comm.
	Sig *acl.Signature
	// Opening opens Sig.Zeta1 back to Comm.
	Opening acl.Opening
	// Comm is the signed commitment.
	Comm curve.Point
	// Token opens Comm.
	Token Token
}

// Client is a user's wallet. Records grow by one per finished session, and
// only the last one is spendable.
type Client struct {
	group curve.Curve
	gens  []curve.Point

	// Keys is the user's long-term key pair.
	Keys *acl.UserKeyPair
	// Records is the chain of signed tokens, oldest first.
	Records []Record
}

// NewClient creates a wallet with a fresh user key.
func NewClient(rand io.Reader, group curve.Curve) *Client {
	return &Client{
		group: group,
		gens:  pedersen.Generators(group, AttributeCount),
		Keys:  acl.NewUserKeyPair(rand, group),
	}
}

func (c *Client) Group() curve.Curve { return c.group }

// Gens returns the commitment generators shared with the server.
func (c *Client) Gens() []curve.Point { return c.gens }

// Active returns the record that the next session spends.
func (c *Client) Active() (*Record, error) {
	if len(c.Records) == 0 {
		return nil, ErrNoToken
	}
	return &c.Records[len(c.Records)-1], nil
}

// Append stores a freshly signed record.
func (c *Client) Append(r *Record) {
	c.Records = append(c.Records, *r)
}

// Balance returns the value of the active token, or zero if there is none.
func (c *Client) Balance() curve.Scalar {
	if len(c.Records) == 0 {
		return c.group.NewScalar()
	}
	return c.group.NewScalar().Set(c.Records[len(c.Records)-1].Token.Value)
}

// Server is the issuer's state, shared by all sessions.
type Server struct {
	group curve.Curve
	gens  []curve.Point

	// Keys is the server's signing key pair.
	Keys *acl.KeyPair
	// Tags is the ledger of spent tags.
	Tags *tagstore.Store
	// Policy is the reward policy vector, kept secret from users.
	Policy []curve.Scalar
	// Rewards are the proof generators sized for Policy.
	Rewards *rewards.Generators

	log *logrus.Entry
}

// NewServer creates a server with a fresh signing key. The policy length
// must be a power of two.
func NewServer(rand io.Reader, group curve.Curve, policy []curve.Scalar) (*Server, error) {
	keys, err := acl.NewKeyPair(rand, group)
	if err != nil {
		return nil, err
	}
	gens, err := rewards.Setup(group, len(policy))
	if err != nil {
		return nil, err
	}
	return &Server{
		group:   group,
		gens:    pedersen.Generators(group, AttributeCount),
		Keys:    keys,
		Tags:    tagstore.New(group),
		Policy:  policy,
		Rewards: gens,
		log:     logrus.WithField("module", "boomerang/server"),
	}, nil
}

func (s *Server) Group() curve.Curve { return s.group }

// Gens returns the commitment generators shared with users.
func (s *Server) Gens() []curve.Point { return s.gens }

// Log returns the server's logger.
func (s *Server) Log() *logrus.Entry { return s.log }
