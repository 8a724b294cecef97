package wallet

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/sirupsen/logrus"

	"github.com/brave-experiments/boomerang/internal/tagstore"
	"github.com/brave-experiments/boomerang/pkg/acl"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/pedersen"
	"github.com/brave-experiments/boomerang/pkg/rewards"
)

// EmptyClient creates an empty Client with a fixed group, ready for
// unmarshalling.
func EmptyClient(group curve.Curve) *Client {
	return &Client{
		group: group,
		gens:  pedersen.Generators(group, AttributeCount),
	}
}

// EmptyServer creates an empty Server with a fixed group, ready for
// unmarshalling.
func EmptyServer(group curve.Curve) *Server {
	return &Server{
		group: group,
		gens:  pedersen.Generators(group, AttributeCount),
		log:   logrus.WithField("module", "boomerang/server"),
	}
}

type recordMarshal struct {
	Zeta, Zeta1                       curve.Point
	Rho, Omega, Rho1, Rho2, Omega1, V curve.Scalar
	Gamma, SigRand                    curve.Scalar
	Comm                              curve.Point
	ID, Value, TokenRand, CommRand    curve.Scalar
}

type clientMarshal struct {
	Secret  curve.Scalar
	Records []cbor.RawMessage
}

func emptyRecordMarshal(group curve.Curve) *recordMarshal {
	return &recordMarshal{
		Zeta:      group.NewPoint(),
		Zeta1:     group.NewPoint(),
		Rho:       group.NewScalar(),
		Omega:     group.NewScalar(),
		Rho1:      group.NewScalar(),
		Rho2:      group.NewScalar(),
		Omega1:    group.NewScalar(),
		V:         group.NewScalar(),
		Gamma:     group.NewScalar(),
		SigRand:   group.NewScalar(),
		Comm:      group.NewPoint(),
		ID:        group.NewScalar(),
		Value:     group.NewScalar(),
		TokenRand: group.NewScalar(),
		CommRand:  group.NewScalar(),
	}
}

func (c *Client) MarshalBinary() ([]byte, error) {
	rs := make([]cbor.RawMessage, 0, len(c.Records))
	for _, r := range c.Records {
		rm := &recordMarshal{
			Zeta:      r.Sig.Zeta,
			Zeta1:     r.Sig.Zeta1,
			Rho:       r.Sig.Rho,
			Omega:     r.Sig.Omega,
			Rho1:      r.Sig.Rho1,
			Rho2:      r.Sig.Rho2,
			Omega1:    r.Sig.Omega1,
			V:         r.Sig.V,
			Gamma:     r.Opening.Gamma,
			SigRand:   r.Opening.Rand,
			Comm:      r.Comm,
			ID:        r.Token.ID,
			Value:     r.Token.Value,
			TokenRand: r.Token.Rand,
			CommRand:  r.Token.CommRand,
		}
		data, err := cbor.Marshal(rm)
		if err != nil {
			return nil, err
		}
		rs = append(rs, data)
	}
	return cbor.Marshal(&clientMarshal{
		Secret:  c.Keys.SecretKey(),
		Records: rs,
	})
}

func (c *Client) UnmarshalBinary(data []byte) error {
	if c.group == nil {
		return errors.New("wallet: client must be initialized using EmptyClient")
	}
	cm := &clientMarshal{Secret: c.group.NewScalar()}
	if err := cbor.Unmarshal(data, cm); err != nil {
		return fmt.Errorf("wallet: %w", err)
	}
	if cm.Secret.IsZero() {
		return errors.New("wallet: user secret key is zero")
	}

	records := make([]Record, 0, len(cm.Records))
	for i, raw := range cm.Records {
		rm := emptyRecordMarshal(c.group)
		if err := cbor.Unmarshal(raw, rm); err != nil {
			return fmt.Errorf("wallet: record %d: %w", i, err)
		}
		records = append(records, Record{
			Sig: &acl.Signature{
				Zeta:   rm.Zeta,
				Zeta1:  rm.Zeta1,
				Rho:    rm.Rho,
				Omega:  rm.Omega,
				Rho1:   rm.Rho1,
				Rho2:   rm.Rho2,
				Omega1: rm.Omega1,
				V:      rm.V,
			},
			Opening: acl.Opening{Gamma: rm.Gamma, Rand: rm.SigRand},
			Comm:    rm.Comm,
			Token: Token{
				ID:       rm.ID,
				Value:    rm.Value,
				Rand:     rm.TokenRand,
				CommRand: rm.CommRand,
			},
		})
	}

	c.Keys = acl.UserKeyPairFromSecret(cm.Secret)
	c.Records = records
	return nil
}

type serverMarshal struct {
	Secret curve.Scalar
	Policy [][]byte
	Tags   []byte
}

func (s *Server) MarshalBinary() ([]byte, error) {
	policy := make([][]byte, len(s.Policy))
	for i, p := range s.Policy {
		data, err := p.MarshalBinary()
		if err != nil {
			return nil, err
		}
		policy[i] = data
	}
	tags, err := s.Tags.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&serverMarshal{
		Secret: s.Keys.SecretKey(),
		Policy: policy,
		Tags:   tags,
	})
}

func (s *Server) UnmarshalBinary(data []byte) error {
	if s.group == nil {
		return errors.New("wallet: server must be initialized using EmptyServer")
	}
	sm := &serverMarshal{Secret: s.group.NewScalar()}
	if err := cbor.Unmarshal(data, sm); err != nil {
		return fmt.Errorf("wallet: %w", err)
	}
	if sm.Secret.IsZero() {
		return errors.New("wallet: server secret key is zero")
	}

	keys, err := acl.KeyPairFromSecret(s.group, sm.Secret)
	if err != nil {
		return err
	}
	policy := make([]curve.Scalar, len(sm.Policy))
	for i, raw := range sm.Policy {
		policy[i] = s.group.NewScalar()
		if err := policy[i].UnmarshalBinary(raw); err != nil {
			return fmt.Errorf("wallet: policy %d: %w", i, err)
		}
	}
	gens, err := rewards.Setup(s.group, len(policy))
	if err != nil {
		return err
	}
	tags, err := tagstore.Load(s.group, sm.Tags)
	if err != nil {
		return err
	}

	s.Keys = keys
	s.Policy = policy
	s.Rewards = gens
	s.Tags = tags
	return nil
}
