package main

import (
	"crypto/rand"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/brave-experiments/boomerang/internal/test"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/party"
	"github.com/brave-experiments/boomerang/pkg/protocol"
	"github.com/brave-experiments/boomerang/protocols/boomerang"
)

// runSession drives both sides of a two party protocol over an in-memory
// network and returns the user's result.
func runSession(
	ids party.IDSlice,
	sessionID []byte,
	userStart, serverStart protocol.StartFunc,
	userLeads bool,
) (interface{}, error) {
	hU, err := protocol.NewTwoPartyHandler(userStart, sessionID, userLeads)
	if err != nil {
		return nil, err
	}
	hS, err := protocol.NewTwoPartyHandler(serverStart, sessionID, !userLeads)
	if err != nil {
		return nil, err
	}
	network := test.NewNetwork(ids)

	var g errgroup.Group
	g.Go(func() error {
		test.HandlerLoop(ids[0], hU, network)
		return nil
	})
	g.Go(func() error {
		test.HandlerLoop(ids[1], hS, network)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if _, err := hS.Result(); err != nil {
		return nil, err
	}
	return hU.Result()
}

func main() {
	log := logrus.WithField("example", "boomerang")
	group := curve.Secp256k1{}
	ids := party.IDSlice{"user", "server"}

	client := boomerang.NewClient(rand.Reader, group)

	// Reward one point per unit spent on the first item, five on the last.
	policy := make([]curve.Scalar, 4)
	for i := range policy {
		policy[i] = group.NewScalar()
	}
	policy[0].SetUInt64(1)
	policy[3].SetUInt64(5)
	server, err := boomerang.NewServer(rand.Reader, group, policy)
	if err != nil {
		log.WithError(err).Fatal("server setup")
	}

	if _, err := runSession(ids, []byte("issue"),
		boomerang.Issue(client, ids[0], ids[1]),
		boomerang.IssueServer(server, ids[1], ids[0]), true); err != nil {
		log.WithError(err).Fatal("issuance")
	}
	log.Info("issued a fresh token")

	for i, value := range []uint64{20, 30} {
		sid := []byte(fmt.Sprintf("collect-%d", i))
		if _, err := runSession(ids, sid,
			boomerang.Collect(client, ids[0], ids[1]),
			boomerang.CollectServer(server, value, ids[1], ids[0]), false); err != nil {
			log.WithError(err).Fatal("collection")
		}
		log.WithField("value", value).Info("collected")
	}

	spendVec := []uint64{3, 0, 0, 2}
	result, err := runSession(ids, []byte("spend"),
		boomerang.Spend(client, spendVec, ids[0], ids[1]),
		boomerang.SpendServer(server, ids[1], ids[0]), false)
	if err != nil {
		log.WithError(err).Fatal("spend")
	}
	rec := result.(*boomerang.Record)
	remaining, _ := rec.Token.Value.MarshalBinary()
	log.WithFields(logrus.Fields{
		"spend":   fmt.Sprint(spendVec),
		"balance": fmt.Sprintf("%x", remaining),
	}).Info("spent and earned a reward")
}
