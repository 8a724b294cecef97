package boomerang

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brave-experiments/boomerang/internal/tagstore"
	"github.com/brave-experiments/boomerang/internal/test"
	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/party"
	"github.com/brave-experiments/boomerang/pkg/protocol"
	"github.com/brave-experiments/boomerang/protocols/boomerang/collection"
	"github.com/brave-experiments/boomerang/protocols/boomerang/spend"
)

var testGroup = curve.Secp256k1{}

func runHandler(wg *sync.WaitGroup, id party.ID, handler protocol.Handler, network *test.Network) {
	defer wg.Done()
	test.HandlerLoop(id, handler, network)
}

// runSession drives a user and a server handler to completion over an
// in-process network and returns both results.
func runSession(
	partyIDs party.IDSlice,
	sessionID []byte,
	userStart, serverStart protocol.StartFunc,
	userLeads bool,
) (userResult, serverResult interface{}, err error) {
	hU, err := protocol.NewTwoPartyHandler(userStart, sessionID, userLeads)
	if err != nil {
		return nil, nil, err
	}
	hS, err := protocol.NewTwoPartyHandler(serverStart, sessionID, !userLeads)
	if err != nil {
		return nil, nil, err
	}
	var wg sync.WaitGroup
	network := test.NewNetwork(partyIDs)
	wg.Add(2)
	go runHandler(&wg, partyIDs[0], hU, network)
	go runHandler(&wg, partyIDs[1], hS, network)
	wg.Wait()

	userResult, errU := hU.Result()
	serverResult, errS := hS.Result()
	if errS != nil {
		return userResult, serverResult, errS
	}
	return userResult, serverResult, errU
}

func testPolicy(n int, weights ...uint64) []curve.Scalar {
	policy := make([]curve.Scalar, n)
	for i := range policy {
		policy[i] = testGroup.NewScalar()
		if i < len(weights) {
			policy[i].SetUInt64(weights[i])
		}
	}
	return policy
}

func runIssue(t *testing.T, ids party.IDSlice, sid []byte, client *Client, server *Server) *Record {
	t.Helper()
	userResult, _, err := runSession(ids, sid, Issue(client, ids[0], ids[1]), IssueServer(server, ids[1], ids[0]), true)
	require.NoError(t, err)
	rec, ok := userResult.(*Record)
	require.True(t, ok)
	return rec
}

func runCollect(t *testing.T, ids party.IDSlice, sid []byte, client *Client, server *Server, value uint64) (*Record, *collection.Summary) {
	t.Helper()
	userResult, serverResult, err := runSession(ids, sid,
		Collect(client, ids[0], ids[1]), CollectServer(server, value, ids[1], ids[0]), false)
	require.NoError(t, err)
	rec, ok := userResult.(*Record)
	require.True(t, ok)
	summary, ok := serverResult.(*collection.Summary)
	require.True(t, ok)
	return rec, summary
}

func runSpend(t *testing.T, ids party.IDSlice, sid []byte, client *Client, server *Server, spendVec []uint64) (*Record, *spend.Summary) {
	t.Helper()
	userResult, serverResult, err := runSession(ids, sid,
		Spend(client, spendVec, ids[0], ids[1]), SpendServer(server, ids[1], ids[0]), false)
	require.NoError(t, err)
	rec, ok := userResult.(*Record)
	require.True(t, ok)
	summary, ok := serverResult.(*spend.Summary)
	require.True(t, ok)
	return rec, summary
}

func TestLifecycle(t *testing.T) {
	ids := test.PartyIDs(2)
	client := NewClient(test.Rand(test.Seed()), testGroup)
	server, err := NewServer(test.Rand(test.Seed()), testGroup, testPolicy(4, 5))
	require.NoError(t, err)

	rec := runIssue(t, ids, []byte("issue-1"), client, server)
	require.Len(t, client.Records, 1)
	require.True(t, client.Balance().IsZero())
	require.False(t, rec.Comm.IsIdentity())

	_, sum1 := runCollect(t, ids, []byte("collect-1"), client, server, 5)
	require.True(t, client.Balance().Equal(testGroup.NewScalar().SetUInt64(5)))
	require.Equal(t, 1, server.Tags.Len())

	_, sum2 := runCollect(t, ids, []byte("collect-2"), client, server, 12)
	require.True(t, client.Balance().Equal(testGroup.NewScalar().SetUInt64(17)))
	require.Equal(t, 2, server.Tags.Len())
	require.False(t, sum1.Tag.Equal(sum2.Tag))

	rec2, sum3 := runSpend(t, ids, []byte("spend-1"), client, server, []uint64{1, 0, 0, 0})
	require.True(t, client.Balance().Equal(testGroup.NewScalar().SetUInt64(16)))
	require.True(t, sum3.Spent.Equal(testGroup.NewScalar().SetUInt64(1)))
	require.Equal(t, uint64(5), sum3.Reward)
	require.Equal(t, 3, server.Tags.Len())
	require.Len(t, client.Records, 4)
	require.False(t, rec2.Comm.Equal(rec.Comm))
}

func TestOverdraftRejectedAtStart(t *testing.T) {
	ids := test.PartyIDs(2)
	client := NewClient(test.Rand(test.Seed()), testGroup)
	server, err := NewServer(test.Rand(test.Seed()), testGroup, testPolicy(4, 5))
	require.NoError(t, err)

	runIssue(t, ids, []byte("issue-1"), client, server)
	runCollect(t, ids, []byte("collect-1"), client, server, 5)

	_, err = Spend(client, []uint64{6, 0, 0, 0}, ids[0], ids[1])([]byte("spend-1"))
	require.Error(t, err)
}

func TestSpendWithoutTokenFails(t *testing.T) {
	ids := test.PartyIDs(2)
	client := NewClient(test.Rand(test.Seed()), testGroup)

	_, err := Collect(client, ids[0], ids[1])([]byte("collect-1"))
	require.Error(t, err)
	_, err = Spend(client, []uint64{1, 0, 0, 0}, ids[0], ids[1])([]byte("spend-1"))
	require.Error(t, err)
}

func TestReplayedTagRejected(t *testing.T) {
	ids := test.PartyIDs(2)
	client := NewClient(test.Rand(test.Seed()), testGroup)
	server, err := NewServer(test.Rand(test.Seed()), testGroup, testPolicy(4, 5))
	require.NoError(t, err)

	runIssue(t, ids, []byte("issue-1"), client, server)
	_, summary := runCollect(t, ids, []byte("collect-1"), client, server, 5)

	entries := server.Tags.Entries()
	require.Len(t, entries, 1)
	require.True(t, entries[0].Tag.Equal(summary.Tag))
	err = server.Tags.Insert(entries[0].Tag, entries[0].Nonce)
	require.ErrorIs(t, err, tagstore.ErrDoubleSpend)
}

func TestDoubleSpenderIdentified(t *testing.T) {
	ids := test.PartyIDs(2)
	client := NewClient(test.Rand(test.Seed()), testGroup)
	server, err := NewServer(test.Rand(test.Seed()), testGroup, testPolicy(4, 5))
	require.NoError(t, err)

	runIssue(t, ids, []byte("issue-1"), client, server)
	spent := client.Records[0]
	runCollect(t, ids, []byte("collect-1"), client, server, 5)

	// A cheating user rewinds to the already spent token and collects
	// again. The fresh nonce yields a different tag, so the session goes
	// through, but the two tags together give away the token.
	client.Records = client.Records[:1]
	runCollect(t, ids, []byte("collect-2"), client, server, 5)

	entries := server.Tags.Entries()
	require.Len(t, entries, 2)
	id, key, err := tagstore.Identify(testGroup, entries[0], entries[1])
	require.NoError(t, err)
	require.True(t, id.Equal(spent.Token.ID))
	require.True(t, key.Equal(client.Keys.SecretKey()))
}

func TestWalletPersistence(t *testing.T) {
	ids := test.PartyIDs(2)
	client := NewClient(test.Rand(test.Seed()), testGroup)
	server, err := NewServer(test.Rand(test.Seed()), testGroup, testPolicy(4, 5))
	require.NoError(t, err)

	runIssue(t, ids, []byte("issue-1"), client, server)
	runCollect(t, ids, []byte("collect-1"), client, server, 5)

	clientData, err := client.MarshalBinary()
	require.NoError(t, err)
	serverData, err := server.MarshalBinary()
	require.NoError(t, err)

	client2 := EmptyClient(testGroup)
	require.NoError(t, client2.UnmarshalBinary(clientData))
	server2 := EmptyServer(testGroup)
	require.NoError(t, server2.UnmarshalBinary(serverData))

	require.Len(t, client2.Records, 2)
	require.True(t, client2.Balance().Equal(client.Balance()))
	require.Equal(t, 1, server2.Tags.Len())

	// The restored wallets keep working against each other.
	runCollect(t, ids, []byte("collect-2"), client2, server2, 7)
	require.True(t, client2.Balance().Equal(testGroup.NewScalar().SetUInt64(12)))
}

func TestSessionAbortsOnTamperedServer(t *testing.T) {
	ids := test.PartyIDs(2)
	client := NewClient(test.Rand(test.Seed()), testGroup)
	serverA, err := NewServer(test.Rand(test.Seed()), testGroup, testPolicy(4, 5))
	require.NoError(t, err)
	serverB, err := NewServer(test.Rand([]byte("other")), testGroup, testPolicy(4, 5))
	require.NoError(t, err)

	runIssue(t, ids, []byte("issue-1"), client, serverA)

	// A different server cannot redeem the token: its keys never signed it.
	_, _, err = runSession(ids, []byte("collect-1"),
		Collect(client, ids[0], ids[1]), CollectServer(serverB, 5, ids[1], ids[0]), false)
	require.Error(t, err)
	require.False(t, errors.Is(err, tagstore.ErrDoubleSpend))
}
