// Copyright 2025 Amaru Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package amaru_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amaruid/amaru"
	"github.com/amaruid/amaru/database/models"
	"github.com/amaruid/amaru/ledger"
	"github.com/amaruid/amaru/reputation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeGateway is an in-memory ledger.Gateway so the offline queue drainer
// can be exercised without a network
type fakeGateway struct {
	mu           sync.Mutex
	failing      bool
	txCounter    int
	identities   map[string]map[string]string
	certificates map[string]bool
	multisigs    int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		identities:   make(map[string]map[string]string),
		certificates: make(map[string]bool),
	}
}

func (g *fakeGateway) setFailing(failing bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failing = failing
}

func (g *fakeGateway) nextResult() (*ledger.Result, error) {
	if g.failing {
		return nil, errors.New("gateway unavailable")
	}
	g.txCounter++
	return &ledger.Result{
		Hash:   fmt.Sprintf("tx-%04d", g.txCounter),
		Ledger: int32(g.txCounter),
	}, nil
}

func (g *fakeGateway) FundAccount(ctx context.Context, publicKey string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.failing
}

func (g *fakeGateway) AccountInfo(
	ctx context.Context,
	publicKey string,
) (*ledger.AccountInfo, error) {
	return &ledger.AccountInfo{ID: publicKey}, nil
}

func (g *fakeGateway) AccountExists(
	ctx context.Context,
	publicKey string,
) (bool, error) {
	return true, nil
}

func (g *fakeGateway) SetIdentity(
	ctx context.Context,
	secretSeed string,
	entries map[string]string,
) (*ledger.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	result, err := g.nextResult()
	if err != nil {
		return nil, err
	}
	g.identities[secretSeed] = entries
	return result, nil
}

func (g *fakeGateway) RecordAction(
	ctx context.Context,
	secretSeed string,
	actionId string,
	category string,
	description string,
) (*ledger.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nextResult()
}

func (g *fakeGateway) SetupMultisig(
	ctx context.Context,
	params ledger.MultisigParams,
) (*ledger.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	result, err := g.nextResult()
	if err != nil {
		return nil, err
	}
	g.multisigs++
	return result, nil
}

func (g *fakeGateway) CreateTrustline(
	ctx context.Context,
	receiverSeed string,
	assetCode string,
	issuerPublicKey string,
) (*ledger.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nextResult()
}

func (g *fakeGateway) IssueCertificate(
	ctx context.Context,
	issuerSeeds []string,
	memberPublicKey string,
	issuerPublicKey string,
) (*ledger.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	result, err := g.nextResult()
	if err != nil {
		return nil, err
	}
	g.certificates[memberPublicKey] = true
	return result, nil
}

func (g *fakeGateway) HasCertificate(
	ctx context.Context,
	memberPublicKey string,
	issuerPublicKey string,
) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.certificates[memberPublicKey], nil
}

type testEnv struct {
	client  *amaru.Client
	gateway *fakeGateway
	online  *atomic.Bool
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gateway := newFakeGateway()
	online := &atomic.Bool{}
	client, err := amaru.New(amaru.NewConfig(
		amaru.WithDataDir(t.TempDir()),
		amaru.WithGateway(gateway),
		amaru.WithConnectivityProbe(func(ctx context.Context) bool {
			return online.Load()
		}),
		amaru.WithSyncInterval(25*time.Millisecond),
		amaru.WithConnectivityInterval(10*time.Millisecond),
	))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, client.Stop())
	})
	return &testEnv{client: client, gateway: gateway, online: online}
}

// setup creates a community with one leader and one member while online
func (e *testEnv) setup(t *testing.T) (*models.Community, *models.Leader, *models.Member) {
	t.Helper()
	ctx := context.Background()
	e.online.Store(true)
	e.client.ProbeConnectivity(ctx)
	community, err := e.client.CreateCommunity(ctx, "Rio Verde", "river stewards")
	require.NoError(t, err)
	leader, err := e.client.CreateLeader(ctx, community.ID, "Ana")
	require.NoError(t, err)
	member, err := e.client.CreateMember(ctx, community.ID, "Luis")
	require.NoError(t, err)
	return community, leader, member
}

func (e *testEnv) goOffline(t *testing.T) {
	t.Helper()
	e.online.Store(false)
	e.client.ProbeConnectivity(context.Background())
	require.False(t, e.client.Online())
}

func TestOfflineActionSyncsOnReconnect(t *testing.T) {
	env := newTestEnv(t)
	_, _, member := env.setup(t)
	env.goOffline(t)
	ctx := context.Background()

	action, err := env.client.SubmitAction(ctx, amaru.SubmitActionParams{
		MemberID:    member.ID,
		Category:    models.CategoryReforestation,
		Title:       "planted 40 saplings",
		Description: "native species along the east bank",
		Evidence:    []byte("photo bytes"),
	})
	require.NoError(t, err)
	assert.Empty(t, action.TxHash)

	stats, err := env.client.QueueStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Pending)

	// Run the client so the connectivity transition triggers a drain
	runDone := make(chan error, 1)
	go func() {
		runDone <- env.client.Run()
	}()
	env.online.Store(true)

	require.Eventually(t, func() bool {
		stats, err := env.client.QueueStats()
		return err == nil && stats.Pending == 0 && stats.Failed == 0
	}, 5*time.Second, 10*time.Millisecond, "queue never drained")

	synced, err := env.client.Database().GetAction(action.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, synced.TxHash)
	assert.NotNil(t, synced.SyncedAt)

	require.NoError(t, env.client.Stop())
	require.NoError(t, <-runDone)
}

func TestFailedOperationRetriesUpToCeiling(t *testing.T) {
	env := newTestEnv(t)
	_, _, member := env.setup(t)
	env.goOffline(t)
	ctx := context.Background()

	_, err := env.client.SubmitAction(ctx, amaru.SubmitActionParams{
		MemberID: member.ID,
		Category: models.CategoryWaterMonitoring,
		Title:    "weekly sample",
	})
	require.NoError(t, err)

	// Reconnect with a broken gateway: the drain attempt must fail the
	// item rather than lose it
	env.gateway.setFailing(true)
	env.online.Store(true)
	_, err = env.client.SyncNow(ctx)
	require.NoError(t, err)

	stats, err := env.client.QueueStats()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Pending)
	assert.Equal(t, int64(1), stats.Failed)

	// Retry with the gateway healthy again
	count, err := env.client.RetryFailedOperations()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	env.gateway.setFailing(false)
	stats, err = env.client.SyncNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Pending)
	assert.Equal(t, int64(0), stats.Failed)
}

func TestCertifyMemberOfflineQueuesWholeFlow(t *testing.T) {
	env := newTestEnv(t)
	_, leader, member := env.setup(t)
	env.goOffline(t)
	ctx := context.Background()

	require.NoError(
		t,
		env.client.CertifyMember(ctx, member.ID, []string{leader.ID}),
	)
	stats, err := env.client.QueueStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Pending)

	env.online.Store(true)
	stats, err = env.client.SyncNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Pending)

	certified, err := env.client.CheckCertificate(ctx, member.ID)
	require.NoError(t, err)
	assert.True(t, certified)

	refreshed, err := env.client.Database().GetMember(member.ID)
	require.NoError(t, err)
	assert.True(t, refreshed.Certified)

	// Double certification is rejected
	err = env.client.CertifyMember(ctx, member.ID, []string{leader.ID})
	assert.Error(t, err)
}

func TestConfigureMultisigUsesAllLeaders(t *testing.T) {
	env := newTestEnv(t)
	community, _, _ := env.setup(t)
	ctx := context.Background()
	_, err := env.client.CreateLeader(ctx, community.ID, "Berta")
	require.NoError(t, err)

	require.NoError(t, env.client.ConfigureMultisig(ctx, community.ID))
	assert.Equal(t, 1, env.gateway.multisigs)

	refreshed, err := env.client.Database().GetCommunity(community.ID)
	require.NoError(t, err)
	assert.Len(t, refreshed.Signers, 2)

	// Second configuration attempt is rejected
	assert.Error(t, env.client.ConfigureMultisig(ctx, community.ID))
}

func TestReputationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	_, leader, member := env.setup(t)
	ctx := context.Background()

	action, err := env.client.SubmitAction(ctx, amaru.SubmitActionParams{
		MemberID: member.ID,
		Category: models.CategoryEducation,
		Title:    "school workshop",
	})
	require.NoError(t, err)
	require.NoError(t, env.client.VerifyAction(ctx, action.ID, leader.ID))
	require.NoError(t, env.client.RecordEndorsement(ctx, member.ID, "reliable"))
	require.NoError(t, env.client.RecordDailyActive(ctx, member.ID))
	// Same-day checkin is a no-op
	require.NoError(t, env.client.RecordDailyActive(ctx, member.ID))
	require.NoError(t, env.client.CertifyMember(ctx, member.ID, []string{leader.ID}))

	score, err := env.client.CalculateScore(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, score.VerifiedActions)
	assert.Equal(t, 1, score.Endorsements)
	assert.Equal(t, 1, score.ActiveDays)
	expected := reputation.WeightVerifiedAction +
		reputation.WeightEndorsement +
		reputation.WeightActiveDay +
		reputation.WeightCertificationBonus
	assert.Equal(t, expected, score.TotalScore)

	// Verification is recorded as an append-only event
	events, err := env.client.Database().ReputationEvents(member.ID)
	require.NoError(t, err)
	types := make(map[reputation.EventType]int)
	for _, evt := range events {
		types[evt.Type]++
	}
	assert.Equal(t, 1, types[reputation.EventActionVerified])
	assert.Equal(t, 1, types[reputation.EventCertification])
}

func TestSessionRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	_, _, member := env.setup(t)

	_, err := env.client.Sessions().Load()
	assert.ErrorIs(t, err, amaru.ErrNoSession)

	session := &amaru.Session{
		Role:      models.RoleMember,
		AccountID: member.ID,
		PublicKey: member.PublicKey,
		CreatedAt: time.Now(),
	}
	require.NoError(t, env.client.Sessions().Save(session))
	loaded, err := env.client.Sessions().Load()
	require.NoError(t, err)
	assert.Equal(t, member.ID, loaded.AccountID)
	assert.Equal(t, models.RoleMember, loaded.Role)

	require.NoError(t, env.client.Sessions().Clear())
	_, err = env.client.Sessions().Load()
	assert.ErrorIs(t, err, amaru.ErrNoSession)
}
