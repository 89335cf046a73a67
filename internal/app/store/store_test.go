package store

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"wrmb_dapp/internal/app/notify"
	"wrmb_dapp/internal/app/port"
	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/infrastructure/simulated"
	"wrmb_dapp/internal/pkg/apperr"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var user = common.HexToAddress("0x00000000000000000000000000000000000000aa")

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fakeSession struct {
	mu   sync.Mutex
	sess entity.Session
}

func (f *fakeSession) Snapshot() entity.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sess
}

func (f *fakeSession) set(fn func(s *entity.Session)) {
	f.mu.Lock()
	fn(&f.sess)
	f.mu.Unlock()
}

type fixture struct {
	deps    Deps
	src     *simulated.Source
	clock   *clock
	session *fakeSession
	notes   *notify.Center
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := newClock()
	src := simulated.New(clk.now)
	sess := &fakeSession{sess: entity.Session{
		Connected: true,
		Address:   user,
		ChainID:   31337,
		HasSigner: true,
		Epoch:     1,
	}}
	center := notify.NewCenter(0, nil, zap.NewNop())
	t.Cleanup(center.Clear)
	return &fixture{
		deps: Deps{
			Source:   src,
			Session:  sess,
			Notifier: center,
			Retry:    apperr.RetryConfig{},
			Now:      clk.now,
		},
		src:     src,
		clock:   clk,
		session: sess,
		notes:   center,
	}
}

func (f *fixture) titles() []string {
	var out []string
	for _, n := range f.notes.List() {
		out = append(out, n.Title)
	}
	return out
}

func (f *fixture) count(title string) int {
	n := 0
	for _, got := range f.titles() {
		if got == title {
			n++
		}
	}
	return n
}

// gatedStaking blocks the first TotalSupply read until release is closed.
type gatedStaking struct {
	port.StakingVault
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStaking) TotalSupply(ctx context.Context) (*big.Int, error) {
	if g.calls.Add(1) == 1 {
		close(g.entered)
	}
	<-g.release
	return g.StakingVault.TotalSupply(ctx)
}

type gatedSource struct {
	port.DataSource
	vault *gatedStaking
}

func (g *gatedSource) Staking() (port.StakingVault, error) { return g.vault, nil }

func newGated(t *testing.T, f *fixture) *gatedSource {
	t.Helper()
	inner, err := f.src.Staking()
	require.NoError(t, err)
	g := &gatedSource{
		DataSource: f.src,
		vault: &gatedStaking{
			StakingVault: inner,
			entered:      make(chan struct{}),
			release:      make(chan struct{}),
		},
	}
	f.deps.Source = g
	return g
}

// flakySource fails every staking lookup while broken is set.
type flakySource struct {
	port.DataSource
	broken atomic.Bool
}

func (f *flakySource) Staking() (port.StakingVault, error) {
	if f.broken.Load() {
		return nil, errors.New("rpc unavailable")
	}
	return f.DataSource.Staking()
}

// navlessStaking fails only the NAV read.
type navlessStaking struct{ port.StakingVault }

func (navlessStaking) NAV(context.Context) (*big.Int, error) {
	return nil, errors.New("execution reverted")
}

type navlessSource struct{ port.DataSource }

func (n navlessSource) Staking() (port.StakingVault, error) {
	v, err := n.DataSource.Staking()
	if err != nil {
		return nil, err
	}
	return navlessStaking{v}, nil
}

func TestFetchSkippedWhileDisconnected(t *testing.T) {
	f := newFixture(t)
	f.session.set(func(s *entity.Session) { s.Connected = false })
	st := NewStakingStore(f.deps, zap.NewNop())

	require.NoError(t, st.Fetch(context.Background()))
	assert.Equal(t, entity.StatusIdle, st.Status())
	assert.Empty(t, st.Snapshot().TotalSupply)
}

func TestFetchCoalescesConcurrentCalls(t *testing.T) {
	f := newFixture(t)
	g := newGated(t, f)
	st := NewStakingStore(f.deps, zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, st.Fetch(context.Background()))
	}()
	<-g.vault.entered
	go func() {
		defer wg.Done()
		assert.NoError(t, st.Fetch(context.Background()))
	}()
	time.Sleep(50 * time.Millisecond)
	close(g.vault.release)
	wg.Wait()

	assert.Equal(t, int32(1), g.vault.calls.Load())
	assert.Equal(t, entity.StatusReady, st.Status())
	assert.Equal(t, "1200000", st.Snapshot().TotalSupply)
}

func TestResetDiscardsInFlightFetch(t *testing.T) {
	f := newFixture(t)
	g := newGated(t, f)
	st := NewStakingStore(f.deps, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- st.Fetch(context.Background()) }()
	<-g.vault.entered
	st.Reset()
	close(g.vault.release)
	require.NoError(t, <-done)

	assert.Equal(t, entity.StatusIdle, st.Status())
	assert.Empty(t, st.Snapshot().TotalSupply)
	assert.True(t, st.LastUpdate().IsZero())
}

func TestFetchDiscardedAfterEpochChange(t *testing.T) {
	f := newFixture(t)
	g := newGated(t, f)
	st := NewStakingStore(f.deps, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- st.Fetch(context.Background()) }()
	<-g.vault.entered
	f.session.set(func(s *entity.Session) { s.Epoch = 2 })
	close(g.vault.release)
	require.NoError(t, <-done)

	assert.Empty(t, st.Snapshot().TotalSupply)
}

func TestFetchFailureNotifiesOnce(t *testing.T) {
	f := newFixture(t)
	src := &flakySource{DataSource: f.src}
	src.broken.Store(true)
	f.deps.Source = src
	st := NewStakingStore(f.deps, zap.NewNop())
	ctx := context.Background()

	require.Error(t, st.Fetch(ctx))
	require.Error(t, st.Fetch(ctx))
	snap := st.Snapshot()
	assert.Equal(t, entity.StatusFetchFailed, snap.Status)
	assert.NotEmpty(t, snap.LastError)
	assert.Equal(t, 1, f.count(fetchFailedTitle))

	src.broken.Store(false)
	require.NoError(t, st.Fetch(ctx))
	snap = st.Snapshot()
	assert.Equal(t, entity.StatusReady, snap.Status)
	assert.Empty(t, snap.LastError)
	assert.Equal(t, f.clock.now(), snap.LastUpdateTime)

	src.broken.Store(true)
	require.Error(t, st.Fetch(ctx))
	assert.Equal(t, 2, f.count(fetchFailedTitle))
}

func TestFailedReadFallsBack(t *testing.T) {
	f := newFixture(t)
	f.deps.Source = navlessSource{f.src}
	st := NewStakingStore(f.deps, zap.NewNop())

	require.NoError(t, st.Fetch(context.Background()))
	snap := st.Snapshot()
	assert.Equal(t, entity.StatusReady, snap.Status)
	assert.Equal(t, "1", snap.NAV)
	assert.Equal(t, "1200000", snap.TotalSupply)
	assert.Zero(t, f.count(fetchFailedTitle))
}

func TestActionsRequireSigner(t *testing.T) {
	f := newFixture(t)
	f.session.set(func(s *entity.Session) { s.HasSigner = false })
	ctx := context.Background()

	savings := NewSavingsStore(f.deps, DefaultSavingsConfig, nil, zap.NewNop())
	_, err := savings.Deposit(ctx, "10")
	assert.Equal(t, apperr.KindWalletNotConnected, apperr.KindOf(err))

	staking := NewStakingStore(f.deps, zap.NewNop())
	_, err = staking.ClaimRewards(ctx)
	assert.Equal(t, apperr.KindWalletNotConnected, apperr.KindOf(err))

	bonds := NewBondsStore(f.deps, zap.NewNop())
	_, err = bonds.Mature(ctx, 1)
	assert.Equal(t, apperr.KindWalletNotConnected, apperr.KindOf(err))

	assert.Len(t, f.notes.List(), 3)
}
