package support

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/hostkit/internal/host"
)

func TestActionBar_StopsAfterTimer(t *testing.T) {
	s, world := newTestSupport(t, Options{})
	steve := world.SpawnPlayer("Steve")
	world.SetAbsoluteTime(100)

	require.NoError(t, s.ActionBar(steve, host.Text("Hold on"), 3))
	world.Advance(200)

	overlays := steve.Overlays()
	require.NotEmpty(t, overlays)
	assert.Equal(t, int64(100), overlays[0].Tick)
	for _, o := range overlays {
		assert.LessOrEqual(t, o.Tick, int64(100+3*host.TicksPerSecond))
		assert.Equal(t, "Hold on", o.Text)
	}
	assert.Equal(t, int64(160), overlays[len(overlays)-1].Tick)
	assert.Len(t, overlays, 61)
	assert.Equal(t, 0, world.Pending())
}

func TestActionBar_Cadence(t *testing.T) {
	s, world := newTestSupport(t, Options{ActionBarCadence: 5})
	steve := world.SpawnPlayer("Steve")

	require.NoError(t, s.ActionBar(steve, host.Text("tick"), 1))
	world.Advance(50)

	var ticks []int64
	for _, o := range steve.Overlays() {
		ticks = append(ticks, o.Tick)
	}
	assert.Equal(t, []int64{0, 5, 10, 15, 20}, ticks)
	assert.Equal(t, 0, world.Pending())
}

func TestActionBar_ZeroSecondsMeansOne(t *testing.T) {
	s, world := newTestSupport(t, Options{})
	steve := world.SpawnPlayer("Steve")

	require.NoError(t, s.ActionBar(steve, host.Text("x"), 0))
	world.Advance(100)

	overlays := steve.Overlays()
	assert.Equal(t, int64(host.TicksPerSecond), overlays[len(overlays)-1].Tick)
}

func TestActionBar_NegativeSeconds(t *testing.T) {
	s, world := newTestSupport(t, Options{})
	steve := world.SpawnPlayer("Steve")

	err := s.ActionBar(steve, host.Text("x"), -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, steve.Overlays())
	assert.Equal(t, 0, world.Pending())
}

func TestActionBar_DurationTooLong(t *testing.T) {
	s, world := newTestSupport(t, Options{})
	steve := world.SpawnPlayer("Steve")

	err := s.ActionBar(steve, host.Text("x"), math.MaxInt/host.TicksPerSecond+1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, steve.Overlays())
	assert.Equal(t, 0, world.Pending())

	require.NoError(t, s.ActionBar(steve, host.Text("x"), math.MaxInt/host.TicksPerSecond))
	world.Advance(5)
	assert.Equal(t, 2, world.Pending())
}

func TestActionBar_Translation(t *testing.T) {
	s, world := newTestSupport(t, Options{})
	steve := world.SpawnPlayer("Steve")

	msg := host.Translate("accessibility.list.or.two", "First", "Second")
	require.NoError(t, s.ActionBar(steve, msg, 1))

	assert.Equal(t, "First or Second", steve.Overlays()[0].Text)
}

func TestShowActionBar_DisplaysOnce(t *testing.T) {
	s, world := newTestSupport(t, Options{})
	steve := world.SpawnPlayer("Steve")

	require.NoError(t, s.ShowActionBar(steve, host.Text("once")))
	world.Advance(40)

	assert.Len(t, steve.Overlays(), 1)
	assert.Equal(t, 0, world.Pending())
}

func TestActionBar_DisconnectIgnore(t *testing.T) {
	var faults []error
	s, world := newTestSupport(t, Options{OnFault: func(err error) { faults = append(faults, err) }})
	steve := world.SpawnPlayer("Steve")
	steve.Disconnect()

	require.NoError(t, s.ActionBar(steve, host.Text("gone"), 2))
	require.NoError(t, s.ShowActionBar(steve, host.Text("gone")))
	world.Advance(100)

	assert.Empty(t, steve.Overlays())
	assert.Empty(t, faults)
	assert.Equal(t, 0, world.Pending())
}

func TestActionBar_DisconnectIgnoreMidRepeat(t *testing.T) {
	var faults []error
	s, world := newTestSupport(t, Options{OnFault: func(err error) { faults = append(faults, err) }})
	steve := world.SpawnPlayer("Steve")

	require.NoError(t, s.ActionBar(steve, host.Text("bye"), 2))
	world.Advance(10)
	steve.Disconnect()
	world.Advance(100)

	assert.Len(t, steve.Overlays(), 11)
	assert.Empty(t, faults)
	assert.Equal(t, 0, world.Pending())
}

func TestActionBar_DisconnectFail(t *testing.T) {
	var faults []error
	s, world := newTestSupport(t, Options{
		Disconnect: DisconnectFail,
		OnFault:    func(err error) { faults = append(faults, err) },
	})
	steve := world.SpawnPlayer("Steve")
	steve.Disconnect()

	err := s.ActionBar(steve, host.Text("gone"), 2)
	assert.ErrorIs(t, err, host.ErrActorGone)
	assert.ErrorIs(t, s.ShowActionBar(steve, host.Text("gone")), host.ErrActorGone)
	assert.Equal(t, 0, world.Pending())
	assert.Empty(t, faults)
}

func TestActionBar_DisconnectFailMidRepeat(t *testing.T) {
	var faults []error
	s, world := newTestSupport(t, Options{
		Disconnect: DisconnectFail,
		OnFault:    func(err error) { faults = append(faults, err) },
	})
	steve := world.SpawnPlayer("Steve")

	require.NoError(t, s.ActionBar(steve, host.Text("bye"), 2))
	world.Advance(10)
	steve.Disconnect()
	world.Advance(100)

	assert.Len(t, steve.Overlays(), 11)
	require.Len(t, faults, 1)
	assert.ErrorIs(t, faults[0], host.ErrActorGone)
	assert.Equal(t, 0, world.Pending())
}
