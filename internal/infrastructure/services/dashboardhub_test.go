package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adbeam/adbeam/internal/shared/logger"
)

func newTestDashboardHub(t *testing.T, cfg *DashboardHubConfig) *DashboardHub {
	t.Helper()
	hub := NewDashboardHub(logger.NewLogger(), cfg)
	t.Cleanup(hub.Shutdown)
	return hub
}

func drain(conn *DashboardConn) []string {
	var out []string
	for {
		select {
		case data := <-conn.Send:
			out = append(out, string(data))
		default:
			return out
		}
	}
}

func TestDashboardHub_BroadcastReachesAllConns(t *testing.T) {
	hub := newTestDashboardHub(t, nil)

	connA := hub.RegisterConn("conn_a", "usr_1", nil)
	connB := hub.RegisterConn("conn_b", "usr_2", nil)
	require.NotNil(t, connA)
	require.NotNil(t, connB)

	hub.BroadcastOverlayStatus("ch_1", map[string]any{"status": "connected"})

	for _, conn := range []*DashboardConn{connA, connB} {
		events := drain(conn)
		require.Len(t, events, 1)
		assert.True(t, strings.HasPrefix(events[0], "event: overlay_status\n"))
		assert.Contains(t, events[0], `"channelId":"ch_1"`)
		assert.True(t, strings.HasSuffix(events[0], "\n\n"))
	}
}

func TestDashboardHub_ChannelFiltersLimitDelivery(t *testing.T) {
	hub := newTestDashboardHub(t, nil)

	filtered := hub.RegisterConn("conn_a", "usr_1", []string{"ch_1"})
	require.NotNil(t, filtered)

	hub.BroadcastDeliverySent("ch_2", nil)
	assert.Empty(t, drain(filtered))

	hub.BroadcastDeliverySent("ch_1", nil)
	assert.Len(t, drain(filtered), 1)
}

func TestDashboardHub_HeartbeatThrottled(t *testing.T) {
	hub := newTestDashboardHub(t, &DashboardHubConfig{HeartbeatThrottleMs: 60000})

	conn := hub.RegisterConn("conn_a", "usr_1", nil)
	require.NotNil(t, conn)

	hub.BroadcastOverlayHeartbeat("ch_1", nil)
	hub.BroadcastOverlayHeartbeat("ch_1", nil)
	assert.Len(t, drain(conn), 1)

	// Another channel throttles independently.
	hub.BroadcastOverlayHeartbeat("ch_2", nil)
	assert.Len(t, drain(conn), 1)
}

func TestDashboardHub_MaxConnsPerActor(t *testing.T) {
	hub := newTestDashboardHub(t, &DashboardHubConfig{MaxConnsPerActor: 2})

	require.NotNil(t, hub.RegisterConn("conn_a", "usr_1", nil))
	require.NotNil(t, hub.RegisterConn("conn_b", "usr_1", nil))
	assert.Nil(t, hub.RegisterConn("conn_c", "usr_1", nil))

	// Other actors are unaffected.
	assert.NotNil(t, hub.RegisterConn("conn_d", "usr_2", nil))

	// Releasing a slot admits the next connection.
	hub.UnregisterConn("conn_a")
	assert.NotNil(t, hub.RegisterConn("conn_e", "usr_1", nil))
}

func TestDashboardHub_RegisterAfterShutdownRefused(t *testing.T) {
	hub := NewDashboardHub(logger.NewLogger(), nil)
	hub.Shutdown()

	assert.Nil(t, hub.RegisterConn("conn_a", "usr_1", nil))
}

func TestDashboardHub_TrySendOnClosedConn(t *testing.T) {
	hub := newTestDashboardHub(t, nil)

	conn := hub.RegisterConn("conn_a", "usr_1", nil)
	require.NotNil(t, conn)

	hub.UnregisterConn("conn_a")
	assert.False(t, conn.TrySend([]byte("late")))
}
