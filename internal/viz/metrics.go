package viz

import "expvar"

var (
	metricReplayTotal  = expvar.NewInt("viz_replay_total")
	metricReplayErrors = expvar.NewInt("viz_replay_errors_total")

	metricSSEConnectionsTotal  = expvar.NewInt("viz_sse_connections_total")
	metricSSEConnectionsActive = expvar.NewInt("viz_sse_connections_active")
	metricSSEEventsSent        = expvar.NewInt("viz_sse_events_sent_total")

	metricWSConnectionsTotal  = expvar.NewInt("viz_ws_connections_total")
	metricWSConnectionsActive = expvar.NewInt("viz_ws_connections_active")
	metricWSEventsSent        = expvar.NewInt("viz_ws_events_sent_total")
)
