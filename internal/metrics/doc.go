// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and are
exposed at /metrics in the Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

HTTP:
  - rinkside_api_requests_total{method,route,status_code}
  - rinkside_api_request_duration_seconds{method,route}
  - rinkside_api_active_requests
  - rinkside_api_rate_limit_hits_total{limiter}

Store:
  - rinkside_store_operations_total{collection,operation}
  - rinkside_store_operation_duration_seconds{collection,operation}
  - rinkside_store_errors_total{collection,operation,error_type}
  - rinkside_store_txn_retries_total{collection}

Cache:
  - rinkside_cache_hits_total{cache_type}, rinkside_cache_misses_total{cache_type}
  - rinkside_cache_entries{cache_type}, rinkside_cache_invalidations_total{cache_type}

Events and WebSocket:
  - rinkside_events_published_total{topic}, rinkside_events_handled_total{handler,result}
  - rinkside_websocket_connections, rinkside_websocket_messages_sent_total,
    rinkside_websocket_dropped_clients_total

Operations:
  - rinkside_backups_total{result}, rinkside_backup_last_success_timestamp
  - rinkside_uploads_total{result}, rinkside_uploads_cleaned_total
  - rinkside_game_results_total{kind}
  - rinkside_app_info{version,go_version}

Route labels come from chi route patterns (for example /api/v1/clubs/{id}),
which keeps label cardinality bounded.
*/
package metrics
