// Rinkside - Sports League Management API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rinkside

/*
Package services adapts blocking components to the suture.Service interface.

Most long-running components already implement suture.Service themselves:

	*websocket.Hub      messaging layer
	*events.Router      messaging layer
	*backup.Scheduler   data layer

The wrappers here cover the ones that do not:

	HTTPServerService   *http.Server with graceful shutdown (api layer)
	StoreGCService      badger value-log GC loop (data layer)

Each wrapper returns ctx.Err() on a normal shutdown and suture.ErrDoNotRestart
when the wrapped component has stopped for good.
*/
package services
