// Package server holds the HTTP server and sync settings.
//
// Config covers the listener (port, API key, body limit). SyncConfig names the backends
// this instance reconciles and the kind of each one, which selects the external id
// support table used by the resolver:
//
//	SYNC_BACKENDS=home=plex,office=jellyfin
package server
