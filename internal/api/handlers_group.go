package api

import "github.com/reeltracker/worker/internal/api/handler"

// HandlersGroup wires every initialized handler for the admin process.
type HandlersGroup struct {
	AccountHandler   *handler.AccountHandler
	VideoHandler     *handler.VideoHandler
	HeartbeatHandler *handler.HeartbeatHandler
}
