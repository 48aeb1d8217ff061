package main

import (
	"context"

	"sem_sim/visual"
)

// WebFrontend bridges the simulator loop to the web server: frames go out
// through the server, control commands come back from it. The web surface
// is never headless.
type WebFrontend struct {
	server *WebServer
}

// NewWebFrontend wraps a web server as a Frontend.
func NewWebFrontend(server *WebServer) *WebFrontend {
	return &WebFrontend{server: server}
}

func (f *WebFrontend) Headless() bool {
	return f == nil || f.server == nil
}

func (f *WebFrontend) ShowFrame(frame any) {
	if f == nil || f.server == nil {
		return
	}
	if sf, ok := frame.(*StateFrame); ok {
		f.server.UpdateFrame(sf)
	}
}

func (f *WebFrontend) NextCommand() (visual.ControlCommand, bool) {
	if f == nil || f.server == nil {
		return visual.ControlCommand{}, false
	}
	return f.server.NextCommand()
}

func (f *WebFrontend) WaitCommand(ctx context.Context) (visual.ControlCommand, bool) {
	if f == nil || f.server == nil {
		return visual.ControlCommand{}, false
	}
	return f.server.WaitCommand(ctx)
}
