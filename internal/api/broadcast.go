package api

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/samhotchkiss/biztask/internal/store"
	"github.com/samhotchkiss/biztask/internal/widget"
	"github.com/samhotchkiss/biztask/internal/workspace"
	"github.com/samhotchkiss/biztask/internal/ws"
)

// BroadcastEvents returns a workspace.Options.OnCreate hook that pushes every
// store and widget event of a workspace through hub. Channel messages go to
// their channel topic; everything else reaches the whole workspace.
func BroadcastEvents(hub *ws.Hub, logger *zap.Logger) func(*workspace.Workspace) func() {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(w *workspace.Workspace) func() {
		workspaceID := w.ID
		publish := func(topic string, event interface{}) {
			payload, err := json.Marshal(event)
			if err != nil {
				logger.Warn("encode push event", zap.String("workspace_id", workspaceID), zap.Error(err))
				return
			}
			if topic == "" {
				hub.Broadcast(workspaceID, payload)
				return
			}
			hub.BroadcastTopic(workspaceID, topic, payload)
		}

		stopStore := w.Store.Subscribe(func(ev store.Event) {
			publish(ev.Topic(), ev)
		})
		stopWidget := w.Widget.Subscribe(func(ev widget.Event) {
			publish("", ev)
		})
		return func() {
			stopStore()
			stopWidget()
		}
	}
}
