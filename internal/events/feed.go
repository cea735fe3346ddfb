package events

import (
	"context"
	"encoding/json"
	"hostelcare/portal/internal/models"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Feed subscribes to a backend's websocket event stream and republishes each
// event on the local bus.
type Feed struct {
	URL    string
	Token  string
	Bus    Publisher
	Dialer *websocket.Dialer
}

// Run blocks until ctx is cancelled (nil) or the connection fails.
func (f *Feed) Run(ctx context.Context) error {
	dialer := f.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	header := http.Header{}
	if f.Token != "" {
		header.Set("Authorization", "Bearer "+f.Token)
	}

	conn, _, err := dialer.DialContext(ctx, f.URL, header)
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var ev models.Event
		if err := json.Unmarshal(message, &ev); err != nil {
			log.Printf("Error decoding event from %s: %v", f.URL, err)
			continue
		}
		f.Bus.Publish(ev)
	}
}
