// Embedded JetStream server support. When no external NATS URL is configured
// the dashboard starts its own single-node server and stores audio locally,
// so a default install needs no services besides the binary itself.
package objectstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

const embeddedReadyTimeout = 10 * time.Second

// ErrServerNotReady indicates the embedded server did not accept connections in time.
var ErrServerNotReady = errors.New("embedded NATS server did not become ready")

// EmbeddedServer wraps an in-process JetStream-enabled NATS server.
type EmbeddedServer struct {
	server *server.Server
}

// StartEmbeddedServer starts an in-process NATS server with JetStream enabled,
// persisting stream data under dataDir. An empty dataDir keeps everything in
// a temporary store directory chosen by the server.
func StartEmbeddedServer(dataDir string) (*EmbeddedServer, error) {
	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      server.RANDOM_PORT,
		JetStream: true,
		StoreDir:  dataDir,
		NoSigs:    true,
		NoLog:     true,
	}

	natsServer, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedded NATS server: %w", err)
	}

	go natsServer.Start()

	if !natsServer.ReadyForConnections(embeddedReadyTimeout) {
		natsServer.Shutdown()

		return nil, ErrServerNotReady
	}

	return &EmbeddedServer{server: natsServer}, nil
}

// ClientURL returns the URL clients use to reach the embedded server.
func (e *EmbeddedServer) ClientURL() string {
	return e.server.ClientURL()
}

// Shutdown stops the embedded server and waits for it to exit.
func (e *EmbeddedServer) Shutdown() {
	e.server.Shutdown()
	e.server.WaitForShutdown()
}

// Connect dials the given NATS URL and returns the connection with its
// JetStream context.
func Connect(url string) (*nats.Conn, nats.JetStreamContext, error) {
	natsConnection, err := nats.Connect(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		natsConnection.Close()

		return nil, nil, fmt.Errorf("failed to acquire JetStream context: %w", err)
	}

	return natsConnection, jetstreamContext, nil
}
