// Package feed publishes cell updates over a ZeroMQ PUB socket so
// external consumers can follow a sheet without holding a websocket
// connection.
package feed

import (
	"context"
	"encoding/json"

	"github.com/go-zeromq/zmq4"
)

type Publisher struct {
	sock zmq4.Socket
}

// NewPublisher binds a PUB socket to addr, e.g. "tcp://127.0.0.1:5556".
func NewPublisher(ctx context.Context, addr string) (*Publisher, error) {
	sock := zmq4.NewPub(ctx)
	if err := sock.Listen(addr); err != nil {
		sock.Close()
		return nil, err
	}
	return &Publisher{sock: sock}, nil
}

// Publish sends v as a single JSON frame. Subscribers that joined late
// simply miss earlier frames; the feed carries no state.
func (p *Publisher) Publish(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.sock.Send(zmq4.NewMsg(payload))
}

func (p *Publisher) Close() error {
	return p.sock.Close()
}
