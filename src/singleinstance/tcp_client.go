package singleinstance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"draw-on-screen/src/messages"
)

const defaultSendTimeout = 5 * time.Second

type tcpClient struct{}

func newTcpClient() Client { return &tcpClient{} }

func (c *tcpClient) Send(ctx context.Context, cmd messages.Command) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultSendTimeout)
		defer cancel()
	}
	port, ok := DetectResidentPort(ctx)
	if !ok {
		return "", ErrNoResident
	}

	status, body, err := roundTrip(ctx, residentAddr(port), string(cmd))
	if err != nil {
		return "", fmt.Errorf("send %s to port %d: %w", cmd, port, err)
	}
	switch status {
	case "SUCCESS\n":
		return body, nil
	case "ERROR\n":
		return "", errors.New(body)
	default:
		return "", fmt.Errorf("unexpected reply %q", status)
	}
}
