package singleinstance

import (
	"bufio"
	"context"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

const pingTimeout = 300 * time.Millisecond

// DetectResidentPort returns the lowest port in the range whose listener
// answers PING with PONG.
func DetectResidentPort(ctx context.Context) (int, bool) {
	start, end := getPortRange()
	for port := start; port <= end; port++ {
		if ctx.Err() != nil {
			return 0, false
		}
		if answersPing(ctx, port) {
			return port, true
		}
	}
	return 0, false
}

func answersPing(ctx context.Context, port int) bool {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	status, _, err := roundTrip(ctx, residentAddr(port), pingRequest)
	return err == nil && status == pongResponse
}

func residentAddr(port int) string {
	return net.JoinHostPort(residentHost, strconv.Itoa(port))
}

// roundTrip writes one request line and reads the status line plus the
// body up to the server's close. The context deadline bounds the whole
// exchange.
func roundTrip(ctx context.Context, addr, line string) (status, body string, err error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", "", err
	}
	defer conn.Close()
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	if _, err := io.WriteString(conn, line); err != nil {
		return "", "", err
	}
	br := bufio.NewReader(conn)
	if status, err = br.ReadString('\n'); err != nil {
		return "", "", err
	}
	rest, err := io.ReadAll(br)
	if err != nil {
		return status, "", err
	}
	return status, string(rest), nil
}
