package osc

import (
	"context"
	"fmt"
	"log/slog"

	gosc "github.com/hypebeast/go-osc/osc"

	"github.com/foxhoundv/wingmix/internal/automation"
)

// Dispatcher sends parameter changes to the mixer as OSC messages. It
// implements the player's Dispatcher contract.
//
// Param kinds with no OSC address are skipped with a warning, never
// failed: sequences from newer firmware replay what this build knows and
// ignore the rest.
type Dispatcher struct {
	client *gosc.Client
	log    *slog.Logger
}

// NewDispatcher creates a dispatcher for the mixer at host:port.
func NewDispatcher(host string, port int, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		client: gosc.NewClient(host, port),
		log:    log,
	}
}

// Dispatch sends one parameter change. It completes when the message has
// been handed to the transport; the Wing does not acknowledge parameter
// writes.
func (d *Dispatcher) Dispatch(ctx context.Context, ct automation.ChannelType, num int, pt automation.ParamType, value float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr, ok := AddressFor(ct, num, pt)
	if !ok {
		d.log.Warn("no OSC address for param kind, skipping",
			"channel_type", ct, "channel_num", num, "param_type", pt)
		return nil
	}

	msg := gosc.NewMessage(addr, float32(value))
	if err := d.client.Send(msg); err != nil {
		return fmt.Errorf("send %s: %w", addr, err)
	}
	return nil
}
