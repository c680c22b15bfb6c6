package osc

import (
	"context"
	"fmt"
	"log/slog"

	gosc "github.com/hypebeast/go-osc/osc"

	"github.com/foxhoundv/wingmix/internal/automation"
)

// ChangeHandler receives one live parameter change observed on the wire.
type ChangeHandler func(ct automation.ChannelType, num int, pt automation.ParamType, value float64)

// Receiver listens for OSC parameter messages from the mixer and forwards
// the ones it can decode to a ChangeHandler. Messages outside the
// parameter address space are ignored.
type Receiver struct {
	addr    string
	handler ChangeHandler
	log     *slog.Logger
}

// NewReceiver creates a receiver bound to listenAddr (host:port).
func NewReceiver(listenAddr string, handler ChangeHandler, log *slog.Logger) *Receiver {
	if log == nil {
		log = slog.Default()
	}
	return &Receiver{addr: listenAddr, handler: handler, log: log}
}

// Run serves until ctx is cancelled.
func (r *Receiver) Run(ctx context.Context) error {
	dispatcher := gosc.NewStandardDispatcher()
	if err := dispatcher.AddMsgHandler("*", func(msg *gosc.Message) {
		r.handleMessage(msg)
	}); err != nil {
		return fmt.Errorf("register OSC handler: %w", err)
	}

	server := &gosc.Server{Addr: r.addr, Dispatcher: dispatcher}

	errc := make(chan error, 1)
	go func() {
		errc <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		if err := server.CloseConnection(); err != nil {
			r.log.Warn("closing OSC server", "error", err)
		}
		<-errc
		return ctx.Err()
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("OSC server: %w", err)
		}
		return nil
	}
}

func (r *Receiver) handleMessage(msg *gosc.Message) {
	ct, num, pt, ok := ParseAddress(msg.Address)
	if !ok {
		return
	}
	value, ok := numericArgument(msg)
	if !ok {
		r.log.Debug("OSC message without numeric argument", "address", msg.Address)
		return
	}
	r.handler(ct, num, pt, value)
}

// numericArgument extracts the first numeric argument of a message. The
// Wing reports faders as float32 and mutes as int32.
func numericArgument(msg *gosc.Message) (float64, bool) {
	for _, arg := range msg.Arguments {
		switch v := arg.(type) {
		case float32:
			return float64(v), true
		case float64:
			return v, true
		case int32:
			return float64(v), true
		case int64:
			return float64(v), true
		}
	}
	return 0, false
}
