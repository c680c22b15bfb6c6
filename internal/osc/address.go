// Package osc delivers parameter changes to a Behringer Wing mixer over
// OSC and turns incoming OSC parameter messages into live change
// callbacks for recording.
package osc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/foxhoundv/wingmix/internal/automation"
)

// DefaultPort is the Wing's OSC control port.
const DefaultPort = 2223

// AddressFor maps a parameter to its OSC address. Each known param kind
// addresses a distinct sub-parameter of the same strip. ok is false for a
// param kind with no address; callers skip those rather than erroring.
func AddressFor(ct automation.ChannelType, num int, pt automation.ParamType) (string, bool) {
	switch pt {
	case automation.ParamTypeFader:
		return fmt.Sprintf("/%s/%d/fdr", ct, num), true
	case automation.ParamTypeMute:
		return fmt.Sprintf("/%s/%d/mute", ct, num), true
	case automation.ParamTypePan:
		return fmt.Sprintf("/%s/%d/pan", ct, num), true
	default:
		return "", false
	}
}

// ParseAddress decodes an OSC parameter address back into its identifying
// triple. ok is false for addresses outside the parameter space (meters,
// config nodes, unknown strips).
func ParseAddress(addr string) (automation.ChannelType, int, automation.ParamType, bool) {
	parts := strings.Split(strings.TrimPrefix(addr, "/"), "/")
	if len(parts) != 3 {
		return "", 0, "", false
	}

	ct := automation.ChannelType(parts[0])
	if !automation.ValidChannelTypes[ct] {
		return "", 0, "", false
	}
	num, err := strconv.Atoi(parts[1])
	if err != nil || num < 1 {
		return "", 0, "", false
	}

	var pt automation.ParamType
	switch parts[2] {
	case "fdr":
		pt = automation.ParamTypeFader
	case "mute":
		pt = automation.ParamTypeMute
	case "pan":
		pt = automation.ParamTypePan
	default:
		return "", 0, "", false
	}
	return ct, num, pt, true
}
