package mixer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxhoundv/wingmix/internal/automation"
)

func TestParseChannelList(t *testing.T) {
	tests := []struct {
		spec string
		want []int
	}{
		{"", nil},
		{"  ", nil},
		{"1", []int{1}},
		{"1,2,3", []int{1, 2, 3}},
		{"1-4", []int{1, 2, 3, 4}},
		{"1-4,7", []int{1, 2, 3, 4, 7}},
		{"1-4, 7, 12", []int{1, 2, 3, 4, 7, 12}},
		{"5-5", []int{5}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseChannelList(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChannelList_Errors(t *testing.T) {
	tests := []string{
		"a",
		"1,,3",
		"1-",
		"-4",
		"4-2",
		"0",
		"1,0",
	}
	for _, spec := range tests {
		t.Run(spec, func(t *testing.T) {
			_, err := ParseChannelList(spec)
			assert.Error(t, err)
		})
	}
}

func TestParseRefs(t *testing.T) {
	refs, err := ParseRefs(automation.ChannelTypeBus, "2,4")
	require.NoError(t, err)
	assert.Equal(t, []ChannelRef{
		{Type: automation.ChannelTypeBus, Num: 2},
		{Type: automation.ChannelTypeBus, Num: 4},
	}, refs)
}

func TestArmed_ArmDisarm(t *testing.T) {
	a := NewArmed()
	ch1 := ChannelRef{Type: automation.ChannelTypeChannel, Num: 1}
	bus2 := ChannelRef{Type: automation.ChannelTypeBus, Num: 2}

	assert.False(t, a.IsArmed(ch1))

	a.Arm(ch1, bus2)
	assert.True(t, a.IsArmed(ch1))
	assert.True(t, a.IsArmed(bus2))

	a.Arm(ch1) // re-arm is a no-op
	assert.Len(t, a.List(), 2)

	a.Disarm(ch1)
	assert.False(t, a.IsArmed(ch1))
	assert.True(t, a.IsArmed(bus2))

	a.Disarm(ch1) // disarming an unarmed strip is a no-op
	assert.Len(t, a.List(), 1)
}

func TestArmed_ListOrdered(t *testing.T) {
	a := NewArmed()
	a.Arm(
		ChannelRef{Type: automation.ChannelTypeChannel, Num: 3},
		ChannelRef{Type: automation.ChannelTypeBus, Num: 1},
		ChannelRef{Type: automation.ChannelTypeChannel, Num: 1},
	)

	assert.Equal(t, []ChannelRef{
		{Type: automation.ChannelTypeBus, Num: 1},
		{Type: automation.ChannelTypeChannel, Num: 1},
		{Type: automation.ChannelTypeChannel, Num: 3},
	}, a.List())
}
