package workers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type discardDeliverer struct{}

func (discardDeliverer) Deliver([]byte) {}

func TestStartNATSRelay_Unreachable(t *testing.T) {
	relay, err := StartNATSRelay("nats://127.0.0.1:1", "slam.live", discardDeliverer{})
	assert.Error(t, err)
	assert.Nil(t, relay)
}
