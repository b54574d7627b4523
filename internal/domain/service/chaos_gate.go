package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rpcsnoop/rpcsnoop/internal/domain/model"
)

// ChaosGate decides, independently per direction, whether to simulate a
// dropped exchange. It owns the single process-wide pseudo-random
// generator; every handler shares one gate.
type ChaosGate struct {
	mu           sync.Mutex
	rng          *rand.Rand
	requestRate  float64
	responseRate float64
	delay        time.Duration
}

// NewChaosGate creates a new ChaosGate instance around the shared generator
func NewChaosGate(rng *rand.Rand, requestRate, responseRate float64, delay time.Duration) *ChaosGate {
	return &ChaosGate{
		rng:          rng,
		requestRate:  requestRate,
		responseRate: responseRate,
		delay:        delay,
	}
}

// ClassifyRequest decides whether the request direction of an exchange
// is dropped. A zero rate never touches the generator, so zero-drop runs
// are deterministic across seeds.
func (g *ChaosGate) ClassifyRequest() model.PacketType {
	if g.requestRate == 0 {
		return model.RequestPacket()
	}
	if g.draw() <= g.requestRate {
		return model.DroppedRequestPacket(g.delay)
	}
	return model.RequestPacket()
}

// ClassifyResponse decides whether the response direction of an exchange
// is dropped, consuming its own draw independent of the request direction
func (g *ChaosGate) ClassifyResponse() model.PacketType {
	if g.responseRate == 0 {
		return model.ResponsePacket()
	}
	if g.draw() <= g.responseRate {
		return model.DroppedResponsePacket(g.delay)
	}
	return model.ResponsePacket()
}

// draw consumes exactly one uniform value in [0,1) from the shared
// generator. The lock is held only for the draw, never across I/O or
// delays, so concurrent exchanges are not serialized behind one another.
func (g *ChaosGate) draw() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64()
}
