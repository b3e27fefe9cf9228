// Package snowflake issues the time-ordered identifiers used as primary keys
// for groups, memberships and catalogue rows.
package snowflake

import (
	"errors"
	"strconv"
	"sync"
	"time"
)

const (
	// Epoch is 2025-01-01 00:00:00 UTC in milliseconds.
	Epoch int64 = 1735689600000

	NodeBits     uint8 = 10
	SequenceBits uint8 = 12

	MaxNodeID    int64 = -1 ^ (-1 << NodeBits)
	sequenceMask int64 = -1 ^ (-1 << SequenceBits)

	nodeShift = SequenceBits
	timeShift = SequenceBits + NodeBits
)

var (
	ErrInvalidNodeID       = errors.New("snowflake: node id out of range")
	ErrClockMovedBackwards = errors.New("snowflake: clock moved backwards")
)

// Generator is safe for concurrent use.
type Generator struct {
	mu       sync.Mutex
	nodeID   int64
	sequence int64
	lastMS   int64
	now      func() int64
}

// NewGenerator returns a generator for the given node. Each process sharing a
// database must use a distinct node id in [0, MaxNodeID].
func NewGenerator(nodeID int64) (*Generator, error) {
	if nodeID < 0 || nodeID > MaxNodeID {
		return nil, ErrInvalidNodeID
	}
	return &Generator{
		nodeID: nodeID,
		now:    func() int64 { return time.Now().UnixMilli() },
	}, nil
}

// NextID returns the next identifier. IDs from one generator are strictly increasing.
func (g *Generator) NextID() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now()
	if ms < g.lastMS {
		return 0, ErrClockMovedBackwards
	}

	if ms == g.lastMS {
		g.sequence = (g.sequence + 1) & sequenceMask
		if g.sequence == 0 {
			// sequence exhausted for this millisecond
			for ms <= g.lastMS {
				ms = g.now()
			}
		}
	} else {
		g.sequence = 0
	}
	g.lastMS = ms

	return (ms-Epoch)<<timeShift | g.nodeID<<nodeShift | g.sequence, nil
}

// NextString is NextID rendered in base 10, the form stored in string primary keys.
func (g *Generator) NextString() (string, error) {
	id, err := g.NextID()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

// Time returns the creation time encoded in id.
func Time(id int64) time.Time {
	return time.UnixMilli((id >> timeShift) + Epoch)
}

// NodeID returns the node that issued id.
func NodeID(id int64) int64 {
	return (id >> nodeShift) & MaxNodeID
}
