package emitter

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/packet-garden-go/internal/packets"
	"github.com/lk2023060901/packet-garden-go/pkg/util/merr"
)

type ManagerSuite struct {
	suite.Suite

	manager *Manager
}

func (s *ManagerSuite) SetupTest() {
	s.manager = NewManager()
}

func (s *ManagerSuite) newEmitter(id uint64) (*Emitter, *sink) {
	client, server := net.Pipe()
	out := newSink(server)

	e := New(context.Background(), id, client)
	s.T().Cleanup(func() {
		e.Close()
		server.Close()
	})
	return e, out
}

func (s *ManagerSuite) TestRegisterAndGet() {
	e, _ := s.newEmitter(1)
	s.NoError(s.manager.Register(e))
	s.Equal(1, s.manager.Count())

	got, ok := s.manager.Get(1)
	s.True(ok)
	s.Equal(e, got)

	_, ok = s.manager.Get(2)
	s.False(ok)
}

func (s *ManagerSuite) TestRegisterDuplicate() {
	e1, _ := s.newEmitter(1)
	e2, _ := s.newEmitter(1)

	s.NoError(s.manager.Register(e1))
	s.ErrorIs(s.manager.Register(e2), merr.ErrEmitterDuplicate)
	s.Equal(1, s.manager.Count())

	// 注册失败不应覆盖已有发送器。
	got, _ := s.manager.Get(1)
	s.Equal(e1, got)
}

func (s *ManagerSuite) TestUnregister() {
	e, _ := s.newEmitter(1)
	s.NoError(s.manager.Register(e))

	s.NoError(s.manager.Unregister(1))
	s.Equal(0, s.manager.Count())
	s.ErrorIs(s.manager.Unregister(1), merr.ErrEmitterNotFound)
}

func (s *ManagerSuite) TestRange() {
	for id := uint64(1); id <= 3; id++ {
		e, _ := s.newEmitter(id)
		s.NoError(s.manager.Register(e))
	}

	seen := make(map[uint64]bool)
	s.manager.Range(func(e *Emitter) bool {
		seen[e.ID()] = true
		return true
	})
	s.Len(seen, 3)

	visited := 0
	s.manager.Range(func(e *Emitter) bool {
		visited++
		return false
	})
	s.Equal(1, visited)
}

func (s *ManagerSuite) TestBroadcast() {
	e1, out1 := s.newEmitter(1)
	e2, out2 := s.newEmitter(2)
	e3, out3 := s.newEmitter(3)
	s.NoError(s.manager.Register(e1))
	s.NoError(s.manager.Register(e2))
	s.NoError(s.manager.Register(e3))

	payload := []byte{0x0a, 0x0b}
	s.NoError(s.manager.Broadcast(packets.NewRawBuilder(payload), 2))

	s.Eventually(func() bool {
		return len(out1.bytes()) == len(payload) && len(out3.bytes()) == len(payload)
	}, time.Second, 5*time.Millisecond)
	s.Empty(out2.bytes())
}

func (s *ManagerSuite) TestCloseAll() {
	e1, _ := s.newEmitter(1)
	e2, _ := s.newEmitter(2)
	s.NoError(s.manager.Register(e1))
	s.NoError(s.manager.Register(e2))

	s.NoError(s.manager.CloseAll())
	s.Equal(0, s.manager.Count())

	for _, e := range []*Emitter{e1, e2} {
		select {
		case <-e.Context().Done():
		default:
			s.Failf("emitter not closed", "emitter %d", e.ID())
		}
	}
}

func TestManager(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}
