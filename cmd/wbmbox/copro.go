package main

import (
	"sync"
	"time"

	"github.com/rigado/tlmbox"
	"github.com/rigado/tlmbox/stm32wb/ipcc"
	"github.com/rigado/tlmbox/stm32wb/mbox"
	"github.com/rigado/tlmbox/stm32wb/mbox/evt"
	"github.com/rigado/tlmbox/stm32wb/mbox/ill"
	"github.com/rigado/tlmbox/stm32wb/shm"
)

// copro is a minimal model of the radio coprocessor: it populates the
// device-info table, answers SHCI commands in place, turns every HCI
// command into a command-complete event from the pool, and reclaims
// released buffers. Enough firmware to demo the transport against.
type copro struct {
	mem *shm.Region
	sim *ipcc.Sim
	lay mbox.Layout
	log tlmbox.Logger

	mu   sync.Mutex
	free []shm.Addr

	done chan struct{}
}

const poolBufSize = mbox.PoolSize / mbox.EvtQueueLen

func newCopro(mem *shm.Region, sim *ipcc.Sim, lay mbox.Layout) *copro {
	c := &copro{
		mem:  mem,
		sim:  sim,
		lay:  lay,
		log:  tlmbox.GetLogger().ChildLogger(map[string]interface{}{"pkg": "copro"}),
		done: make(chan struct{}),
	}
	for i := 0; i < mbox.EvtQueueLen; i++ {
		c.free = append(c.free, lay.EvtPool+shm.Addr(i*poolBufSize))
	}
	return c
}

// boot publishes the firmware descriptors and posts the coprocessor-ready
// notification on the system queue.
func (c *copro) boot(version, memorySize uint32) {
	di := c.lay.DeviceInfoTable
	c.mem.SetUint32(di+16, version)
	c.mem.SetUint32(di+20, memorySize)

	// ready notification, delivered from the spare system buffer
	buf := c.lay.SysSpareEvtBuf
	ill.Init(c.mem, buf)
	s := c.mem.Bytes(buf+mbox.PacketHeaderSize, 6)
	s[0] = mbox.KindSysEvt
	s[1] = evt.VendorCode
	s[2] = 3
	s[3] = byte(mbox.ShciSubEvtReady & 0xff)
	s[4] = byte(mbox.ShciSubEvtReady >> 8)
	s[5] = 0 // wireless firmware running
	ill.InsertTail(c.mem, c.lay.SysEvtQueue, buf)
	c.sim.C2Send(mbox.ChanSysEvent)

	go c.serviceLoop()
}

func (c *copro) stop() { close(c.done) }

func (c *copro) serviceLoop() {
	t := time.NewTicker(time.Millisecond)
	defer t.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-t.C:
		}

		if c.sim.C2IsPending(mbox.ChanBleCmd) {
			c.completeBleCmd()
		}
		if c.sim.C2IsPending(mbox.ChanSysCmdRsp) {
			c.completeSysCmd()
		}
		if c.sim.C2IsPending(mbox.ChanMMRelease) {
			c.reclaim()
		}
		if c.sim.C2IsPending(mbox.ChanHciAclData) {
			c.sim.C2Complete(mbox.ChanHciAclData)
		}
	}
}

// completeBleCmd acknowledges the command buffer and emits a successful
// command-complete event carrying the command's opcode.
func (c *copro) completeBleCmd() {
	opcode := c.mem.Uint16(c.lay.BleCmdBuf + mbox.PacketHeaderSize + 1)
	c.sim.C2Complete(mbox.ChanBleCmd)

	buf, ok := c.alloc()
	if !ok {
		c.log.Warn("event pool exhausted, dropping command complete")
		return
	}
	s := c.mem.Bytes(buf+mbox.PacketHeaderSize, 7)
	s[0] = mbox.KindBleEvt
	s[1] = evt.CommandCompleteCode
	s[2] = 4
	s[3] = 1 // allowed command packets
	s[4] = byte(opcode)
	s[5] = byte(opcode >> 8)
	s[6] = 0 // status: success
	ill.InsertTail(c.mem, c.lay.EvtQueue, buf)
	c.sim.C2Send(mbox.ChanBleEvent)
}

// completeSysCmd overwrites the command buffer in place with the response
// event, then frees the channel, which is the host's completion signal.
func (c *copro) completeSysCmd() {
	opcode := c.mem.Uint16(c.lay.SysCmdBuf + mbox.PacketHeaderSize + 1)
	s := c.mem.Bytes(c.lay.SysCmdBuf+mbox.PacketHeaderSize, 7)
	s[0] = mbox.KindSysRsp
	s[1] = evt.CommandCompleteCode
	s[2] = 4
	s[3] = 1
	s[4] = byte(opcode)
	s[5] = byte(opcode >> 8)
	s[6] = 0
	c.sim.C2Complete(mbox.ChanSysCmdRsp)
}

func (c *copro) reclaim() {
	for {
		node, ok := ill.RemoveHead(c.mem, c.lay.FreeBufQueue)
		if !ok {
			break
		}
		if node >= c.lay.EvtPool && node < c.lay.EvtPool+mbox.PoolSize {
			c.mu.Lock()
			c.free = append(c.free, node)
			c.mu.Unlock()
		}
	}
	c.sim.C2Complete(mbox.ChanMMRelease)
}

func (c *copro) alloc() (shm.Addr, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.free) == 0 {
		return 0, false
	}
	buf := c.free[0]
	c.free = c.free[1:]
	ill.Init(c.mem, buf)
	return buf, true
}
