// wbmbox exercises the STM32WB transport mailbox against an in-process
// model of the radio coprocessor: bring the tables up, read the firmware
// descriptors, push HCI commands through and watch events come back.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/rigado/tlmbox"
	"github.com/rigado/tlmbox/stm32wb/ipcc"
	"github.com/rigado/tlmbox/stm32wb/mbox"
	"github.com/rigado/tlmbox/stm32wb/shm"
)

const defaultBase = 0x2003_0000

func main() {
	app := cli.NewApp()
	app.Name = "wbmbox"
	app.Usage = "poke at the STM32WB transport mailbox"
	app.Flags = []cli.Flag{
		cli.UintFlag{Name: "base", Value: defaultBase, Usage: "bus base address of the shared region"},
		cli.BoolFlag{Name: "debug", Usage: "verbose logging"},
	}
	app.Commands = []cli.Command{
		{
			Name:   "info",
			Usage:  "boot the mailbox and print the wireless firmware descriptor",
			Action: runInfo,
		},
		{
			Name:   "reset",
			Usage:  "send HCI Reset and print the command complete",
			Action: runReset,
		},
		{
			Name:  "watch",
			Usage: "drain events for a while and hex-dump them",
			Flags: []cli.Flag{
				cli.DurationFlag{Name: "for", Value: 3 * time.Second},
			},
			Action: runWatch,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type harness struct {
	mem *shm.Region
	m   *mbox.TlMbox
	cp  *copro
}

func bringUp(c *cli.Context) (*harness, error) {
	if c.GlobalBool("debug") {
		tlmbox.SetLogLevelMax()
	}

	base := shm.Addr(c.GlobalUint("base"))
	mem, err := shm.NewRegion(base, mbox.RequiredSize(base))
	if err != nil {
		return nil, errors.Wrap(err, "can't build shared region")
	}

	sim := ipcc.NewSim()
	m, err := mbox.New(mem, sim)
	if err != nil {
		return nil, errors.Wrap(err, "can't init mailbox")
	}

	cp := newCopro(mem, sim, m.Layout())
	cp.boot(0x01_0d_02_05, 0x20_10_00_80)

	return &harness{mem: mem, m: m, cp: cp}, nil
}

func (h *harness) tearDown() {
	h.cp.stop()
	h.mem.Close()
}

func runInfo(c *cli.Context) error {
	h, err := bringUp(c)
	if err != nil {
		return err
	}
	defer h.tearDown()

	fw, ok := h.m.WirelessFwInfo()
	if !ok {
		return errors.New("coprocessor did not boot")
	}

	out := struct {
		Version    string `json:"version"`
		Branch     uint8  `json:"branch"`
		Build      uint8  `json:"build"`
		FlashKB    int    `json:"flash_kb"`
		Sram2aKB   int    `json:"sram2a_kb"`
		Sram2bKB   int    `json:"sram2b_kb"`
		StackInfo  uint32 `json:"stack_info"`
		RawVersion uint32 `json:"raw_version"`
	}{
		Version:    fmt.Sprintf("%d.%d.%d", fw.VersionMajor(), fw.VersionMinor(), fw.Subversion()),
		Branch:     fw.Branch(),
		Build:      fw.Build(),
		FlashKB:    int(fw.FlashSize()) * 4,
		Sram2aKB:   int(fw.Sram2aSize()),
		Sram2bKB:   int(fw.Sram2bSize()),
		StackInfo:  fw.InfoStack,
		RawVersion: fw.Version,
	}

	b, err := jsoniter.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "can't render firmware info")
	}
	fmt.Println(string(b))
	return nil
}

func runReset(c *cli.Context) error {
	h, err := bringUp(c)
	if err != nil {
		return err
	}
	defer h.tearDown()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	// drain the coprocessor-ready notification first
	box, err := h.m.Read(ctx)
	if err != nil {
		return errors.Wrap(err, "no ready notification")
	}
	box.Release()

	if err := h.m.SendBleCmd([]byte{0x03, 0x0c, 0x00}); err != nil {
		return err
	}

	box, err = h.m.Read(ctx)
	if err != nil {
		return errors.Wrap(err, "no response to reset")
	}
	defer box.Release()

	e := box.Event()
	fmt.Printf("event: code 0x%02x, payload % x\n", e.Code(), e.Payload())
	return nil
}

func runWatch(c *cli.Context) error {
	h, err := bringUp(c)
	if err != nil {
		return err
	}
	defer h.tearDown()

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("for"))
	defer cancel()

	for {
		box, err := h.m.Read(ctx)
		if err != nil {
			if errors.Cause(err) == context.DeadlineExceeded {
				return nil
			}
			return err
		}
		e := box.Event()
		fmt.Printf("kind 0x%02x code 0x%02x len %3d  % x\n", e.Kind(), e.Code(), e.PayloadLength(), e.Payload())
		box.Release()
	}
}
