package probe

import (
	"errors"
	"io/fs"
	"time"

	hserrors "github.com/rileyhilliard/hoststat/internal/errors"
	"github.com/rileyhilliard/hoststat/internal/sample"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/sys/unix"
)

// ticksPerSecond converts gopsutil's float seconds to integer counters.
const ticksPerSecond = 100

// Host implements every probe against the local machine.
type Host struct{}

// NewHost returns a probe for the local machine.
func NewHost() *Host {
	return &Host{}
}

func ticks(seconds float64) uint64 {
	if seconds <= 0 {
		return 0
	}
	return uint64(seconds*ticksPerSecond + 0.5)
}

// CaptureCPU reads the aggregate time-in-state counters.
func (h *Host) CaptureCPU() (sample.CPU, error) {
	times, err := cpu.Times(false)
	if err != nil {
		return sample.CPU{}, hserrors.WrapWithCode(err, hserrors.ErrProbe,
			"Couldn't read CPU counters",
			"On Linux this reads /proc/stat; check that /proc is mounted.")
	}
	if len(times) == 0 {
		return sample.CPU{}, hserrors.New(hserrors.ErrProbe,
			"No aggregate CPU counters reported", "")
	}
	t := times[0]
	return sample.CPU{
		User:    ticks(t.User),
		Nice:    ticks(t.Nice),
		System:  ticks(t.System),
		Idle:    ticks(t.Idle),
		IOWait:  ticks(t.Iowait),
		IRQ:     ticks(t.Irq),
		SoftIRQ: ticks(t.Softirq),
		Steal:   ticks(t.Steal),
	}, nil
}

// Counts returns the logical processor count and the physical core count.
func (h *Host) Counts() (int, int, error) {
	logical, err := cpu.Counts(true)
	if err != nil {
		return 0, 0, hserrors.WrapWithCode(err, hserrors.ErrProbe, "Couldn't count processors", "")
	}
	physical, err := cpu.Counts(false)
	if err != nil || physical == 0 {
		// Some virtualized hosts hide core topology.
		physical = logical
	}
	return logical, physical, nil
}

// CaptureMemory reads physical memory and swap. Virtual figures are physical plus swap.
func (h *Host) CaptureMemory() (sample.Memory, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return sample.Memory{}, hserrors.WrapWithCode(err, hserrors.ErrProbe,
			"Couldn't read memory usage", "")
	}
	m := sample.Memory{
		PhysicalUsed:  vm.Used,
		PhysicalTotal: vm.Total,
		VirtualUsed:   vm.Used,
		VirtualTotal:  vm.Total,
	}

	swap, err := mem.SwapMemory()
	if err == nil {
		m.VirtualUsed += swap.Used
		m.VirtualTotal += swap.Total
	}
	return m, nil
}

// Sessions lists logged-in users. Hosts without a utmp file have no sessions.
func (h *Host) Sessions() ([]Session, error) {
	users, err := host.Users()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, hserrors.WrapWithCode(err, hserrors.ErrProbe,
			"Couldn't list logged-in sessions", "")
	}
	sessions := make([]Session, 0, len(users))
	for _, u := range users {
		sessions = append(sessions, Session{User: u.User, Terminal: u.Terminal, Host: u.Host})
	}
	return sessions, nil
}

// SelfMemoryKB returns the peak resident set size of this process in
// kilobytes (ru_maxrss, which Linux reports in kilobytes).
func (h *Host) SelfMemoryKB() (int64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, hserrors.WrapWithCode(err, hserrors.ErrProbe, "Couldn't read own memory usage", "")
	}
	return int64(ru.Maxrss), nil
}

// SystemInfo reads uname fields and uptime.
func (h *Host) SystemInfo() (SystemInfo, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return SystemInfo{}, hserrors.WrapWithCode(err, hserrors.ErrProbe, "Couldn't read system information", "")
	}
	uptime, err := host.Uptime()
	if err != nil {
		return SystemInfo{}, hserrors.WrapWithCode(err, hserrors.ErrProbe, "Couldn't read system uptime", "")
	}
	return SystemInfo{
		SystemName:   unix.ByteSliceToString(u.Sysname[:]),
		MachineName:  unix.ByteSliceToString(u.Nodename[:]),
		Version:      unix.ByteSliceToString(u.Version[:]),
		Release:      unix.ByteSliceToString(u.Release[:]),
		Architecture: unix.ByteSliceToString(u.Machine[:]),
		Uptime:       time.Duration(uptime) * time.Second,
	}, nil
}
