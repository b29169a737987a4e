// Package profiling adds --cpu-profile, --mem-profile and --timing to a
// cobra command tree.
package profiling

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"
)

// Profiler owns the profiling flags of one command run.
type Profiler struct {
	cpuProfilePath string
	memProfilePath string
	timing         bool

	cpuProfileFile *os.File
	timer          *Timer
}

// New returns a profiler that records timings into t.
func New(t *Timer) *Profiler {
	return &Profiler{timer: t}
}

// AddFlags registers the profiling flags on cmd and chains the
// PersistentPreRunE/PersistentPostRunE hooks.
func (p *Profiler) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&p.cpuProfilePath, "cpu-profile", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&p.memProfilePath, "mem-profile", "", "Write memory profile to file")
	cmd.PersistentFlags().BoolVar(&p.timing, "timing", false, "Print a timing summary on exit")

	pre, post := cmd.PersistentPreRunE, cmd.PersistentPostRunE
	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		if pre != nil {
			if err := pre(c, args); err != nil {
				return err
			}
		}
		return p.Start()
	}
	cmd.PersistentPostRunE = func(c *cobra.Command, args []string) error {
		err := p.Stop(c.ErrOrStderr())
		if post != nil {
			if perr := post(c, args); perr != nil && err == nil {
				err = perr
			}
		}
		return err
	}
}

// Start enables the timer and starts CPU profiling as requested by the flags.
func (p *Profiler) Start() error {
	if p.timing {
		p.timer.Enable()
	}
	if p.cpuProfilePath == "" {
		return nil
	}

	f, err := os.Create(p.cpuProfilePath)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("could not start CPU profile: %w", err)
	}
	p.cpuProfileFile = f
	return nil
}

// Stop writes the requested profiles and prints the timing summary to w.
func (p *Profiler) Stop(w io.Writer) error {
	if p.cpuProfileFile != nil {
		pprof.StopCPUProfile()
		p.cpuProfileFile.Close()
		p.cpuProfileFile = nil
		fmt.Fprintf(w, "CPU profile written to %s\n", p.cpuProfilePath)
	}

	if p.memProfilePath != "" {
		f, err := os.Create(p.memProfilePath)
		if err != nil {
			return fmt.Errorf("could not create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("could not write memory profile: %w", err)
		}
		fmt.Fprintf(w, "Memory profile written to %s\n", p.memProfilePath)
	}

	if p.timing {
		p.timer.Summarize(w)
	}
	return nil
}
