package worker

import (
	"os"

	"github.com/moby/sys/reexec"
	"github.com/rileyhilliard/hoststat/internal/logger"
	"github.com/rileyhilliard/hoststat/internal/sample"
	"github.com/spf13/pflag"
)

// File descriptors a worker process inherits from the supervisor, in the
// order of exec.Cmd.ExtraFiles.
const (
	CommandFD  = 3
	ResultFD   = 4
	DoorbellFD = 5
)

// EntryName is the reexec name a worker of kind k is started under.
func EntryName(k sample.Kind) string {
	return "hoststat-worker-" + k.String()
}

// Args renders worker options as command-line arguments for a worker process.
func Args(opts Options) []string {
	if opts.Graphics {
		return []string{"--graphics"}
	}
	return nil
}

// Register installs the worker entrypoints with reexec. It must run before
// reexec.Init, and only once per process.
func Register(newProbes func() Probes) {
	for _, k := range sample.Kinds {
		kind := k
		reexec.Register(EntryName(kind), func() {
			os.Exit(childMain(kind, newProbes(), os.Args[1:]))
		})
	}
}

// childMain is the body of a worker process. It returns the exit status.
func childMain(kind sample.Kind, probes Probes, args []string) int {
	log := logger.NewEnvLogger("[worker:" + kind.String() + "]")

	flags := pflag.NewFlagSet(EntryName(kind), pflag.ContinueOnError)
	graphics := flags.Bool("graphics", false, "append graphics to formatted rows")
	if err := flags.Parse(args); err != nil {
		log.Error("bad arguments: %v", err)
		return 2
	}

	computer, err := NewComputer(kind, probes, Options{Graphics: *graphics})
	if err != nil {
		log.Error("%v", err)
		return 2
	}

	commands := os.NewFile(CommandFD, "commands")
	results := os.NewFile(ResultFD, "results")
	doorbell := os.NewFile(DoorbellFD, "doorbell")
	defer commands.Close()
	defer results.Close()
	defer doorbell.Close()

	log.Debug("started")
	if err := NewHarness(computer, commands, results, doorbell, log).Serve(); err != nil {
		log.Error("%s", Summarize(err))
		return 1
	}
	return 0
}
