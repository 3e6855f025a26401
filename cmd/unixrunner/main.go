// Command unixrunner launches a single child program under enforced
// CPU-time, wall-clock, and memory limits and reports a structured
// verdict about how it terminated. See spec.md for the full contract.
package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/taker-project/unixrunner/internal/pkg/platform/procstat"
	"github.com/taker-project/unixrunner/internal/pkg/rlog"
	"github.com/taker-project/unixrunner/pkg/runner"
)

var (
	debug bool
	quiet bool
	info  bool
)

// runnerInfo is the document printed by -?. Its shape is not part of
// spec.md's core contract (which only requires "a runner-info JSON
// document"); it exists so a driving judge process can discover defaults
// and platform capabilities without hardcoding them.
type runnerInfo struct {
	Name               string   `json:"name"`
	DefaultTimeLimit   float64  `json:"default-time-limit"`
	DefaultIdleLimit   float64  `json:"default-idle-limit"`
	DefaultMemoryLimit float64  `json:"default-memory-limit"`
	LiveSampling       bool     `json:"live-sampling"`
	Statuses           []string `json:"statuses"`
}

func main() {
	// The re-executed child preparation stage is detected before any flag
	// parsing happens: it is invoked with no meaningful argv of its own,
	// only the private stage env var and inherited file descriptors.
	if runner.IsChildStage() {
		runner.RunChildStage()
		return // unreachable: RunChildStage always exits or execs.
	}

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		rlog.Fatalf("%s", err)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "unixrunner",
		Short:         "sandboxed process runner",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}
	addRootFlags(cmd.Flags())
	return cmd
}

// addRootFlags registers the root command's flags directly against a
// *pflag.FlagSet, the way the teacher's pkg/cmdline flag manager operates
// on pflag.FlagSet values rather than going through cobra's convenience
// wrappers alone.
func addRootFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(&info, "info", "?", false, "print runner-info JSON and exit")
	flags.BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	flags.BoolVarP(&quiet, "quiet", "q", false, "suppress informational logging")
}

func runRoot(cmd *cobra.Command, args []string) error {
	rlog.SetDebug(debug)
	rlog.SetQuiet(quiet)

	if info {
		return printRunnerInfo(cmd.OutOrStdout())
	}

	return runOnce(cmd.InOrStdin(), cmd.OutOrStdout())
}

func printRunnerInfo(w io.Writer) error {
	statuses := []string{
		"ok", "time-limit", "idle-limit", "memory-limit", "runtime-error",
		"security-error", "run-fail", "running", "none",
	}
	doc := runnerInfo{
		Name:               "unixrunner",
		DefaultTimeLimit:   runner.DefaultTimeLimit,
		DefaultIdleLimit:   runner.DefaultIdleLimit,
		DefaultMemoryLimit: runner.DefaultMemoryLimit,
		LiveSampling:       procstat.Supported(),
		Statuses:           statuses,
	}
	return json.NewEncoder(w).Encode(doc)
}

// runOnce implements spec.md §6's bare-invocation contract: read one
// Parameters document from r, execute it, write one RunResults document
// to w. It exits 0 even on RUN_FAIL, since the failure is encoded in the
// JSON, not in the process exit status.
func runOnce(r io.Reader, w io.Writer) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	params, err := runner.DecodeParameters(data)
	if err != nil {
		return err
	}

	run := runner.New()
	run.Params = params
	run.Execute()

	results := run.Results()
	enc := json.NewEncoder(w)
	return enc.Encode(results)
}
