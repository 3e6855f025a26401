package runner

import "os"

// stageEnvVar flags a re-executed process as the runner's own child
// preparation stage rather than a normal invocation of this binary.
//
// Go cannot run arbitrary code between a raw fork() and exec() the way
// spec.md §4.3 describes (the runtime's own fork-safety rules forbid it
// once goroutines exist); the idiomatic substitute, used throughout the
// sandboxing/container ecosystem this repo's teacher comes from, is to
// re-exec the same binary into a disposable "child stage" that performs
// the prep steps as ordinary, fully-safe post-exec Go code and then
// itself execs the real target. stageEnvVar is how the re-executed
// process recognizes that role; it is stripped from the environment
// before the target is execed so it can never leak into it (see
// child_unix.go).
const stageEnvVar = "__UNIXRUNNER_STAGE2"

// stageSpecFD and stageFailFD are the file descriptor numbers the spec
// pipe and failure pipe land on inside the re-executed child stage,
// passed down via exec.Cmd.ExtraFiles.
const (
	stageSpecFD = 3
	stageFailFD = 4
)

// IsChildStage reports whether the current process was invoked as the
// runner's own re-exec child stage, as opposed to a normal invocation.
// cmd/unixrunner checks this before doing anything else.
func IsChildStage() bool {
	return os.Getenv(stageEnvVar) == "1"
}

// RunChildStage performs spec.md §4.3's child preparation in the current
// process and, on success, never returns: it replaces the process image
// with the target program. On failure it reports the error down the
// failure pipe and exits with status 42, also never returning.
//
// It must only be called when IsChildStage reports true.
func RunChildStage() {
	runChildStage()
}
