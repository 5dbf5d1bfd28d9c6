package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
)

// Environment variables passing the global flags to extensions.
const (
	EnvNarrative = "MCS_NARRATIVE"
	EnvVerbose   = "MCS_VERBOSE"
)

// extensionEnv returns the environment of an extension: the current one plus
// the global flags.
func extensionEnv() []string {
	env := os.Environ()
	if *narrativeFile != "" {
		env = append(env, EnvNarrative+"="+*narrativeFile)
	}
	env = append(env, EnvVerbose+"="+strconv.FormatBool(*Verbose))
	if *eodhdAPIKey != "" {
		env = append(env, eodhdAPIKeyEnv+"="+*eodhdAPIKey)
	}
	return env
}

// RunExtension attempts to find and execute an external mcs-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "mcs-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		log.Printf("External command %q not found in PATH: %v", name, err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = extensionEnv()

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
