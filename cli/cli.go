// Copyright 2026 The rc9 Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli registers and dispatches the namespace builtins. A host
// shell embeds the subsystem through Run; Main drives the standalone rc9
// binary.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"rc9.dev/rc9/builtins"
	"rc9.dev/rc9/config"
	"rc9.dev/rc9/pkg/shell"
)

// commands returns fresh instances of every builtin. Instances carry
// parsed flag state, so they are never reused across invocations.
func commands() []subcommands.Command {
	return []subcommands.Command{
		&builtins.Bind{},
		&builtins.Mount{},
		&builtins.Unmount{},
		&builtins.Ns{},
		&builtins.Cpu{},
		&builtins.Import{},
		&builtins.Srv{},
		&builtins.Rfork{},
		&builtins.Addns{},
	}
}

// Names returns the builtin names, for host shells deciding whether a
// command word belongs to this subsystem.
func Names() []string {
	var names []string
	for _, c := range commands() {
		names = append(names, c.Name())
	}
	return names
}

// valueFlags lists, per builtin, the single-character flags that consume
// a value and therefore end a flag cluster.
var valueFlags = map[string]string{
	"mount": "s",
	"cpu":   "hu",
}

// Expand splits clustered single-character flags the POSIX way, so
// "bind -ac from to" parses like "bind -a -c from to". The first operand
// ends flag processing; everything after it passes through untouched,
// keeping dashes in delegated command lines (cpu host ls -la) intact.
func Expand(name string, args []string) []string {
	valued := valueFlags[name]
	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if len(arg) < 2 || arg[0] != '-' || arg[1] == '-' {
			out = append(out, args[i:]...)
			return out
		}
		cluster := arg[1:]
		for j := 0; j < len(cluster); j++ {
			ch := cluster[j]
			out = append(out, "-"+string(ch))
			if strings.IndexByte(valued, ch) < 0 {
				continue
			}
			// A valued flag takes the rest of the cluster as its
			// value, or the next argument.
			if j+1 < len(cluster) {
				out = append(out, cluster[j+1:])
			} else if i+1 < len(args) {
				i++
				out = append(out, args[i])
			}
			break
		}
	}
	return out
}

// Run executes a single builtin invocation on behalf of a host shell.
// argv[0] names the builtin; the boolean result reports whether the name
// was ours at all. The builtin's outcome reaches the host through its
// status sink as well as the returned exit status.
func Run(ctx context.Context, c *builtins.Context, argv []string) (subcommands.ExitStatus, bool) {
	if len(argv) == 0 {
		return subcommands.ExitUsageError, false
	}
	var cmd subcommands.Command
	for _, cand := range commands() {
		if cand.Name() == argv[0] {
			cmd = cand
			break
		}
	}
	if cmd == nil {
		return subcommands.ExitUsageError, false
	}

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(c.Shell.Diag)
	fs.Usage = func() {
		c.Shell.Diagf("usage: %s", strings.TrimSpace(cmd.Usage()))
	}
	cmd.SetFlags(fs)
	if err := fs.Parse(Expand(cmd.Name(), argv[1:])); err != nil {
		c.Shell.Status.Set(false)
		return subcommands.ExitUsageError, true
	}
	return cmd.Execute(ctx, fs, c), true
}

// Main is the entry point of the standalone rc9 binary. It returns the
// process exit code.
func Main() int {
	logrus.SetOutput(os.Stderr)
	if os.Getenv("RC9_DEBUG") != "" {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	conf, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	sh := shell.New()
	c := builtins.NewContext(conf, sh)

	for _, cmd := range commands() {
		subcommands.Register(cmd, "namespace")
	}
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	flag.Parse()

	// Re-parse with flag clusters split so the builtins see POSIX-style
	// combined flags the same way an embedding shell would.
	if args := flag.Args(); len(args) > 1 {
		flag.CommandLine.Parse(append([]string{args[0]}, Expand(args[0], args[1:])...))
	}

	es := subcommands.Execute(context.Background(), c)
	if es == subcommands.ExitUsageError {
		return 2
	}
	// Delegated commands (cpu) report their real exit code through the
	// status sink; prefer it over the coarse subcommands status.
	if st, ok := sh.Status.(*shell.ExitStatus); ok {
		return st.Code
	}
	return int(es)
}
