package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/calvinalkan/contentfix/internal/config"
)

const helpFlag = "--help"

var errNoCommand = errors.New("no command provided")

// Run is the main entry point. Returns exit code.
//
// Exit codes: 0 success, 1 errors found or changes pending in check mode,
// 2 usage error or missing required input.
func Run(_ io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globalFlags := flag.NewFlagSet("contentfix", flag.ContinueOnError)
	globalFlags.SetInterspersed(false)
	globalFlags.SetOutput(&strings.Builder{})

	flagHelp := globalFlags.BoolP("help", "h", false, "Show help")
	flagCwd := globalFlags.StringP("cwd", "C", "", "Run as if started in `dir`")
	flagConfig := globalFlags.StringP("config", "c", "", "Use specified config `file`")
	flagVerbose := globalFlags.BoolP("verbose", "v", false, "Log per-file progress to stderr")

	commands := allCommands(&app{})

	if len(args) < 2 {
		printUsage(out, globalFlags, commands)

		return 0
	}

	err := globalFlags.Parse(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printUsage(errOut, globalFlags, commands)

		return ExitUsage
	}

	if *flagHelp {
		printUsage(out, globalFlags, commands)

		return 0
	}

	rest := globalFlags.Args()
	if len(rest) == 0 {
		fprintln(errOut, "error:", errNoCommand)
		fprintln(errOut)
		printUsage(errOut, globalFlags, commands)

		return ExitUsage
	}

	a := &app{}
	byName := make(map[string]*Command)

	for _, c := range allCommands(a) {
		byName[c.Name()] = c
	}

	cmd, ok := byName[rest[0]]
	if !ok {
		fprintln(errOut, "error: unknown command:", rest[0])
		fprintln(errOut)
		printUsage(errOut, globalFlags, commands)

		return ExitUsage
	}

	cmdArgs := rest[1:]
	o := NewIO(out, errOut)

	if hasHelpFlag(cmdArgs) {
		return cmd.Run(context.Background(), o, cmdArgs)
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: *flagCwd,
		ConfigPath:      *flagConfig,
		Env:             env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return ExitUsage
	}

	log := newLogger(errOut, *flagVerbose)
	defer func() { _ = log.Sync() }()

	err = a.init(cfg, log)
	if err != nil {
		fprintln(errOut, "error:", err)

		return ExitUsage
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	code := cmd.Run(ctx, o, cmdArgs)

	o.Finish()

	return code
}

// newLogger returns a no-op logger unless verbose is set, in which case
// debug entries are written to w without timestamps.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zapcore.DebugLevel)

	return zap.New(core)
}

func allCommands(a *app) []*Command {
	return []*Command{
		FmtCmd(a),
		RebuildCmd(a),
		GuardCmd(a),
		ValidateCmd(a),
		AllowlistsCmd(a),
		MigrateCmd(a),
		AutofixCmd(a),
		ASCIICmd(a),
		PrintConfigCmd(a),
	}
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func hasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == helpFlag {
			return true
		}
	}

	return false
}

func printUsage(w io.Writer, globalFlags *flag.FlagSet, commands []*Command) {
	fprintln(w, "contentfix - normalize, repair and validate course content")
	fprintln(w)
	fprintln(w, "Usage: contentfix [flags] <command> [args]")
	fprintln(w)
	fprintln(w, "Global flags:")

	var buf strings.Builder
	globalFlags.SetOutput(&buf)
	globalFlags.PrintDefaults()
	globalFlags.SetOutput(&strings.Builder{})

	_, _ = fmt.Fprint(w, buf.String())

	fprintln(w)
	fprintln(w, "Commands:")

	for _, c := range commands {
		fprintln(w, c.HelpLine())
	}
}
