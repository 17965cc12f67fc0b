// Package cli is the terminal front end: it parses commands, calls the services and
// renders their results as tables.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/SAP-F-2025/kambaz-client/internal/events"
	"github.com/SAP-F-2025/kambaz-client/internal/services"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	// ErrHelp is returned after usage was printed
	ErrHelp = errors.New("help provided")
)

type CommandLine struct {
	svc services.ServiceManager
	bus events.EventSubscriber
	out io.Writer
	in  *bufio.Reader
	now func() time.Time
}

// New builds a command line over svc. bus may be nil, in which case watch is
// unavailable.
func New(svc services.ServiceManager, bus events.EventSubscriber, in io.Reader, out io.Writer) *CommandLine {
	return &CommandLine{
		svc: svc,
		bus: bus,
		out: out,
		in:  bufio.NewReader(in),
		now: time.Now,
	}
}

// failure carries the message a failed command shows the user
type failure struct {
	err      error
	fallback string
}

func (f *failure) Error() string { return services.UserMessage(f.err, f.fallback) }
func (f *failure) Unwrap() error { return f.err }

func fail(err error, fallback string) error {
	if err == nil {
		return nil
	}
	return &failure{err: err, fallback: fallback}
}

func (cli *CommandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  signin [-username U] [-password P]          - sign in, the password is prompted when omitted")
	fmt.Fprintln(cli.out, "  signup -username U [-role R] [-first F] ... - create an account and sign in")
	fmt.Fprintln(cli.out, "  signout                                     - end the session")
	fmt.Fprintln(cli.out, "  whoami                                      - show the signed in user")
	fmt.Fprintln(cli.out, "  profile [-first F] [-last L] [-email E] [-dob D]")
	fmt.Fprintln(cli.out, "  quizzes -course C [-sort name|dueDate|availableDate] [-desc]")
	fmt.Fprintln(cli.out, "  quiz show|new|edit|questions|publish|delete|copy ...")
	fmt.Fprintln(cli.out, "  attempts -quiz Q                            - your attempts and whether you may start another")
	fmt.Fprintln(cli.out, "  export -course C|-quiz Q -out FILE.xlsx")
	fmt.Fprintln(cli.out, "  watch -course C [-interval D] [-n N]        - refresh the quiz list and print store events")
}

// Run executes one command. args does not include the program name. The session
// probe runs first so every command sees the backend's view of the session.
func (cli *CommandLine) Run(ctx context.Context, args []string) error {
	if len(args) < 1 {
		cli.printUsage()
		return ErrHelp
	}

	cli.svc.Account().Bootstrap(ctx)

	switch args[0] {
	case "signin":
		return cli.signIn(ctx, args[1:])
	case "signup":
		return cli.signUp(ctx, args[1:])
	case "signout":
		cli.svc.Account().SignOut(ctx)
		fmt.Fprintln(cli.out, "Signed out")
		return nil
	case "whoami":
		return cli.whoAmI()
	case "profile":
		return cli.profile(ctx, args[1:])
	case "quizzes":
		return cli.listQuizzes(ctx, args[1:])
	case "quiz":
		return cli.quiz(ctx, args[1:])
	case "attempts":
		return cli.attempts(ctx, args[1:])
	case "export":
		return cli.export(ctx, args[1:])
	case "watch":
		return cli.watch(ctx, args[1:])
	default:
		cli.printUsage()
		return ErrHelp
	}
}

func (cli *CommandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ErrHelp
		}
		return err
	}
	return nil
}

// requireFlag prints usage and returns ErrHelp when value is blank
func requireFlag(fs *flag.FlagSet, value string) error {
	if strings.TrimSpace(value) == "" {
		fs.Usage()
		return ErrHelp
	}
	return nil
}

func (cli *CommandLine) prompt(label string) (string, error) {
	fmt.Fprint(cli.out, label)
	line, err := cli.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (cli *CommandLine) promptPassword(label string) (string, error) {
	fmt.Fprint(cli.out, label)
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
