// Command admin manages admin accounts and inspects the message inbox from
// the command line.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/logging"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/service"
	"golang.org/x/term"
)

const minPasswordLength = 12

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one command and returns the process exit code, so deferred
// cleanup happens before exit.
func run(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "help", "-h", "--help":
		printUsage()
		return 0
	}

	cfg, err := config.Load(".env", "../.env")
	if err != nil {
		color.Red("Error: %v\n", err)
		return 1
	}
	// CLI output goes to the terminal; keep structured logs for warnings only
	logging.SetupWriter(os.Stderr, "WARN")

	if cfg.StoreDriver == config.DriverMemory {
		color.Red("Error: the admin CLI needs STORE_DRIVER=postgres\n")
		return 1
	}

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		color.Red("Error: connect database: %v\n", err)
		return 1
	}
	defer pool.Close()

	authService := service.NewAuthService(repository.NewPgAdminUserRepository(pool))
	messageService := service.NewMessageService(repository.NewPgMessageRepository(pool))
	sessionService := service.NewSessionService(repository.NewPgSessionRepository(pool), cfg.SessionTTL)

	switch cmd {
	case "create-admin":
		err = cmdCreateAdmin(ctx, authService, args, stdinPasswords(), os.Stdout)
	case "list-messages":
		err = cmdListMessages(ctx, messageService)
	case "delete-message":
		err = cmdDeleteMessage(ctx, messageService, args)
	case "purge-sessions":
		err = cmdPurgeSessions(ctx, sessionService)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		return 1
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage() {
	yellow := color.New(color.FgYellow)

	fmt.Println("Usage: admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  create-admin <email>     Create an admin account (password from ADMIN_PASSWORD or prompt)")
	fmt.Println("  list-messages            List inbox messages, newest first")
	fmt.Println("  delete-message <id>      Delete one message")
	fmt.Println("  purge-sessions           Delete expired admin sessions")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  DATABASE_URL             PostgreSQL connection string")
	fmt.Println("  ADMIN_PASSWORD           Password for create-admin (skips the prompt)")
	fmt.Println()
}

// passwordSource is where create-admin gets the password from, in order:
// env, then prompt when set, then the first line of in.
type passwordSource struct {
	env    string
	in     io.Reader
	prompt func(label string) ([]byte, error)
}

// stdinPasswords reads ADMIN_PASSWORD, and prompts without echo when stdin
// is a terminal.
func stdinPasswords() passwordSource {
	src := passwordSource{env: os.Getenv("ADMIN_PASSWORD"), in: os.Stdin}
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		src.prompt = func(label string) ([]byte, error) {
			fmt.Print(label)
			b, err := term.ReadPassword(fd)
			fmt.Println()
			return b, err
		}
	}
	return src
}

// readPassword asks twice when prompting. Piped input is read as one line.
func readPassword(src passwordSource) (string, error) {
	if src.env != "" {
		return src.env, nil
	}

	if src.prompt == nil {
		line, err := bufio.NewReader(src.in).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	first, err := src.prompt("Password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	second, err := src.prompt("Confirm:  ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

func cmdCreateAdmin(ctx context.Context, authService service.AuthService, args []string, src passwordSource, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("usage: admin create-admin <email>")
	}
	email := strings.TrimSpace(args[0])
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%q is not an email address", email)
	}

	password, err := readPassword(src)
	if err != nil {
		return err
	}
	if len([]rune(password)) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	u, err := authService.CreateAdmin(ctx, email, password)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return fmt.Errorf("an admin with email %s already exists", email)
	}
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	fmt.Fprintln(out)
	green.Fprintln(out, "  Admin created")
	fmt.Fprint(out, "  ID:    ")
	cyan.Fprintln(out, u.ID)
	fmt.Fprint(out, "  Email: ")
	cyan.Fprintln(out, u.Email)
	fmt.Fprintln(out)
	return nil
}

func cmdListMessages(ctx context.Context, messageService service.MessageService) error {
	msgs, err := messageService.List(ctx)
	if err != nil {
		return fmt.Errorf("list messages: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Printf("  Messages (%d)\n", len(msgs))
	cyan.Println("  ------------")

	if len(msgs) == 0 {
		fmt.Println("  No messages yet")
		fmt.Println()
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Received", "Name", "Email", "Message"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	for _, m := range msgs {
		table.Append([]string{
			m.ID,
			m.CreatedAt.Local().Format("Jan 02 15:04"),
			truncate(m.Name, 20),
			truncate(m.Email, 28),
			truncate(oneLine(m.Message), 40),
		})
	}
	table.Render()
	fmt.Println()
	return nil
}

func cmdDeleteMessage(ctx context.Context, messageService service.MessageService, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: admin delete-message <id>")
	}
	if err := messageService.Delete(ctx, args[0]); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("message %s not found", args[0])
		}
		return err
	}
	color.Green("Deleted message %s\n", args[0])
	return nil
}

func cmdPurgeSessions(ctx context.Context, sessionService *service.SessionService) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	n, err := sessionService.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	color.Green("Purged %d expired session(s)\n", n)
	return nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
