package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/smallest-ai/kb-mcp-server/internal/config"
	"github.com/smallest-ai/kb-mcp-server/internal/exercise"
	"github.com/smallest-ai/kb-mcp-server/internal/logging"
)

type settings struct {
	command      string
	args         []string
	setupTimeout time.Duration
	stdout       io.Writer
	stderr       io.Writer
	exercise     exercise.Options
}

func main() {
	s := settings{
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		exercise: exercise.DefaultOptions(),
	}

	root := &cobra.Command{
		Use:   "test-client",
		Short: "Spawn the MCP server over stdio and exercise every knowledge base tool",
		Run: func(cmd *cobra.Command, args []string) {
			logger := logging.New(logging.LevelLogger(config.LogLevel())).WithName("test-client")
			s.exercise.Logger = logger
			os.Exit(run(cmd.Context(), logger, s))
		},
	}

	root.PersistentFlags().String(config.KeyLogLevel, "info", "Log level (debug, info, warn, error)")
	root.Flags().StringVar(&s.command, "server-command", "go", "Command that starts the MCP server")
	root.Flags().StringSliceVar(&s.args, "server-args", []string{"run", "./cmd/mcp-server"}, "Arguments for --server-command")
	root.Flags().DurationVar(&s.setupTimeout, "setup-timeout", 30*time.Second, "How long to wait for the server to accept the session")
	root.Flags().DurationVar(&s.exercise.CallTimeout, "call-timeout", s.exercise.CallTimeout, "Upper bound for each tool call")
	root.Flags().StringVar(&s.exercise.Name, "kb-name", s.exercise.Name, "Name of the knowledge base to create")
	root.Flags().StringVar(&s.exercise.Description, "kb-description", s.exercise.Description, "Description of the knowledge base to create")
	root.Flags().StringVarP(&s.exercise.Format, "output", "o", exercise.FormatJSON, "Result format: json or yaml")

	config.Init(root)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run returns the process exit code: 1 when the server cannot be reached,
// 0 otherwise, whatever the individual tool results were.
func run(ctx context.Context, logger logging.Logger, s settings) int {
	fmt.Fprintln(s.stdout, "Starting MCP test client...")

	// The server inherits this process environment, so BASE_URL and API_KEY
	// flow through unchanged.
	c, err := client.NewStdioMCPClient(s.command, nil, s.args...)
	if err != nil {
		logger.Error(err, "failed to start MCP server", "command", s.command, "args", s.args)
		return 1
	}
	defer c.Close()
	stderrDone := forwardStderr(c, s.stderr)

	fmt.Fprintln(s.stdout, "Connecting to MCP server...")
	if err := initialize(ctx, c, s.setupTimeout); err != nil {
		// Give the server's own explanation a moment to reach stderr.
		select {
		case <-stderrDone:
		case <-time.After(time.Second):
		}
		logger.Error(err, "failed to initialize MCP session", "command", s.command)
		return 1
	}
	fmt.Fprintln(s.stdout, "Connected successfully!")

	if err := exercise.Run(ctx, c, s.stdout, s.exercise); err != nil {
		logger.Error(err, "exercise run aborted")
	}

	fmt.Fprintln(s.stdout, "\nTest completed!")
	return 0
}

func initialize(ctx context.Context, c *client.Client, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: "test-client", Version: "1.0.0"}
	_, err := c.Initialize(ctx, req)
	return err
}

// forwardStderr copies the server's stderr to w until the server closes it.
// The returned channel is closed once the copy ends.
func forwardStderr(c *client.Client, w io.Writer) <-chan struct{} {
	done := make(chan struct{})
	stdio, ok := c.GetTransport().(*transport.Stdio)
	if !ok {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		_, _ = io.Copy(w, stdio.Stderr())
	}()
	return done
}
