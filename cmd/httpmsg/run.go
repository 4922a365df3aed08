package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/adamwoolhether/httpmsg/client"
	"github.com/adamwoolhether/httpmsg/internal/config"
)

// CLI holds the parsed command line.
type CLI struct {
	Config  string            `type:"path" short:"c" help:"Config file (yaml, json or toml)"`
	Base    string            `help:"Base address for relative URIs; overrides the config file and environment"`
	Header  map[string]string `short:"H" help:"Request header as KEY=VALUE, repeatable"`
	Fail    bool              `short:"f" help:"Exit non-zero when the status is not successful"`
	Verbose bool              `short:"v" help:"Log each request at debug level"`

	Method string `arg:"" enum:"get,post,put,patch,delete" help:"One of get, post, put, patch or delete"`
	URI    string `arg:"" help:"Absolute URI, or a path resolved against the base address"`
	Body   string `arg:"" optional:"" help:"Request body sent as-is; '-' reads standard input"`
}

type output struct {
	w      io.Writer
	in     io.Reader
	errW   io.Writer
	pretty bool
}

var methods = map[string]string{
	"get":    http.MethodGet,
	"post":   http.MethodPost,
	"put":    http.MethodPut,
	"patch":  http.MethodPatch,
	"delete": http.MethodDelete,
}

func (cli *CLI) run(ctx context.Context, out output) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}

	if cli.Base != "" {
		cfg.BaseAddress = cli.Base
	}
	if cli.Verbose {
		cfg.LogLevel = "debug"
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(out.errW, &slog.HandlerOptions{Level: level}))

	c, err := client.Build(cfg.ClientOptions(logger)...)
	if err != nil {
		return fmt.Errorf("building client: %w", err)
	}

	method, ok := methods[strings.ToLower(cli.Method)]
	if !ok {
		return fmt.Errorf("unsupported method %q", cli.Method)
	}

	body, err := cli.body(out.in)
	if err != nil {
		return err
	}

	var reqOpts []client.RequestOption
	if len(cli.Header) > 0 {
		reqOpts = append(reqOpts, client.WithHeaders(cli.Header))
	}

	resp, err := c.Send(ctx, method, cli.URI, body, reqOpts...)
	if err != nil {
		return err
	}
	defer resp.Close()

	fmt.Fprintf(out.w, "%d %s\n", resp.StatusCode(), resp.ReasonPhrase())

	if !resp.IsSuccessStatusCode() {
		if cli.Fail {
			return resp.EnsureSuccessStatusCode()
		}
		return nil
	}

	content, err := resp.Content().ReadAsString(ctx)
	if err != nil {
		return err
	}

	if out.pretty && isJSON(resp) {
		content = indent(content)
	}

	if content != "" {
		fmt.Fprintln(out.w, content)
	}

	return nil
}

func (cli *CLI) body(in io.Reader) (any, error) {
	switch cli.Body {
	case "":
		return nil, nil
	case "-":
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}

	return cli.Body, nil
}

func isJSON(resp *client.Response) bool {
	return strings.Contains(strings.ToLower(resp.Content().Headers().Value("content-type")), "json")
}

// indent returns s unchanged when it is not valid JSON.
func indent(s string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
		return s
	}

	return buf.String()
}
