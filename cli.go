package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/supportdesk/agent/a2a"
	"github.com/tanpawarit/supportdesk/agent/agents/data"
	"github.com/tanpawarit/supportdesk/agent/agents/router"
	"github.com/tanpawarit/supportdesk/agent/agents/support"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	"github.com/tanpawarit/supportdesk/agent/store"
	"github.com/tanpawarit/supportdesk/agent/tool"
	configx "github.com/tanpawarit/supportdesk/pkg/config"
	logx "github.com/tanpawarit/supportdesk/pkg/logger"
)

const (
	defaultRouterURL  = "http://localhost:8010"
	defaultDataURL    = "http://localhost:8011"
	defaultSupportURL = "http://localhost:8012"
)

// CLI defines the command-line interface.
type CLI struct {
	Env string `help:"Path to .env file." type:"path"`

	Serve ServeCmd `cmd:"" help:"Run an agent service."`
	Demo  DemoCmd  `cmd:"" help:"Run the canonical scenarios and write a transcript."`
	Seed  SeedCmd  `cmd:"" help:"Create the tables and load sample data."`
}

type ServeCmd struct {
	Router  ServeRouterCmd  `cmd:"" help:"Serve the router agent."`
	Data    ServeDataCmd    `cmd:"" help:"Serve the customer data agent and its MCP endpoint."`
	Support ServeSupportCmd `cmd:"" help:"Serve the support agent."`
	MCP     ServeMCPCmd     `cmd:"" name:"mcp" help:"Serve the customer tools over MCP stdio."`
}

type ServeRouterCmd struct {
	Addr  string `help:"Listen address (default ROUTER_SERVICE_ADDR or :8010)."`
	Local bool   `help:"Run the data and support delegates in process."`
}

func (c *ServeRouterCmd) Run() error {
	ctx, stop := signalContext()
	defer stop()

	r, closeFn, err := buildRouter(ctx, !c.Local)
	if err != nil {
		return err
	}
	defer closeFn()

	handler, err := router.NewHandler(r)
	if err != nil {
		return err
	}
	return serveAgent(ctx, "ROUTER_SERVICE", c.Addr, ":8010", handler, cardInfo{
		id:   "router-agent",
		name: "Router Agent",
		desc: "Primary entry point; routes requests to customer-data and support agents via A2A.",
	})
}

type ServeDataCmd struct {
	Addr string `help:"Listen address (default DATA_SERVICE_ADDR or :8011)."`
}

func (c *ServeDataCmd) Run() error {
	ctx, stop := signalContext()
	defer stop()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	tb, err := tool.New(st)
	if err != nil {
		return err
	}
	local, err := data.NewLocal(tb)
	if err != nil {
		return err
	}
	handler, err := data.NewHandler(local)
	if err != nil {
		return err
	}
	return serveAgent(ctx, "DATA_SERVICE", c.Addr, ":8011", handler, cardInfo{
		id:   "customer-data-agent",
		name: "Customer Data Agent",
		desc: "Looks up and updates customers and tickets.",
	}, a2a.WithMount("/mcp", tool.NewMCPHandler(tb, version)))
}

type ServeSupportCmd struct {
	Addr       string `help:"Listen address (default SUPPORT_SERVICE_ADDR or :8012)."`
	RemoteData bool   `help:"Reach the data agent over A2A instead of the local store."`
}

func (c *ServeSupportCmd) Run() error {
	ctx, stop := signalContext()
	defer stop()

	dataDelegate, closeFn, err := buildData(ctx, c.RemoteData)
	if err != nil {
		return err
	}
	defer closeFn()

	local, err := support.NewLocal(dataDelegate)
	if err != nil {
		return err
	}
	handler, err := support.NewHandler(local)
	if err != nil {
		return err
	}
	return serveAgent(ctx, "SUPPORT_SERVICE", c.Addr, ":8012", handler, cardInfo{
		id:   "support-agent",
		name: "Support Agent",
		desc: "Handles support reasoning, escalations, and ticketing.",
	})
}

type ServeMCPCmd struct{}

func (c *ServeMCPCmd) Run() error {
	// stdout carries the protocol.
	log.Logger = logx.New(os.Stderr, *configx.MustNew[logx.Config]("LOG"))

	ctx, stop := signalContext()
	defer stop()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	tb, err := tool.New(st)
	if err != nil {
		return err
	}
	return server.ServeStdio(tool.NewMCPServer(tb, version))
}

type DemoCmd struct {
	Remote bool   `help:"Send the scenarios to a running router service."`
	Reset  bool   `help:"Reset the local database first (ignored with --remote)."`
	Out    string `help:"Transcript file." default:"demo-transcript.log" type:"path"`
}

var demoScenarios = []string{
	"Get customer information for ID 5",
	"I'm customer 12345 and need help upgrading my account",
	"Show me all active customers who have open tickets",
	"I've been charged twice, please refund immediately!",
	"Update my email to new@email.com\n and show my ticket history",
	"What's the status of all high-priority tickets for premium customers?",
}

func (c *DemoCmd) Run() error {
	ctx, stop := signalContext()
	defer stop()

	svc, closeFn, err := c.service(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	var transcript []string
	for i, scenario := range demoScenarios {
		reply, err := svc.Handle(ctx, scenario)
		if err != nil {
			return fmt.Errorf("scenario %d: %w", i+1, err)
		}
		block := []string{
			fmt.Sprintf("Scenario %d: %s", i+1, scenario),
			"Response: " + reply.Response,
			"A2A Log:",
			reply.Log,
			"",
		}
		fmt.Println(strings.Join(block, "\n"))
		transcript = append(transcript, block...)
	}

	if err := os.WriteFile(c.Out, []byte(strings.Join(transcript, "\n")), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	log.Info().Str("path", c.Out).Int("scenarios", len(demoScenarios)).Msg("demo transcript written")
	return nil
}

func (c *DemoCmd) service(ctx context.Context) (router.Service, func(), error) {
	if c.Remote {
		client, err := readyClient(ctx, "ROUTER_AGENT", defaultRouterURL)
		if err != nil {
			return nil, nil, err
		}
		remote, err := router.NewRemote(client)
		if err != nil {
			return nil, nil, err
		}
		return remote, func() {}, nil
	}

	if c.Reset {
		if err := seedStore(ctx, true); err != nil {
			return nil, nil, err
		}
	}
	r, closeFn, err := buildRouter(ctx, false)
	if err != nil {
		return nil, nil, err
	}
	return r, closeFn, nil
}

type SeedCmd struct {
	Reset bool `help:"Drop and recreate the tables before seeding."`
}

func (c *SeedCmd) Run() error {
	ctx, stop := signalContext()
	defer stop()

	return seedStore(ctx, c.Reset)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openStore connects to the configured store, creates the tables and, unless
// STORE_SEED is false, loads the sample data.
func openStore(ctx context.Context) (*store.BunStore, error) {
	cfg, err := configx.New[store.Config]("STORE")
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, *cfg)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	if cfg.Seed {
		if err := st.Seed(ctx); err != nil {
			st.Close()
			return nil, err
		}
	}
	return st, nil
}

// seedStore loads the sample data regardless of STORE_SEED, dropping every
// table first when reset is set.
func seedStore(ctx context.Context, reset bool) error {
	cfg, err := configx.New[store.Config]("STORE")
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, *cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if reset {
		err = st.Reset(ctx)
	} else {
		err = st.Migrate(ctx)
	}
	if err != nil {
		return err
	}
	if err := st.Seed(ctx); err != nil {
		return err
	}
	log.Info().Bool("reset", reset).Msg("store seeded")
	return nil
}

func buildData(ctx context.Context, remote bool) (contractx.DataDelegate, func(), error) {
	if remote {
		client, err := readyClient(ctx, "DATA_AGENT", defaultDataURL)
		if err != nil {
			return nil, nil, err
		}
		d, err := data.NewRemote(client)
		if err != nil {
			return nil, nil, err
		}
		return d, func() {}, nil
	}

	st, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { _ = st.Close() }
	tb, err := tool.New(st)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	d, err := data.NewLocal(tb)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return d, closeFn, nil
}

func buildRouter(ctx context.Context, remote bool) (*router.Router, func(), error) {
	cfg, err := configx.New[router.Config]("ROUTER")
	if err != nil {
		return nil, nil, err
	}

	dataDelegate, closeFn, err := buildData(ctx, remote)
	if err != nil {
		return nil, nil, err
	}

	var supportDelegate contractx.SupportDelegate
	if remote {
		client, err := readyClient(ctx, "SUPPORT_AGENT", defaultSupportURL)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		supportDelegate, err = support.NewRemote(client)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
	} else {
		supportDelegate, err = support.NewLocal(dataDelegate)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
	}

	r, err := router.New(dataDelegate, supportDelegate, *cfg)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return r, closeFn, nil
}

// readyClient builds a client from the prefix's config and waits for the
// agent to serve its card.
func readyClient(ctx context.Context, prefix, defaultURL string) (*a2a.Client, error) {
	cfg, err := configx.New[a2a.ClientConfig](prefix)
	if err != nil {
		return nil, err
	}
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	client, err := a2a.NewClientFromConfig(*cfg)
	if err != nil {
		return nil, err
	}
	if err := client.WaitUntilReady(ctx, cfg.ReadyAttempts, cfg.ReadyDelay); err != nil {
		return nil, err
	}
	return client, nil
}

type cardInfo struct {
	id, name, desc string
}

func serveAgent(ctx context.Context, prefix, addr, defaultAddr string, handler a2a.MessageHandler, info cardInfo, opts ...a2a.ServerOption) error {
	cfg, err := configx.New[a2a.ServerConfig](prefix)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Addr
	}
	if addr == "" {
		addr = defaultAddr
	}

	card := a2a.NewCard(info.id, info.name, info.desc, version, cfg.PublicURL)
	srv, err := a2a.NewServer(card, handler, opts...)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, addr)
}
