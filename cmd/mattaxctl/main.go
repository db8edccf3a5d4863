package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/mattaxpro/client-go/internal/api"
	"github.com/mattaxpro/client-go/internal/api/dto"
	"github.com/mattaxpro/client-go/internal/authz"
	"github.com/mattaxpro/client-go/internal/config"
	"github.com/mattaxpro/client-go/internal/domain"
	"github.com/mattaxpro/client-go/internal/events"
	"github.com/mattaxpro/client-go/internal/guard"
	"github.com/mattaxpro/client-go/internal/observability"
	"github.com/mattaxpro/client-go/internal/session"
)

const usage = `Usage: mattaxctl <command> [flags]

Commands:
  login        sign in and store the access token
  logout       sign out and clear the stored token
  whoami       show the decoded session
  tx           list transactions (-page, -limit, -bin)
  accountants  list authorization requests
  request      request accountant access (-accountant)
  approve      approve a pending request (-id)
  reject       reject a pending request (-id)
  revoke       revoke approved access (-id)
  watch        poll authorization status until interrupted
`

type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	store      session.Store
	client     *api.Client
	guard      *guard.Guard
	dispatcher events.Dispatcher
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	dispatcher := events.NewInMemoryDispatcher()
	store := session.NewFileStore(cfg.Session.TokenPath, dispatcher)

	a := &app{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		dispatcher: dispatcher,
		guard:      guard.New(store, logger),
	}
	a.client = api.New(api.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.RequestTimeout(),
		Store:   store,
		Logger:  logger,
		OnUnauthorized: func(context.Context) {
			fmt.Fprintf(os.Stderr, "Session expired; sign in again at %s\n", cfg.API.LoginPath)
		},
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch args[0] {
	case "login":
		return a.login(ctx, args[1:])
	case "logout":
		return a.client.Logout(ctx)
	case "whoami":
		return a.whoami()
	case "tx":
		return a.transactions(ctx, args[1:])
	case "accountants":
		return a.accountants(ctx)
	case "request":
		return a.request(ctx, args[1:])
	case "approve":
		return a.decide(ctx, "approve", args[1:])
	case "reject":
		return a.decide(ctx, "reject", args[1:])
	case "revoke":
		return a.revoke(ctx, args[1:])
	case "watch":
		return a.watch(ctx)
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	passwordFlag := fs.String("password", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("missing required flag: -email")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimSpace(string(raw))
	}

	sess, err := a.client.Login(ctx, dto.LoginRequest{Email: *email, Password: password})
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s)\n", sess.SubjectID, sess.Role)
	return nil
}

func (a *app) whoami() error {
	sess, err := session.CurrentSession(a.store)
	if err != nil {
		return fmt.Errorf("not signed in: %w", err)
	}
	dashboard, err := domain.DashboardFor(sess.Role)
	if err != nil {
		return err
	}
	fmt.Printf("subject: %s\nrole: %s\ndashboard: %s\nroutes:", sess.SubjectID, sess.Role, dashboard)
	for _, r := range sess.AllowedRoutes {
		fmt.Printf(" %s", r)
	}
	fmt.Println()
	return nil
}

func (a *app) transactions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tx", flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 20, "page size")
	bin := fs.Bool("bin", false, "list the soft-delete bin instead")
	if err := fs.Parse(args); err != nil {
		return err
	}

	route := domain.RouteTransactions
	if *bin {
		route = domain.RouteBin
	}
	if _, ok := a.enforce(route); !ok {
		return nil
	}

	params := dto.ListTransactionsParams{Page: *page, Limit: *limit}
	var result *dto.PaginatedTransactions
	var err error
	if *bin {
		result, err = a.client.ListBin(ctx, params)
	} else {
		result, err = a.client.ListTransactions(ctx, params)
	}
	if err != nil {
		return err
	}

	for _, tx := range result.Items {
		marker := " "
		if tx.Deleted {
			marker = "D"
		}
		fmt.Printf("%s %-24s %8.2f %-8s %s\n", marker, tx.ID, tx.Amount, tx.Type, tx.Note)
	}
	fmt.Printf("page %d/%d (%d items)\n", result.Page, result.TotalPages, result.TotalItems)
	return nil
}

func (a *app) accountants(ctx context.Context) error {
	ctrl, err := a.controller()
	if err != nil {
		return err
	}
	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}
	for _, rec := range ctrl.Snapshot() {
		fmt.Printf("%-24s accountant=%-16s status=%s\n", rec.ID, rec.AccountantID, rec.Status)
	}
	return nil
}

func (a *app) request(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("request", flag.ContinueOnError)
	accountant := fs.String("accountant", "", "accountant id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *accountant == "" {
		return fmt.Errorf("missing required flag: -accountant")
	}

	ctrl, err := a.controller()
	if err != nil {
		return err
	}
	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}
	outcome, err := ctrl.RequestAuthorization(ctx, *accountant)
	if err != nil {
		return err
	}
	fmt.Println(outcome.Message)
	return nil
}

func (a *app) decide(ctx context.Context, verb string, args []string) error {
	fs := flag.NewFlagSet(verb, flag.ContinueOnError)
	id := fs.String("id", "", "authorization request id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("missing required flag: -id")
	}
	if !confirm(fmt.Sprintf("%s request %s?", verb, *id)) {
		fmt.Println("aborted")
		return nil
	}

	ctrl, err := a.controller()
	if err != nil {
		return err
	}
	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}
	outcome := "approved"
	if verb == "approve" {
		err = ctrl.Approve(ctx, *id)
	} else {
		err = ctrl.Reject(ctx, *id)
		outcome = "rejected"
	}
	if err != nil {
		return err
	}
	fmt.Printf("request %s %s\n", *id, outcome)
	return nil
}

func (a *app) revoke(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("revoke", flag.ContinueOnError)
	id := fs.String("id", "", "authorization request id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("missing required flag: -id")
	}
	if !confirm(fmt.Sprintf("revoke access for request %s?", *id)) {
		fmt.Println("aborted")
		return nil
	}

	ctrl, err := a.controller()
	if err != nil {
		return err
	}
	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}
	if err := ctrl.Revoke(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("access revoked for request %s\n", *id)
	return nil
}

func (a *app) watch(ctx context.Context) error {
	ctrl, err := a.controller()
	if err != nil {
		return err
	}
	a.dispatcher.Subscribe(events.EventAuthorizationChanged, func(_ context.Context, ev events.Event) {
		if payload, ok := ev.Payload.(events.AuthorizationChangedPayload); ok {
			fmt.Printf("[%s] request %s: %s -> %s\n",
				ev.Timestamp.Format("15:04:05"), payload.RequestID, payload.OldStatus, payload.NewStatus)
		}
	})

	fmt.Printf("watching authorization status every %s; ctrl-c to stop\n", a.cfg.Authz.PollInterval())
	ctrl.Run(ctx)
	return nil
}

// controller builds a workflow controller for the signed-in principal.
func (a *app) controller() (*authz.Controller, error) {
	sess, ok := a.enforce(domain.RouteAccountants)
	if !ok {
		return nil, fmt.Errorf("not permitted")
	}
	return authz.New(authz.Options{
		API:        a.client,
		SubjectID:  sess.SubjectID,
		Role:       sess.Role,
		Interval:   a.cfg.Authz.PollInterval(),
		Dispatcher: a.dispatcher,
		Logger:     a.logger,
	}), nil
}

// enforce gates a command on the stored session, the CLI's stand-in for
// view mounting.
func (a *app) enforce(route domain.Route) (*domain.Session, bool) {
	return a.guard.Enforce(route, func(reason guard.DenyReason) {
		fmt.Fprintf(os.Stderr, "Access denied (%s); sign in at %s\n", reason, a.cfg.API.LoginPath)
	})
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var answer string
	if _, err := fmt.Scanln(&answer); err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
