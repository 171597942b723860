// Package cli implements the web3tr command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gokmency/web3turkiyetoplulugu/adapters/wallet"
	"github.com/gokmency/web3turkiyetoplulugu/core"
	"github.com/gokmency/web3turkiyetoplulugu/internal/eth"
	"github.com/gokmency/web3turkiyetoplulugu/ports"
	"github.com/gokmency/web3turkiyetoplulugu/service"
)

// Deps are the services a Cli runs commands against.
type Deps struct {
	IO        IO
	Resolver  service.SignInResolver
	Sessions  ports.SessionStore
	Events    ports.EventPublisher
	Directory *service.DirectoryService
	Avatars   *service.AvatarService
	Log       *zap.SugaredLogger
	Domain    string
	// SessionTTL defaults to core.SessionTTL.
	SessionTTL time.Duration
	// WalletKey is the hex private key; when empty it is prompted for.
	WalletKey string
}

type Cli struct {
	Deps
}

func New(deps Deps) *Cli {
	return &Cli{Deps: deps}
}

// Run executes one command.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "disconnect":
		return c.runDisconnect(ctx)
	case "projects":
		return c.runProjects(ctx, args)
	case "people":
		return c.runPeople(ctx, args)
	case "stats":
		return c.runStats(ctx)
	case "profile":
		return c.runProfile(ctx, args)
	case "avatar":
		return c.runAvatar(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (c *Cli) orchestrator(w ports.Wallet) *service.Orchestrator {
	var opts []service.OrchestratorOption
	if c.SessionTTL > 0 {
		opts = append(opts, service.WithOrchestratorSessionTTL(c.SessionTTL))
	}
	if c.Events != nil {
		opts = append(opts, service.WithOrchestratorEvents(c.Events))
	}
	return service.NewOrchestrator(w, c.Resolver, c.Sessions, c.Log, c.Domain, opts...)
}

// openWallet builds a key wallet that asks on the terminal before signing.
func (c *Cli) openWallet() (*wallet.KeyWallet, error) {
	key := c.WalletKey
	if key == "" {
		var err error
		key, err = c.IO.ReadPassword("Wallet private key (hex): ")
		if err != nil {
			return nil, fmt.Errorf("failed to read private key: %w", err)
		}
	}

	signer, err := eth.SignerFromHex(strings.TrimSpace(key))
	if err != nil {
		return nil, err
	}
	return wallet.NewKeyWallet(signer, c.confirmSignature), nil
}

func (c *Cli) confirmSignature(ctx context.Context, message string) (bool, error) {
	c.IO.Println("")
	c.IO.Println("Signature request:")
	c.IO.Println("")
	c.IO.Println(message)
	c.IO.Println("")

	answer, err := c.IO.ReadInput("Sign this message? [y/N]: ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// currentSession restores the stored session or explains how to get one.
func (c *Cli) currentSession(ctx context.Context) (*core.Session, error) {
	session, err := c.Sessions.GetSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if session == nil {
		return nil, errors.New("not signed in, run 'web3tr login' first")
	}
	return session, nil
}

// noWallet is used by commands that never sign.
type noWallet struct{}

func (noWallet) Address() (string, bool) { return "", false }

func (noWallet) SignMessage(context.Context, string) (string, error) {
	return "", core.ErrWalletNotConnected
}

func PrintUsage() {
	fmt.Println("web3tr - Turkish Web3 community directory client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  web3tr COMMAND [ARGS]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  login                        Sign in with your wallet")
	fmt.Println("  logout                       Sign out")
	fmt.Println("  status                       Show the signed in user")
	fmt.Println("  disconnect                   Disconnect the wallet and end the session")
	fmt.Println("  projects [-category C] [Q]   List or search projects")
	fmt.Println("  people [-role R] [Q]         List or search people")
	fmt.Println("  stats                        Show community totals")
	fmt.Println("  profile -name N -role R ...  Create your directory profile")
	fmt.Println("  avatar FILE                  Upload an avatar image")
	fmt.Println()
	fmt.Println("The wallet key is read from WALLET_PRIVATE_KEY or prompted for.")
	fmt.Println("Sign-in needs a database: set DATABASE_DRIVER and DATABASE_URL.")
}
