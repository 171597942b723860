// Package siwe builds, parses and verifies EIP-4361 sign-in messages on top of
// github.com/spruceid/siwe-go.
package siwe

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"time"

	siwego "github.com/spruceid/siwe-go"

	"github.com/gokmency/web3turkiyetoplulugu/core"
)

const (
	// Statement is the human readable line shown in the wallet prompt.
	Statement = "Turkish Web3 Community'ye hoş geldiniz!"
	// Version is the only supported message version.
	Version = "1"
	// DefaultChainID is Ethereum mainnet.
	DefaultChainID int64 = 1

	timeLayout = "2006-01-02T15:04:05.000Z07:00"

	nonceAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	nonceLength   = 17
)

// Message is a parsed or freshly built sign-in challenge.
type Message struct {
	raw *siwego.Message
}

type challengeOptions struct {
	statement      string
	issuedAt       time.Time
	expirationTime *time.Time
	notBefore      *time.Time
	requestID      string
	resources      []string
}

// Option customizes a challenge built by NewChallenge.
type Option func(*challengeOptions)

// WithStatement replaces the default statement. An empty statement omits the line.
func WithStatement(s string) Option {
	return func(o *challengeOptions) { o.statement = s }
}

// WithIssuedAt overrides the issue time, which defaults to now.
func WithIssuedAt(t time.Time) Option {
	return func(o *challengeOptions) { o.issuedAt = t }
}

// WithExpiration makes the challenge invalid after t.
func WithExpiration(t time.Time) Option {
	return func(o *challengeOptions) { o.expirationTime = &t }
}

// WithNotBefore makes the challenge invalid before t.
func WithNotBefore(t time.Time) Option {
	return func(o *challengeOptions) { o.notBefore = &t }
}

// WithRequestID sets the request id line.
func WithRequestID(id string) Option {
	return func(o *challengeOptions) { o.requestID = id }
}

// WithResources appends resource URIs.
func WithResources(uris ...string) Option {
	return func(o *challengeOptions) { o.resources = append(o.resources, uris...) }
}

// NewChallenge builds the sign-in challenge for address on domain. It fails with
// core.ErrInvalidInput when address, domain or nonce cannot form a valid message.
func NewChallenge(address, domain, nonce string, chainID int64, opts ...Option) (*Message, error) {
	o := challengeOptions{statement: Statement, issuedAt: time.Now()}
	for _, opt := range opts {
		opt(&o)
	}

	options := map[string]interface{}{
		"chainId":  int(chainID),
		"issuedAt": formatTime(o.issuedAt),
	}
	if o.statement != "" {
		options["statement"] = o.statement
	}
	if o.expirationTime != nil {
		options["expirationTime"] = formatTime(*o.expirationTime)
	}
	if o.notBefore != nil {
		options["notBefore"] = formatTime(*o.notBefore)
	}
	if o.requestID != "" {
		options["requestId"] = o.requestID
	}
	if len(o.resources) > 0 {
		resources := make([]url.URL, 0, len(o.resources))
		for _, r := range o.resources {
			u, err := url.Parse(r)
			if err != nil {
				return nil, fmt.Errorf("%w: resource %q: %v", core.ErrInvalidInput, r, err)
			}
			resources = append(resources, *u)
		}
		options["resources"] = resources
	}

	raw, err := siwego.InitMessage(domain, address, "https://"+domain, nonce, options)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}
	return &Message{raw: raw}, nil
}

// Parse reads a message produced by String or by any EIP-4361 compliant client.
func Parse(text string) (*Message, error) {
	raw, err := siwego.ParseMessage(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedMessage, err)
	}
	return &Message{raw: raw}, nil
}

// String returns the canonical text that the wallet signs.
func (m *Message) String() string { return m.raw.String() }

// Domain is the host requesting the sign-in.
func (m *Message) Domain() string { return m.raw.GetDomain() }

// Address is the EIP-55 form of the signing account.
func (m *Message) Address() string { return m.raw.GetAddress().Hex() }

// Nonce returns the challenge nonce.
func (m *Message) Nonce() string { return m.raw.GetNonce() }

// ChainID returns the EIP-155 chain id.
func (m *Message) ChainID() int64 { return int64(m.raw.GetChainID()) }

// Statement returns the statement line or an empty string.
func (m *Message) Statement() string {
	if s := m.raw.GetStatement(); s != nil {
		return *s
	}
	return ""
}

// URI returns the subject of the signing request.
func (m *Message) URI() string {
	u := m.raw.GetURI()
	return u.String()
}

// ExpiresAt returns the expiration time, nil when the message never expires.
func (m *Message) ExpiresAt() *time.Time {
	s := m.raw.GetExpirationTime()
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// GenerateNonce returns a random alphanumeric nonce from a cryptographic source.
func GenerateNonce() (string, error) {
	out := make([]byte, nonceLength)
	limit := big.NewInt(int64(len(nonceAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate nonce: %w", err)
		}
		out[i] = nonceAlphabet[n.Int64()]
	}
	return string(out), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
