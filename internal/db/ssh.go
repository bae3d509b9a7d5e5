package db

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// SSHConfig holds SSH connection details
type SSHConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	KeyPath  string
	Logger   *zap.Logger
}

// SSHTunnel is an open SSH client that database drivers dial through
type SSHTunnel struct {
	client *ssh.Client
}

// NewSSHTunnel establishes an SSH connection. Auth methods are tried in
// order: private key, agent, password, keyboard-interactive.
func NewSSHTunnel(config *SSHConfig) (*SSHTunnel, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("SSH host is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	authMethods := []ssh.AuthMethod{}

	if config.KeyPath != "" {
		if signer, err := loadSigner(config.KeyPath, config.Password); err == nil {
			logger.Debug("ssh: loaded private key", zap.String("type", signer.PublicKey().Type()))
			authMethods = append(authMethods, ssh.PublicKeys(signer))
		} else {
			logger.Warn("ssh: private key unusable", zap.String("path", config.KeyPath), zap.Error(err))
		}
	}

	if socket := os.Getenv("SSH_AUTH_SOCK"); socket != "" {
		conn, err := net.Dial("unix", socket)
		if err == nil {
			authMethods = append(authMethods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		} else {
			logger.Debug("ssh: agent unavailable", zap.Error(err))
		}
	}

	if config.Password != "" {
		authMethods = append(authMethods, ssh.Password(config.Password))
		authMethods = append(authMethods, ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
			answers := make([]string, len(questions))
			for i := range answers {
				answers[i] = config.Password
			}
			return answers, nil
		}))
	}

	if len(authMethods) == 0 {
		return nil, fmt.Errorf("no valid SSH authentication methods found")
	}

	port := config.Port
	if port == 0 {
		port = 22
	}

	cliConfig := &ssh.ClientConfig{
		User: config.User,
		Auth: authMethods,
		// TODO: verify against known_hosts once profiles can carry a host key
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	address := fmt.Sprintf("%s:%d", config.Host, port)
	logger.Info("ssh: dialing", zap.String("addr", address), zap.String("user", config.User), zap.Int("auth_methods", len(authMethods)))
	client, err := ssh.Dial("tcp", address, cliConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to dial SSH: %w", err)
	}

	return &SSHTunnel{client: client}, nil
}

func loadSigner(keyPath, passphrase string) (ssh.Signer, error) {
	if strings.HasPrefix(keyPath, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			keyPath = filepath.Join(home, keyPath[2:])
		}
	}

	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, err
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil && passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(passphrase))
	}
	return signer, err
}

// Dial connects to a remote address through the tunnel
func (t *SSHTunnel) Dial(network, addr string) (net.Conn, error) {
	return t.client.Dial(network, addr)
}

// DialContext connects to a remote address through the tunnel with context support
func (t *SSHTunnel) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		conn, err := t.client.Dial(network, addr)
		ch <- result{conn, err}
	}()

	select {
	case <-ctx.Done():
		// A late connection is closed rather than leaked
		go func() {
			if res := <-ch; res.conn != nil {
				res.conn.Close()
			}
		}()
		return nil, ctx.Err()
	case res := <-ch:
		return res.conn, res.err
	}
}

// Close closes the SSH connection
func (t *SSHTunnel) Close() error {
	return t.client.Close()
}
