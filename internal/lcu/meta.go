package lcu

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

const (
	processName = "LeagueClientUx"

	portArg  = "--app-port="
	tokenArg = "--remoting-auth-token="

	// authUser is the fixed Basic auth user the client expects.
	authUser = "riot"
)

// ConnectionMeta is the endpoint of one running client instance.
type ConnectionMeta struct {
	PID   int32
	Port  int
	Token string
}

// Addr returns the loopback host:port of the client API.
func (m ConnectionMeta) Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", m.Port)
}

// Discover scans running processes for the client UI process and extracts
// its API port and auth token from the command line.
func Discover(ctx context.Context) (ConnectionMeta, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return ConnectionMeta{}, &DiscoveryError{Kind: ErrClientNotFound, Detail: fmt.Sprintf("listing processes: %v", err)}
	}

	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil || !isClientProcess(name) {
			continue
		}
		args, err := p.CmdlineSliceWithContext(ctx)
		if err != nil {
			return ConnectionMeta{}, &DiscoveryError{
				Kind:   ErrCredentialExtraction,
				Detail: fmt.Sprintf("reading cmdline of pid %d: %v", p.Pid, err),
			}
		}
		port, token, err := parseCredentials(args)
		if err != nil {
			return ConnectionMeta{}, err
		}
		return ConnectionMeta{PID: p.Pid, Port: port, Token: token}, nil
	}

	return ConnectionMeta{}, &DiscoveryError{Kind: ErrClientNotFound}
}

func isClientProcess(name string) bool {
	name = strings.TrimSuffix(strings.ToLower(name), ".exe")
	return name == strings.ToLower(processName)
}

// parseCredentials reads the port and token flags from the argument vector.
// Some platforms report the whole command line as one element, and Windows
// quotes individual arguments, so every element is re-split and unquoted.
func parseCredentials(args []string) (int, string, error) {
	var portStr, token string
	for _, arg := range args {
		for _, field := range strings.Fields(arg) {
			field = strings.Trim(field, `"'`)
			switch {
			case strings.HasPrefix(field, portArg):
				portStr = strings.TrimPrefix(field, portArg)
			case strings.HasPrefix(field, tokenArg):
				token = strings.TrimPrefix(field, tokenArg)
			}
		}
	}

	if portStr == "" {
		return 0, "", &DiscoveryError{Kind: ErrCredentialExtraction, Detail: "missing " + strings.TrimSuffix(portArg, "=")}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return 0, "", &DiscoveryError{Kind: ErrCredentialExtraction, Detail: fmt.Sprintf("invalid port %q", portStr)}
	}
	if token == "" {
		return 0, "", &DiscoveryError{Kind: ErrCredentialExtraction, Detail: "missing " + strings.TrimSuffix(tokenArg, "=")}
	}
	return port, token, nil
}
