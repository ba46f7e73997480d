package utils

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// CheckListenAddr reports whether addr can be bound right now. The probe
// listener is closed before returning.
func CheckListenAddr(addr string) error {
	normalized, err := NormalizeListenAddr(addr)
	if err != nil {
		return err
	}

	Verbose("Checking if %s is available", normalized)
	listener, err := net.Listen("tcp", normalized)
	if err != nil {
		Verbose("error: %v", err)
		return fmt.Errorf("address %s is not available: %w", normalized, err)
	}

	return listener.Close()
}

// NormalizeListenAddr turns a bare port ("12000") into ":12000" and leaves
// host:port forms untouched.
func NormalizeListenAddr(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", fmt.Errorf("listen address is required")
	}

	if strings.Contains(addr, ":") {
		return addr, nil
	}

	port, err := strconv.Atoi(addr)
	if err != nil {
		return "", fmt.Errorf("invalid port: %v", err)
	}

	return fmt.Sprintf(":%d", port), nil
}

// DialableAddr returns an http:// base URL for addr, filling in localhost
// when the host part is empty.
func DialableAddr(addr string) (string, error) {
	normalized, err := NormalizeListenAddr(addr)
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(normalized, ":") {
		normalized = "localhost" + normalized
	}

	return "http://" + normalized, nil
}
