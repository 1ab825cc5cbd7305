package orchestrator

import (
	"fmt"
	"strings"
)

// capabilitySubstrings maps a lowercase substring of a tool name to the
// client capability required to run it. Checked in slice order and the first
// matching entry decides; a tool name matching none of them needs no
// capability.
var capabilitySubstrings = []struct {
	substr string
	check  func(c *ClientCapabilities) bool
}{
	{"fs/read", func(c *ClientCapabilities) bool { return c.FilesystemRead }},
	{"read_file", func(c *ClientCapabilities) bool { return c.FilesystemRead }},
	{"read_text_file", func(c *ClientCapabilities) bool { return c.FilesystemRead }},
	{"fs_read", func(c *ClientCapabilities) bool { return c.FilesystemRead }},
	{"fs/write", func(c *ClientCapabilities) bool { return c.FilesystemWrite }},
	{"write_file", func(c *ClientCapabilities) bool { return c.FilesystemWrite }},
	{"write_text_file", func(c *ClientCapabilities) bool { return c.FilesystemWrite }},
	{"fs_write", func(c *ClientCapabilities) bool { return c.FilesystemWrite }},
	{"terminal", func(c *ClientCapabilities) bool { return c.Terminal }},
	{"shell", func(c *ClientCapabilities) bool { return c.Terminal }},
}

// isMCPTool reports whether name carries the server:tool namespacing MCP
// connections apply — those tools bypass capability enforcement entirely.
func isMCPTool(name string) bool {
	return strings.Contains(name, ":")
}

// enforceCapability fails the call immediately if its name matches a gated
// substring and the client advertised capabilities that don't cover it.
// MCP-sourced tools (namespaced server:tool) are exempt. A nil caps means no
// ACP initialize handshake ever ran (non-ACP mode), so every tool is allowed;
// the gate only fires once a client has advertised a concrete, incomplete
// capability set.
func enforceCapability(name string, caps *ClientCapabilities) error {
	if isMCPTool(name) {
		return nil
	}
	if caps == nil {
		return nil
	}

	lower := strings.ToLower(name)
	for _, rule := range capabilitySubstrings {
		if !strings.Contains(lower, rule.substr) {
			continue
		}
		if !rule.check(caps) {
			return fmt.Errorf("capability check failed: %s requires a capability the client did not advertise", name)
		}
		return nil
	}
	return nil
}
