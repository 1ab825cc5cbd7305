package orchestrator

import "testing"

func TestEnforceCapability_MissingCapabilityFails(t *testing.T) {
	err := enforceCapability("fs_read", &ClientCapabilities{})
	if err == nil {
		t.Fatal("expected capability check to fail when FilesystemRead is false")
	}
}

func TestEnforceCapability_PresentCapabilityPasses(t *testing.T) {
	err := enforceCapability("fs_read", &ClientCapabilities{FilesystemRead: true})
	if err != nil {
		t.Fatalf("expected capability check to pass, got %v", err)
	}
}

func TestEnforceCapability_NilCapabilitiesAllowsGatedTool(t *testing.T) {
	if err := enforceCapability("terminal_exec", nil); err != nil {
		t.Fatalf("expected nil capabilities (non-ACP mode) to allow a gated tool, got %v", err)
	}
}

func TestEnforceCapability_UngatedToolAlwaysPasses(t *testing.T) {
	if err := enforceCapability("memo_create", &ClientCapabilities{}); err != nil {
		t.Fatalf("expected an unrelated tool name to pass unconditionally, got %v", err)
	}
}

func TestEnforceCapability_MCPToolBypassesCheck(t *testing.T) {
	if err := enforceCapability("myserver:fs_write", &ClientCapabilities{}); err != nil {
		t.Fatalf("expected MCP-namespaced tool to bypass capability checks, got %v", err)
	}
}

func TestEnforceCapability_CaseInsensitive(t *testing.T) {
	err := enforceCapability("FS_WRITE", &ClientCapabilities{FilesystemWrite: true})
	if err != nil {
		t.Fatalf("expected case-insensitive match to pass, got %v", err)
	}
}
