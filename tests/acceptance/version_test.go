package acceptance

import (
	"os/exec"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	cmd := exec.Command(binary(t), "version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Failed to execute version command: %v", err)
	}

	outputStr := strings.TrimSpace(string(output))

	// Version output should contain version information in JSON format
	if !strings.Contains(outputStr, "version") || !strings.Contains(outputStr, "gitCommit") {
		t.Errorf("Version output should contain version and gitCommit fields. Got: %s", outputStr)
	}
}

func TestVersionCommandHelp(t *testing.T) {
	cmd := exec.Command(binary(t), "version", "--help")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Failed to execute version --help: %v", err)
	}

	outputStr := strings.ToLower(strings.TrimSpace(string(output)))
	if !strings.Contains(outputStr, "usage") {
		t.Errorf("Version help should contain usage information. Got: %s", outputStr)
	}
}
