package main

import (
	"strings"
	"testing"
)

func TestVotesUpdateAndShow(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	out, err := executeCommand(t, configPath, "votes", "update", "T1", "fire=2", "wastebasket=1")
	if err != nil {
		t.Fatalf("votes update failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Classification: Interesting") {
		t.Fatalf("expected Interesting classification in output:\n%s", out)
	}

	out, err = executeCommand(t, configPath, "votes", "show", "T1")
	if err != nil {
		t.Fatalf("votes show failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Priority score: 12") {
		t.Fatalf("expected priority score 12 in output:\n%s", out)
	}
}

func TestVotesUpdateRejectsMalformedArgs(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	if _, err := executeCommand(t, configPath, "votes", "update", "T1", "fire"); err == nil {
		t.Fatal("expected error for malformed reaction argument")
	}
	if _, err := executeCommand(t, configPath, "votes", "update", "T1", "fire=two"); err == nil {
		t.Fatal("expected error for non-numeric count")
	}
}

func TestVotesShowUnknownTransient(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	if _, err := executeCommand(t, configPath, "votes", "show", "missing"); err == nil {
		t.Fatal("expected error for unknown transient")
	}
}

func TestQueueListsVotedTransients(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	if out, err := executeCommand(t, configPath, "votes", "update", "T1", "milky_way=2"); err != nil {
		t.Fatalf("votes update failed: %v\n%s", err, out)
	}
	if out, err := executeCommand(t, configPath, "votes", "update", "T2", "wastebasket=1"); err != nil {
		t.Fatalf("votes update failed: %v\n%s", err, out)
	}

	out, err := executeCommand(t, configPath, "queue")
	if err != nil {
		t.Fatalf("queue failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "T1") || !strings.Contains(out, "T2") {
		t.Fatalf("expected both transients in queue output:\n%s", out)
	}
	if strings.Index(out, "T1") > strings.Index(out, "T2") {
		t.Fatalf("expected T1 ranked above T2:\n%s", out)
	}
}

func TestVotesSymbols(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	out, err := executeCommand(t, configPath, "votes", "symbols")
	if err != nil {
		t.Fatalf("votes symbols failed: %v\n%s", err, out)
	}
	for _, symbol := range []string{"milky_way", "fire", "star", "wastebasket"} {
		if !strings.Contains(out, symbol) {
			t.Fatalf("expected symbol %s in output:\n%s", symbol, out)
		}
	}
}
