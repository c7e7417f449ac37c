package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunDemo(t *testing.T) {
	out := &bytes.Buffer{}
	if err := runDemo(out); err != nil {
		t.Fatalf("runDemo() failed: %v", err)
	}

	expected := "\n[CoderArmy uploaded \"Observer Pattern Tutorial\"]\n" +
		"Hey Varun,\nCheckout our new Video : Observer Pattern Tutorial\n\n" +
		"Hey Tarun,\nCheckout our new Video : Observer Pattern Tutorial\n\n" +
		"\n[CoderArmy uploaded \"Decorator Pattern Tutorial\"]\n" +
		"Hey Tarun,\nCheckout our new Video : Decorator Pattern Tutorial\n\n"

	if out.String() != expected {
		t.Errorf("runDemo() wrote %q but should write %q", out.String(), expected)
	}
}

func TestDemoCommand(t *testing.T) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"demo"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if strings.Count(out.String(), "Hey Varun") != 1 {
		t.Errorf("Varun should be notified once: %q", out.String())
	}
}
