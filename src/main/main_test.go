package main

import (
	"context"
	"strings"
	"testing"

	"draw-on-screen/src/config"
)

func TestNormalizeLegacyArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		out  []string
	}{
		{
			name: "Normalizes long single dash flags",
			in:   []string{"draw-on-screen", "-output-dir", "/tmp/out", "-backend", "hook"},
			out:  []string{"draw-on-screen", "--output-dir", "/tmp/out", "--backend", "hook"},
		},
		{
			name: "Normalizes equals form",
			in:   []string{"draw-on-screen", "-env-file=/tmp/.env", "-backend=grab"},
			out:  []string{"draw-on-screen", "--env-file=/tmp/.env", "--backend=grab"},
		},
		{
			name: "Leaves other flags unchanged",
			in:   []string{"draw-on-screen", "--output-dir", "x", "-h"},
			out:  []string{"draw-on-screen", "--output-dir", "x", "-h"},
		},
		{
			name: "Empty args get a program name",
			in:   nil,
			out:  []string{"draw-on-screen"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeLegacyArgs(tt.in)
			if len(got) != len(tt.out) {
				t.Fatalf("Expected len=%d, got %d", len(tt.out), len(got))
			}
			for i := range got {
				if got[i] != tt.out[i] {
					t.Fatalf("Expected arg[%d]=%q, got %q", i, tt.out[i], got[i])
				}
			}
		})
	}
}

func TestNewRootCmdParsesFlags(t *testing.T) {
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	if err := cmd.ParseFlags([]string{"--output-dir", "/tmp/out", "--env-file", "/tmp/.env", "--backend", "hook"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	want := config.LoadOptions{EnvFileOverride: "/tmp/.env", OutputDirOverride: "/tmp/out", BackendOverride: "hook"}
	if got := opts.loadOptions(); got != want {
		t.Fatalf("Expected %+v, got %+v", want, got)
	}
}

func TestNewRootCmdRejectsArgs(t *testing.T) {
	cmd := newRootCmd(&mainOptions{})
	cmd.SetArgs([]string{"unexpected"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("Expected positional arguments to be rejected")
	}
}

func TestPreflight(t *testing.T) {
	running := func(context.Context) (int, bool) { return 49601, true }
	if err := preflight(context.Background(), running); err == nil || !strings.Contains(err.Error(), "49601") {
		t.Fatalf("Expected already-running error naming the port, got %v", err)
	}

	absent := func(context.Context) (int, bool) { return 0, false }
	if err := preflight(context.Background(), absent); err != nil {
		t.Fatalf("Expected no error without a resident, got %v", err)
	}
}

func TestBuildExports(t *testing.T) {
	cfg := &config.Config{ClipboardExport: config.ClipboardNone}
	if got := buildExports(cfg, nil); len(got) != 0 {
		t.Fatalf("Expected no exports, got %d", len(got))
	}

	cfg = &config.Config{ClipboardExport: config.ClipboardPath, EnableNotifications: true}
	got := buildExports(cfg, nil)
	if len(got) != 2 {
		t.Fatalf("Expected clipboard and notify exports, got %d", len(got))
	}
	if got[1].Name != "notify" {
		t.Errorf("Expected notify export last, got %q", got[1].Name)
	}
}
