package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bookindex/internal/config"
	"github.com/jackzampolin/bookindex/internal/pipeline"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		wantErr bool
		want    string
	}{
		{"text", config.LogConfig{Level: "info", Format: "text"}, false, "msg=hello"},
		{"json", config.LogConfig{Level: "debug", Format: "json"}, false, `"msg":"hello"`},
		{"bad level", config.LogConfig{Level: "loud", Format: "text"}, true, ""},
		{"bad format", config.LogConfig{Level: "info", Format: "xml"}, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := newLogger(&buf, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newLogger() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			logger.Info("hello")
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("log output %q missing %q", buf.String(), tt.want)
			}
		})
	}
}

func TestEffectiveManualFromTOCStart(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{Use: "x"}
		addRunFlags(cmd)
		return cmd
	}
	base := config.DefaultConfig()

	cmd := newCmd()
	if err := cmd.Flags().Parse([]string{"--toc-start", "5"}); err != nil {
		t.Fatal(err)
	}
	if got := effective(cmd, base); got.TOC.Mode != config.ModeManual {
		t.Errorf("mode = %q, want manual", got.TOC.Mode)
	}
	if base.TOC.Mode != config.ModeAuto {
		t.Error("effective modified its input")
	}

	cmd = newCmd()
	if err := cmd.Flags().Parse([]string{"--toc-start", "5", "--toc-mode", "auto"}); err != nil {
		t.Fatal(err)
	}
	if got := effective(cmd, base); got.TOC.Mode != config.ModeAuto {
		t.Errorf("explicit --toc-mode lost: %q", got.TOC.Mode)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"index", "toc", "extract", "watch", "config", "stages", "version"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestListStages(t *testing.T) {
	p, err := pipeline.New(nil)
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	infos, err := listStages(p.Registry())
	if err != nil {
		t.Fatalf("listStages: %v", err)
	}
	if len(infos) != 9 || infos[0].Name != pipeline.StageOpen || infos[8].Name != pipeline.StageSort {
		t.Fatalf("unexpected stages: %+v", infos)
	}
	if len(infos[0].DependsOn) != 0 {
		t.Errorf("open depends on %v", infos[0].DependsOn)
	}

	var buf bytes.Buffer
	if err := writeStages(&buf, infos); err != nil {
		t.Fatalf("writeStages: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"1. open", "9. sort", "(after chapters)"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}
}
